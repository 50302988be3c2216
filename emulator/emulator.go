// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator simulates the device side of an MC5000 dev kit's serial
// line, for testing the programmer without hardware.
package emulator

import (
	"log"
	"time"

	"github.com/ezrec/mc5000/board"
	"github.com/ezrec/mc5000/cpu"
)

// Mcu is the simulated state of one MCU.
type Mcu struct {
	Absent     bool   // If set, the MCU never answers.
	Acc, Dat   int    // Register values sent in reports.
	Programmed bool   // Set once a program has been accepted.
	Program    []byte // Last program received.

	Mute           int  // Number of selects to ignore before answering.
	CorruptReports bool // If set, reports carry a bad checksum.
	Reject         bool // If set, every program is rejected.
}

// Emulator is a simulated dev kit; it implements board.Port.
type Emulator struct {
	Verbose bool                  // If set, logs the emulator actions.
	Mcu     [board.MCU_MAX + 1]Mcu // MCUs by number; index 0 is unused.

	Received []byte // Every byte received from the host.

	output    []byte // Pending bytes to the host.
	receiving bool   // Inside a program frame.
	target    int    // MCU being programmed, or 0 before the chip select.
	buffer    []byte // Program frame contents.
	ending    bool   // A CODE_END was received inside a program frame.
}

var _ board.Port = (*Emulator)(nil)

// NewEmulator creates an emulator with all MCUs present and unprogrammed.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{}
	emu.Mcu[0].Absent = true

	return
}

// Reset clears all pending traffic and MCU programs.
func (emu *Emulator) Reset() {
	for n := range emu.Mcu {
		emu.Mcu[n].Programmed = false
		emu.Mcu[n].Program = nil
	}
	emu.Received = nil
	emu.output = nil
	emu.receiving = false
	emu.target = 0
	emu.buffer = nil
	emu.ending = false
}

// Inject queues raw bytes to be read by the host.
func (emu *Emulator) Inject(data ...byte) {
	emu.output = append(emu.output, data...)
}

// Write receives bytes from the host.
func (emu *Emulator) Write(p []byte) (n int, err error) {
	for _, b := range p {
		emu.receive(b)
	}
	n = len(p)
	return
}

// ReadTimeout returns pending bytes. With nothing pending the read times
// out at once, there being nothing else that could produce data.
//
// A host only reads once its frame is complete, so a read is what ends a
// program frame on a CODE_END.
func (emu *Emulator) ReadTimeout(p []byte, timeout time.Duration) (n int, err error) {
	if emu.ending {
		emu.finish()
	}

	n = copy(p, emu.output)
	emu.output = emu.output[n:]
	return
}

// mcu returns the MCU selected by a chip ID byte, or nil.
func (emu *Emulator) mcu(chip byte) (n int, mcu *Mcu) {
	if chip < board.CODE_CHIP_ID+board.MCU_MIN || chip > board.CODE_CHIP_ID+board.MCU_MAX {
		return
	}
	n = int(chip - board.CODE_CHIP_ID)
	mcu = &emu.Mcu[n]
	if mcu.Absent {
		mcu = nil
	}
	return
}

func (emu *Emulator) receive(b byte) {
	emu.Received = append(emu.Received, b)

	if emu.ending {
		// Program data, such as a label ID, that happened to equal CODE_END.
		emu.ending = false
		emu.buffer = append(emu.buffer, board.CODE_END)
	}

	if emu.receiving {
		switch {
		case emu.target == 0:
			emu.target = -1
			if n, mcu := emu.mcu(b); mcu != nil {
				emu.target = n
			}
		case b == board.CODE_END:
			emu.ending = true
		default:
			emu.buffer = append(emu.buffer, b)
		}
		return
	}

	switch {
	case b == board.CODE_START:
		emu.receiving = true
		emu.target = 0
		emu.buffer = nil
	default:
		emu.probe(b)
	}
}

// probe answers a chip select with a report.
func (emu *Emulator) probe(b byte) {
	n, mcu := emu.mcu(b)
	if mcu == nil {
		return
	}

	if mcu.Mute > 0 {
		mcu.Mute--
		return
	}

	frame := board.EncodeReport(n, mcu.Acc, mcu.Dat, mcu.Programmed)
	if mcu.CorruptReports {
		frame[len(frame)-1] ^= 0x01
	}

	if emu.Verbose {
		log.Printf("emulator: MCU #%d: report % X", n, frame)
	}

	emu.output = append(emu.output, frame...)
}

// finish verifies a complete program frame and answers with a result.
func (emu *Emulator) finish() {
	n := emu.target
	data := emu.buffer

	emu.receiving = false
	emu.target = 0
	emu.buffer = nil
	emu.ending = false

	if n <= 0 {
		return
	}
	mcu := &emu.Mcu[n]

	result := board.RESULT_FAILURE
	if len(data) > 0 && !mcu.Reject {
		prog, sum := data[:len(data)-1], data[len(data)-1]
		if cpu.ChecksumOf(prog) == sum&board.REPORT_CHECKSUM {
			result = board.RESULT_SUCCESS
			mcu.Program = prog
			mcu.Programmed = true
		}
	}

	if emu.Verbose {
		log.Printf("emulator: MCU #%d: %d program bytes, result %d", n, max(len(data)-1, 0), result)
	}

	emu.output = append(emu.output, board.EncodeResult(n, result)...)
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package board programs an MC5000 dev kit over its serial line.
//
// The host probes the target MCU until it answers with a report, sends the
// program framed by start and end codes with a trailing checksum, then
// waits for the MCU to accept or reject it.
package board

import (
	"io"
	"log"
	"slices"
	"time"

	"github.com/ezrec/mc5000/cpu"
	"github.com/ezrec/mc5000/internal"
)

const (
	MCU_MIN      = 1
	MCU_MAX      = 9
	MAX_RETRY    = 10                     // Connection attempts.
	SETTLE_DELAY = 10 * time.Millisecond  // Pause after every byte written.
	READ_TIMEOUT = 100 * time.Millisecond // Inactivity timeout of a read.
)

// Port is a byte oriented duplex channel to the board.
type Port interface {
	io.Writer
	// ReadTimeout reads until p is full, or until no byte arrived for
	// timeout. A short count with a nil error means the timeout expired.
	ReadTimeout(p []byte, timeout time.Duration) (n int, err error)
}

// State is the protocol state of a Board.
type State int

const (
	STATE_IDLE            = State(0) // idle
	STATE_CONNECTING      = State(1) // connecting
	STATE_TRANSMITTING    = State(2) // transmitting
	STATE_AWAITING_RESULT = State(3) // awaiting result
	STATE_DONE            = State(4) // done
)

var stateName = [...]string{"idle", "connecting", "transmitting", "awaiting result", "done"}

func (state State) String() string {
	if state >= 0 && int(state) < len(stateName) {
		return stateName[state]
	}
	return f("State(%d)", int(state))
}

// Board is the host side of the programming protocol for one MCU.
type Board struct {
	Verbose int                 // 1 logs progress, 2 also logs every byte.
	Device  string              // Device name for diagnostics.
	Port    Port                // Channel to the board.
	Mcu     int                 // Target MCU, MCU_MIN to MCU_MAX.
	Retries int                 // Connection attempts.
	Settle  time.Duration       // Pause after every byte written.
	Timeout time.Duration       // Inactivity timeout of a read.
	Sleep   func(time.Duration) // Delay primitive; time.Sleep if nil.

	State State

	checksum cpu.Checksum
}

// NewBoard returns a Board with the default protocol parameters.
func NewBoard(port Port, device string, mcu int) (b *Board) {
	b = &Board{
		Device:  device,
		Port:    port,
		Mcu:     mcu,
		Retries: MAX_RETRY,
		Settle:  SETTLE_DELAY,
		Timeout: READ_TIMEOUT,
	}

	return
}

func (b *Board) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if b.Sleep != nil {
		b.Sleep(d)
	} else {
		time.Sleep(d)
	}
}

// writeByte sends one byte and waits for the board to settle.
func (b *Board) writeByte(x byte) (err error) {
	_, err = b.Port.Write([]byte{x})
	if err != nil {
		err = &ErrDevice{Device: b.Device, Err: err}
		return
	}

	if b.Verbose >= 2 {
		log.Printf("write_byte: %.2X", x)
	}

	b.sleep(b.Settle)

	return
}

// read fills p, returning a short count on timeout.
func (b *Board) read(p []byte) (n int, err error) {
	n, err = b.Port.ReadTimeout(p, b.Timeout)
	if err != nil {
		err = &ErrDevice{Device: b.Device, Err: err}
		return
	}

	if b.Verbose >= 2 && n > 0 {
		log.Printf("read_bytes: % X", p[:n])
	}

	return
}

// ReadMessage reads one message. If nothing arrives before the timeout, ok
// is false. A message that stops part way is an error.
func (b *Board) ReadMessage() (msg Message, ok bool, err error) {
	var frame [REPORT_LENGTH]byte

	n, err := b.read(frame[:1])
	if err != nil || n == 0 {
		return
	}

	want := MessageLength(frame[0])
	if want > 1 {
		n, err = b.read(frame[1:want])
		if err != nil {
			return
		}
		if n < want-1 {
			err = &ErrDevice{Device: b.Device, Err: ErrTruncated{Got: n + 1, Want: want}}
			return
		}
	}

	ok = true
	msg = DecodeMessage(frame[:want])
	if msg.Type == MSG_JUNK {
		log.Printf("%v: %v", b.Device, msg.Err)
	}

	return
}

func (b *Board) checkMcu() (err error) {
	if b.Mcu < MCU_MIN || b.Mcu > MCU_MAX {
		err = ErrMcuInvalid
	}
	return
}

// Connect probes the target MCU until it sends its report.
func (b *Board) Connect() (report Message, err error) {
	err = b.checkMcu()
	if err != nil {
		return
	}

	if b.Verbose >= 1 {
		log.Print(f("Checking connection..."))
	}

	b.State = STATE_CONNECTING

	for range b.Retries {
		err = b.writeByte(byte(CODE_CHIP_ID + b.Mcu))
		if err != nil {
			return
		}

		var ok bool
		report, ok, err = b.ReadMessage()
		if err != nil {
			return
		}
		if !ok {
			continue
		}

		switch {
		case report.Type == MSG_JUNK:
			continue
		case report.Type == MSG_RESULT:
			log.Print(f("unexpected message from %v", report))
			continue
		case report.Source != b.Mcu:
			log.Print(f("unexpected report from %v", report))
			continue
		}

		if b.Verbose >= 1 {
			log.Print(report)
		}

		b.State = STATE_TRANSMITTING
		return
	}

	report = Message{}
	err = &ErrDevice{Device: b.Device, Err: ErrNoResponse}

	return
}

// Transmit sends a program to the connected MCU.
func (b *Board) Transmit(prog *cpu.Program) (err error) {
	if b.State != STATE_TRANSMITTING {
		err = ErrState
		return
	}

	if b.Verbose >= 1 {
		log.Print(f("Programming..."))
	}

	b.checksum.Reset()

	frame := internal.IterSeqConcat(
		slices.Values([]byte{CODE_START, byte(CODE_CHIP_ID + b.Mcu)}),
		internal.IterSeqTap(prog.Bytes(), func(x byte) { b.checksum.Add(x) }),
		internal.IterSeqLazy(func() byte { return b.checksum.Sum() }),
		slices.Values([]byte{CODE_END}),
	)

	for x := range frame {
		err = b.writeByte(x)
		if err != nil {
			return
		}
	}

	b.State = STATE_AWAITING_RESULT

	return
}

// AwaitResult waits for the MCU to accept or reject the program.
func (b *Board) AwaitResult() (err error) {
	if b.State != STATE_AWAITING_RESULT {
		err = ErrState
		return
	}

	for {
		var msg Message
		var ok bool
		msg, ok, err = b.ReadMessage()
		if err != nil {
			return
		}
		if !ok {
			err = &ErrDevice{Device: b.Device, Err: ErrNoResponse}
			return
		}

		switch {
		case msg.Type == MSG_JUNK:
			continue
		case msg.Type == MSG_REPORT:
			if b.Verbose >= 1 {
				log.Print(f("spurious report from %v", msg))
			}
			continue
		case msg.Source != b.Mcu:
			log.Print(f("unexpected response from MCU #%d", msg.Source))
			continue
		}

		b.State = STATE_DONE

		switch msg.Result {
		case RESULT_SUCCESS:
		case RESULT_FAILURE:
			err = &ErrMcu{Mcu: b.Mcu, Err: ErrProgramming}
		default:
			err = &ErrMcu{Mcu: b.Mcu, Err: ErrResultUnknown(msg.Result)}
		}

		return
	}
}

// Program connects to the MCU, sends the program, and waits for the result.
func (b *Board) Program(prog *cpu.Program) (err error) {
	_, err = b.Connect()
	if err != nil {
		return
	}

	err = b.Transmit(prog)
	if err != nil {
		return
	}

	err = b.AwaitResult()

	return
}

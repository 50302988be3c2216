package emulator

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mc5000/board"
	"github.com/ezrec/mc5000/cpu"
)

func assemble(t *testing.T, program ...string) *cpu.Program {
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	assert.False(t, asm.Failed())
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func newBoard(emu *Emulator, mcu int) *board.Board {
	b := board.NewBoard(emu, "(simulator)", mcu)
	b.Settle = 0
	return b
}

var blink = []string{
	"loop: mov 100 p0",
	"      slp 6",
	"      mov 0 p0",
	"      slp 6",
	"      jmp loop",
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.True(emu.Mcu[0].Absent)
	for n := board.MCU_MIN; n <= board.MCU_MAX; n++ {
		assert.False(emu.Mcu[n].Absent)
		assert.False(emu.Mcu[n].Programmed)
	}
}

func TestEmulatorProgram(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, blink...)

	emu := NewEmulator()
	emu.Mcu[2].Acc = 12
	b := newBoard(emu, 2)

	report, err := b.Connect()
	assert.NoError(err)
	assert.Equal(12, report.Acc)
	assert.False(report.Programmed)

	assert.NoError(b.Transmit(prog))
	assert.NoError(b.AwaitResult())

	assert.True(emu.Mcu[2].Programmed)
	assert.Equal(prog.Binary(), emu.Mcu[2].Program)
	assert.False(emu.Mcu[1].Programmed)

	// The next report shows the MCU as programmed.
	b = newBoard(emu, 2)
	report, err = b.Connect()
	assert.NoError(err)
	assert.True(report.Programmed)
}

func TestEmulatorEndCodeInProgram(t *testing.T) {
	assert := assert.New(t)

	var program []string
	for n := range 128 {
		program = append(program, fmt.Sprintf("l%d: nop", n))
	}
	prog := assemble(t, program...)
	assert.Contains(prog.Binary(), byte(board.CODE_END))

	emu := NewEmulator()
	assert.NoError(newBoard(emu, 1).Program(prog))
	assert.True(emu.Mcu[1].Programmed)
	assert.Equal(prog.Binary(), emu.Mcu[1].Program)
}

func TestEmulatorReject(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Mcu[1].Reject = true

	err := newBoard(emu, 1).Program(assemble(t, blink...))
	assert.ErrorIs(err, board.ErrProgramming)
	assert.False(emu.Mcu[1].Programmed)
}

func TestEmulatorMute(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Mcu[3].Mute = board.MAX_RETRY - 1
	assert.NoError(newBoard(emu, 3).Program(assemble(t, "nop")))

	emu = NewEmulator()
	emu.Mcu[3].Mute = board.MAX_RETRY
	_, err := newBoard(emu, 3).Connect()
	assert.ErrorIs(err, board.ErrNoResponse)

	emu = NewEmulator()
	emu.Mcu[3].Absent = true
	_, err = newBoard(emu, 3).Connect()
	assert.ErrorIs(err, board.ErrNoResponse)

	emu = NewEmulator()
	emu.Mcu[3].CorruptReports = true
	_, err = newBoard(emu, 3).Connect()
	assert.ErrorIs(err, board.ErrNoResponse)
}

func TestEmulatorChecksum(t *testing.T) {
	assert := assert.New(t)

	bin := assemble(t, blink...).Binary()

	emu := NewEmulator()
	frame := []byte{board.CODE_START, board.CODE_CHIP_ID + 4}
	frame = append(frame, bin...)
	frame = append(frame, cpu.ChecksumOf(bin)^0x01, board.CODE_END)

	n, err := emu.Write(frame)
	assert.NoError(err)
	assert.Equal(len(frame), n)
	assert.Equal(frame, emu.Received)

	var result [board.RESULT_LENGTH]byte
	n, err = emu.ReadTimeout(result[:], time.Second)
	assert.NoError(err)
	assert.Equal(board.RESULT_LENGTH, n)
	assert.Equal(board.EncodeResult(4, board.RESULT_FAILURE), result[:])
	assert.False(emu.Mcu[4].Programmed)

	// Nothing else pending.
	n, err = emu.ReadTimeout(result[:], time.Second)
	assert.NoError(err)
	assert.Equal(0, n)
}

func TestEmulatorInject(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Inject(0x00, 0x7f, 0x31, 0x01)

	b := newBoard(emu, 1)
	b.State = board.STATE_AWAITING_RESULT
	assert.NoError(b.AwaitResult())

	emu.Reset()
	assert.Nil(emu.Received)
	var buf [1]byte
	n, _ := emu.ReadTimeout(buf[:], 0)
	assert.Equal(0, n)
}

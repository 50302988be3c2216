package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeReport(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]byte{0x31, 0x07, 0x68, 0x07, 0x68, 0x08}, EncodeReport(1, 0, 0, false))
	assert.Equal([]byte{0x31, 0x07, 0x68, 0x07, 0x68, 0x48}, EncodeReport(1, 0, 0, true))
	assert.Equal([]byte{0x7f, 0x35, 0x01}, EncodeResult(5, RESULT_SUCCESS))
}

func TestDecodeMessage(t *testing.T) {
	assert := assert.New(t)

	msg := DecodeMessage([]byte{0x7f, 0x35, 0x01})
	assert.Equal(Message{Type: MSG_RESULT, Source: 5, Result: RESULT_SUCCESS}, msg)

	msg = DecodeMessage([]byte{0x7f, 0x32, 0x00})
	assert.Equal(Message{Type: MSG_RESULT, Source: 2, Result: RESULT_FAILURE}, msg)

	msg = DecodeMessage([]byte{0x7f, 0x41, 0x01})
	assert.Equal(MSG_JUNK, msg.Type)
	assert.Equal(ErrChipId(0x41), msg.Err)

	msg = DecodeMessage(EncodeReport(3, 42, -17, true))
	assert.Equal(Message{Type: MSG_REPORT, Source: 3, Acc: 42, Dat: -17, Programmed: true}, msg)

	msg = DecodeMessage(EncodeReport(9, -1000, 1047, false))
	assert.Equal(Message{Type: MSG_REPORT, Source: 9, Acc: -1000, Dat: 1047}, msg)

	// Out of range values saturate.
	msg = DecodeMessage(EncodeReport(9, -2000, 2000, false))
	assert.Equal(-1000, msg.Acc)
	assert.Equal(1047, msg.Dat)

	msg = DecodeMessage([]byte{0x20})
	assert.Equal(MSG_JUNK, msg.Type)
	assert.Equal(ErrUnexpectedByte(0x20), msg.Err)
}

func TestDecodeMessageChecksum(t *testing.T) {
	assert := assert.New(t)

	frame := EncodeReport(1, 100, 200, false)
	frame[5] ^= 0x04

	msg := DecodeMessage(frame)
	assert.Equal(MSG_JUNK, msg.Type)
	assert.Equal(ErrReportChecksum(frame[5]), msg.Err)

	// The programmed bit is not part of the checksum.
	frame = EncodeReport(1, 100, 200, false)
	frame[5] |= REPORT_PROGRAMMED
	msg = DecodeMessage(frame)
	assert.Equal(MSG_REPORT, msg.Type)
	assert.True(msg.Programmed)
}

func TestMessageLength(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(RESULT_LENGTH, MessageLength(CODE_START))
	for n := range 10 {
		assert.Equal(REPORT_LENGTH, MessageLength(byte(CODE_CHIP_ID+n)))
	}
	assert.Equal(1, MessageLength(0x00))
	assert.Equal(1, MessageLength(0x3a))
	assert.Equal(1, MessageLength(CODE_END))
}

func TestMessageString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("MCU #2: program accepted", Message{Type: MSG_RESULT, Source: 2, Result: 1}.String())
	assert.Equal("MCU #2: programming failure", Message{Type: MSG_RESULT, Source: 2}.String())
	assert.Equal("MCU #1: acc 5, dat -3, not programmed",
		Message{Type: MSG_REPORT, Source: 1, Acc: 5, Dat: -3}.String())
	assert.Equal("report", MSG_REPORT.String())
}

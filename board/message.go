package board

import (
	"github.com/ezrec/mc5000/cpu"
)

// Wire protocol framing bytes.
const (
	CODE_START   = 0x7f // Start of a program, or of a result.
	CODE_END     = 0x7e // End of a program.
	CODE_CHIP_ID = 0x30 // Chip select base, '0'; MCU n is CODE_CHIP_ID+n.

	RESULT_FAILURE = 0
	RESULT_SUCCESS = 1

	REPORT_LENGTH     = 6
	RESULT_LENGTH     = 3
	REPORT_PROGRAMMED = 0x40
	REPORT_CHECKSUM   = 0x3f
	REPORT_BIAS       = 1000
)

// MessageType is the kind of a device to host message.
type MessageType int

const (
	MSG_JUNK   = MessageType(0) // junk
	MSG_RESULT = MessageType(1) // result
	MSG_REPORT = MessageType(2) // report
)

var messageTypeName = [...]string{"junk", "result", "report"}

func (mt MessageType) String() string {
	if mt >= 0 && int(mt) < len(messageTypeName) {
		return messageTypeName[mt]
	}
	return f("MessageType(%d)", int(mt))
}

// Message is a decoded device to host message.
type Message struct {
	Type       MessageType
	Source     int   // MCU number.
	Result     int   // MSG_RESULT: RESULT_SUCCESS or RESULT_FAILURE.
	Acc, Dat   int   // MSG_REPORT: register values.
	Programmed bool  // MSG_REPORT: is the MCU programmed?
	Err        error // MSG_JUNK: why the message was discarded.
}

// String describes the message for diagnostics.
func (msg Message) String() string {
	switch msg.Type {
	case MSG_RESULT:
		switch msg.Result {
		case RESULT_SUCCESS:
			return f("MCU #%d: program accepted", msg.Source)
		case RESULT_FAILURE:
			return f("MCU #%d: programming failure", msg.Source)
		}
		return f("MCU #%d: unknown result (%d)", msg.Source, msg.Result)
	case MSG_REPORT:
		programmed := f("not programmed")
		if msg.Programmed {
			programmed = f("programmed")
		}
		return f("MCU #%d: acc %d, dat %d, %v", msg.Source, msg.Acc, msg.Dat, programmed)
	}
	return f("junk: %v", msg.Err)
}

// isChipId returns true if b is an ASCII digit.
func isChipId(b byte) bool {
	return b >= CODE_CHIP_ID && b <= CODE_CHIP_ID+9
}

// MessageLength returns the total length of a message starting with b.
func MessageLength(b byte) int {
	switch {
	case b == CODE_START:
		return RESULT_LENGTH
	case isChipId(b):
		return REPORT_LENGTH
	}
	return 1
}

// DecodeMessage classifies a complete message frame. Malformed frames
// decode as MSG_JUNK with the reason in Err.
func DecodeMessage(frame []byte) (msg Message) {
	switch {
	case len(frame) == RESULT_LENGTH && frame[0] == CODE_START:
		if !isChipId(frame[1]) {
			msg.Err = ErrChipId(frame[1])
			return
		}
		msg.Type = MSG_RESULT
		msg.Source = int(frame[1] - CODE_CHIP_ID)
		msg.Result = int(frame[2])
	case len(frame) == REPORT_LENGTH && isChipId(frame[0]):
		sum := frame[5]
		if sum&REPORT_CHECKSUM != cpu.ChecksumOf(frame[1:5]) {
			msg.Err = ErrReportChecksum(sum)
			return
		}
		msg.Type = MSG_REPORT
		msg.Source = int(frame[0] - CODE_CHIP_ID)
		msg.Acc = decodeRegister(frame[1], frame[2])
		msg.Dat = decodeRegister(frame[3], frame[4])
		msg.Programmed = sum&REPORT_PROGRAMMED != 0
	case len(frame) > 0:
		msg.Err = ErrUnexpectedByte(frame[0])
	default:
		msg.Err = ErrTruncated{}
	}

	return
}

// decodeRegister unpacks an 11 bit register value: 0000hhhh 0lllllll.
func decodeRegister(high, low byte) int {
	return (int(high&0x0f)<<7 | int(low&0x7f)) - REPORT_BIAS
}

// encodeRegister packs a register value, clamped to the representable range.
func encodeRegister(value int) (high, low byte) {
	v := min(max(value+REPORT_BIAS, 0), 0x7ff)
	high = byte(v >> 7)
	low = byte(v & 0x7f)
	return
}

// EncodeReport builds the REPORT frame an MCU sends in reply to a select.
func EncodeReport(mcu int, acc, dat int, programmed bool) (frame []byte) {
	frame = make([]byte, 0, REPORT_LENGTH)
	frame = append(frame, byte(CODE_CHIP_ID+mcu))
	ah, al := encodeRegister(acc)
	dh, dl := encodeRegister(dat)
	frame = append(frame, ah, al, dh, dl)
	sum := cpu.ChecksumOf(frame[1:5])
	if programmed {
		sum |= REPORT_PROGRAMMED
	}
	frame = append(frame, sum)
	return
}

// EncodeResult builds the RESULT frame an MCU sends after programming.
func EncodeResult(mcu int, result int) []byte {
	return []byte{CODE_START, byte(CODE_CHIP_ID + mcu), byte(result)}
}

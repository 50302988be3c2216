package cpu

import (
	"fmt"
)

// CodeCond is a condition code.
type CodeCond int

const (
	COND_ALWAYS = CodeCond(0)
	COND_TRUE   = CodeCond(1) // +
	COND_FALSE  = CodeCond(2) // -
)

// String returns the assembly prefix of the condition.
func (cond CodeCond) String() string {
	switch cond {
	case COND_ALWAYS:
		return ""
	case COND_TRUE:
		return "+"
	case COND_FALSE:
		return "-"
	}
	return fmt.Sprintf("CodeCond(%d)", int(cond))
}

// Flags returns the condition bits of an opcode byte.
func (cond CodeCond) Flags() uint8 {
	switch cond {
	case COND_TRUE:
		return COND_FLAG_TRUE
	case COND_FALSE:
		return COND_FLAG_FALSE
	}
	return 0
}

// Opcode byte layout: 0cccccmp
//
//	c: instruction code
//	m: execute only if the test flag is clear ('-')
//	p: execute only if the test flag is set ('+')
const (
	OPCODE_SHIFT    = 2
	OPCODE_MASK     = 0x3f
	COND_FLAG_TRUE  = 0x01
	COND_FLAG_FALSE = 0x02
)

// Immediate layout: 000hhhhh 00llllll, biased by IMM_BIAS.
const (
	IMM_MIN      = -999
	IMM_MAX      = 999
	IMM_BIAS     = 1000
	IMM_LOW_BITS = 6
	IMM_LOW_MASK = 0x3f
	IMM_PAD      = 0x00 // Follows a register code in a register-or-immediate slot.
)

// FILLER is emitted in place of anything that could not be encoded, so
// that the remaining bytes of a line keep their positions.
const FILLER = 0xff

// CodeOp is an instruction code.
type CodeOp uint8

const (
	OP_NOP   = CodeOp(1)
	OP_MOV   = CodeOp(2)
	OP_JMP   = CodeOp(3)
	OP_SLP   = CodeOp(4)
	OP_SLX   = CodeOp(5)
	OP_TEQ   = CodeOp(6)
	OP_TGT   = CodeOp(7)
	OP_TLT   = CodeOp(8)
	OP_TCP   = CodeOp(9)
	OP_ADD   = CodeOp(10)
	OP_SUB   = CodeOp(11)
	OP_MUL   = CodeOp(12)
	OP_NOT   = CodeOp(13)
	OP_DGT   = CodeOp(14)
	OP_DST   = CodeOp(15)
	OP_LABEL = CodeOp(16) // Label marker pseudo-instruction.
)

// Byte returns the encoded opcode byte for the instruction under cond.
func (op CodeOp) Byte(cond CodeCond) uint8 {
	return (uint8(op)&OPCODE_MASK)<<OPCODE_SHIFT | cond.Flags()
}

// ArgType is the kind of operand an instruction slot accepts.
type ArgType int

const (
	ARG_NONE    = ArgType(0) // none
	ARG_REG     = ArgType(1) // register
	ARG_REG_IMM = ArgType(2) // register or immediate
	ARG_LABEL   = ArgType(3) // label
	ARG_PORT    = ArgType(4) // XBus port
)

var argTypeName = [...]string{"none", "register", "register or immediate", "label", "XBus port"}

func (at ArgType) String() string {
	if at >= 0 && int(at) < len(argTypeName) {
		return argTypeName[at]
	}
	return fmt.Sprintf("ArgType(%d)", int(at))
}

// Instruction describes one mnemonic of the instruction set.
type Instruction struct {
	Name string
	Code CodeOp
	Arg  [2]ArgType
}

// instructionSet is the MC5000 instruction table.
var instructionSet = []Instruction{
	// basic instructions
	{"nop", OP_NOP, [2]ArgType{}},
	{"mov", OP_MOV, [2]ArgType{ARG_REG_IMM, ARG_REG}},
	{"jmp", OP_JMP, [2]ArgType{ARG_LABEL}},
	{"slp", OP_SLP, [2]ArgType{ARG_REG_IMM}},
	{"slx", OP_SLX, [2]ArgType{ARG_PORT}},

	// test instructions
	{"teq", OP_TEQ, [2]ArgType{ARG_REG_IMM, ARG_REG_IMM}},
	{"tgt", OP_TGT, [2]ArgType{ARG_REG_IMM, ARG_REG_IMM}},
	{"tlt", OP_TLT, [2]ArgType{ARG_REG_IMM, ARG_REG_IMM}},
	{"tcp", OP_TCP, [2]ArgType{ARG_REG_IMM, ARG_REG_IMM}},

	// arithmetic instructions
	{"add", OP_ADD, [2]ArgType{ARG_REG_IMM}},
	{"sub", OP_SUB, [2]ArgType{ARG_REG_IMM}},
	{"mul", OP_MUL, [2]ArgType{ARG_REG_IMM}},
	{"not", OP_NOT, [2]ArgType{}},
	{"dgt", OP_DGT, [2]ArgType{ARG_REG_IMM}},
	{"dst", OP_DST, [2]ArgType{ARG_REG_IMM, ARG_REG_IMM}},
}

// opMap maps mnemonics to their instruction.
var opMap = func() map[string]Instruction {
	ops := make(map[string]Instruction, len(instructionSet))
	for _, ins := range instructionSet {
		ops[ins.Name] = ins
	}
	return ops
}()

// LookupInstruction finds an instruction by its exact mnemonic.
func LookupInstruction(name string) (ins Instruction, ok bool) {
	ins, ok = opMap[name]
	return
}

// regMap maps register names to their operand codes.
var regMap = map[string]uint8{
	"acc": 0x70, // 01110000
	"dat": 0x60, // 01100000
	"p0":  0x50, // 01010000
	"p1":  0x58, // 01011000
	"x0":  0x40, // 01000000
	"x1":  0x48, // 01001000
}

// portMap maps XBus port names to their operand codes.
var portMap = map[string]uint8{
	"x0": 0x40, // 01000000
	"x1": 0x00, // 00000000
}

// EncodeImmediate clamps value to [IMM_MIN, IMM_MAX] and returns the two
// immediate bytes.
func EncodeImmediate(value int64) (high, low uint8) {
	value = min(max(value, IMM_MIN), IMM_MAX)
	biased := uint16(value + IMM_BIAS)
	high = uint8(biased >> IMM_LOW_BITS)
	low = uint8(biased & IMM_LOW_MASK)
	return
}


// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
)

// Assembler is a single pass assembler for the MC5000.
//
// Problems in the source are reported and assembly carries on, so one pass
// surfaces every error. Only a read failure or label table overflow stops
// it early.
type Assembler struct {
	Verbose bool            // If set, verbosely logs the assembler actions.
	File    string          // Source name for diagnostics.
	Report  func(err error) // If set, called with each diagnostic as found.
	Errors  []error         // Diagnostics from the last Parse.
	Opcode  []Opcode        // List of generated opcodes.
	Label   LabelTable      // Labels by ID.

	lineno int
}

// Failed returns true if the last Parse produced any diagnostics.
func (asm *Assembler) Failed() bool {
	return len(asm.Errors) != 0
}

// diagnose records a recoverable error at the current line.
func (asm *Assembler) diagnose(err error) {
	err = &ErrSyntax{File: asm.File, LineNo: asm.lineno, Err: err}
	asm.Errors = append(asm.Errors, err)
	if asm.Report != nil {
		asm.Report(err)
	}
}

// Parse assembles an input stream into a Program.
//
// Diagnostics are collected in asm.Errors; the returned error is only set
// for failures that stop assembly.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	if len(asm.File) == 0 {
		asm.File = "(stdin)"
	}

	asm.Errors = nil
	asm.Opcode = asm.Opcode[:0]
	asm.Label = LabelTable{}
	asm.lineno = 0

	reader := bufio.NewReader(input)

	for {
		text, rerr := reader.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			err = &ErrRead{File: asm.File, LineNo: asm.lineno + 1, Err: rerr}
			return
		}
		if rerr == io.EOF && len(text) == 0 {
			break
		}

		asm.lineno += 1
		text = strings.TrimSuffix(text, "\n")

		if asm.Verbose {
			log.Printf("%v: %v\n", asm.lineno, text)
		}

		err = asm.parseText(text)
		if err != nil {
			err = &ErrSyntax{File: asm.File, LineNo: asm.lineno, Err: err}
			return
		}

		if rerr == io.EOF {
			break
		}
	}

	prog = &Program{
		Opcodes: append([]Opcode(nil), asm.Opcode...),
		Labels:  asm.Label.Names(),
	}

	return
}

// parseText assembles one line of text.
func (asm *Assembler) parseText(text string) (err error) {
	line, err := ParseLine(text)
	if err != nil {
		asm.diagnose(err)
		err = nil
		return
	}

	codes, err := asm.EncodeLine(line)
	if err != nil {
		return
	}

	if len(codes) != 0 {
		asm.Opcode = append(asm.Opcode, Opcode{LineNo: asm.lineno, Words: line.Words(), Codes: codes})
	}

	return
}

// EncodeLine encodes a parsed line: the label marker, if any, followed by
// the instruction, if any.
func (asm *Assembler) EncodeLine(line Line) (codes []byte, err error) {
	if len(line.Label) != 0 {
		var id uint8
		id, err = asm.Label.FindOrCreate(line.Label)
		if err != nil {
			return
		}
		codes = append(codes, OP_LABEL.Byte(COND_ALWAYS), id)
	}

	if len(line.Op) == 0 {
		return
	}

	op, err := asm.Encode(line.Cond, line.Op, line.Arg1, line.Arg2)
	if err != nil {
		return
	}
	codes = append(codes, op...)

	return
}

// Encode encodes a single instruction. An empty argument is absent.
func (asm *Assembler) Encode(cond CodeCond, name string, arg1, arg2 string) (codes []byte, err error) {
	ins, ok := LookupInstruction(name)
	if !ok {
		asm.diagnose(ErrInstructionUndefined(name))
		codes = []byte{FILLER}
		return
	}

	codes = append(codes, ins.Code.Byte(cond))

	for n, word := range [2]string{arg1, arg2} {
		var arg []byte
		arg, err = asm.encodeArg(ins.Name, ins.Arg[n], word)
		if err != nil {
			return
		}
		codes = append(codes, arg...)
	}

	return
}

// encodeArg encodes one argument slot of an instruction.
func (asm *Assembler) encodeArg(op string, at ArgType, word string) (codes []byte, err error) {
	if at == ARG_NONE {
		if len(word) != 0 {
			asm.diagnose(ErrArgumentExtra{Op: op, Arg: word})
		}
		return
	}

	if len(word) == 0 {
		asm.diagnose(ErrArgumentMissing(op))
		codes = []byte{FILLER}
		return
	}

	codes, err = argEncoder[at](asm, word)
	if errors.Is(err, ErrLabelOverflow) {
		return
	}
	if err != nil {
		asm.diagnose(err)
		codes = []byte{FILLER}
		err = nil
	}

	return
}

// argEncoder maps argument types to their encoders.
var argEncoder = map[ArgType]func(asm *Assembler, word string) ([]byte, error){
	ARG_REG:     (*Assembler).encodeReg,
	ARG_REG_IMM: (*Assembler).encodeRegImm,
	ARG_LABEL:   (*Assembler).encodeLabel,
	ARG_PORT:    (*Assembler).encodePort,
}

// isNumber returns true if the word is a numeric literal.
func isNumber(word string) bool {
	return len(word) != 0 && (word[0] == '+' || word[0] == '-' || (word[0] >= '0' && word[0] <= '9'))
}

func (asm *Assembler) encodeReg(word string) (codes []byte, err error) {
	if isNumber(word) {
		err = ErrRegisterExpected(word)
		return
	}

	code, ok := regMap[word]
	if !ok {
		err = ErrRegisterUndefined(word)
		return
	}

	codes = []byte{code}
	return
}

func (asm *Assembler) encodeRegImm(word string) (codes []byte, err error) {
	if !isNumber(word) {
		code, ok := regMap[word]
		if !ok {
			err = ErrRegisterUndefined(word)
			return
		}
		codes = []byte{code, IMM_PAD}
		return
	}

	// Out of range literals come back saturated, which clamps the same way.
	value, err := strconv.ParseInt(word, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		err = ErrRegisterUndefined(word)
		return
	}
	err = nil

	high, low := EncodeImmediate(value)
	codes = []byte{high, low}
	return
}

func (asm *Assembler) encodeLabel(word string) (codes []byte, err error) {
	id, err := asm.Label.FindOrCreate(word)
	if err != nil {
		return
	}

	codes = []byte{id}
	return
}

func (asm *Assembler) encodePort(word string) (codes []byte, err error) {
	if word[0] != 'x' {
		err = ErrPortInvalid(word)
		return
	}

	code, ok := portMap[word]
	if !ok {
		err = ErrPortUndefined(word)
		return
	}

	codes = []byte{code}
	return
}

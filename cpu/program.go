package cpu

import (
	"io"
	"iter"
	"slices"

	"github.com/ezrec/mc5000/internal"
)

// Opcode is the byte-code generated by one source line.
type Opcode struct {
	LineNo int
	Words  []string
	Codes  []byte
}

// Program is an assembled MC5000 program.
type Program struct {
	Opcodes []Opcode
	Labels  []string // Label names, indexed by ID.
}

// Bytes iterates over the flat byte-code of the program.
func (prog *Program) Bytes() iter.Seq[byte] {
	seqs := make([]iter.Seq[byte], 0, len(prog.Opcodes))
	for _, op := range prog.Opcodes {
		seqs = append(seqs, slices.Values(op.Codes))
	}

	return internal.IterSeqConcat(seqs...)
}

// Binary returns the flat byte-code of the program.
func (prog *Program) Binary() (bin []byte) {
	for b := range prog.Bytes() {
		bin = append(bin, b)
	}

	return
}

// Checksum returns the checksum byte of the program.
func (prog *Program) Checksum() byte {
	var cs Checksum
	for b := range prog.Bytes() {
		cs.Add(b)
	}
	return cs.Sum()
}

// WriteTo writes the byte-code of the program to w.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	nw, err := w.Write(prog.Binary())
	n = int64(nw)
	return
}

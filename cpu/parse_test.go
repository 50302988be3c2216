package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		text string
		line Line
	}{
		{"", Line{}},
		{"   \t ", Line{}},
		{"# just a comment", Line{}},
		{"nop", Line{Op: "nop"}},
		{"  nop  # trailing", Line{Op: "nop"}},
		{"nop#tight", Line{Op: "nop"}},
		{"loop:", Line{Label: "loop"}},
		{"loop: # with comment", Line{Label: "loop"}},
		{"loop:nop", Line{Label: "loop", Op: "nop"}},
		{"mov 5 acc", Line{Op: "mov", Arg1: "5", Arg2: "acc"}},
		{"mov\t-12\tdat", Line{Op: "mov", Arg1: "-12", Arg2: "dat"}},
		{"mov +7 x1", Line{Op: "mov", Arg1: "+7", Arg2: "x1"}},
		{"+ add 1", Line{Cond: COND_TRUE, Op: "add", Arg1: "1"}},
		{"-jmp loop", Line{Cond: COND_FALSE, Op: "jmp", Arg1: "loop"}},
		{"top: - teq acc 0 # test", Line{Label: "top", Cond: COND_FALSE, Op: "teq", Arg1: "acc", Arg2: "0"}},
		{"L2: +slx x0", Line{Label: "L2", Cond: COND_TRUE, Op: "slx", Arg1: "x0"}},
		{"nop\r", Line{Op: "nop"}},
		{"Mov 1 Acc", Line{Op: "Mov", Arg1: "1", Arg2: "Acc"}},
	}

	for _, test := range tests {
		line, err := ParseLine(test.text)
		assert.NoError(err, test.text)
		assert.Equal(test.line, line, test.text)
	}
}

func TestParseLineSyntax(t *testing.T) {
	assert := assert.New(t)

	bad := []string{
		"+",                // condition without an operation
		"mov 1 2 3",        // too many arguments
		"1abc",             // operation must start with a letter
		"mov 5acc",         // argument must be a word or a number
		"loop: loop2: nop", // one label per line
		"lab el: nop",      // no space in a label
		"mov 1, acc",       // no commas
		"+- nop",           // one condition
		"nop ; comment",    // comments start with '#'
		"mov 0x10 acc",     // decimal only
		"_x: nop",          // identifiers start with a letter
	}

	for _, text := range bad {
		_, err := ParseLine(text)
		assert.ErrorIs(err, ErrLineSyntax, text)
	}
}

func TestParseLineLength(t *testing.T) {
	assert := assert.New(t)

	text := "nop" + strings.Repeat(" ", MAX_LINE-3)
	assert.Len(text, MAX_LINE)
	line, err := ParseLine(text)
	assert.NoError(err)
	assert.Equal("nop", line.Op)

	_, err = ParseLine(text + " ")
	assert.ErrorIs(err, ErrLineLength)
}

func TestLineWords(t *testing.T) {
	assert := assert.New(t)

	line := Line{Label: "top", Cond: COND_FALSE, Op: "teq", Arg1: "acc", Arg2: "0"}
	assert.Equal([]string{"top:", "-teq", "acc", "0"}, line.Words())
	assert.Equal([2]string{"acc", "0"}, line.Args())

	assert.Nil(Line{}.Words())
}

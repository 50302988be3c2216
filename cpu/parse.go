package cpu

import (
	"regexp"
	"strings"
)

// MAX_LINE is the longest accepted source line, excluding the newline.
const MAX_LINE = 1022

// Line is one parsed line of assembly text. Empty fields are absent.
type Line struct {
	Label string
	Cond  CodeCond
	Op    string
	Arg1  string
	Arg2  string
}

// Args returns the argument words of the line.
func (line Line) Args() [2]string {
	return [2]string{line.Arg1, line.Arg2}
}

// Words returns the non-empty words of the line, in source order.
func (line Line) Words() (words []string) {
	if len(line.Label) != 0 {
		words = append(words, line.Label+":")
	}
	if len(line.Op) != 0 {
		words = append(words, line.Cond.String()+line.Op)
	}
	for _, arg := range line.Args() {
		if len(arg) != 0 {
			words = append(words, arg)
		}
	}
	return
}

const (
	reIdent = `[a-zA-Z][a-zA-Z0-9]*`
	reArg   = `(` + reIdent + `|[+-]?[0-9]+)`
)

// lineRegexp matches: [label:] [[cond] op [arg1] [arg2]] [# comment]
var lineRegexp = regexp.MustCompile(`^[ \t]*(?:(` + reIdent + `):)?` +
	`[ \t]*(?:([+-])?[ \t]*(` + reIdent + `)` +
	`(?:[ \t]+` + reArg + `)?` +
	`(?:[ \t]+` + reArg + `)?)?` +
	`[ \t]*(?:#.*)?$`)

const (
	matchLabel = 1 + iota
	matchCond
	matchOp
	matchArg1
	matchArg2
)

// ParseLine parses a single line of assembly text.
func ParseLine(text string) (line Line, err error) {
	text = strings.TrimSuffix(text, "\r")

	if len(text) > MAX_LINE {
		err = ErrLineLength
		return
	}

	match := lineRegexp.FindStringSubmatch(text)
	if match == nil {
		err = ErrLineSyntax
		return
	}

	line = Line{
		Label: match[matchLabel],
		Op:    match[matchOp],
		Arg1:  match[matchArg1],
		Arg2:  match[matchArg2],
	}

	switch match[matchCond] {
	case "+":
		line.Cond = COND_TRUE
	case "-":
		line.Cond = COND_FALSE
	}

	return
}

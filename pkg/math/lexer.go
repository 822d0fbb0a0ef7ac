// Package math parses the math micro-language used inside « » spans and
// math fences.
package math

import (
	"regexp"

	"src.jotdown.dev/pkg/diag"
)

// Type is the type of a Token.
type Type uint8

// Possible values of Type.
const (
	EOF Type = iota

	SuperscriptOpen
	SubscriptOpen
	SumOpen
	ProductOpen
	IntegralOpen
	SquareRootOpen
	ParenOpen
	ParenClose
	BraceOpen
	BraceClose
	BracketOpen
	BracketClose

	Comment
	Subscript
	Superscript
	Number
	Operator
	Identifier
	Newline

	// Whitespace is matched but never returned.
	whitespace Type = 255
)

var typeNames = [...]string{
	EOF: "EOF", SuperscriptOpen: "SuperscriptOpen", SubscriptOpen: "SubscriptOpen",
	SumOpen: "SumOpen", ProductOpen: "ProductOpen", IntegralOpen: "IntegralOpen",
	SquareRootOpen: "SquareRootOpen", ParenOpen: "ParenOpen",
	ParenClose: "ParenClose", BraceOpen: "BraceOpen", BraceClose: "BraceClose",
	BracketOpen: "BracketOpen", BracketClose: "BracketClose",
	Comment: "Comment", Subscript: "Subscript", Superscript: "Superscript",
	Number: "Number", Operator: "Operator", Identifier: "Identifier",
	Newline: "Newline",
}

func (t Type) String() string { return typeNames[t] }

// Token is a lexical token. Text is the first capture group of the matching
// pattern.
type Token struct {
	Type Type
	Text string
	Line int
}

const (
	num    = `\d∞.`
	word   = `\p{L}\p{N}`
	opSyms = `+*/%=↔→←≈∼≠≟<≤≥>∴∈∉⊂⊄⊆⊈…!±−,:|∀∧∨⊕¬∩∪Ø∅∄∃∁'`
)

var patterns = []struct {
	typ Type
	re  *regexp.Regexp
}{
	{SuperscriptOpen, regexp.MustCompile(`^(\^\[)`)},
	{SubscriptOpen, regexp.MustCompile(`^(_\[)`)},
	{SumOpen, regexp.MustCompile(`^(sum\[)`)},
	{ProductOpen, regexp.MustCompile(`^(prod(?:uct)?\[)`)},
	{IntegralOpen, regexp.MustCompile(`^(int(?:egral)?\[)`)},
	{SquareRootOpen, regexp.MustCompile(`^(sqrt\[)`)},
	{ParenOpen, regexp.MustCompile(`^(\()`)},
	{ParenClose, regexp.MustCompile(`^(\))`)},
	{BraceOpen, regexp.MustCompile(`^(\{)`)},
	{BraceClose, regexp.MustCompile(`^(\})`)},
	{BracketOpen, regexp.MustCompile(`^(\[)`)},
	{BracketClose, regexp.MustCompile(`^(\])`)},

	{Comment, regexp.MustCompile(`^#[^\S\n]*([^#\n]*)#?`)},
	{Subscript, regexp.MustCompile(`^_([` + num + `]+|[` + word + `]+)`)},
	{Superscript, regexp.MustCompile(`^\^([` + num + `]+|[` + word + `]+|\*|∁|)`)},
	{Number, regexp.MustCompile(`^([+−]?[` + num + `][` + num + `]*)`)},
	{Operator, regexp.MustCompile(`^([` + regexp.QuoteMeta(opSyms) + `])`)},
	{Identifier, regexp.MustCompile(`^([+−]?[` + word + `]+)`)},
	{whitespace, regexp.MustCompile(`^([^\S\n]+)`)},
	{Newline, regexp.MustCompile(`^(\n)`)},
}

// Lexer splits math text into Tokens. Whitespace other than newlines is
// skipped.
type Lexer struct {
	text string
	line int
	pos  int
}

// NewLexer creates a Lexer for text, which starts on the given line. The
// text should already have gone through mathsym.Substitute.
func NewLexer(line int, text string) *Lexer {
	return &Lexer{text: text, line: line}
}

// Next returns the next token. At the end of input, it returns a token of
// type EOF.
func (l *Lexer) Next() (Token, error) {
scan:
	for l.pos < len(l.text) {
		rest := l.text[l.pos:]
		for _, p := range patterns {
			m := p.re.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			l.pos += len(m[0])
			switch p.typ {
			case whitespace:
				continue scan
			case Newline:
				l.line++
				return Token{Newline, m[1], l.line - 1}, nil
			}
			return Token{p.typ, m[1], l.line}, nil
		}
		return Token{}, &diag.Error{
			Type: diag.Lexical, Message: "unrecognized math token",
			Context: diag.NewContext("", l.line, rest)}
	}
	return Token{Type: EOF, Line: l.line}, nil
}

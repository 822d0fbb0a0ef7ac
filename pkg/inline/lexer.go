// Package inline parses the inline content of a line of text: emphasis,
// code and math spans, links, references and images.
package inline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"src.jotdown.dev/pkg/diag"
)

// Type is the type of a Token.
type Type uint8

// Possible values of Type.
const (
	EOF Type = iota

	// Delimiters that both open and close.
	CodeDelim
	StrongEmphasisDelim
	StrongDelim
	EmphasisDelim
	StrikethroughDelim

	MathOpen
	MathClose

	// Groups: alt text, source, title.
	Image
	// Groups: URL.
	ImplicitLink
	// Groups: link text, target.
	Link
	// Groups: cited text, key.
	ReferenceLink
	// Groups: key, target.
	ReferenceDef
	// Groups: address.
	ImplicitEmail
	// Groups: text with escapes removed.
	PlainText

	// Verbatim content of a code or math span. Groups: the content.
	Code
	Math
)

var typeNames = [...]string{
	EOF: "EOF", CodeDelim: "CodeDelim", StrongEmphasisDelim: "StrongEmphasisDelim",
	StrongDelim: "StrongDelim", EmphasisDelim: "EmphasisDelim",
	StrikethroughDelim: "StrikethroughDelim", MathOpen: "MathOpen",
	MathClose: "MathClose", Image: "Image", ImplicitLink: "ImplicitLink",
	Link: "Link", ReferenceLink: "ReferenceLink", ReferenceDef: "ReferenceDef",
	ImplicitEmail: "ImplicitEmail", PlainText: "PlainText", Code: "Code",
	Math: "Math",
}

func (t Type) String() string { return typeNames[t] }

// Token is a lexical token.
type Token struct {
	Type Type
	// Captured substrings; see the documentation of each Type.
	Groups []string
	// Source text of the token.
	Text string
	Line int
}

type pattern struct {
	typ Type
	re  *regexp.Regexp
	// Optional extra condition on the lexer position.
	cond func(l *Lexer) bool
}

// Patterns tried in order at the cursor; the first match wins.
var patterns = []pattern{
	{CodeDelim, regexp.MustCompile("^`"), nil},
	{StrongEmphasisDelim, regexp.MustCompile(`^\*\*\*`), nil},
	{StrongEmphasisDelim, regexp.MustCompile(`^___`), notIntraWord},
	{StrongDelim, regexp.MustCompile(`^\*\*`), nil},
	{StrongDelim, regexp.MustCompile(`^__`), notIntraWord},
	{EmphasisDelim, regexp.MustCompile(`^\*`), nil},
	{EmphasisDelim, regexp.MustCompile(`^_`), notIntraWord},
	{StrikethroughDelim, regexp.MustCompile(`^~~`), nil},
	{MathOpen, regexp.MustCompile(`^«`), nil},
	{MathClose, regexp.MustCompile(`^»`), nil},
	{Image, regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]*)\s*(?:"([^"]*)"\s*)?\)`), nil},
	{ImplicitLink, regexp.MustCompile(`^(https?://\S+)`), nil},
	{Link, regexp.MustCompile(`^\[([^\]]*)\]\(([^)]*)\)`), nil},
	{ReferenceLink, regexp.MustCompile(`^\[([^\]]*)\]\[([^\]]*)\]`), nil},
	{ReferenceDef, regexp.MustCompile(`^\[([^\]]*)\]:[ \t]*(.*)$`), atLineStart},
	{ImplicitEmail, regexp.MustCompile(`^(\S+@\S+\.\S+)`), nil},
}

// Opening delimiters that switch the lexer into disabled mode, in which all
// text up to the terminator is taken verbatim.
var disabling = map[Type]struct {
	terminator string
	content    Type
	closer     Type
}{
	CodeDelim: {"`", Code, CodeDelim},
	MathOpen:  {"»", Math, MathClose},
}

// Lexer splits a line of text into Tokens.
type Lexer struct {
	text string
	line int
	pos  int

	// Tokens already scanned but not yet returned.
	pending []Token
	// The delimiter that opened the current disabled span, or EOF.
	mode Type
}

// NewLexer creates a Lexer for text, which starts on the given line.
func NewLexer(line int, text string) *Lexer {
	return &Lexer{text: text, line: line}
}

// Next returns the next token. At the end of input, it returns a token of
// type EOF.
func (l *Lexer) Next() (Token, error) {
	if len(l.pending) > 0 {
		t := l.pending[0]
		l.pending = l.pending[1:]
		return t, nil
	}
	if l.mode != EOF {
		return l.disabled()
	}
	if l.pos >= len(l.text) {
		return Token{Type: EOF, Line: l.line}, nil
	}
	rest := l.text[l.pos:]
	for _, p := range patterns {
		if p.cond != nil && !p.cond(l) {
			continue
		}
		m := p.re.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		if _, ok := disabling[p.typ]; ok {
			l.mode = p.typ
		}
		return l.emit(p.typ, m[0], m[1:]), nil
	}
	if n, text := l.scanPlainText(); n > 0 {
		return l.emit(PlainText, rest[:n], []string{text}), nil
	}
	return Token{}, &diag.Error{
		Type: diag.Lexical, Message: "unrecognized token",
		Context: diag.NewContext("", l.line, rest)}
}

func (l *Lexer) emit(typ Type, text string, groups []string) Token {
	l.pos += len(text)
	if len(groups) == 0 {
		groups = nil
	}
	return Token{Type: typ, Groups: groups, Text: text, Line: l.line}
}

// Emits the verbatim content of a span and its closing delimiter.
func (l *Lexer) disabled() (Token, error) {
	d := disabling[l.mode]
	rest := l.text[l.pos:]
	i := strings.Index(rest, d.terminator)
	if i == -1 {
		return Token{}, &diag.Error{
			Type:    diag.Lexical,
			Message: "expected " + d.terminator + " to close " + TagName(l.mode),
			Context: diag.NewContext("", l.line, rest)}
	}
	l.mode = EOF
	content := l.emit(d.content, rest[:i], []string{rest[:i]})
	l.pending = append(l.pending, l.emit(d.closer, d.terminator, []string{d.terminator}))
	return content, nil
}

func atLineStart(l *Lexer) bool { return l.pos == 0 }

func notIntraWord(l *Lexer) bool { return !l.intraWord(l.pos) }

// Reports whether the run of underscores at i is inside a word, i.e. both
// preceded and followed by a letter or digit.
func (l *Lexer) intraWord(i int) bool {
	prev, _ := utf8.DecodeLastRuneInString(l.text[:i])
	j := i
	for j < len(l.text) && l.text[j] == '_' {
		j++
	}
	next, _ := utf8.DecodeRuneInString(l.text[j:])
	return isWordRune(prev) && isWordRune(next)
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Characters that can be escaped with a backslash.
const escapable = "*_`~«»[\\"

// Scans a run of plain text: either a run of whitespace, or one word and the
// whitespace following it. It returns the length of the source text and the
// text with escapes removed.
func (l *Lexer) scanPlainText() (int, string) {
	i := l.pos
	for i < len(l.text) && isSpace(l.text[i]) {
		i++
	}
	if i > l.pos {
		return i - l.pos, l.text[l.pos:i]
	}
	var sb strings.Builder
word:
	for i < len(l.text) {
		r, size := utf8.DecodeRuneInString(l.text[i:])
		switch {
		case isSpace(l.text[i]):
			break word
		case r == '\\':
			next, nsize := utf8.DecodeRuneInString(l.text[i+1:])
			if nsize > 0 && strings.ContainsRune(escapable, next) {
				sb.WriteRune(next)
				i += 1 + nsize
				continue
			}
		case r == '*' || r == '`' || r == '«' || r == '»':
			break word
		case r == '~' && strings.HasPrefix(l.text[i:], "~~"):
			break word
		case r == '_':
			if !l.intraWord(i) {
				break word
			}
			j := i
			for j < len(l.text) && l.text[j] == '_' {
				j++
			}
			sb.WriteString(l.text[i:j])
			i = j
			continue
		}
		sb.WriteString(l.text[i : i+size])
		i += size
	}
	for i < len(l.text) && isSpace(l.text[i]) {
		sb.WriteByte(l.text[i])
		i++
	}
	return i - l.pos, sb.String()
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

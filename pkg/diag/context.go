package diag

import (
	"strconv"
	"strings"
)

// Context locates an error in a source document. Markup errors are reported
// by line, so a Context carries a 1-based line number and a short excerpt of
// the offending text instead of a byte range.
type Context struct {
	Name    string
	Line    int
	Snippet string
}

// NewContext creates a new Context, summarizing text into the snippet.
func NewContext(name string, line int, text string) Context {
	return Context{name, line, Summary(text)}
}

// SnippetLength is the maximum number of codepoints kept by Summary.
const SnippetLength = 50

// Summary returns the first line of text, truncated to SnippetLength
// codepoints. A truncated summary ends in "...".
func Summary(text string) string {
	if i := strings.IndexByte(text, '\n'); i != -1 {
		text = text[:i]
	}
	n := 0
	for i := range text {
		if n == SnippetLength {
			return text[:i] + "..."
		}
		n++
	}
	return text
}

// Position returns "name:line", or "line N" when the context has no name.
func (c Context) Position() string {
	if c.Name == "" {
		return "line " + strconv.Itoa(c.Line)
	}
	return c.Name + ":" + strconv.Itoa(c.Line)
}

// Show shows a Context, with the excerpt on its own line.
func (c Context) Show(indent string) string {
	return c.show(indent, ansiStyle)
}

// ShowCompact shows a Context, with no line break between the position and
// the excerpt.
func (c Context) ShowCompact(indent string) string {
	return c.showCompact(indent, ansiStyle)
}

func (c Context) show(indent string, st style) string {
	if c.Snippet == "" {
		return c.description()
	}
	return c.description() + "\n" + indent + c.culprit(st)
}

func (c Context) showCompact(indent string, st style) string {
	if c.Snippet == "" {
		return indent + c.description()
	}
	return indent + c.description() + " " + c.culprit(st)
}

func (c Context) description() string {
	var sb strings.Builder
	if c.Name != "" {
		sb.WriteString(c.Name)
		sb.WriteString(", ")
	}
	if c.Line <= 0 {
		sb.WriteString("unknown position")
		return sb.String()
	}
	sb.WriteString("line ")
	sb.WriteString(strconv.Itoa(c.Line))
	sb.WriteByte(':')
	return sb.String()
}

func (c Context) culprit(st style) string {
	return st.culpritStart + c.Snippet + st.culpritEnd
}

package diag

import (
	"fmt"

	"src.jotdown.dev/pkg/strutil"
)

// Type classifies an Error.
type Type uint8

// Possible values of Type.
const (
	// No pattern matches at the cursor, or a verbatim span is not terminated.
	Lexical Type = iota
	// Mismatched or unclosed inline or math markup.
	Tag
	// A line in a list block is not a list item.
	List
	// Bracketed math notation with the wrong number of children.
	Notation
	// A citation key that was never defined.
	Reference
	// Content that cannot be represented in the target format.
	Encoding
	// A tree shape that violates a construction invariant.
	Structure
)

var typeNames = [...]string{
	Lexical:   "lexical error",
	Tag:       "tag error",
	List:      "list error",
	Notation:  "notation error",
	Reference: "reference error",
	Encoding:  "encoding error",
	Structure: "structure error",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Error represents an error with context that can be showed.
type Error struct {
	Type    Type
	Message string
	Context Context
	// Human-readable names of the markup involved in a tag error. Tag is the
	// unpaired or expected tag; Found is the tag encountered instead, if any.
	Tag   string
	Found string
}

// Newf creates a new *Error with a formatted message.
func Newf(t Type, ctx Context, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Context: ctx}
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Position(), e.Message)
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	return e.show(indent, ansiStyle)
}

func (e *Error) show(indent string, st style) string {
	header := fmt.Sprintf("%s: %s%s%s\n",
		strutil.Title(e.Type.String()), st.messageStart, e.Message, st.messageEnd)
	return header + e.Context.showCompact(indent+"  ", st)
}

// Is reports whether target is an *Error of the same Type. This makes it
// possible to match on the type alone with errors.Is(err, &diag.Error{Type: t}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Type == e.Type
}

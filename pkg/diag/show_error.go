package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
)

// ShowError shows an error to w. Errors of type *Error are shown with their
// context; other errors implementing Shower use their Show method; all
// remaining errors are shown with Complain. Styling escape sequences are only
// written when w is a terminal.
func ShowError(w io.Writer, err error) {
	st := plainStyle
	if isTerminal(w) {
		st = ansiStyle
	}
	var derr *Error
	if errors.As(err, &derr) {
		fmt.Fprintln(w, derr.show("", st))
	} else if shower, ok := err.(Shower); ok {
		fmt.Fprintln(w, shower.Show(""))
	} else {
		complain(w, err.Error(), st)
	}
}

// Complain prints a message to w in bold and red if w is a terminal, adding a
// trailing newline.
func Complain(w io.Writer, msg string) {
	st := plainStyle
	if isTerminal(w) {
		st = ansiStyle
	}
	complain(w, msg, st)
}

// Complainf is like Complain, but accepts a format string and arguments.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}

func complain(w io.Writer, msg string, st style) {
	fmt.Fprintf(w, "%s%s%s\n", st.messageStart, msg, st.messageEnd)
}

// Can be changed for testing.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

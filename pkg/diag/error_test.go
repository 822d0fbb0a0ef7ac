package diag

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	setStyle(t, style{"{", "}", "<", ">"})

	err := &Error{
		Type:    Tag,
		Message: "expected closing bold tag, found closing italics tag",
		Context: NewContext("doc.jd", 3, "**a _b**"),
	}

	wantErrorString := "tag error: doc.jd:3: expected closing bold tag, found closing italics tag"
	if gotErrorString := err.Error(); gotErrorString != wantErrorString {
		t.Errorf("Error() -> %q, want %q", gotErrorString, wantErrorString)
	}

	// Type is capitalized in return value of Show
	wantShow := dedent(`
		Tag error: {expected closing bold tag, found closing italics tag}
		  doc.jd, line 3: <**a _b**>`)
	if gotShow := err.Show(""); gotShow != wantShow {
		t.Errorf("Show() -> %q, want %q", gotShow, wantShow)
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Newf(Reference, Context{}, "no reference %q", "x"))
	if !errors.Is(err, &Error{Type: Reference}) {
		t.Errorf("errors.Is with same type -> false, want true")
	}
	if errors.Is(err, &Error{Type: Lexical}) {
		t.Errorf("errors.Is with different type -> true, want false")
	}
}

func TestType_String(t *testing.T) {
	if s := Notation.String(); s != "notation error" {
		t.Errorf("Notation.String() -> %q", s)
	}
	if s := Type(200).String(); s != "Type(200)" {
		t.Errorf("Type(200).String() -> %q", s)
	}
}

func setStyle(t *testing.T, st style) {
	saved := ansiStyle
	t.Cleanup(func() { ansiStyle = saved })
	ansiStyle = st
}

package strutil

import (
	"testing"

	"src.jotdown.dev/pkg/tt"
)

func TestChopLineEnding(t *testing.T) {
	tt.Test(t, tt.Fn("ChopLineEnding", ChopLineEnding), tt.Table{
		tt.Args("").Rets(""),
		tt.Args("text").Rets("text"),
		tt.Args("text\n").Rets("text"),
		tt.Args("text\r\n").Rets("text"),
		tt.Args("text\n\n").Rets("text\n"),
		tt.Args("text\ntext 2\n").Rets("text\ntext 2"),
	})
}

package strutil

import (
	"testing"

	"src.jotdown.dev/pkg/tt"
)

func TestTitle(t *testing.T) {
	tt.Test(t, tt.Fn("Title", Title), tt.Table{
		tt.Args("").Rets(""),
		tt.Args("lexical").Rets("Lexical"),
		tt.Args("\xf0").Rets("\xf0"),
		tt.Args("TAG").Rets("TAG"),
	})
}

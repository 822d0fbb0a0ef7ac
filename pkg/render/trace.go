package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/diag"
)

// Dumps the tree, one node per line, indented by depth. Text is quoted and
// summarized.
type traceCodec struct{ *writer }

func (c *traceCodec) node(n *ast.Node, depth int) {
	c.enter(n)
	c.str(strings.Repeat("\t", depth), n.Kind.String())
	if n.Kind.HasText() {
		c.str(" ", summarize(n.Text))
	}
	switch n.Kind {
	case ast.Heading:
		c.printf(" Level=%d", n.Level)
	case ast.OrderedList:
		c.printf(" Style=%s Start=%d", n.Style, n.Start)
	case ast.ChecklistItem:
		c.printf(" Checked=%t", n.Checked)
	case ast.TableHeaderCell, ast.TableCell:
		c.printf(" Align=%s", n.Align)
	case ast.CodeBlock:
		if n.Info != "" {
			c.printf(" Info=%q", n.Info)
		}
	}
	if n.Dest != "" {
		c.printf(" Dest=%q", n.Dest)
	}
	c.str("\n")
	if len(n.Caption) > 0 {
		c.str(strings.Repeat("\t", depth+1), "Caption\n")
		for _, child := range n.Caption {
			c.node(child, depth+2)
		}
	}
	for _, child := range n.Children {
		c.node(child, depth+1)
	}
}

// Quotes s, keeping at most diag.SnippetLength codepoints.
func summarize(s string) string {
	if utf8.RuneCountInString(s) <= diag.SnippetLength {
		return strconv.Quote(s)
	}
	return strconv.Quote(string([]rune(s)[:diag.SnippetLength])) + "..."
}

package render

import (
	"unicode"
	"unicode/utf8"

	"src.jotdown.dev/pkg/ast"
)

// Emits MathML. Math nodes are rendered; other composite nodes only emit
// the math nodes inside them, and other leaves emit nothing.
type mathmlCodec struct{ *writer }

var mathmlFences = map[ast.Kind][2]string{
	ast.Parenthesis: {"(", ")"},
	ast.Braces:      {"{", "}"},
}

func (c *mathmlCodec) nodes(ns []*ast.Node) {
	for _, n := range ns {
		c.node(n)
	}
}

func (c *mathmlCodec) node(n *ast.Node) {
	if !c.enter(n) {
		return
	}
	switch n.Kind {
	case ast.MathInline:
		c.str("<math>")
		c.nodes(n.Children)
		c.str("</math>")
	case ast.MathBlock:
		c.str(`<math display="block">`)
		c.nodes(n.Children)
		c.str("</math>")
	case ast.Identifier, ast.Number:
		c.based(n)
	case ast.Subscript, ast.Superscript, ast.SubscriptBracketed, ast.SuperscriptBracketed:
		// A script without a base.
		c.script(n, func() { c.str("<mrow></mrow>") })
	case ast.Operator:
		c.printf("<mo>%s</mo>", escapeHTML(n.Text))
	case ast.Comment:
		c.printf("<mtext>%s</mtext>", escapeHTML(n.Text))
	case ast.Newline:
		c.str(`<mspace linebreak="newline"/>`)
	case ast.Parenthesis, ast.Braces:
		f := mathmlFences[n.Kind]
		c.printf("<mrow><mo>%s</mo>", f[0])
		c.nodes(n.Children)
		c.printf("<mo>%s</mo></mrow>", f[1])
	case ast.Brackets:
		c.str("<mrow>")
		c.nodes(n.Children)
		c.str("</mrow>")
	case ast.Sum, ast.Product, ast.Integral:
		c.printf("<mrow><munderover><mo>%s</mo><mrow>", bigOperators[n.Kind])
		c.node(child(n, 0))
		c.str("</mrow><mrow>")
		c.node(child(n, 1))
		c.str("</mrow></munderover><mrow>")
		c.nodes(rest(n, 2))
		c.str("</mrow></mrow>")
	case ast.SquareRoot:
		c.str("<msqrt>")
		c.nodes(n.Children)
		c.str("</msqrt>")
	default:
		if !n.Kind.HasText() {
			c.nodes(n.Children)
			c.nodes(n.Caption)
		}
	}
}

// Emits an identifier or number with the scripts attached to it, each
// script wrapping everything before it.
func (c *mathmlCodec) based(n *ast.Node) {
	base := "<mi>" + escapeHTML(n.Text) + "</mi>"
	if n.Kind == ast.Number {
		base = "<mn>" + escapeHTML(n.Text) + "</mn>"
	}
	emit := func() { c.str(base) }
	for _, s := range n.Children {
		inner, script := emit, s
		emit = func() { c.script(script, inner) }
	}
	emit()
}

func (c *mathmlCodec) script(n *ast.Node, base func()) {
	tag := "msub"
	if n.Kind == ast.Superscript || n.Kind == ast.SuperscriptBracketed {
		tag = "msup"
	}
	c.printf("<%s>", tag)
	base()
	c.str("<mrow>")
	if n.Kind.HasText() {
		c.str(leaf(n.Text))
	} else {
		c.nodes(n.Children)
	}
	c.printf("</mrow></%s>", tag)
}

// Wraps the text of a script in <mn> if it starts like a number and <mi>
// otherwise.
func leaf(text string) string {
	r, _ := utf8.DecodeRuneInString(text)
	if unicode.IsDigit(r) || r == '∞' || r == '.' {
		return "<mn>" + escapeHTML(text) + "</mn>"
	}
	return "<mi>" + escapeHTML(text) + "</mi>"
}

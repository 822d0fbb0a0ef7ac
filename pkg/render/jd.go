package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/numeral"
)

// Characters that would be read as markup in plain text.
var escapeJD = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "~", `\~`,
	"«", `\«`, "»", `\»`, "[", `\[`,
).Replace

var jdDelims = map[ast.Kind][2]string{
	ast.Emphasis:             {"*", "*"},
	ast.Strong:               {"**", "**"},
	ast.StrongEmphasis:       {"***", "***"},
	ast.Strikethrough:        {"~~", "~~"},
	ast.MathInline:           {"«", "»"},
	ast.Parenthesis:          {"(", ")"},
	ast.Braces:               {"{", "}"},
	ast.Brackets:             {"[", "]"},
	ast.Sum:                  {"sum[", "]"},
	ast.Product:              {"prod[", "]"},
	ast.Integral:             {"int[", "]"},
	ast.SquareRoot:           {"sqrt[", "]"},
	ast.SubscriptBracketed:   {"_[", "]"},
	ast.SuperscriptBracketed: {"^[", "]"},
}

var jdAligns = map[ast.Alignment]string{
	ast.Left: "---", ast.Center: ":---:", ast.Right: "---:",
}

// Emphasis kinds and the width of their delimiters. Each can be written with
// "*" or "_".
var emphasisWidth = map[ast.Kind]int{
	ast.Emphasis: 1, ast.Strong: 2, ast.StrongEmphasis: 3,
}

var emphasisGlyphs = [2]rune{'*', '_'}

// Emits canonical jotdown source. Parsing the output again yields the same
// tree, so emitting it again yields the same text.
type jdCodec struct {
	*writer
	// Text just outside the node list about to be emitted by nodes, when it
	// is not in the output buffer: the delimiter glyph of an enclosing
	// emphasis.
	before, after rune
}

func (c *jdCodec) nodes(ns []*ast.Node) {
	before, after := c.before, c.after
	c.before, c.after = 0, 0
	for i := 0; i < len(ns); {
		if _, ok := emphasisWidth[ns[i].Kind]; !ok {
			c.node(ns[i])
			i++
			continue
		}
		j := i + 1
		for j < len(ns) && emphasisWidth[ns[j].Kind] > 0 {
			j++
		}
		prev := before
		if s := c.out.String(); s != "" {
			prev, _ = utf8.DecodeLastRuneInString(s)
		}
		next := after
		if j < len(ns) {
			next, _ = utf8.DecodeRuneInString(c.capture(func() { c.node(ns[j]) }))
		}
		c.emphasisRun(ns[i:j], prev, next)
		i = j
	}
}

// Writes adjacent emphasis nodes with alternating glyphs, so that no two
// delimiters read back as a longer one. Of the two alternations, the first
// in which every delimiter fits its surroundings is used.
func (c *jdCodec) emphasisRun(run []*ast.Node, prev, next rune) {
	var fallback []string
	for start := range emphasisGlyphs {
		glyph := func(k int) rune { return emphasisGlyphs[(start+k)%2] }
		out := make([]string, len(run))
		fits := true
		for k, n := range run {
			g := glyph(k)
			before, after := prev, next
			if k > 0 {
				before = glyph(k - 1)
			}
			if k < len(run)-1 {
				after = glyph(k + 1)
			}
			inner := c.capture(func() {
				if c.enter(n) {
					c.before, c.after = g, g
					c.nodes(n.Children)
				}
			})
			fits = fits && delimsFit(g, before, inner, after)
			delim := strings.Repeat(string(g), emphasisWidth[n.Kind])
			out[k] = delim + inner + delim
		}
		if fits {
			c.str(out...)
			return
		}
		if fallback == nil {
			fallback = out
		}
	}
	c.str(fallback...)
}

// Reports whether delimiters made of g can enclose inner between prev and
// next: no neighbor is the same glyph, and an "_" delimiter does not sit
// inside a word.
func delimsFit(g, prev rune, inner string, next rune) bool {
	first, _ := utf8.DecodeRuneInString(inner)
	last, _ := utf8.DecodeLastRuneInString(inner)
	if prev == g || first == g || last == g || next == g {
		return false
	}
	return g != '_' ||
		!(isWordRune(prev) && isWordRune(first)) && !(isWordRune(last) && isWordRune(next))
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Emits math nodes separated by spaces, except around newlines.
func (c *jdCodec) math(ns []*ast.Node) {
	for i, n := range ns {
		if i > 0 && n.Kind != ast.Newline && ns[i-1].Kind != ast.Newline {
			c.str(" ")
		}
		c.node(n)
	}
}

func (c *jdCodec) node(n *ast.Node) {
	if !c.enter(n) {
		return
	}
	switch n.Kind {
	case ast.Document:
		c.document(n)
	case ast.Heading:
		c.str(strings.Repeat("#", n.Level), " ")
		for i, line := range n.Children {
			if i > 0 {
				c.str(" ")
			}
			c.node(line)
		}
	case ast.HorizontalRule:
		c.str("---")
	case ast.UnorderedList, ast.OrderedList, ast.ChecklistList:
		c.list(n, 0)
	case ast.ListItem, ast.ChecklistItem:
		c.item(n, "-", 0)
	case ast.ReferenceList:
		for i, item := range n.Children {
			if i > 0 {
				c.str("\n")
			}
			c.node(item)
		}
	case ast.ReferenceItem:
		c.printf("[%s]: ", n.Dest)
		c.nodes(n.Children)
	case ast.Paragraph:
		for i, line := range n.Children {
			if i > 0 {
				c.str("\n")
			}
			c.node(line)
		}
	case ast.Line, ast.TableHeaderCell, ast.TableCell:
		c.nodes(n.Children)
	case ast.CodeBlock:
		c.str("```", n.Info, "\n")
		for _, line := range n.Children {
			c.str(line.Text, "\n")
		}
		c.str("```")
	case ast.MathBlock:
		c.str("«««\n")
		c.math(n.Children)
		c.str("\n»»»")
	case ast.Blockquote:
		c.blockquote(n, 1)
	case ast.Table:
		c.table(n)
	case ast.TableRow:
		c.str("|")
		for _, cell := range n.Children {
			c.str(" ")
			c.node(cell)
			c.str(" |")
		}
	case ast.Link:
		c.str("[")
		c.nodes(n.Children)
		c.printf("](%s)", n.Dest)
	case ast.ReferenceLink:
		c.str("[")
		c.nodes(n.Children)
		c.printf("][%s]", n.Dest)
	case ast.Content:
		c.str("![")
		c.nodes(n.Children)
		c.str("](", n.Dest)
		if len(n.Caption) > 0 {
			c.str(` "`)
			c.nodes(n.Caption)
			c.str(`"`)
		}
		c.str(")")
	case ast.PlainText:
		c.str(escapeJD(n.Text))
	case ast.CodeSpan:
		c.str("`", ast.TextContent(n.Children...), "`")
	case ast.ImplicitLink, ast.ImplicitEmail, ast.Operator, ast.Newline:
		c.str(n.Text)
	case ast.Identifier, ast.Number:
		c.str(n.Text)
		c.nodes(n.Children)
	case ast.Subscript:
		c.str("_", n.Text)
	case ast.Superscript:
		c.str("^", n.Text)
	case ast.Comment:
		c.str("#", n.Text, "#")
	default:
		delims, ok := jdDelims[n.Kind]
		if !ok {
			panic(fmt.Sprintf("unhandled node kind %v", n.Kind))
		}
		c.str(delims[0])
		if n.Kind.IsMath() || n.Kind == ast.MathInline {
			c.math(n.Children)
		} else {
			c.nodes(n.Children)
		}
		c.str(delims[1])
	}
}

// Emits the blocks separated by blank lines, followed by the reference
// definitions.
func (c *jdCodec) document(n *ast.Node) {
	written := false
	for _, block := range n.Children {
		if block.Kind.IsList() && blankList(block) {
			continue
		}
		if written {
			c.str("\n\n")
		}
		c.node(block)
		written = true
	}
	if defs := c.referenceList(); len(defs.Children) > 0 {
		if written {
			c.str("\n\n")
		}
		c.node(defs)
	}
	c.str("\n")
}

func (c *jdCodec) list(n *ast.Node, depth int) {
	value := n.Start
	written := false
	for _, item := range n.Children {
		if item.Kind.IsList() && blankList(item) || !item.Kind.IsList() && blankItem(item) {
			continue
		}
		if written {
			c.str("\n")
		}
		written = true
		if item.Kind.IsList() {
			c.enter(item)
			c.list(item, depth+1)
			continue
		}
		var marker string
		switch n.Kind {
		case ast.OrderedList:
			marker = numeral.Format(n.Style, value) + "."
			value++
		case ast.ChecklistList:
			marker = "- [ ]"
			if item.Checked {
				marker = "- [x]"
			}
		default:
			marker = "-"
		}
		c.item(item, marker, depth)
	}
}

func (c *jdCodec) item(n *ast.Node, marker string, depth int) {
	inline, nested := splitItem(n)
	c.str(strings.Repeat("\t", depth), marker, " ")
	c.nodes(inline)
	for _, l := range nested {
		if blankList(l) {
			continue
		}
		c.str("\n")
		c.enter(l)
		c.list(l, depth+1)
	}
}

// Items without content are dropped: a lone "- " reads back as a rule, or as
// the underline of a heading when it ends a list.
func blankItem(n *ast.Node) bool {
	inline, nested := splitItem(n)
	if len(inline) > 0 {
		return false
	}
	for _, l := range nested {
		if !blankList(l) {
			return false
		}
	}
	return true
}

func blankList(n *ast.Node) bool {
	for _, item := range n.Children {
		if item.Kind.IsList() && !blankList(item) || !item.Kind.IsList() && !blankItem(item) {
			return false
		}
	}
	return true
}

func (c *jdCodec) blockquote(n *ast.Node, depth int) {
	for i, child := range n.Children {
		if i > 0 {
			c.str("\n")
		}
		if child.Kind == ast.Blockquote {
			c.enter(child)
			c.blockquote(child, depth+1)
			continue
		}
		c.str(strings.Repeat(">", depth), " ")
		c.node(child)
	}
}

func (c *jdCodec) table(n *ast.Node) {
	for i, row := range n.Children {
		if i > 0 {
			c.str("\n")
		}
		c.node(row)
		if i == 0 {
			c.str("\n|")
			for _, a := range n.Aligns {
				c.str(jdAligns[a], "|")
			}
		}
	}
	if len(n.Caption) > 0 {
		c.str("\n---\n")
		c.nodes(n.Caption)
	}
}

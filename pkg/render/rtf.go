package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/numeral"
)

// MaxRTFCodepoint is the largest code point RTF output can represent; \uN
// takes a signed 16-bit N.
const MaxRTFCodepoint = 0xFFFF

// EscapeRTF escapes s for RTF. ASCII other than "\", "{" and "}" is kept;
// characters in Windows-1252 are written as \'xx and all others up to
// MaxRTFCodepoint as \uN?.
func EscapeRTF(s string) (string, error) {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\tab `)
		case r < 0x80:
			sb.WriteRune(r)
		case r > MaxRTFCodepoint:
			return "", fmt.Errorf("character %U is beyond the RTF limit of %U", r, MaxRTFCodepoint)
		default:
			if b, ok := charmap.Windows1252.EncodeRune(r); ok {
				fmt.Fprintf(&sb, `\'%02x`, b)
			} else {
				fmt.Fprintf(&sb, `\uc1\u%d?`, int16(r))
			}
		}
	}
	return sb.String(), nil
}

type rtfCodec struct{ *writer }

const rtfBorders = `\brdrt\brdrs\brdrw10\brsp20
\brdrl\brdrs\brdrw10\brsp80
\brdrb\brdrs\brdrw10\brsp20
\brdrr\brdrs\brdrw10\brsp80
`

var rtfHeadings = [...]string{
	1: `\s2\sb240\sa120\keepn\f1\b\fs36`,
	2: `\s3\sb240\sa120\keepn\f1\b\fs30`,
	3: `\s4\sb240\sa120\keepn\f1\b\fs26`,
}

var rtfGroups = map[ast.Kind]string{
	ast.Emphasis:       `{\i `,
	ast.Strong:         `{\b `,
	ast.StrongEmphasis: `{\b\i `,
	ast.Strikethrough:  `{\strike `,
	ast.CodeSpan:       `{\f2 `,
}

var rtfFences = map[ast.Kind][2]string{
	ast.Parenthesis: {"(", ")"},
	ast.Braces:      {`\{ `, ` \}`},
	ast.SquareRoot:  {`\u8730?(`, ")"},
}

// Width of a table in twips.
const rtfTableWidth = 9000

func (c *rtfCodec) text(s string) {
	escaped, err := EscapeRTF(s)
	if err != nil {
		c.fail(&diag.Error{Type: diag.Encoding, Message: err.Error(),
			Context: diag.NewContext("", c.line, s)})
		return
	}
	c.str(escaped)
}

func (c *rtfCodec) nodes(ns []*ast.Node) {
	for _, n := range ns {
		c.node(n)
	}
}

func (c *rtfCodec) join(ns []*ast.Node, sep string) {
	for i, n := range ns {
		if i > 0 {
			c.str(sep)
		}
		c.node(n)
	}
}

func (c *rtfCodec) hyperlink(target string, text func()) {
	c.str(`{\field{\*\fldinst{HYPERLINK "`)
	c.text(target)
	c.str(`"}}{\fldrslt{\ul `)
	text()
	c.str("}}}")
}

func (c *rtfCodec) node(n *ast.Node) {
	if !c.enter(n) {
		return
	}
	switch n.Kind {
	case ast.Document:
		c.document(n)
	case ast.Heading:
		c.printf(`{\pard%s `, rtfHeadings[min(n.Level, 3)])
		c.join(n.Children, `\line `)
		c.str("\\par}\n")
	case ast.HorizontalRule:
		c.str("{\\pard\\brdrb\\brdrs\\brdrw10\\brsp20\\par}\n")
	case ast.UnorderedList, ast.OrderedList, ast.ChecklistList, ast.ReferenceList:
		c.list(n, 0)
	case ast.ListItem, ast.ChecklistItem, ast.ReferenceItem:
		// Only reached for items outside of a list.
		c.item(n, `\bullet`, 0)
	case ast.Paragraph:
		c.str(`{\pard\s1\sa180 `)
		c.join(n.Children, `\line `)
		c.str("\\par}\n")
	case ast.Line:
		c.nodes(n.Children)
	case ast.CodeBlock:
		c.str("{\\pard\\sa180\\li720\\ri720\\keep\\f2\n" + rtfBorders)
		for i, line := range n.Children {
			if i > 0 {
				c.str(`\line `)
			}
			c.text(line.Text)
		}
		c.str("\\par}\n")
	case ast.MathBlock:
		c.str("{\\pard\\sa180\\li720\\ri720\\keep\n" + rtfBorders)
		c.nodes(n.Children)
		c.str("\\par}\n")
	case ast.Blockquote:
		c.blockquote(n, 1)
	case ast.Table:
		c.table(n)
	case ast.TableRow, ast.TableHeaderCell, ast.TableCell:
		// Only reached for rows and cells outside of a table.
		c.nodes(n.Children)
	case ast.Link:
		c.hyperlink(c.link(n.Dest), func() { c.nodes(n.Children) })
	case ast.ReferenceLink:
		e, _, ok := c.reference(n)
		if !ok {
			return
		}
		if c.ctx.CitationStyle {
			c.nodes(n.Children)
			c.str(`{\super\chftn}{\footnote\pard\plain{\super\chftn} `)
			c.nodes(e.Content)
			c.str("}")
		} else {
			c.hyperlink(c.link(e.Target), func() { c.nodes(n.Children) })
		}
	case ast.ImplicitLink:
		c.hyperlink(n.Text, func() { c.text(n.Text) })
	case ast.ImplicitEmail:
		c.hyperlink("mailto:"+n.Text, func() { c.text(n.Text) })
	case ast.Content:
		text := ast.TextContent(n.Children...)
		if text == "" {
			text = n.Dest
		}
		c.hyperlink(n.Dest, func() { c.text(text) })
	case ast.PlainText, ast.Number:
		c.text(n.Text)
		c.nodes(n.Children)
	case ast.MathInline, ast.Brackets:
		c.nodes(n.Children)
	case ast.Identifier:
		c.str(`{\i `)
		c.text(n.Text)
		c.str("}")
		c.nodes(n.Children)
	case ast.Operator, ast.Comment:
		c.str(" ")
		c.text(n.Text)
		c.str(" ")
	case ast.Subscript:
		c.str(`{\sub `)
		c.text(n.Text)
		c.str("}")
	case ast.Superscript:
		c.str(`{\super `)
		c.text(n.Text)
		c.str("}")
	case ast.SubscriptBracketed:
		c.str(`{\sub `)
		c.nodes(n.Children)
		c.str("}")
	case ast.SuperscriptBracketed:
		c.str(`{\super `)
		c.nodes(n.Children)
		c.str("}")
	case ast.Newline:
		c.str(`\line `)
	case ast.Sum, ast.Product, ast.Integral:
		c.text(bigOperators[n.Kind])
		c.str(`{\sub `)
		c.node(child(n, 0))
		c.str(`}{\super `)
		c.node(child(n, 1))
		c.str("} ")
		c.nodes(rest(n, 2))
	case ast.Parenthesis, ast.Braces, ast.SquareRoot:
		f := rtfFences[n.Kind]
		c.str(f[0])
		c.nodes(n.Children)
		c.str(f[1])
	default:
		group, ok := rtfGroups[n.Kind]
		if !ok {
			panic(fmt.Sprintf("unhandled node kind %v", n.Kind))
		}
		c.str(group)
		c.nodes(n.Children)
		c.str("}")
	}
}

func (c *rtfCodec) document(n *ast.Node) {
	c.str("{\\rtf1\\ansi\\ansicpg1252\\deff0\\widowctrl\n")
	c.str(c.style(RTF))
	c.str("\n{\\info\n{\\title ")
	c.text(c.title())
	c.str("}\n")
	if c.ctx.Author != "" {
		c.str(`{\author `)
		c.text(c.ctx.Author)
		c.str("}\n")
	}
	if t := c.ctx.Created; !t.IsZero() {
		c.printf("{\\creatim\\yr%d\\mo%d\\dy%d\\hr%d\\min%d}\n",
			t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute())
	}
	c.str("}\n")
	c.nodes(n.Children)
	c.str("}")
}

func (c *rtfCodec) list(n *ast.Node, depth int) {
	value := n.Start
	for i, item := range n.Children {
		if item.Kind.IsList() {
			c.list(item, depth+1)
			continue
		}
		var marker string
		switch n.Kind {
		case ast.OrderedList:
			marker = numeral.Format(n.Style, value) + "."
			value++
		case ast.ReferenceList:
			marker = fmt.Sprintf("[%d]", i+1)
		case ast.ChecklistList:
			marker = `\u9744?`
			if item.Checked {
				marker = `\u9745?`
			}
		default:
			marker = `\bullet`
		}
		c.item(item, marker, depth)
	}
}

func (c *rtfCodec) item(n *ast.Node, marker string, depth int) {
	inline, nested := splitItem(n)
	c.printf(`{\pard\fi-360\li%d %s\tab `, 720*(depth+1), marker)
	c.nodes(inline)
	c.str("\\par}\n")
	for _, l := range nested {
		c.enter(l)
		c.list(l, depth+1)
	}
}

// Emits a blockquote as a run of paragraphs, one per stretch of lines
// between nested blockquotes, indented by depth.
func (c *rtfCodec) blockquote(n *ast.Node, depth int) {
	var lines []*ast.Node
	flush := func() {
		if len(lines) == 0 {
			return
		}
		c.printf("{\\pard\\sa180\\li%d\\ri720\\keep\\f1\n%s", 720*depth, rtfBorders)
		c.join(lines, `\line `)
		c.str("\\par}\n")
		lines = nil
	}
	for _, child := range n.Children {
		if child.Kind == ast.Blockquote {
			flush()
			c.enter(child)
			c.blockquote(child, depth+1)
		} else {
			lines = append(lines, child)
		}
	}
	flush()
}

var rtfAligns = map[ast.Alignment]string{
	ast.Left: `\ql`, ast.Center: `\qc`, ast.Right: `\qr`,
}

func (c *rtfCodec) table(n *ast.Node) {
	columns := max(len(n.Aligns), 1)
	for _, row := range n.Children {
		c.enter(row)
		c.str(`{\trowd\trgaph108`)
		for i := range columns {
			c.printf(`\cellx%d`, rtfTableWidth*(i+1)/columns)
		}
		c.str("\n")
		for _, cell := range row.Children {
			c.enter(cell)
			c.printf(`\pard\intbl%s `, rtfAligns[cell.Align])
			if cell.Kind == ast.TableHeaderCell {
				c.str(`{\b `)
				c.nodes(cell.Children)
				c.str("}")
			} else {
				c.nodes(cell.Children)
			}
			c.str(`\cell` + "\n")
		}
		c.str("\\row}\n")
	}
	if len(n.Caption) > 0 {
		c.str(`{\pard\qc\i `)
		c.nodes(n.Caption)
		c.str("\\par}\n")
	}
}

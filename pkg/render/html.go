package render

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/media"
)

var escapeHTML = strings.NewReplacer(
	"&", "&amp;", `"`, "&quot;", "'", "&#x27;", "<", "&lt;", ">", "&gt;",
).Replace

type htmlCodec struct {
	*writer
	// Heading ids already used in the document.
	ids map[string]bool
}

var htmlTags = map[ast.Kind][2]string{
	ast.Emphasis:             {"<em>", "</em>"},
	ast.Strong:               {"<strong>", "</strong>"},
	ast.StrongEmphasis:       {"<strong><em>", "</em></strong>"},
	ast.Strikethrough:        {"<del>", "</del>"},
	ast.CodeSpan:             {"<code>", "</code>"},
	ast.MathInline:           {`<span class="math">`, "</span>"},
	ast.TableRow:             {"<tr>", "</tr>"},
	ast.Parenthesis:          {"(", ")"},
	ast.Braces:               {"{ ", " }"},
	ast.SuperscriptBracketed: {"<sup>", "</sup>"},
	ast.SubscriptBracketed:   {"<sub>", "</sub>"},
}

var bigOperators = map[ast.Kind]string{
	ast.Sum:      "∑",
	ast.Product:  "∏",
	ast.Integral: "∫",
}

func (c *htmlCodec) nodes(ns []*ast.Node) {
	for _, n := range ns {
		c.node(n)
	}
}

// Emits ns separated by sep.
func (c *htmlCodec) join(ns []*ast.Node, sep string) {
	for i, n := range ns {
		if i > 0 {
			c.str(sep)
		}
		c.node(n)
	}
}

func (c *htmlCodec) node(n *ast.Node) {
	if !c.enter(n) {
		return
	}
	switch n.Kind {
	case ast.Document:
		c.document(n)
	case ast.Heading:
		inner := c.capture(func() { c.join(n.Children, "<br>") })
		c.printf(`<h%d id="%s">%s</h%d>`, n.Level, escapeHTML(c.headingID(inner)), inner, n.Level)
	case ast.HorizontalRule:
		c.str("<hr/>")
	case ast.UnorderedList, ast.OrderedList, ast.ChecklistList, ast.ReferenceList:
		c.list(n)
	case ast.ListItem, ast.ChecklistItem:
		if n.Kind == ast.ChecklistItem {
			class := "unchecked"
			if n.Checked {
				class = "checked"
			}
			c.printf(`<li class="%s">`, class)
		} else {
			c.str("<li>")
		}
		inline, nested := splitItem(n)
		c.str("<span>")
		c.nodes(inline)
		c.str("</span>")
		c.nodes(nested)
		c.str("</li>")
	case ast.ReferenceItem:
		c.printf(`<li><a id="%s"><span>`, escapeHTML(n.Dest))
		c.nodes(n.Children)
		c.str("</span></a></li>")
	case ast.Paragraph:
		c.str("<p>")
		c.join(n.Children, "<br>")
		c.str("</p>")
	case ast.Line:
		c.nodes(n.Children)
	case ast.CodeBlock:
		if n.Info != "" {
			c.printf(`<pre><code class="language-%s">`, escapeHTML(n.Info))
		} else {
			c.str(`<pre><code class="console">`)
		}
		for i, line := range n.Children {
			if i > 0 {
				c.str("\n")
			}
			c.str(escapeHTML(line.Text))
		}
		c.str("</code></pre>")
	case ast.MathBlock:
		c.str(`<div class="math">`)
		c.nodes(n.Children)
		c.str("</div>")
	case ast.Blockquote:
		c.str("<blockquote>")
		c.join(n.Children, "<br>")
		c.str("</blockquote>")
	case ast.Table:
		c.table(n)
	case ast.TableHeaderCell, ast.TableCell:
		tag := "td"
		if n.Kind == ast.TableHeaderCell {
			tag = "th"
		}
		c.printf(`<%s style="text-align: %s;">`, tag, n.Align)
		c.nodes(n.Children)
		c.printf("</%s>", tag)
	case ast.Link:
		c.printf(`<a href="%s">`, escapeHTML(c.link(n.Dest)))
		c.nodes(n.Children)
		c.str("</a>")
	case ast.ReferenceLink:
		e, ordinal, ok := c.reference(n)
		if !ok {
			return
		}
		if c.ctx.CitationStyle {
			c.nodes(n.Children)
			c.printf(`<cite>[<a href="#%s" class="reference">%d</a>]</cite>`,
				escapeHTML(n.Dest), ordinal)
		} else {
			c.printf(`<a href="%s">`, escapeHTML(c.link(e.Target)))
			c.nodes(n.Children)
			c.str("</a>")
		}
	case ast.ImplicitLink:
		c.printf(`<a href="%s" class="implicit">%s</a>`, escapeHTML(n.Text), escapeHTML(n.Text))
	case ast.ImplicitEmail:
		c.printf(`<a href="mailto:%s" class="implicit">%s</a>`, escapeHTML(n.Text), escapeHTML(n.Text))
	case ast.Content:
		c.content(n)
	case ast.PlainText, ast.Comment:
		c.str(escapeHTML(n.Text))
	case ast.Identifier:
		c.printf("<em>%s</em>", escapeHTML(n.Text))
		c.nodes(n.Children)
	case ast.Number:
		c.str(escapeHTML(n.Text))
		c.nodes(n.Children)
	case ast.Operator:
		c.printf(" %s ", escapeHTML(n.Text))
	case ast.Subscript:
		c.printf("<sub>%s</sub>", escapeHTML(n.Text))
	case ast.Superscript:
		c.printf("<sup>%s</sup>", escapeHTML(n.Text))
	case ast.Newline:
		c.str("<br>")
	case ast.Brackets:
		c.nodes(n.Children)
	case ast.Sum, ast.Product, ast.Integral:
		m := &mathmlCodec{c.writer}
		c.printf("<math><munderover><mo>%s</mo><mrow>", bigOperators[n.Kind])
		m.node(child(n, 0))
		c.str("</mrow><mrow>")
		m.node(child(n, 1))
		c.str("</mrow></munderover></math>")
		c.nodes(rest(n, 2))
	case ast.SquareRoot:
		m := &mathmlCodec{c.writer}
		c.str("<math><msqrt>")
		m.nodes(n.Children)
		c.str("</msqrt></math>")
	default:
		tags, ok := htmlTags[n.Kind]
		if !ok {
			panic(fmt.Sprintf("unhandled node kind %v", n.Kind))
		}
		c.str(tags[0])
		c.nodes(n.Children)
		c.str(tags[1])
	}
}

func (c *htmlCodec) document(n *ast.Node) {
	c.printf(`<!DOCTYPE html><html><head><title>%s</title><meta charset="UTF-8">`,
		escapeHTML(c.title()))
	if c.ctx.Author != "" {
		c.printf(`<meta name="author" content="%s">`, escapeHTML(c.ctx.Author))
	}
	if c.ctx.EmbedStylesheet {
		c.printf("<style>%s</style>", c.style(HTML))
	} else if c.ctx.Stylesheet != "" {
		c.printf(`<link rel="stylesheet" href="%s"/>`, escapeHTML(c.ctx.Stylesheet))
	}
	c.str("</head><body>")
	c.join(n.Children, "\n")
	if c.ctx.CitationStyle {
		c.str("<footer>")
		c.node(c.referenceList())
		c.str("</footer>")
	}
	c.str("</body></html>")
}

func (c *htmlCodec) list(n *ast.Node) {
	var end string
	switch n.Kind {
	case ast.UnorderedList:
		c.str("<ul>")
		end = "</ul>"
	case ast.ChecklistList:
		c.str(`<ul class="checklist">`)
		end = "</ul>"
	case ast.OrderedList:
		c.printf(`<ol start="%d" type="%s">`, n.Start, n.Style)
		end = "</ol>"
	case ast.ReferenceList:
		c.str(`<ol class="references">`)
		end = "</ol>"
	}
	for _, item := range n.Children {
		if item.Kind.IsList() {
			// A list nested without a parent item.
			c.str("<li>")
			c.node(item)
			c.str("</li>")
		} else {
			c.node(item)
		}
	}
	c.str(end)
}

func (c *htmlCodec) table(n *ast.Node) {
	c.str("<table>")
	if len(n.Caption) > 0 {
		c.str("<caption>")
		c.nodes(n.Caption)
		c.str("</caption>")
	}
	if len(n.Children) > 0 {
		c.str("<thead>")
		c.node(n.Children[0])
		c.str("</thead><tbody>")
		c.nodes(n.Children[1:])
		c.str("</tbody>")
	}
	c.str("</table>")
}

// Emits embedded content with the element matching its media type, in a
// figure if it has a title.
func (c *htmlCodec) content(n *ast.Node) {
	if len(n.Caption) > 0 {
		c.str("<figure>")
		defer func() {
			c.str("<figcaption>")
			c.nodes(n.Caption)
			c.str("</figcaption></figure>")
		}()
	}
	src := escapeHTML(n.Dest)
	alt := escapeHTML(ast.TextContent(n.Children...))
	switch media.Classify(n.Dest) {
	case media.Image:
		c.printf(`<img src="%s" title="%s" alt="%s">`,
			src, escapeHTML(ast.TextContent(n.Caption...)), alt)
	case media.Audio:
		c.printf(`<audio src="%s" controls>%s</audio>`, src, alt)
	case media.Video:
		c.printf(`<video src="%s" controls>%s</video>`, src, alt)
	case media.Flash:
		c.printf(`<object data="%s" type="application/x-shockwave-flash"></object>`, src)
	default:
		c.printf(`<object data="%s"></object>`, src)
	}
}

// Derives a heading id from the text content of the heading's HTML, with
// whitespace replaced by "-". An id already in use gets "_" appended until
// it is unique.
func (c *htmlCodec) headingID(inner string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(inner))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.Write(z.Text())
		}
	}
	id := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(sb.String()))
	for c.ids[id] {
		id += "_"
	}
	c.ids[id] = true
	return id
}

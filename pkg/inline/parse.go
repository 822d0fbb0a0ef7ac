package inline

import (
	"fmt"
	"strings"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/math"
	"src.jotdown.dev/pkg/refs"
)

// Node kinds built from delimiter tokens.
var delimKinds = map[Type]ast.Kind{
	CodeDelim:           ast.CodeSpan,
	StrongEmphasisDelim: ast.StrongEmphasis,
	StrongDelim:         ast.Strong,
	EmphasisDelim:       ast.Emphasis,
	StrikethroughDelim:  ast.Strikethrough,
	MathOpen:            ast.MathInline,
	MathClose:           ast.MathInline,
}

var tagNames = map[ast.Kind]string{
	ast.CodeSpan:       "inline code (`)",
	ast.StrongEmphasis: "bold italics (***)",
	ast.Strong:         "bold (**)",
	ast.Emphasis:       "italics (*)",
	ast.Strikethrough:  "strikethrough (~~)",
	ast.MathInline:     "inline math («»)",
}

// TagName returns the human-readable name of a delimiter token type.
func TagName(t Type) string {
	if k, ok := delimKinds[t]; ok {
		return tagNames[k]
	}
	return t.String()
}

type frame struct {
	node *ast.Node
	line int
}

type parser struct {
	lexer *Lexer
	reg   *refs.Registry
	line  int
	// The bottom frame is an inert root that collects the result.
	stack []frame
}

// Parse parses a line of inline text. Reference definitions are added to
// reg and citations recorded in it; reg may be nil if the text cannot
// contain references.
func Parse(line int, text string, reg *refs.Registry) ([]*ast.Node, error) {
	p := &parser{
		lexer: NewLexer(line, text),
		reg:   reg,
		line:  line,
		stack: []frame{{node: ast.New(ast.Line), line: line}},
	}
	for {
		t, err := p.lexer.Next()
		if err != nil {
			return nil, err
		}
		if t.Type == EOF {
			break
		}
		if err := p.token(t); err != nil {
			return nil, err
		}
	}
	if len(p.stack) > 1 {
		top := p.top()
		return nil, &diag.Error{
			Type:    diag.Tag,
			Message: "missing closing tag for " + tagNames[top.node.Kind],
			Context: diag.NewContext("", top.line, text),
			Tag:     tagNames[top.node.Kind],
		}
	}
	return p.stack[0].node.Children, nil
}

func (p *parser) top() *frame { return &p.stack[len(p.stack)-1] }

func (p *parser) push(k ast.Kind) {
	n := ast.New(k)
	n.Line = p.line
	p.stack = append(p.stack, frame{node: n, line: p.line})
}

func (p *parser) pop() {
	n := p.top().node
	p.stack = p.stack[:len(p.stack)-1]
	p.top().node.Append(n)
}

func (p *parser) appendNode(n *ast.Node) {
	p.top().node.Append(n)
}

func (p *parser) token(t Token) error {
	switch t.Type {
	case CodeDelim, StrongEmphasisDelim, StrongDelim, EmphasisDelim, StrikethroughDelim:
		k := delimKinds[t.Type]
		if len(p.stack) > 1 && p.top().node.Kind == k {
			p.pop()
		} else {
			p.push(k)
		}
	case MathOpen:
		p.push(ast.MathInline)
	case MathClose:
		if len(p.stack) == 1 {
			err := p.tagError(t, "missing opening tag for %s", tagNames[ast.MathInline])
			err.Tag = tagNames[ast.MathInline]
			return err
		}
		if top := p.top().node.Kind; top != ast.MathInline {
			err := p.tagError(t, "expected closing tag for %s, found closing tag for %s",
				tagNames[top], tagNames[ast.MathInline])
			err.Tag, err.Found = tagNames[top], tagNames[ast.MathInline]
			return err
		}
		p.pop()
	case Code:
		if t.Groups[0] != "" {
			p.appendNode(ast.NewText(ast.PlainText, t.Groups[0]))
		}
	case Math:
		nodes, err := math.Parse(t.Line, t.Groups[0])
		if err != nil {
			return err
		}
		p.top().node.Append(nodes...)
	case PlainText:
		if last := p.top().node.LastChild(); last != nil && last.Kind == ast.PlainText {
			last.Text += t.Groups[0]
		} else {
			p.appendNode(ast.NewText(ast.PlainText, t.Groups[0]))
		}
	case ImplicitLink:
		p.appendNode(&ast.Node{Kind: ast.ImplicitLink, Text: t.Groups[0], Line: t.Line})
	case ImplicitEmail:
		p.appendNode(&ast.Node{Kind: ast.ImplicitEmail, Text: t.Groups[0], Line: t.Line})
	case Link:
		children, err := Parse(t.Line, t.Groups[0], p.reg)
		if err != nil {
			return err
		}
		p.appendNode(&ast.Node{Kind: ast.Link, Children: children,
			Dest: strings.TrimSpace(t.Groups[1]), Line: t.Line})
	case ReferenceLink:
		children, err := Parse(t.Line, t.Groups[0], p.reg)
		if err != nil {
			return err
		}
		key := t.Groups[1]
		if p.reg != nil {
			p.reg.Cite(key, t.Line)
		}
		p.appendNode(&ast.Node{Kind: ast.ReferenceLink, Children: children,
			Dest: key, Line: t.Line})
	case ReferenceDef:
		key, target := t.Groups[0], strings.TrimSpace(t.Groups[1])
		content, err := Parse(t.Line, target, p.reg)
		if err != nil {
			return err
		}
		if p.reg != nil {
			p.reg.Define(key, content, target, t.Line)
		}
	case Image:
		alt, err := Parse(t.Line, t.Groups[0], p.reg)
		if err != nil {
			return err
		}
		var title []*ast.Node
		if t.Groups[2] != "" {
			title, err = Parse(t.Line, t.Groups[2], p.reg)
			if err != nil {
				return err
			}
		}
		p.appendNode(&ast.Node{Kind: ast.Content, Children: alt, Caption: title,
			Dest: t.Groups[1], Line: t.Line})
	default:
		panic(fmt.Sprintf("unhandled token type %v", t.Type))
	}
	return nil
}

func (p *parser) tagError(t Token, format string, args ...any) *diag.Error {
	return &diag.Error{
		Type:    diag.Tag,
		Message: fmt.Sprintf(format, args...),
		Context: diag.NewContext("", t.Line, p.lexer.text[max(0, p.lexer.pos-len(t.Text)):]),
	}
}

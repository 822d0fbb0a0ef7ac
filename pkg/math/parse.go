package math

import (
	"fmt"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/mathsym"
)

var openKinds = map[Type]ast.Kind{
	SuperscriptOpen: ast.SuperscriptBracketed,
	SubscriptOpen:   ast.SubscriptBracketed,
	SumOpen:         ast.Sum,
	ProductOpen:     ast.Product,
	IntegralOpen:    ast.Integral,
	SquareRootOpen:  ast.SquareRoot,
	ParenOpen:       ast.Parenthesis,
	BraceOpen:       ast.Braces,
	BracketOpen:     ast.Brackets,
}

var closeKinds = map[Type]ast.Kind{
	ParenClose:   ast.Parenthesis,
	BraceClose:   ast.Braces,
	BracketClose: ast.Brackets,
}

var leafKinds = map[Type]ast.Kind{
	Comment:     ast.Comment,
	Subscript:   ast.Subscript,
	Superscript: ast.Superscript,
	Number:      ast.Number,
	Operator:    ast.Operator,
	Identifier:  ast.Identifier,
	Newline:     ast.Newline,
}

// Kinds that are closed by "]" in addition to Brackets.
var bracketClosable = map[ast.Kind]bool{
	ast.SubscriptBracketed:   true,
	ast.SuperscriptBracketed: true,
	ast.Sum:                  true,
	ast.Product:              true,
	ast.Integral:             true,
	ast.SquareRoot:           true,
}

// Kinds whose first two children are the lower and upper bound.
var bounded = map[ast.Kind]bool{
	ast.Sum:      true,
	ast.Product:  true,
	ast.Integral: true,
}

var tagNames = map[ast.Kind]string{
	ast.SuperscriptBracketed: "superscript (^[)",
	ast.SubscriptBracketed:   "subscript (_[)",
	ast.Sum:                  "sum (sum[)",
	ast.Product:              "product (prod[)",
	ast.Integral:             "integral (int[)",
	ast.SquareRoot:           "square root (sqrt[)",
	ast.Parenthesis:          "parenthesis (()",
	ast.Braces:               "braces ({)",
	ast.Brackets:             "brackets ([)",
}

// TagName returns the human-readable name of a bracketed math construct.
func TagName(k ast.Kind) string { return tagNames[k] }

type frame struct {
	node *ast.Node
	line int
}

// Parse substitutes mnemonics in text with mathsym.Substitute and parses the
// result, returning the top-level math nodes. The text starts on the given
// line.
func Parse(line int, text string) ([]*ast.Node, error) {
	src := mathsym.Substitute(text)
	lexer := NewLexer(line, src)
	stack := []frame{{node: ast.New(ast.MathInline), line: line}}
	top := func() *ast.Node { return stack[len(stack)-1].node }
	for {
		t, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case EOF:
			if len(stack) > 1 {
				f := stack[len(stack)-1]
				name := tagNames[f.node.Kind]
				return nil, &diag.Error{
					Type:    diag.Tag,
					Message: "missing closing tag for " + name,
					Context: diag.NewContext("", f.line, text),
					Tag:     name,
				}
			}
			return stack[0].node.Children, nil
		case SuperscriptOpen, SubscriptOpen, SumOpen, ProductOpen, IntegralOpen,
			SquareRootOpen, ParenOpen, BraceOpen, BracketOpen:
			n := ast.New(openKinds[t.Type])
			n.Line = t.Line
			stack = append(stack, frame{n, t.Line})
		case ParenClose, BraceClose, BracketClose:
			want := closeKinds[t.Type]
			if len(stack) == 1 {
				return nil, &diag.Error{
					Type:    diag.Tag,
					Message: "missing opening tag for " + tagNames[want],
					Context: diag.NewContext("", t.Line, text),
					Tag:     tagNames[want],
				}
			}
			k := top().Kind
			if k != want && !(want == ast.Brackets && bracketClosable[k]) {
				return nil, &diag.Error{
					Type: diag.Tag,
					Message: fmt.Sprintf("expected closing tag for %s, found closing tag for %s",
						tagNames[k], tagNames[want]),
					Context: diag.NewContext("", t.Line, text),
					Tag:     tagNames[k],
					Found:   tagNames[want],
				}
			}
			n := top()
			if bounded[k] && len(n.Children) < 2 {
				return nil, &diag.Error{
					Type: diag.Notation,
					Message: fmt.Sprintf("%s needs a lower and an upper bound, found %d",
						tagNames[k], len(n.Children)),
					Context: diag.NewContext("", stack[len(stack)-1].line, text),
					Tag:     tagNames[k],
				}
			}
			stack = stack[:len(stack)-1]
			appendMath(top(), n)
		default:
			n := ast.NewText(leafKinds[t.Type], t.Text)
			n.Line = t.Line
			appendMath(top(), n)
		}
	}
}

// Appends n to parent. A script directly following an identifier or number
// becomes a child of it.
func appendMath(parent, n *ast.Node) {
	if isScript(n.Kind) {
		if base := parent.LastChild(); base != nil &&
			(base.Kind == ast.Identifier || base.Kind == ast.Number) {
			base.Append(n)
			return
		}
	}
	parent.Append(n)
}

func isScript(k ast.Kind) bool {
	switch k {
	case ast.Subscript, ast.Superscript, ast.SubscriptBracketed, ast.SuperscriptBracketed:
		return true
	}
	return false
}

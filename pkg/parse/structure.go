package parse

import (
	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/block"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/inline"
)

var listKinds = map[block.ListType]ast.Kind{
	block.Unordered: ast.UnorderedList,
	block.Ordered:   ast.OrderedList,
	block.Checklist: ast.ChecklistList,
}

// A container that is still receiving children, and its nesting level.
type open struct {
	node  *ast.Node
	level int
}

// Builds nested lists from the indentation of each line. A list nested
// deeper than its parent becomes the last child of the parent's last item.
func (ps *parser) list(b block.Block) (*ast.Node, error) {
	stack := []open{}
	top := func() *open { return &stack[len(stack)-1] }
	closeTop := func() {
		closed := stack[len(stack)-1].node
		stack = stack[:len(stack)-1]
		parent := top().node
		if last := parent.LastChild(); last != nil {
			last.Append(closed)
		} else {
			parent.Append(closed)
		}
	}

	for i, text := range b.Lines {
		line := b.Line + i
		item, ok := block.ParseItem(text)
		if !ok {
			return nil, &diag.Error{
				Type:    diag.List,
				Message: "line is not a list item",
				Context: diag.NewContext("", line, text),
			}
		}
		for len(stack) == 0 || item.Indent > top().level {
			level := 0
			if len(stack) > 0 {
				level = top().level + 1
			}
			l := &ast.Node{Kind: listKinds[item.Type], Line: line}
			if item.Type == block.Ordered {
				l.Style, l.Start = item.Numeral.Style, item.Numeral.Value
			}
			stack = append(stack, open{l, level})
		}
		for item.Indent < top().level {
			closeTop()
		}

		children, err := inline.Parse(line, item.Text, ps.reg)
		if err != nil {
			return nil, err
		}
		n := &ast.Node{Kind: ast.ListItem, Children: children, Line: line}
		if top().node.Kind == ast.ChecklistList {
			n.Kind, n.Checked = ast.ChecklistItem, item.Checked
		}
		top().node.Append(n)
	}
	for len(stack) > 1 {
		closeTop()
	}
	return stack[0].node, nil
}

// Builds nested blockquotes from the number of ">" markers on each line. A
// nested blockquote is a sibling of the lines around it.
func (ps *parser) blockquote(b block.Block) (*ast.Node, error) {
	stack := []open{{&ast.Node{Kind: ast.Blockquote, Line: b.Line}, 1}}
	top := func() *open { return &stack[len(stack)-1] }
	closeTop := func() {
		closed := stack[len(stack)-1].node
		stack = stack[:len(stack)-1]
		top().node.Append(closed)
	}

	for i, text := range b.Lines {
		line := b.Line + i
		level, content := block.QuoteLevel(text)
		for level > top().level {
			stack = append(stack, open{&ast.Node{Kind: ast.Blockquote, Line: line}, top().level + 1})
		}
		for level < top().level {
			closeTop()
		}
		n, err := ps.line(line, content)
		if err != nil {
			return nil, err
		}
		top().node.Append(n)
	}
	for len(stack) > 1 {
		closeTop()
	}
	return stack[0].node, nil
}

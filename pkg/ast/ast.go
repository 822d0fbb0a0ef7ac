// Package ast defines the syntax tree of a jotdown document.
//
// Every element of the tree is a *Node. The Kind of a node determines which
// of its attribute fields are meaningful; all others are left at their zero
// values.
package ast

import (
	"fmt"
	"iter"
	"strings"

	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/numeral"
)

// Kind is the kind of a Node.
type Kind uint8

// Possible values of Kind.
const (
	Document Kind = iota

	// Blocks.
	Heading
	HorizontalRule
	UnorderedList
	OrderedList
	ChecklistList
	ListItem
	ChecklistItem
	ReferenceList
	ReferenceItem
	Paragraph
	// One source line of inline content inside a paragraph, heading or
	// blockquote.
	Line
	CodeBlock
	MathBlock
	Blockquote
	Table
	TableRow
	TableHeaderCell
	TableCell

	// Inline text.
	Link
	ReferenceLink
	ImplicitLink
	ImplicitEmail
	Content
	PlainText
	CodeSpan
	Emphasis
	Strong
	StrongEmphasis
	Strikethrough
	MathInline

	// Math.
	Parenthesis
	Braces
	Brackets
	Sum
	Product
	Integral
	SquareRoot
	SuperscriptBracketed
	SubscriptBracketed
	Subscript
	Superscript
	Identifier
	Operator
	Comment
	Number
	Newline

	numKinds
)

var kindNames = [...]string{
	Document:             "Document",
	Heading:              "Heading",
	HorizontalRule:       "HorizontalRule",
	UnorderedList:        "UnorderedList",
	OrderedList:          "OrderedList",
	ChecklistList:        "ChecklistList",
	ListItem:             "ListItem",
	ChecklistItem:        "ChecklistItem",
	ReferenceList:        "ReferenceList",
	ReferenceItem:        "ReferenceItem",
	Paragraph:            "Paragraph",
	Line:                 "Line",
	CodeBlock:            "CodeBlock",
	MathBlock:            "MathBlock",
	Blockquote:           "Blockquote",
	Table:                "Table",
	TableRow:             "TableRow",
	TableHeaderCell:      "TableHeaderCell",
	TableCell:            "TableCell",
	Link:                 "Link",
	ReferenceLink:        "ReferenceLink",
	ImplicitLink:         "ImplicitLink",
	ImplicitEmail:        "ImplicitEmail",
	Content:              "Content",
	PlainText:            "PlainText",
	CodeSpan:             "CodeSpan",
	Emphasis:             "Emphasis",
	Strong:               "Strong",
	StrongEmphasis:       "StrongEmphasis",
	Strikethrough:        "Strikethrough",
	MathInline:           "MathInline",
	Parenthesis:          "Parenthesis",
	Braces:               "Braces",
	Brackets:             "Brackets",
	Sum:                  "Sum",
	Product:              "Product",
	Integral:             "Integral",
	SquareRoot:           "SquareRoot",
	SuperscriptBracketed: "SuperscriptBracketed",
	SubscriptBracketed:   "SubscriptBracketed",
	Subscript:            "Subscript",
	Superscript:          "Superscript",
	Identifier:           "Identifier",
	Operator:             "Operator",
	Comment:              "Comment",
	Number:               "Number",
	Newline:              "Newline",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsMath reports whether nodes of kind k belong to the math micro-language.
func (k Kind) IsMath() bool { return Parenthesis <= k && k <= Newline }

// IsList reports whether k is one of the list kinds.
func (k Kind) IsList() bool {
	return k == UnorderedList || k == OrderedList || k == ChecklistList
}

// HasText reports whether nodes of kind k carry their content in Text.
func (k Kind) HasText() bool {
	switch k {
	case PlainText, ImplicitLink, ImplicitEmail,
		Subscript, Superscript, Identifier, Operator, Comment, Number, Newline:
		return true
	}
	return false
}

// Alignment is the alignment of a table column.
type Alignment uint8

// Possible values of Alignment.
const (
	Left Alignment = iota
	Center
	Right
)

func (a Alignment) String() string {
	switch a {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Alignment(%d)", a)
}

// Node is a node of the syntax tree.
type Node struct {
	Kind     Kind
	Children []*Node
	// Source line the node starts on, 0 if unknown.
	Line int

	// Leaf payload; see Kind.HasText.
	Text string
	// Target of a Link, key of a ReferenceLink or ReferenceItem, source of a
	// Content.
	Dest string
	// Heading level, between 1 and 6.
	Level int
	// Numbering of an OrderedList.
	Style numeral.Style
	Start int
	// Alignment of a TableCell or TableHeaderCell.
	Align Alignment
	// Column alignments of a Table.
	Aligns []Alignment
	// Caption of a Table, title of a Content.
	Caption []*Node
	// State of a ChecklistItem.
	Checked bool
	// Language tag of a CodeBlock.
	Info string
}

// MaxHeadingLevel is the deepest heading level.
const MaxHeadingLevel = 6

// New creates a Node with the given kind and children.
func New(k Kind, children ...*Node) *Node {
	return &Node{Kind: k, Children: children}
}

// NewText creates a leaf Node with the given kind and text.
func NewText(k Kind, text string) *Node {
	return &Node{Kind: k, Text: text}
}

// NewHeading creates a Heading, clamping level to [1, MaxHeadingLevel].
func NewHeading(level int, children ...*Node) *Node {
	level = min(max(level, 1), MaxHeadingLevel)
	return &Node{Kind: Heading, Level: level, Children: children}
}

// NewTableRow creates a TableRow from cells, which must number exactly
// columns.
func NewTableRow(line, columns int, cells ...*Node) (*Node, error) {
	if len(cells) != columns {
		return nil, diag.Newf(diag.Structure, diag.Context{Line: line},
			"table row has %d cells, want %d", len(cells), columns)
	}
	return &Node{Kind: TableRow, Line: line, Children: cells}, nil
}

// Append appends children to n.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// LastChild returns the last child of n, or nil if n has no children.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// All returns an iterator over n and all its descendants in pre-order,
// including the Caption subtrees.
func (n *Node) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Caption {
		if !c.walk(yield) {
			return false
		}
	}
	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// TextContent returns the concatenation of all the text payloads under n.
func TextContent(nodes ...*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		for d := range n.All() {
			if d.Kind.HasText() {
				sb.WriteString(d.Text)
			}
		}
	}
	return sb.String()
}

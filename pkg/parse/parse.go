// Package parse implements the parser for jotdown documents.
//
// Parsing happens in three layers. The block package splits the document
// into blocks and classifies them; this package dispatches each block to a
// builder; the builders parse inline text with the inline package and math
// with the math package.
package parse

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"golang.org/x/text/unicode/norm"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/block"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/inline"
	"src.jotdown.dev/pkg/logutil"
	"src.jotdown.dev/pkg/math"
	"src.jotdown.dev/pkg/refs"
	"src.jotdown.dev/pkg/strutil"
)

var logger = logutil.GetLogger("parse")

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Tree represents a parsed document.
type Tree struct {
	Root   *ast.Node
	Refs   *refs.Registry
	Source Source
}

// Config keeps configuration options when parsing.
type Config struct {
	// Destination of warnings. If nil, warnings are suppressed.
	WarningWriter io.Writer
}

// Parse parses the given source. The returned error always has type
// *diag.Error if it is not nil; parsing stops at the first error.
func Parse(src Source, cfg Config) (*Tree, error) {
	tree := &Tree{ast.New(ast.Document), refs.New(), src}
	ps := &parser{reg: tree.Refs}
	for b := range block.Segment(Lines(src.Code)) {
		n, err := ps.block(b)
		if err != nil {
			return nil, withName(err, src.Name)
		}
		if n != nil {
			tree.Root.Append(n)
		}
	}
	if cfg.WarningWriter != nil {
		for _, r := range tree.Refs.Redefinitions() {
			fmt.Fprintf(cfg.WarningWriter,
				"%s:%d: reference %q redefined, previous definition on line %d\n",
				src.Name, r.Line, r.Key, r.Previous)
		}
	}
	return tree, nil
}

func withName(err error, name string) error {
	var derr *diag.Error
	if errors.As(err, &derr) {
		derr.Context.Name = name
	}
	return err
}

// Lines splits text into lines, removing line terminators and normalizing
// each line to NFC.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(text) {
			line = strutil.ChopLineEnding(line)
			if !yield(norm.NFC.String(line)) {
				return
			}
		}
	}
}

type parser struct {
	reg *refs.Registry
}

func (ps *parser) block(b block.Block) (*ast.Node, error) {
	kind := block.Classify(b)
	logger.Debug("classified block", "line", b.Line, "kind", kind)
	switch kind {
	case block.HorizontalRule:
		return &ast.Node{Kind: ast.HorizontalRule, Line: b.Line}, nil
	case block.Heading:
		level, lines := block.HeadingText(b)
		children, err := ps.lines(b.Line, lines, true)
		if err != nil {
			return nil, err
		}
		n := ast.NewHeading(level, children...)
		n.Line = b.Line
		return n, nil
	case block.List:
		return ps.list(b)
	case block.Code:
		n := &ast.Node{Kind: ast.CodeBlock, Info: block.CodeInfo(b), Line: b.Line}
		for _, line := range b.Lines[1 : len(b.Lines)-1] {
			n.Append(ast.NewText(ast.PlainText, line))
		}
		return n, nil
	case block.Math:
		body := strings.Join(b.Lines[1:len(b.Lines)-1], "\n")
		children, err := math.Parse(b.Line+1, body)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.MathBlock, Children: children, Line: b.Line}, nil
	case block.Table:
		return ps.table(b)
	case block.Blockquote:
		return ps.blockquote(b)
	default:
		children, err := ps.lines(b.Line, b.Lines, false)
		if err != nil || len(children) == 0 {
			// A paragraph made only of reference definitions has no
			// visible content.
			return nil, err
		}
		return &ast.Node{Kind: ast.Paragraph, Children: children, Line: b.Line}, nil
	}
}

// Parses each line into a Line node. Lines without visible content are
// dropped unless keepEmpty is true.
func (ps *parser) lines(first int, lines []string, keepEmpty bool) ([]*ast.Node, error) {
	var nodes []*ast.Node
	for i, text := range lines {
		n, err := ps.line(first+i, text)
		if err != nil {
			return nil, err
		}
		if keepEmpty || len(n.Children) > 0 {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (ps *parser) line(line int, text string) (*ast.Node, error) {
	children, err := inline.Parse(line, text, ps.reg)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Line, Children: children, Line: line}, nil
}

func (ps *parser) table(b block.Block) (*ast.Node, error) {
	layout, _ := block.ParseTable(b)
	columns := len(layout.Header)
	n := &ast.Node{Kind: ast.Table, Aligns: layout.Aligns, Line: b.Line}

	row := func(line int, texts []string, kind ast.Kind) error {
		cells := make([]*ast.Node, len(texts))
		for i, text := range texts {
			children, err := inline.Parse(line, text, ps.reg)
			if err != nil {
				return err
			}
			cells[i] = &ast.Node{Kind: kind, Children: children,
				Align: layout.Aligns[i], Line: line}
		}
		r, err := ast.NewTableRow(line, columns, cells...)
		if err != nil {
			return err
		}
		n.Append(r)
		return nil
	}

	if err := row(b.Line, layout.Header, ast.TableHeaderCell); err != nil {
		return nil, err
	}
	for i, texts := range layout.Rows {
		if err := row(b.Line+layout.RowLines[i], texts, ast.TableCell); err != nil {
			return nil, err
		}
	}
	if layout.HasCaption {
		caption, err := inline.Parse(b.Line+len(b.Lines)-1, layout.Caption, ps.reg)
		if err != nil {
			return nil, err
		}
		n.Caption = caption
	}
	return n, nil
}

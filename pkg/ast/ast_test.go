package ast

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/tt"
)

func TestKindString(t *testing.T) {
	for k := Document; k < numKinds; k++ {
		if kindNames[k] == "" {
			t.Errorf("Kind %d has no name", k)
		}
	}
	if s := Kind(200).String(); s != "Kind(200)" {
		t.Errorf("Kind(200).String() -> %q", s)
	}
}

func TestKindPredicates(t *testing.T) {
	tt.Test(t, tt.Fn("Kind.IsMath", Kind.IsMath), tt.Table{
		tt.Args(Sum).Rets(true),
		tt.Args(Newline).Rets(true),
		tt.Args(MathInline).Rets(false),
		tt.Args(PlainText).Rets(false),
	})
	tt.Test(t, tt.Fn("Kind.IsList", Kind.IsList), tt.Table{
		tt.Args(ChecklistList).Rets(true),
		tt.Args(ListItem).Rets(false),
	})
}

func TestNewHeading_ClampsLevel(t *testing.T) {
	tt.Test(t, tt.Fn("level", func(l int) int { return NewHeading(l).Level }), tt.Table{
		tt.Args(0).Rets(1),
		tt.Args(3).Rets(3),
		tt.Args(9).Rets(6),
	})
}

func TestNewTableRow(t *testing.T) {
	a, b := New(TableCell), New(TableCell)
	row, err := NewTableRow(4, 2, a, b)
	if err != nil {
		t.Fatalf("NewTableRow -> error %v", err)
	}
	if diff := cmp.Diff(&Node{Kind: TableRow, Line: 4, Children: []*Node{a, b}}, row); diff != "" {
		t.Errorf("NewTableRow (-want +got):\n%s", diff)
	}

	_, err = NewTableRow(4, 3, a, b)
	if !errors.Is(err, &diag.Error{Type: diag.Structure}) {
		t.Errorf("NewTableRow with wrong cell count -> %v, want structure error", err)
	}
}

func TestAllAndTextContent(t *testing.T) {
	table := New(Table,
		New(TableRow, New(TableHeaderCell, NewText(PlainText, "a"))))
	table.Caption = []*Node{NewText(PlainText, "cap ")}
	var kinds []Kind
	for n := range table.All() {
		kinds = append(kinds, n.Kind)
	}
	want := []Kind{Table, PlainText, TableRow, TableHeaderCell, PlainText}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("All (-want +got):\n%s", diff)
	}
	if got := TextContent(table); got != "cap a" {
		t.Errorf("TextContent -> %q, want %q", got, "cap a")
	}
}

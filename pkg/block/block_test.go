package block

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.jotdown.dev/pkg/testutil"
)

func segment(text string) []Block {
	return slices.Collect(Segment(slices.Values(strings.Split(text, "\n"))))
}

var segmentTests = []struct {
	name string
	text string
	want []Block
}{
	{
		name: "blank lines separate blocks",
		text: testutil.Dedent(`
			# Title

			first
			paragraph


			second`),
		want: []Block{
			{Lines: []string{"# Title"}, Line: 1},
			{Lines: []string{"first", "paragraph"}, Line: 3},
			{Lines: []string{"second"}, Line: 7},
		},
	},
	{
		name: "whitespace-only lines are blank",
		text: "a\n \t\nb",
		want: []Block{
			{Lines: []string{"a"}, Line: 1},
			{Lines: []string{"b"}, Line: 3},
		},
	},
	{
		name: "blank line inside code fence",
		text: "```go\nx := 1\n\ny := 2\n```\n\nafter",
		want: []Block{
			{Lines: []string{"```go", "x := 1", "", "y := 2", "```"}, Line: 1},
			{Lines: []string{"after"}, Line: 7},
		},
	},
	{
		name: "blank line inside untagged code fence",
		text: "```\na\n\nb\n```",
		want: []Block{
			{Lines: []string{"```", "a", "", "b", "```"}, Line: 1},
		},
	},
	{
		name: "blank line inside math fence",
		text: "«««\nx\n\ny\n»»»\n\nz",
		want: []Block{
			{Lines: []string{"«««", "x", "", "y", "»»»"}, Line: 1},
			{Lines: []string{"z"}, Line: 7},
		},
	},
	{
		name: "unterminated fence consumes the rest",
		text: "```\na\n\nb\n\nc",
		want: []Block{
			{Lines: []string{"```", "a", "", "b", "", "c"}, Line: 1},
		},
	},
	{
		name: "empty input",
		text: "",
		want: nil,
	},
}

func TestSegment(t *testing.T) {
	for _, test := range segmentTests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, segment(test.text)); diff != "" {
				t.Errorf("Segment (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSegmenter_NextAfterEnd(t *testing.T) {
	s := NewSegmenter(slices.Values([]string{"a"}))
	if _, ok := s.Next(); !ok {
		t.Fatalf("first Next -> false")
	}
	for range 2 {
		if b, ok := s.Next(); ok {
			t.Errorf("Next after end -> %v, true", b)
		}
	}
}

func TestSegmenter_Close(t *testing.T) {
	s := NewSegmenter(slices.Values([]string{"a", "", "b"}))
	s.Next()
	s.Close()
	if _, ok := s.Next(); ok {
		t.Errorf("Next after Close -> true")
	}
}

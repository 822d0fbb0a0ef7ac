package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/parse"
	"src.jotdown.dev/pkg/tt"
)

func parseDoc(t *testing.T, code string) *parse.Tree {
	t.Helper()
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code}, parse.Config{})
	if err != nil {
		t.Fatalf("parse %q: %v", code, err)
	}
	return tree
}

// Emits the first block of code, or the whole document if wholeDoc is true.
func emit(t *testing.T, code string, f Format, ctx Context, wholeDoc bool) (string, error) {
	t.Helper()
	tree := parseDoc(t, code)
	ctx.Registry = tree.Refs
	root := tree.Root
	if !wholeDoc {
		root = tree.Root.Children[0]
	}
	return Emit(root, f, &ctx)
}

type emitTest struct {
	name string
	code string
	ctx  Context
	want string
}

func testEmit(t *testing.T, f Format, tests []emitTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := emit(t, test.code, f, test.ctx, false)
			if err != nil {
				t.Fatalf("Emit -> error %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Emit %v (-want +got):\n%s", f, diff)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tt.Test(t, tt.Fn("ParseFormat", ParseFormat), tt.Table{
		tt.Args("html").Rets(HTML, nil),
		tt.Args("RTF").Rets(RTF, nil),
		tt.Args("latex").Rets(LaTeX, nil),
		tt.Args("tex").Rets(LaTeX, nil),
		tt.Args(" jd ").Rets(JD, nil),
		tt.Args("debug").Rets(Trace, nil),
		tt.Args("mathml").Rets(MathML, nil),
		tt.Args("pdf").Rets(Format(0), tt.ErrorContaining(`unknown format "pdf"`)),
	})
}

func TestFormat_Ext(t *testing.T) {
	tt.Test(t, tt.Fn("Format.Ext", Format.Ext), tt.Table{
		tt.Args(HTML).Rets("html"),
		tt.Args(LaTeX).Rets("tex"),
		tt.Args(Trace).Rets("debug"),
	})
}

func TestFormat_UnmarshalText(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("rtf")); err != nil || f != RTF {
		t.Errorf("UnmarshalText(rtf) -> %v, %v", f, err)
	}
	if err := f.UnmarshalText([]byte("doc")); err == nil {
		t.Errorf("UnmarshalText(doc) -> no error")
	}
}

func TestExtRewriter(t *testing.T) {
	tt.Test(t, tt.Fn("ExtRewriter(html)", ExtRewriter("html")), tt.Table{
		tt.Args("notes.jd").Rets("notes.html"),
		tt.Args("dir/notes.jd#intro").Rets("dir/notes.html#intro"),
		tt.Args("https://example.org/page.jd").Rets("https://example.org/page.html"),
		tt.Args("notes.md#x").Rets("notes.md#x"),
		tt.Args("notes.jdx").Rets("notes.jdx"),
		tt.Args("#local").Rets("#local"),
	})
	tt.Test(t, tt.Fn("ExtRewriter(.tex)", ExtRewriter(".tex")), tt.Table{
		tt.Args("a.jd").Rets("a.tex"),
	})
}

func TestEmit_ReferenceErrors(t *testing.T) {
	for _, f := range []Format{HTML, RTF, LaTeX} {
		t.Run(f.String(), func(t *testing.T) {
			_, err := emit(t, "first\n\nsee [this][nope]", f, Context{}, true)
			var derr *diag.Error
			if !errors.As(err, &derr) {
				t.Fatalf("Emit -> %v, want *diag.Error", err)
			}
			if derr.Type != diag.Reference || derr.Context.Line != 3 ||
				!strings.Contains(derr.Message, `"nope"`) {
				t.Errorf("Emit -> %v, want reference error on line 3", derr)
			}
		})
	}
}

func TestEmit_UnresolvedWithoutRegistry(t *testing.T) {
	n := &ast.Node{Kind: ast.ReferenceLink, Dest: "k", Line: 7,
		Children: []*ast.Node{ast.NewText(ast.PlainText, "x")}}
	_, err := Emit(n, HTML, nil)
	if !errors.Is(err, &diag.Error{Type: diag.Reference}) {
		t.Errorf("Emit -> %v, want reference error", err)
	}
}

func TestEmit_Trace(t *testing.T) {
	got, err := emit(t, "# Title\n\n- [x] «a_i»", Trace, Context{}, true)
	if err != nil {
		t.Fatal(err)
	}
	want := "Document\n" +
		"\tHeading Level=1\n" +
		"\t\tLine\n" +
		"\t\t\tPlainText \"Title\"\n" +
		"\tChecklistList\n" +
		"\t\tChecklistItem Checked=true\n" +
		"\t\t\tMathInline\n" +
		"\t\t\t\tIdentifier \"a\"\n" +
		"\t\t\t\t\tSubscript \"i\"\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace (-want +got):\n%s", diff)
	}
}

func TestEmit_TraceSummarizesText(t *testing.T) {
	n := ast.NewText(ast.PlainText, strings.Repeat("x", 60))
	got, _ := Emit(n, Trace, nil)
	want := "PlainText \"" + strings.Repeat("x", 50) + "\"...\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmit_MathML(t *testing.T) {
	testEmit(t, MathML, []emitTest{
		{
			name: "scripts nest around their base",
			code: "text «a_i^2» more",
			want: "<math><msup><msub><mi>a</mi><mrow><mi>i</mi></mrow></msub>" +
				"<mrow><mn>2</mn></mrow></msup></math>",
		},
		{
			name: "sum",
			code: "«sum[1 n x] + sqrt[(y)]»",
			want: "<math><mrow><munderover><mo>∑</mo><mrow><mn>1</mn></mrow>" +
				"<mrow><mi>n</mi></mrow></munderover><mrow><mi>x</mi></mrow></mrow>" +
				"<mo>+</mo><msqrt><mrow><mo>(</mo><mi>y</mi><mo>)</mo></mrow></msqrt></math>",
		},
		{
			name: "math block",
			code: "«««\nx\n<= 2\n»»»",
			want: `<math display="block"><mi>x</mi><mspace linebreak="newline"/>` +
				"<mo>≤</mo><mn>2</mn></math>",
		},
	})
}

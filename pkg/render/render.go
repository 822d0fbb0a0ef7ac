// Package render emits syntax trees in the supported output formats.
//
// Each format has a codec that walks the tree with an exhaustive switch over
// node kinds. Codecs share a writer, which carries the output, the emission
// Context and the first error encountered; once an error is recorded, the
// remaining nodes are skipped.
package render

import (
	"fmt"
	"path"
	"strings"
	"time"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/logutil"
	"src.jotdown.dev/pkg/refs"
	"src.jotdown.dev/pkg/tmpl"
)

var logger = logutil.GetLogger("render")

// Format is an output format.
type Format uint8

// Possible values of Format.
const (
	HTML Format = iota
	RTF
	LaTeX
	// Canonical jotdown source.
	JD
	// Indented dump of the tree.
	Trace
	// MathML of the math nodes only.
	MathML
)

var formatNames = [...]string{
	HTML: "html", RTF: "rtf", LaTeX: "latex", JD: "jd", Trace: "trace", MathML: "mathml",
}

var formatExts = [...]string{
	HTML: "html", RTF: "rtf", LaTeX: "tex", JD: "jd", Trace: "debug", MathML: "mml",
}

var formatAliases = map[string]Format{
	"tex":   LaTeX,
	"debug": Trace,
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// Ext returns the file extension of output in the format, without the dot.
func (f Format) Ext() string { return formatExts[f] }

// ParseFormat parses the name of a format.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, fname := range formatNames {
		if name == fname {
			return Format(f), nil
		}
	}
	if f, ok := formatAliases[name]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// DefaultTitle is the title of a document that has none.
const DefaultTitle = "Jotdown Document"

// Context configures emission. The zero value is usable.
type Context struct {
	// Path or URL of the stylesheet, linked from HTML output when
	// EmbedStylesheet is false.
	Stylesheet string
	// Content of the stylesheet or template. When empty, the default of the
	// format is used.
	Style string
	// Whether HTML output embeds Style instead of linking to Stylesheet.
	EmbedStylesheet bool
	// Whether citations render as numbered references with a reference list
	// instead of direct links.
	CitationStyle bool
	// If not nil, applied to the target of every link.
	RewriteLink func(string) string

	Title       string
	Author      string
	Institution string
	// Creation time, written into RTF output unless zero.
	Created time.Time

	// References of the document. If nil, every citation is unresolved.
	Registry *refs.Registry
}

// Emit renders the tree rooted at root in the given format. A Document root
// produces a complete output file; any other node produces a fragment.
//
// The returned error, if not nil, has type *diag.Error.
func Emit(root *ast.Node, f Format, ctx *Context) (string, error) {
	if ctx == nil {
		ctx = &Context{}
	}
	logger.Debug("emitting", "format", f, "root", root.Kind)
	w := &writer{out: &strings.Builder{}, ctx: ctx, reg: ctx.Registry}
	if w.reg == nil {
		w.reg = refs.New()
	}
	switch f {
	case HTML:
		(&htmlCodec{writer: w, ids: map[string]bool{}}).node(root)
	case RTF:
		(&rtfCodec{w}).node(root)
	case LaTeX:
		(&latexCodec{writer: w}).node(root)
	case JD:
		(&jdCodec{writer: w}).node(root)
	case Trace:
		(&traceCodec{w}).node(root, 0)
	case MathML:
		(&mathmlCodec{w}).node(root)
	default:
		return "", diag.Newf(diag.Structure, diag.Context{}, "unknown format %v", f)
	}
	if w.err != nil {
		return "", w.err
	}
	return w.out.String(), nil
}

// ExtRewriter returns a link rewriting function that replaces the ".jd"
// extension of a link target with ext, keeping any "#anchor".
func ExtRewriter(ext string) func(string) string {
	ext = strings.TrimPrefix(ext, ".")
	return func(target string) string {
		target, anchor, hasAnchor := strings.Cut(target, "#")
		if path.Ext(target) == ".jd" {
			target = strings.TrimSuffix(target, ".jd") + "." + ext
		}
		if hasAnchor && anchor != "" {
			return target + "#" + anchor
		}
		return target
	}
}

type writer struct {
	out *strings.Builder
	ctx *Context
	reg *refs.Registry
	err error
	// Line of the innermost node being emitted that has one.
	line int
}

func (w *writer) str(ss ...string) {
	for _, s := range ss {
		w.out.WriteString(s)
	}
}

func (w *writer) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

// Runs f with output redirected to a new buffer and returns what it wrote.
func (w *writer) capture(f func()) string {
	saved := w.out
	w.out = &strings.Builder{}
	f()
	s := w.out.String()
	w.out = saved
	return s
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Records the line of n and reports whether emission should go on.
func (w *writer) enter(n *ast.Node) bool {
	if n.Line != 0 {
		w.line = n.Line
	}
	return w.err == nil
}

func (w *writer) link(target string) string {
	if w.ctx.RewriteLink != nil {
		return w.ctx.RewriteLink(target)
	}
	return target
}

// Looks up the definition cited by a ReferenceLink, recording an error if
// there is none.
func (w *writer) reference(n *ast.Node) (refs.Entry, int, bool) {
	e, ok := w.reg.Lookup(n.Dest)
	if !ok || !e.Defined {
		w.fail(diag.Newf(diag.Reference, diag.Context{Line: n.Line},
			"missing definition for reference %q", n.Dest))
		return refs.Entry{}, 0, false
	}
	return e, w.reg.Ordinal(n.Dest), true
}

// Builds the list of defined references, in ordinal order.
func (w *writer) referenceList() *ast.Node {
	list := ast.New(ast.ReferenceList)
	for _, e := range w.reg.Entries() {
		if e.Defined {
			list.Append(&ast.Node{Kind: ast.ReferenceItem, Dest: e.Key,
				Children: e.Content, Line: e.Line})
		}
	}
	return list
}

func (w *writer) title() string {
	if w.ctx.Title != "" {
		return w.ctx.Title
	}
	return DefaultTitle
}

func (w *writer) style(f Format) string {
	if w.ctx.Style != "" {
		return w.ctx.Style
	}
	return tmpl.Default(f.String())
}

// Splits the children of a list item into its inline content and the lists
// nested in it.
func splitItem(n *ast.Node) (inline, nested []*ast.Node) {
	for i, child := range n.Children {
		if child.Kind.IsList() {
			return n.Children[:i], n.Children[i:]
		}
	}
	return n.Children, nil
}

// Returns the i-th child of n, or an empty node.
func child(n *ast.Node, i int) *ast.Node {
	if i < len(n.Children) {
		return n.Children[i]
	}
	return ast.New(ast.Brackets)
}

// Returns the children of n after the i-th.
func rest(n *ast.Node, i int) []*ast.Node {
	if i < len(n.Children) {
		return n.Children[i:]
	}
	return nil
}

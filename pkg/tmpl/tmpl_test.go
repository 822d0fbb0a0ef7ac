package tmpl

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"src.jotdown.dev/pkg/testutil"
	"src.jotdown.dev/pkg/tt"
)

func TestDefault(t *testing.T) {
	require.Contains(t, Default("html"), "body {")
	require.Contains(t, Default("rtf"), `\fonttbl`)
	require.Contains(t, Default("latex"), "{{.Body}}")
	require.Empty(t, Default("jd"))
}

func TestExt(t *testing.T) {
	tt.Test(t, tt.Fn("Ext", Ext), tt.Table{
		tt.Args("html").Rets(".css"),
		tt.Args("rtf").Rets(".rtf"),
		tt.Args("latex").Rets(".tex"),
		tt.Args("trace").Rets(""),
	})
}

func TestLoad(t *testing.T) {
	dir := testutil.TempTree(t, testutil.Dir{
		"plain.css":  "p { color: red; }",
		"latin1.css": "@charset \"iso-8859-1\";\np::before { content: \"\xe9\"; }",
		"latin1.tex": "\\usepackage[latin1]{inputenc}\n% caf\xe9\n{{.Body}}",
		"bad.css":    "@charset \"no-such-charset\";",
	})

	css, err := Load(filepath.Join(dir, "plain.css"), "html")
	require.NoError(t, err)
	require.Equal(t, "p { color: red; }", css)

	css, err = Load(filepath.Join(dir, "latin1.css"), "html")
	require.NoError(t, err)
	require.Contains(t, css, `content: "é"`)

	tex, err := Load(filepath.Join(dir, "latin1.tex"), "latex")
	require.NoError(t, err)
	require.True(t, strings.Contains(tex, "% café"), "got %q", tex)

	_, err = Load(filepath.Join(dir, "bad.css"), "html")
	require.ErrorContains(t, err, "unknown charset")

	_, err = Load(filepath.Join(dir, "missing.css"), "html")
	require.Error(t, err)

	def, err := Load("", "rtf")
	require.NoError(t, err)
	require.Equal(t, Default("rtf"), def)
}

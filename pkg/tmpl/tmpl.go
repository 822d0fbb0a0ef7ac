// Package tmpl loads stylesheets and templates for the output formats.
//
// Each format that needs one has a default, embedded in the binary; a file
// given by the user replaces it. Stylesheets may declare their character
// encoding, CSS with an @charset rule and LaTeX with the option of the
// inputenc package, and are decoded to UTF-8 accordingly.
package tmpl

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"golang.org/x/text/encoding/htmlindex"
)

var (
	//go:embed defaults/style.css
	defaultCSS string
	//go:embed defaults/style.rtf
	defaultRTF string
	//go:embed defaults/template.tex
	defaultTeX string
)

var defaults = map[string]string{
	"html":  defaultCSS,
	"rtf":   defaultRTF,
	"latex": defaultTeX,
}

var exts = map[string]string{
	"html":  ".css",
	"rtf":   ".rtf",
	"latex": ".tex",
}

// Capture group 1: the charset name.
var charsetRegexps = map[string]*regexp.Regexp{
	"html":  regexp.MustCompile(`^@charset "([\w-]+)";`),
	"latex": regexp.MustCompile(`\\usepackage\[([\w-]+)\]\{inputenc\}`),
}

// Default returns the embedded stylesheet or template of a format, or "" if
// the format uses none.
func Default(format string) string {
	return defaults[format]
}

// Ext returns the conventional file extension of stylesheets for a format,
// or "" if the format uses none.
func Ext(format string) string {
	return exts[format]
}

// Load returns the stylesheet or template at path for the given format. An
// empty path selects the default.
func Load(path, format string) (string, error) {
	if path == "" {
		return Default(format), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decode(path, format, data)
}

func decode(path, format string, data []byte) (string, error) {
	re := charsetRegexps[format]
	if re == nil {
		return string(data), nil
	}
	m := re.FindSubmatch(data)
	if m == nil {
		return string(data), nil
	}
	enc, err := htmlindex.Get(string(m[1]))
	if err != nil {
		return "", fmt.Errorf("%s: unknown charset %q", path, m[1])
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(decoded), nil
}

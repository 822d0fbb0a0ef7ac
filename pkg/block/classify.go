package block

import (
	"regexp"
	"strings"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/numeral"
)

// Kind is the kind of a Block.
type Kind uint8

// Possible values of Kind.
const (
	Paragraph Kind = iota
	HorizontalRule
	Heading
	List
	Code
	Math
	Table
	Blockquote
)

var kindNames = [...]string{
	Paragraph:      "paragraph",
	HorizontalRule: "horizontal rule",
	Heading:        "heading",
	List:           "list",
	Code:           "code",
	Math:           "math",
	Table:          "table",
	Blockquote:     "blockquote",
}

func (k Kind) String() string { return kindNames[k] }

// Classification rules, in priority order.
var rules = []struct {
	kind Kind
	pred func(Block) bool
}{
	{HorizontalRule, IsHorizontalRule},
	{Heading, IsHeading},
	{List, IsList},
	{Code, IsCode},
	{Math, IsMath},
	{Table, IsTable},
	{Blockquote, IsBlockquote},
}

// Classify returns the kind of b. The first matching rule wins; a block
// matching no rule is a Paragraph.
func Classify(b Block) Kind {
	if len(b.Lines) == 0 {
		return Paragraph
	}
	for _, r := range rules {
		if r.pred(b) {
			return r.kind
		}
	}
	return Paragraph
}

// IsHorizontalRule reports whether b is a single line made of only "*" or
// only "-", ignoring whitespace.
func IsHorizontalRule(b Block) bool {
	if len(b.Lines) != 1 {
		return false
	}
	line := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, b.Lines[0])
	return line != "" && (allRune(line, '*') || allRune(line, '-'))
}

func allRune(s string, r rune) bool {
	for _, c := range s {
		if c != r {
			return false
		}
	}
	return true
}

// IsHeading reports whether b is underlined with "=" or "-", or is a single
// line starting with "#".
func IsHeading(b Block) bool {
	return isUnderlineHeading(b) || (len(b.Lines) == 1 && strings.HasPrefix(b.Lines[0], "#"))
}

func isUnderlineHeading(b Block) bool {
	if len(b.Lines) < 2 {
		return false
	}
	last := strings.TrimRight(b.Lines[len(b.Lines)-1], " \t")
	return last != "" && (allRune(last, '=') || allRune(last, '-'))
}

// Capture group 1: hashes; 2: text.
var headingHashRegexp = regexp.MustCompile(`^(#+)([^#]*)#*`)

// HeadingText returns the level and text lines of a heading block. An
// underline of "=" gives level 1 and an underline of "-" level 2; otherwise
// the level is the number of leading hashes, clamped to
// [ast.MaxHeadingLevel].
func HeadingText(b Block) (int, []string) {
	if isUnderlineHeading(b) {
		level := 2
		if strings.HasPrefix(b.Lines[len(b.Lines)-1], "=") {
			level = 1
		}
		return level, b.Lines[:len(b.Lines)-1]
	}
	m := headingHashRegexp.FindStringSubmatch(b.Lines[0])
	return min(len(m[1]), ast.MaxHeadingLevel), []string{strings.TrimSpace(m[2])}
}

// ListType distinguishes the three kinds of list items.
type ListType uint8

// Possible values of ListType.
const (
	Unordered ListType = iota
	Ordered
	Checklist
)

// Item is a parsed list item line.
type Item struct {
	Type ListType
	// Number of leading tabs.
	Indent int
	// Marker of an ordered item, and its decoded value.
	Marker  string
	Numeral numeral.Numeral
	// State of a checklist item.
	Checked bool
	// Content with the marker removed.
	Text string
}

var (
	// Capture group 1: indent; 2: check mark.
	checklistItemRegexp = regexp.MustCompile(`^(\t*)-?\s*\[\s*([xX]?)\s*\]\s+`)
	// Capture group 1: indent.
	unorderedItemRegexp = regexp.MustCompile(`^(\t*)[*\-+]\s+`)
	// Capture group 1: indent; 2: marker.
	orderedItemRegexp = regexp.MustCompile(`^(\t*)([\p{L}\p{N}_]+)\.\s+`)
)

// ParseItem parses a list item line. Checklist items are tried first, then
// unordered, then ordered items. An ordered item whose marker is not a
// numeral is not an item.
func ParseItem(line string) (Item, bool) {
	if m := checklistItemRegexp.FindStringSubmatch(line); m != nil {
		return Item{Type: Checklist, Indent: len(m[1]), Checked: m[2] != "",
			Text: line[len(m[0]):]}, true
	}
	if m := unorderedItemRegexp.FindStringSubmatch(line); m != nil {
		return Item{Type: Unordered, Indent: len(m[1]), Text: line[len(m[0]):]}, true
	}
	if m := orderedItemRegexp.FindStringSubmatch(line); m != nil {
		n, ok := numeral.Decode(m[2])
		if !ok {
			return Item{}, false
		}
		return Item{Type: Ordered, Indent: len(m[1]), Marker: m[2], Numeral: n,
			Text: line[len(m[0]):]}, true
	}
	return Item{}, false
}

// IsList reports whether every line of b is a list item.
func IsList(b Block) bool {
	for _, line := range b.Lines {
		if _, ok := ParseItem(line); !ok {
			return false
		}
	}
	return true
}

// IsCode reports whether b is enclosed in code fences.
func IsCode(b Block) bool {
	n := len(b.Lines)
	return n >= 2 &&
		(codeOpenRegexp.MatchString(b.Lines[0]) || codeFenceRegexp.MatchString(b.Lines[0])) &&
		codeFenceRegexp.MatchString(b.Lines[n-1])
}

// CodeInfo returns the language tag of a code block, or "" if it has none.
func CodeInfo(b Block) string {
	if m := codeOpenRegexp.FindStringSubmatch(b.Lines[0]); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// IsMath reports whether b is enclosed in math fences.
func IsMath(b Block) bool {
	n := len(b.Lines)
	return n >= 2 && mathOpenRegexp.MatchString(b.Lines[0]) &&
		mathCloseRegexp.MatchString(b.Lines[n-1])
}

// IsBlockquote reports whether the first line of b starts with ">".
func IsBlockquote(b Block) bool {
	return strings.HasPrefix(b.Lines[0], ">")
}

// Capture group 1: the run of quote markers.
var quoteRegexp = regexp.MustCompile(`^((?:>\s?)*)`)

// QuoteLevel returns the nesting level of a blockquote line and its text.
// Lines without markers continue the outermost quote.
func QuoteLevel(line string) (int, string) {
	m := quoteRegexp.FindString(line)
	level := strings.Count(m, ">")
	if level == 0 {
		level = 1
	}
	return level, strings.TrimLeft(line[len(m):], " \t")
}

// TableLayout is the parsed layout of a table block.
type TableLayout struct {
	Header  []string
	Aligns  []ast.Alignment
	Rows    [][]string
	Caption string
	// Line offsets within the block of each row in Rows.
	RowLines []int
	// Whether the block ends in a caption.
	HasCaption bool
}

// IsTable reports whether b is a table.
func IsTable(b Block) bool {
	_, ok := ParseTable(b)
	return ok
}

// ParseTable parses a table block. A table has a header row, a separator
// row with at least three dashes per cell, and zero or more body rows, all
// with the same number of cells, which is at least 2. A block of 5 or more
// lines whose second-to-last line has only dashes ends in a caption.
func ParseTable(b Block) (TableLayout, bool) {
	lines := b.Lines
	if len(lines) < 3 {
		return TableLayout{}, false
	}
	var layout TableLayout
	if len(lines) >= 5 && isDashLine(lines[len(lines)-2]) {
		layout.HasCaption = true
		layout.Caption = strings.TrimSpace(lines[len(lines)-1])
		lines = lines[:len(lines)-2]
	}

	layout.Header = SplitRow(lines[0])
	columns := len(layout.Header)
	if columns < 2 {
		return TableLayout{}, false
	}
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = SplitRow(line)
		if len(rows[i]) != columns {
			return TableLayout{}, false
		}
	}
	for _, cell := range rows[1] {
		if strings.Trim(cell, "-: \t") != "" || strings.Count(cell, "-") < 3 {
			return TableLayout{}, false
		}
		layout.Aligns = append(layout.Aligns, cellAlignment(cell))
	}
	layout.Rows = rows[2:]
	for i := range layout.Rows {
		layout.RowLines = append(layout.RowLines, i+2)
	}
	return layout, true
}

func isDashLine(s string) bool {
	return strings.Trim(s, "- \t") == "" && strings.Contains(s, "-")
}

// SplitRow splits a table row into trimmed cells. A leading and a trailing
// pipe are optional.
func SplitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

func cellAlignment(cell string) ast.Alignment {
	switch {
	case strings.HasSuffix(cell, "-"):
		return ast.Left
	case strings.HasPrefix(cell, "-"):
		return ast.Right
	default:
		return ast.Center
	}
}

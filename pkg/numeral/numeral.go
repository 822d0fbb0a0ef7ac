// Package numeral decodes and formats the markers of ordered list items.
//
// A marker is a decimal integer ("3"), a Roman numeral ("iv", "XII") or an
// alphabetic numeral in bijective base 26 ("c", "AA"). The case of Roman and
// alphabetic markers selects the numbering style.
package numeral

import (
	"regexp"
	"strconv"
	"strings"
)

// Style is a numbering style.
type Style uint8

// Possible values of Style.
const (
	Decimal Style = iota
	LowerRoman
	UpperRoman
	LowerAlpha
	UpperAlpha
)

var styleNames = [...]string{
	Decimal: "1", LowerRoman: "i", UpperRoman: "I", LowerAlpha: "a", UpperAlpha: "A",
}

// String returns the style as the HTML type attribute of an ordered list.
func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "Style(" + strconv.Itoa(int(s)) + ")"
}

// Numeral is a decoded marker.
type Numeral struct {
	Value int
	Style Style
}

var romanRegexp = regexp.MustCompile(
	`^M{0,3}(?:CM|CD|D?C{0,3})(?:XC|XL|L?X{0,3})(?:IX|IV|V?I{0,3})$`)

// Decode decodes a marker. It tries decimal, then Roman, then alphabetic, and
// reports false if none of them applies.
func Decode(s string) (Numeral, bool) {
	if s == "" {
		return Numeral{}, false
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && s[0] != '+' && s[0] != '-' {
		return Numeral{n, Decimal}, true
	}
	if n, ok := decodeRoman(s); ok {
		if isUpper(s) {
			return Numeral{n, UpperRoman}, true
		}
		return Numeral{n, LowerRoman}, true
	}
	if n, ok := decodeAlpha(s); ok {
		if isUpper(s) {
			return Numeral{n, UpperAlpha}, true
		}
		return Numeral{n, LowerAlpha}, true
	}
	return Numeral{}, false
}

// DecodeAs decodes a marker in the given style.
func DecodeAs(s string, style Style) (int, bool) {
	switch style {
	case Decimal:
		n, err := strconv.Atoi(s)
		return n, err == nil && n >= 0
	case LowerRoman, UpperRoman:
		if isUpper(s) != (style == UpperRoman) {
			return 0, false
		}
		return decodeRoman(s)
	case LowerAlpha, UpperAlpha:
		if isUpper(s) != (style == UpperAlpha) {
			return 0, false
		}
		return decodeAlpha(s)
	}
	return 0, false
}

func isUpper(s string) bool { return s == strings.ToUpper(s) }

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

func decodeRoman(s string) (int, bool) {
	u := strings.ToUpper(s)
	if s != u && s != strings.ToLower(s) {
		return 0, false
	}
	if u == "" || !romanRegexp.MatchString(u) {
		return 0, false
	}
	n := 0
	for i := 0; i < len(u); i++ {
		v := romanValues[u[i]]
		if i+1 < len(u) && romanValues[u[i+1]] > v {
			n -= v
		} else {
			n += v
		}
	}
	return n, true
}

func decodeAlpha(s string) (int, bool) {
	lower := strings.ToLower(s)
	if s != lower && s != strings.ToUpper(s) {
		return 0, false
	}
	n := 0
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c < 'a' || c > 'z' {
			return 0, false
		}
		n = n*26 + int(c-'a'+1)
	}
	return n, true
}

// Format formats n in the given style. Roman and alphabetic styles fall back
// to decimal for values they cannot represent.
func Format(style Style, n int) string {
	switch style {
	case LowerRoman, UpperRoman:
		if n < 1 || n > 3999 {
			break
		}
		s := formatRoman(n)
		if style == LowerRoman {
			s = strings.ToLower(s)
		}
		return s
	case LowerAlpha, UpperAlpha:
		if n < 1 {
			break
		}
		s := formatAlpha(n)
		if style == UpperAlpha {
			s = strings.ToUpper(s)
		}
		return s
	}
	return strconv.Itoa(n)
}

var romanDigits = []struct {
	value  int
	digits string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func formatRoman(n int) string {
	var sb strings.Builder
	for _, d := range romanDigits {
		for n >= d.value {
			sb.WriteString(d.digits)
			n -= d.value
		}
	}
	return sb.String()
}

func formatAlpha(n int) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('a'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

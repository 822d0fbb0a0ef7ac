package numeral

import (
	"testing"

	"src.jotdown.dev/pkg/tt"
)

func TestDecode(t *testing.T) {
	tt.Test(t, tt.Fn("Decode", Decode), tt.Table{
		tt.Args("1").Rets(Numeral{1, Decimal}, true),
		tt.Args("042").Rets(Numeral{42, Decimal}, true),
		tt.Args("iv").Rets(Numeral{4, LowerRoman}, true),
		tt.Args("MCMXCIV").Rets(Numeral{1994, UpperRoman}, true),
		// Roman is tried before alphabetic.
		tt.Args("c").Rets(Numeral{100, LowerRoman}, true),
		tt.Args("a").Rets(Numeral{1, LowerAlpha}, true),
		tt.Args("B").Rets(Numeral{2, UpperAlpha}, true),
		tt.Args("aa").Rets(Numeral{27, LowerAlpha}, true),
		tt.Args("iiii").Rets(Numeral{(9*26+9)*26*26 + 9*26 + 9, LowerAlpha}, true),
		tt.Args("Iv").Rets(Numeral{}, false),
		tt.Args("aB").Rets(Numeral{}, false),
		tt.Args("a1").Rets(Numeral{}, false),
		tt.Args("-1").Rets(Numeral{}, false),
		tt.Args("").Rets(Numeral{}, false),
	})
}

func TestDecodeAs(t *testing.T) {
	tt.Test(t, tt.Fn("DecodeAs", DecodeAs), tt.Table{
		tt.Args("v", LowerRoman).Rets(5, true),
		tt.Args("V", LowerRoman).Rets(0, false),
		tt.Args("c", LowerAlpha).Rets(3, true),
		tt.Args("12", Decimal).Rets(12, true),
		tt.Args("x", Decimal).Rets(0, false),
	})
}

func TestFormat(t *testing.T) {
	tt.Test(t, tt.Fn("Format", Format), tt.Table{
		tt.Args(Decimal, 12).Rets("12"),
		tt.Args(LowerRoman, 4).Rets("iv"),
		tt.Args(UpperRoman, 1994).Rets("MCMXCIV"),
		tt.Args(LowerAlpha, 1).Rets("a"),
		tt.Args(LowerAlpha, 27).Rets("aa"),
		tt.Args(UpperAlpha, 52).Rets("AZ"),
		tt.Args(UpperRoman, 0).Rets("0"),
	})
}

func TestFormatDecodeInverse(t *testing.T) {
	for _, style := range []Style{Decimal, LowerRoman, UpperRoman, LowerAlpha, UpperAlpha} {
		for n := 1; n < 800; n++ {
			got, ok := DecodeAs(Format(style, n), style)
			if !ok || got != n {
				t.Errorf("DecodeAs(Format(%v, %d)) -> %d, %v", style, n, got, ok)
			}
		}
	}
}

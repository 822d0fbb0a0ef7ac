package mathsym

import (
	"testing"

	"src.jotdown.dev/pkg/tt"
)

func TestSubstitute(t *testing.T) {
	tt.Test(t, tt.Fn("Substitute", Substitute), tt.Table{
		tt.Args("alpha + beta").Rets("α + β"),
		tt.Args("2pi").Rets("2π"),
		tt.Args("x_pi").Rets("x_π"),
		// Only whole runs of letters are replaced.
		tt.Args("pipe").Rets("pipe"),
		tt.Args("BETA ETA").Rets("Β Η"),
		tt.Args("x -> y <-> z <- w").Rets("x → y ↔ z ← w"),
		tt.Args("a <= b >= c != d").Rets("a ≤ b ≥ c ≠ d"),
		tt.Args("x ~= y ~ z").Rets("x ≈ y ∼ z"),
		tt.Args("a-b").Rets("a−b"),
		tt.Args("+/-1").Rets("±1"),
		tt.Args("1, ..., n").Rets("1, …, n"),
		tt.Args("x € A, y !€ B").Rets("x ∈ A, y ∉ B"),
		tt.Args("A © B, A ©= B, A !© B, A !©= B").Rets("A ⊂ B, A ⊆ B, A ⊄ B, A ⊈ B"),
		tt.Args("Aĉ").Rets("A^∁"),
		tt.Args("FORALL x EXISTS y").Rets("∀ x ∃ y"),
		tt.Args("!EXISTS x").Rets("∄ x"),
		tt.Args("A UNION B INTERSECTION EMPTY").Rets("A ∪ B ∩ Ø"),
		tt.Args("x ∈ REALS").Rets("x ∈ ℝ"),
		tt.Args("INF").Rets("∞"),
	})
}

func TestLaTeX(t *testing.T) {
	tt.Test(t, tt.Fn("LaTeX", LaTeX), tt.Table{
		tt.Args("α+β").Rets(`\alpha +\beta `),
		tt.Args("η").Rets(`\eta `),
		tt.Args("Α").Rets("A"),
		tt.Args("x ∈ ℝ").Rets(`x \in \mathbb{R} `),
		tt.Args("a−b").Rets("a-b"),
	})
}

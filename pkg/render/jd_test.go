package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var canonicalDoc = `# Heading

Some *em*, **strong**, ~~gone~~ and ` + "`code`" + ` with «x^2 + y_1» and [a link](https://example.org) citing [the paper][p].

---

- a
- b

1. one
	i. two
2. three

- [x] done
- [ ] todo

> quoted
>> deeper
> back

` + "```go\nfunc main() {\n\n}\n```" + `

«««
sum[1 n a_i] = sqrt[x]
»»»

| Name | Value |
|:---:|---:|
| a | 1 |
---
Caption text

![Alt text](pic.png "A title")

[p]: https://example.org/paper
[q]: unused
`

func TestEmit_JDCanonicalRoundTrip(t *testing.T) {
	got, err := emit(t, canonicalDoc, JD, Context{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(canonicalDoc, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEmit_JDNormalizes(t *testing.T) {
	code := "Heading\n=======\n\n__strong__ _em_ text\n\n1. a\n1. b"
	want := "# Heading\n\n**strong** *em* text\n\n1. a\n2. b\n"

	got, err := emit(t, code, JD, Context{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("first pass (-want +got):\n%s", diff)
	}
	again, err := emit(t, got, JD, Context{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if again != got {
		t.Errorf("second pass changed output:\n%s", cmp.Diff(got, again))
	}
}

func TestEmit_JDEscapes(t *testing.T) {
	testEmit(t, JD, []emitTest{
		{name: "escaped markup", code: `a \* b \[c] d\_e`, want: `a \* b \[c] d\_e`},
		{name: "intra-word underscore", code: "snake_case", want: `snake\_case`},
	})
}

func TestEmit_JDStable(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"emphasis after emphasis", "*a*_b_", "*a*_b_\n"},
		{"emphasis after strong", "**a**_b_", "**a**_b_\n"},
		{"strong emphasis after emphasis", "*a*___b___", "*a*___b___\n"},
		{"three in a row", "*a*_b_*c*", "*a*_b_*c*\n"},
		{"underscores first", "_a_*b*", "*a*_b_\n"},
		{"word after run", "_a_*b*c", "_a_*b*c\n"},
		{"strong first inside emphasis", "*__b__ c*", "*__b__ c*\n"},
		{"separated emphasis", "__a__ _b_", "**a** *b*\n"},
		{"definition-only item", "- [k]: https://x.org", "[k]: https://x.org\n"},
		{"definition-only last item", "- a\n- [k]: https://x.org",
			"- a\n\n[k]: https://x.org\n"},
		{"definition-only ordered item", "1. [k]: x\n2. b", "1. b\n\n[k]: x\n"},
		{"definition-only nested item", "- a\n\t- [k]: x", "- a\n\n[k]: x\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := emit(t, test.code, JD, Context{}, true)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("first pass (-want +got):\n%s", diff)
			}
			again, err := emit(t, got, JD, Context{}, true)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("second pass changed output (-first +second):\n%s", diff)
			}
		})
	}
}

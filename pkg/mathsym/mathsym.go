// Package mathsym rewrites ASCII mnemonics in math text to Unicode symbols,
// and Unicode symbols to LaTeX macros.
package mathsym

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mnemonics are only replaced when they make up a whole run of letters, so
// that "pi" becomes "π" in "2pi" and "x_pi" but not in "pipe".
var words = map[string]string{
	"ALPHA": "Α", "BETA": "Β", "GAMMA": "Γ", "DELTA": "Δ", "EPSILON": "Ε",
	"ZETA": "Ζ", "ETA": "Η", "THETA": "Θ", "IOTA": "Ι", "KAPPA": "Κ",
	"LAMBDA": "Λ", "MU": "Μ", "NU": "Ν", "XI": "Ξ", "OMICRON": "Ο", "PI": "Π",
	"RHO": "Ρ", "SIGMA": "Σ", "TAU": "Τ", "YPSILON": "Υ", "PHI": "Φ",
	"CHI": "Χ", "PSI": "Ψ", "OMEGA": "Ω",

	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"zeta": "ζ", "eta": "η", "theta": "θ", "iota": "ι", "kappa": "κ",
	"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "omicron": "ο", "pi": "π",
	"rho": "ρ", "sigma": "σ", "tau": "τ", "ypsilon": "υ", "phi": "φ",
	"chi": "χ", "psi": "ψ", "omega": "ω",

	"NATURALS": "ℕ", "INTEGERS": "ℤ", "RATIONALS": "ℚ", "REALS": "ℝ",
	"COMPLEX": "ℂ",

	"INF": "∞", "ALEPH": "ℵ",

	"AND": "∧", "OR": "∨", "XOR": "⊕",

	"UNION": "∪", "INTERSECTION": "∩", "EMPTY": "Ø",

	"FORALL": "∀", "EXISTS": "∃",
}

// Negated words, written with a leading "!".
var negatedWords = map[string]string{
	"EXISTS": "∄",
}

// Longest operators come first; strings.Replacer picks the first match at
// each position.
var operators = strings.NewReplacer(
	"<->", "↔",
	"->", "→",
	"<-", "←",
	"~=", "≈",
	"~", "∼",
	"!=", "≠",
	"?=", "≟",
	"<=", "≤",
	">=", "≥",
	"...", "…",
	":.", "∴",
	".:", "∴",
	"!€", "∉",
	"€", "∈",
	"!©=", "⊈",
	"!©", "⊄",
	"©=", "⊆",
	"©", "⊂",
	"ø", "∅",
	"Ĉ", "^∁",
	"ĉ", "^∁",
	"+/-", "±",
	"-", "−",
)

// Substitute rewrites mnemonics in math text to Unicode symbols.
func Substitute(s string) string {
	return operators.Replace(substituteWords(s))
}

func substituteWords(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsLetter(r) {
			sb.WriteString(s[i : i+size])
			i += size
			continue
		}
		j := i + letterRunLength(s[i:])
		word := s[i:j]
		if sym, ok := negatedWords[word]; ok && strings.HasSuffix(sb.String(), "!") {
			str := sb.String()
			sb.Reset()
			sb.WriteString(str[:len(str)-1])
			sb.WriteString(sym)
		} else if sym, ok := words[word]; ok {
			sb.WriteString(sym)
		} else {
			sb.WriteString(word)
		}
		i = j
	}
	return sb.String()
}

func letterRunLength(s string) int {
	for i, r := range s {
		if !unicode.IsLetter(r) {
			return i
		}
	}
	return len(s)
}

// Capital Greek letters that look like Latin ones have no LaTeX macro.
var latex = strings.NewReplacer(
	"Α", "A", "Β", "B", "Γ", `\Gamma `, "Δ", `\Delta `, "Ε", "E", "Ζ", "Z",
	"Η", "H", "Θ", `\Theta `, "Ι", "I", "Κ", "K", "Λ", `\Lambda `, "Μ", "M",
	"Ν", "N", "Ξ", `\Xi `, "Ο", "O", "Π", `\Pi `, "Ρ", "P", "Σ", `\Sigma `,
	"Τ", "T", "Υ", `\Upsilon `, "Φ", `\Phi `, "Χ", "X", "Ψ", `\Psi `,
	"Ω", `\Omega `,

	"α", `\alpha `, "β", `\beta `, "γ", `\gamma `, "δ", `\delta `,
	"ε", `\varepsilon `, "ζ", `\zeta `, "η", `\eta `, "θ", `\theta `,
	"ι", `\iota `, "κ", `\kappa `, "λ", `\lambda `, "μ", `\mu `, "ν", `\nu `,
	"ξ", `\xi `, "ο", "o", "π", `\pi `, "ρ", `\rho `, "σ", `\sigma `,
	"τ", `\tau `, "υ", `\upsilon `, "φ", `\phi `, "χ", `\chi `, "ψ", `\psi `,
	"ω", `\omega `,

	"ℕ", `\mathbb{N} `, "ℤ", `\mathbb{Z} `, "ℚ", `\mathbb{Q} `,
	"ℝ", `\mathbb{R} `, "ℂ", `\mathbb{C} `,

	"∞", `\infty `, "ℵ", `\aleph `,

	"∧", `\wedge `, "∨", `\vee `, "⊕", `\oplus `,

	"↔", `\leftrightarrow `, "→", `\rightarrow `, "←", `\leftarrow `,
	"≈", `\approx `, "∼", `\sim `, "≠", `\neq `, "≟", `\stackrel{?}{=} `,
	"≤", `\leq `, "≥", `\geq `, "∴", `\therefore `,

	"∈", `\in `, "∉", `\notin `, "⊈", `\not\subseteq `, "⊄", `\not\subset `,
	"⊆", `\subseteq `, "⊂", `\subset `, "∅", `\varnothing `,
	"∁", `\mathsf{c}`, "∪", `\cup `, "∩", `\cap `, "Ø", `\emptyset `,

	"…", `\ldots `, "±", `\pm `, "−", "-",

	"∀", `\forall `, "∄", `\nexists `, "∃", `\exists `,
)

// LaTeX rewrites Unicode math symbols to LaTeX macros. Each macro is
// followed by a space so that it is terminated before any following letter.
func LaTeX(s string) string {
	return latex.Replace(s)
}

package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.jotdown.dev/pkg/diag"
)

func TestEmit_LaTeX(t *testing.T) {
	testEmit(t, LaTeX, []emitTest{
		{
			name: "special characters",
			code: `50% of $x & y\_z #1 {a} ~ ^ <b> — –`,
			want: `50\% of \$x \& y\_z \#1 \{a\} \textasciitilde{} \textasciicircum{} ` +
				`\textless{}b\textgreater{} --- --` + "\n",
		},
		{
			name: "emphasis",
			code: "*a* **b** ***c*** ~~d~~",
			want: `\textit{a} \textbf{b} \textit{\textbf{c}} \sout{d}` + "\n",
		},
		{
			name: "heading",
			code: "## Two",
			want: `\subsection{Two}` + "\n",
		},
		{
			name: "sum",
			code: "«sum[1 n a_i]»",
			want: `$\displaystyle\sum_{1}^{n} a_{i}$` + "\n",
		},
		{
			name: "symbols become macros",
			code: "«alpha -> beta»",
			want: `$\alpha  \rightarrow  \beta $` + "\n",
		},
		{
			name: "ordered list",
			code: "iii. a\niv. b",
			want: `\begin{enumerate}` + "\n" +
				`\renewcommand{\labelenumi}{\roman{enumi}.}` + "\n" +
				`\setcounter{enumi}{2}` + "\n" +
				`\item a` + "\n" + `\item b` + "\n" +
				`\end{enumerate}` + "\n",
		},
		{
			name: "checklist",
			code: "- [x] a\n- [ ] b",
			want: `\begin{itemize}` + "\n" +
				`\item[$\boxtimes$] a` + "\n" + `\item[$\square$] b` + "\n" +
				`\end{itemize}` + "\n",
		},
		{
			name: "code block",
			code: "```python\nprint(1 % 2)\n```",
			want: `\begin{lstlisting}[language=python]` + "\n" + "print(1 % 2)\n" +
				`\end{lstlisting}` + "\n",
		},
		{
			name: "table",
			code: "a | b\n---|---:\n1 | 2",
			want: `\begin{table}[h]` + "\n" + `\centering` + "\n" +
				`\begin{tabular}{l|r}` + "\n" +
				`a & b \\ \hline` + "\n" +
				`1 & 2 \\` + "\n" +
				`\end{tabular}` + "\n" + `\end{table}` + "\n",
		},
		{
			name: "links",
			code: "[x](a.jd#s%1) https://x.org me@x.org",
			ctx:  Context{RewriteLink: ExtRewriter("tex")},
			want: `\href{a.tex\#s\%1}{x} \url{https://x.org} \href{mailto:me@x.org}{me@x.org}` + "\n",
		},
	})
}

func TestEmit_LaTeXDocument(t *testing.T) {
	out, err := emit(t, "See [x][k].\n\n[k]: https://k.org", LaTeX, Context{
		Title: "T", CitationStyle: true,
		Style: "{{.Title}}\n{{.Body}}{{.References}}",
	}, true)
	if err != nil {
		t.Fatal(err)
	}
	want := "T\n" +
		`See x~\cite{k}.` + "\n" +
		`\begin{thebibliography}{1}` + "\n" +
		`\bibitem{k} \url{https://k.org}` + "\n" +
		`\end{thebibliography}` + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEmit_LaTeXDefaultTemplate(t *testing.T) {
	out, err := emit(t, "text", LaTeX, Context{Author: "Ann", Institution: "lab_1"}, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`\documentclass`, `\usepackage{amsmath}`, `\title{Jotdown Document}`,
		`\author{Ann \\ lab\_1}`, `\begin{document}`, "text\n", `\end{document}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestEmit_LaTeXTemplateError(t *testing.T) {
	_, err := emit(t, "text", LaTeX, Context{Style: "{{.Missing}}"}, true)
	var derr *diag.Error
	if !errors.As(err, &derr) || derr.Type != diag.Structure {
		t.Errorf("Emit -> %v, want structure error", err)
	}
}

package render

import (
	"fmt"
	"strings"
	"text/template"

	"src.jotdown.dev/pkg/ast"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/mathsym"
	"src.jotdown.dev/pkg/media"
	"src.jotdown.dev/pkg/numeral"
)

// LaTeXPackages is the preamble of packages the LaTeX output relies on,
// available to templates as {{.Packages}}.
const LaTeXPackages = `\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{hyperref}
\usepackage{graphicx}
\usepackage{listings}
\usepackage{csquotes}
\usepackage[normalem]{ulem}
`

// LaTeXFields are the values a LaTeX template is executed with.
type LaTeXFields struct {
	Packages    string
	Title       string
	Author      string
	Institution string
	Body        string
	References  string
}

var escapeLaTeX = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
	"—", "---",
	"–", "--",
	">", `\textgreater{}`,
	"<", `\textless{}`,
).Replace

var escapeLaTeXURL = strings.NewReplacer("%", `\%`, "#", `\#`).Replace

// Characters that are special in math mode.
var escapeLaTeXMath = strings.NewReplacer(
	"%", `\%`, "#", `\#`, "&", `\&`, "$", `\$`, "{", `\{`, "}", `\}`, "|", `\mid `,
).Replace

// Escapes math text and rewrites its symbols to macros.
func latexMath(s string) string {
	return mathsym.LaTeX(escapeLaTeXMath(s))
}

var latexSections = [...]string{
	1: `\section`, 2: `\subsection`, 3: `\subsubsection`, 4: `\paragraph`,
}

var latexCommands = map[ast.Kind][2]string{
	ast.Emphasis:             {`\textit{`, "}"},
	ast.Strong:               {`\textbf{`, "}"},
	ast.StrongEmphasis:       {`\textit{\textbf{`, "}}"},
	ast.Strikethrough:        {`\sout{`, "}"},
	ast.CodeSpan:             {`\texttt{`, "}"},
	ast.MathInline:           {"$", "$"},
	ast.Parenthesis:          {`\left(`, `\right)`},
	ast.Braces:               {`\left\{`, `\right\}`},
	ast.Brackets:             {"{", "}"},
	ast.SquareRoot:           {`\sqrt{`, "}"},
	ast.SubscriptBracketed:   {"_{", "}"},
	ast.SuperscriptBracketed: {"^{", "}"},
}

var latexBigOperators = map[ast.Kind]string{
	ast.Sum:      `\sum`,
	ast.Product:  `\prod`,
	ast.Integral: `\int`,
}

var latexNumberings = map[numeral.Style]string{
	numeral.Decimal:    `\arabic`,
	numeral.LowerRoman: `\roman`,
	numeral.UpperRoman: `\Roman`,
	numeral.LowerAlpha: `\alph`,
	numeral.UpperAlpha: `\Alph`,
}

var enumCounters = []string{"enumi", "enumii", "enumiii", "enumiv"}

var latexAligns = map[ast.Alignment]string{
	ast.Left: "l", ast.Center: "c", ast.Right: "r",
}

type latexCodec struct {
	*writer
	// Nesting depth of enumerate environments.
	enumDepth int
}

func (c *latexCodec) nodes(ns []*ast.Node) {
	for _, n := range ns {
		c.node(n)
	}
}

func (c *latexCodec) join(ns []*ast.Node, sep string) {
	for i, n := range ns {
		if i > 0 {
			c.str(sep)
		}
		c.node(n)
	}
}

// Emits math nodes separated by spaces, so that adjacent tokens stay apart.
func (c *latexCodec) math(ns []*ast.Node) {
	c.join(ns, " ")
}

func (c *latexCodec) node(n *ast.Node) {
	if !c.enter(n) {
		return
	}
	switch n.Kind {
	case ast.Document:
		c.document(n)
	case ast.Heading:
		c.str(latexSections[min(max(n.Level, 1), 4)], "{")
		c.join(n.Children, " ")
		c.str("}\n")
	case ast.HorizontalRule:
		c.str(`\noindent\rule{\textwidth}{1pt}` + "\n")
	case ast.UnorderedList, ast.ChecklistList:
		c.str(`\begin{itemize}` + "\n")
		c.items(n)
		c.str(`\end{itemize}` + "\n")
	case ast.OrderedList:
		c.enumerate(n)
	case ast.ReferenceList:
		c.printf(`\begin{thebibliography}{%d}`+"\n", len(n.Children))
		c.nodes(n.Children)
		c.str(`\end{thebibliography}` + "\n")
	case ast.ListItem, ast.ChecklistItem:
		c.str(`\item`)
		if n.Kind == ast.ChecklistItem {
			if n.Checked {
				c.str(`[$\boxtimes$]`)
			} else {
				c.str(`[$\square$]`)
			}
		}
		c.str(" ")
		inline, nested := splitItem(n)
		c.nodes(inline)
		c.str("\n")
		c.nodes(nested)
	case ast.ReferenceItem:
		c.printf(`\bibitem{%s} `, n.Dest)
		c.nodes(n.Children)
		c.str("\n")
	case ast.Paragraph:
		c.join(n.Children, " \\\\\n")
		c.str("\n")
	case ast.Line:
		c.nodes(n.Children)
	case ast.CodeBlock:
		c.str(`\begin{lstlisting}`)
		if n.Info != "" {
			c.printf("[language=%s]", n.Info)
		}
		c.str("\n")
		for _, line := range n.Children {
			c.str(line.Text, "\n")
		}
		c.str(`\end{lstlisting}` + "\n")
	case ast.MathBlock:
		c.str(`\begin{gather*}` + "\n")
		c.math(n.Children)
		c.str("\n" + `\end{gather*}` + "\n")
	case ast.Blockquote:
		c.str(`\begin{displayquote}` + "\n")
		for i, child := range n.Children {
			if i > 0 && child.Kind == ast.Line && n.Children[i-1].Kind == ast.Line {
				c.str(" \\\\\n")
			}
			c.node(child)
		}
		c.str("\n" + `\end{displayquote}` + "\n")
	case ast.Table:
		c.table(n)
	case ast.TableRow:
		c.join(n.Children, " & ")
		c.str(` \\`)
	case ast.TableHeaderCell, ast.TableCell:
		c.nodes(n.Children)
	case ast.Link:
		c.printf(`\href{%s}{`, escapeLaTeXURL(c.link(n.Dest)))
		c.nodes(n.Children)
		c.str("}")
	case ast.ReferenceLink:
		e, _, ok := c.reference(n)
		if !ok {
			return
		}
		if c.ctx.CitationStyle {
			c.nodes(n.Children)
			c.printf(`~\cite{%s}`, n.Dest)
		} else {
			c.printf(`\href{%s}{`, escapeLaTeXURL(c.link(e.Target)))
			c.nodes(n.Children)
			c.str("}")
		}
	case ast.ImplicitLink:
		c.printf(`\url{%s}`, escapeLaTeXURL(n.Text))
	case ast.ImplicitEmail:
		c.printf(`\href{mailto:%s}{%s}`, escapeLaTeXURL(n.Text), escapeLaTeX(n.Text))
	case ast.Content:
		c.content(n)
	case ast.PlainText:
		c.str(escapeLaTeX(n.Text))
	case ast.Identifier, ast.Number:
		c.str(latexMath(n.Text))
		c.nodes(n.Children)
	case ast.Operator:
		c.str(latexMath(n.Text))
	case ast.Comment:
		c.printf(`\text{%s}`, escapeLaTeX(n.Text))
	case ast.Subscript:
		c.printf("_{%s}", latexMath(n.Text))
	case ast.Superscript:
		c.printf("^{%s}", latexMath(n.Text))
	case ast.Newline:
		c.str(`\\` + "\n")
	case ast.Sum, ast.Product, ast.Integral:
		c.str(`\displaystyle`, latexBigOperators[n.Kind], "_{")
		c.node(child(n, 0))
		c.str("}^{")
		c.node(child(n, 1))
		c.str("} ")
		c.math(rest(n, 2))
	default:
		cmd, ok := latexCommands[n.Kind]
		if !ok {
			panic(fmt.Sprintf("unhandled node kind %v", n.Kind))
		}
		c.str(cmd[0])
		if n.Kind.IsMath() || n.Kind == ast.MathInline {
			c.math(n.Children)
		} else {
			c.nodes(n.Children)
		}
		c.str(cmd[1])
	}
}

func (c *latexCodec) document(n *ast.Node) {
	t, err := template.New("latex").Parse(c.style(LaTeX))
	if err != nil {
		c.fail(diag.Newf(diag.Structure, diag.Context{}, "LaTeX template: %v", err))
		return
	}
	fields := LaTeXFields{
		Packages:    LaTeXPackages,
		Title:       escapeLaTeX(c.title()),
		Author:      escapeLaTeX(c.ctx.Author),
		Institution: escapeLaTeX(c.ctx.Institution),
		Body:        c.capture(func() { c.join(n.Children, "\n") }),
	}
	if c.ctx.CitationStyle {
		fields.References = c.capture(func() { c.node(c.referenceList()) })
	}
	if c.err != nil {
		return
	}
	if err := t.Execute(c.out, fields); err != nil {
		c.fail(diag.Newf(diag.Structure, diag.Context{}, "LaTeX template: %v", err))
	}
}

func (c *latexCodec) items(n *ast.Node) {
	for _, item := range n.Children {
		if item.Kind.IsList() {
			// A list nested without a parent item.
			c.str(`\item[]` + "\n")
		}
		c.node(item)
	}
}

func (c *latexCodec) enumerate(n *ast.Node) {
	counter := enumCounters[min(c.enumDepth, len(enumCounters)-1)]
	c.enumDepth++
	defer func() { c.enumDepth-- }()

	c.str(`\begin{enumerate}` + "\n")
	if n.Style != numeral.Decimal {
		c.printf(`\renewcommand{\label%s}{%s{%s}.}`+"\n", counter, latexNumberings[n.Style], counter)
	}
	if n.Start != 1 {
		c.printf(`\setcounter{%s}{%d}`+"\n", counter, n.Start-1)
	}
	c.items(n)
	c.str(`\end{enumerate}` + "\n")
}

func (c *latexCodec) table(n *ast.Node) {
	aligns := make([]string, len(n.Aligns))
	for i, a := range n.Aligns {
		aligns[i] = latexAligns[a]
	}
	c.str(`\begin{table}[h]` + "\n" + `\centering` + "\n")
	c.printf(`\begin{tabular}{%s}`+"\n", strings.Join(aligns, "|"))
	for i, row := range n.Children {
		c.node(row)
		if i == 0 {
			c.str(` \hline`)
		}
		c.str("\n")
	}
	c.str(`\end{tabular}` + "\n")
	if len(n.Caption) > 0 {
		c.str(`\caption{`)
		c.nodes(n.Caption)
		c.str("}\n")
	}
	c.str(`\end{table}` + "\n")
}

func (c *latexCodec) content(n *ast.Node) {
	if media.Classify(n.Dest) != media.Image {
		c.printf(`\url{%s}`, escapeLaTeXURL(n.Dest))
		return
	}
	c.str("\n" + `\begin{figure}[h]` + "\n" + `\centering` + "\n")
	c.printf(`\includegraphics[width=\textwidth]{%s}`+"\n", n.Dest)
	if len(n.Caption) > 0 {
		c.str(`\caption{`)
		c.nodes(n.Caption)
		c.str("}\n")
	}
	c.str(`\end{figure}` + "\n")
}

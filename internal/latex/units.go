package latex

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/alnah/go-md2latex/internal/diag"
	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// closer is a unit whose closing markup does not depend on anything.
type closer string

func (c closer) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	return write(g, string(c))
}

// inline returns the constructor of a unit wrapping its content between
// open and close.
func inline(open, close string) engine.Constructor {
	return func(g *engine.Generator, _ event.Tag, _ event.Range) (engine.Unit, error) {
		if err := write(g, open); err != nil {
			return nil, err
		}
		return closer(close), nil
	}
}

// ----------------------------------------------------------------------------
// Paragraphs and blocks
// ----------------------------------------------------------------------------

type paragraph struct{}

func newParagraph(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return paragraph{}, nil
}

func (paragraph) Finish(g *engine.Generator, _ event.Tag, peek event.Event) error {
	// A footnote text closes right after its last paragraph.
	if event.IsEndOf(peek, event.KindFootnoteDefinition) {
		return nil
	}
	return write(g, "\n\n")
}

type rule struct{}

func newRule(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return rule{}, nil
}

// Intercept rejects content: a rule never has any.
func (rule) Intercept(_ engine.Stack, ev event.Event) (event.Event, error) {
	engine.Invariant("rule received nested %s", event.Describe(ev))
	return nil, nil
}

func (rule) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	return write(g, "\n\\vspace{1em}\n\\hrule\n\\vspace{1em}\n\n")
}

// blockQuote buffers the quote to detect a trailing "-- source" line.
type blockQuote struct {
	buf bytes.Buffer
}

func newBlockQuote(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return &blockQuote{}, nil
}

func (q *blockQuote) Redirect() io.Writer { return &q.buf }

func (q *blockQuote) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	quote, source := splitQuoteSource(q.buf.String())
	if source != "" {
		return write(g, "\\begin{aquote}{", source, "}\n", quote, "\\end{aquote}\n")
	}
	return write(g, "\\begin{quote}\n", quote, "\\end{quote}\n")
}

// splitQuoteSource detaches the last line of a quote if it starts with "--".
func splitQuoteSource(quote string) (body, source string) {
	pos := strings.LastIndexByte(strings.TrimRight(quote, " \t\r\n"), '\n')
	if pos < 0 {
		return quote, ""
	}
	last := quote[pos+1:]
	if !strings.HasPrefix(last, "--") {
		return quote, ""
	}
	return quote[:pos+1], strings.TrimSpace(strings.TrimLeft(last, "-"))
}

type codeBlock struct{}

func newCodeBlock(g *engine.Generator, tag event.Tag, at event.Range) (engine.Unit, error) {
	cb := tag.(event.CodeBlock)

	var sb strings.Builder
	sb.WriteString(`\begin{lstlisting}[`)
	if cb.Label != "" {
		sb.WriteString("label={" + cb.Label + "},")
	}
	if cb.Caption != "" {
		sb.WriteString("caption={" + cb.Caption + "},")
	}
	if cb.Language != "" {
		lang, ok := listingsLanguage(cb.Language)
		if ok {
			sb.WriteString("language={" + lang + "},")
		} else {
			g.Diagnose(diag.Warning, at, "unknown code block language "+strconv.Quote(cb.Language),
				"the block is typeset without syntax highlighting")
		}
	}
	sb.WriteString("]\n")
	if err := write(g, sb.String()); err != nil {
		return nil, err
	}
	return codeBlock{}, nil
}

func (codeBlock) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	return write(g, "\\end{lstlisting}\n")
}

// listingsLanguage maps a fence language to a listings language. Aliases
// are resolved through the chroma lexer registry.
func listingsLanguage(fence string) (string, bool) {
	lexer := lexers.Get(fence)
	if lexer == nil {
		return "", false
	}
	lang, ok := listingsLanguages[lexer.Config().Name]
	return lang, ok
}

// listingsLanguages maps chroma lexer names to listings languages, including
// the ones defined by the default style.
var listingsLanguages = map[string]string{
	"Ada":         "Ada",
	"Bash":        "bash",
	"C":           "C",
	"C++":         "C++",
	"Common Lisp": "Lisp",
	"Erlang":      "erlang",
	"Fortran":     "Fortran",
	"GAS":         "[x86masm]Assembler",
	"Go":          "golang",
	"HTML":        "HTML",
	"Haskell":     "Haskell",
	"Java":        "Java",
	"JavaScript":  "js",
	"Lua":         "Lua",
	"Makefile":    "make",
	"NASM":        "[x86masm]Assembler",
	"OCaml":       "ML",
	"PHP":         "PHP",
	"Perl":        "Perl",
	"Prolog":      "Prolog",
	"Python":      "Python",
	"Python 2":    "Python",
	"R":           "R",
	"Ruby":        "Ruby",
	"Rust":        "rust",
	"SQL":         "SQL",
	"Scala":       "Scala",
	"TeX":         "TeX",
	"TypeScript":  "js",
	"XML":         "XML",
}

// ----------------------------------------------------------------------------
// Lists
// ----------------------------------------------------------------------------

func (b *Backend) newList(g *engine.Generator, _ event.Tag, _ event.Range) (engine.Unit, error) {
	open := "\\begin{itemize}\n"
	if b.opts.TightList {
		open += "\\setlength{\\itemsep}{0pt}\\setlength{\\parskip}{0pt}\n"
	}
	if err := write(g, open); err != nil {
		return nil, err
	}
	return closer("\\end{itemize}\n"), nil
}

func newEnumerate(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	e := tag.(event.Enumerate)
	depth := 1 + g.Stack().Count(event.KindEnumerate)
	err := writef(g, "\\begin{enumerate}\n\\setcounter{enum%s}{%d}\n", strings.Repeat("i", depth), e.Start-1)
	if err != nil {
		return nil, err
	}
	return closer("\\end{enumerate}\n"), nil
}

func newItem(g *engine.Generator, _ event.Tag, _ event.Range) (engine.Unit, error) {
	if err := write(g, `\item `); err != nil {
		return nil, err
	}
	return closer("\n"), nil
}

func newFootnoteDefinition(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	fd := tag.(event.FootnoteDefinition)
	if err := writef(g, "\\footnotetext{\\label{fnote:%s}", fd.Label); err != nil {
		return nil, err
	}
	return closer("}\n"), nil
}

// htmlBlock writes nothing of its own; the text of the block is emitted as
// escaped text.
type htmlBlock struct{}

func newHTMLBlock(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return htmlBlock{}, nil
}

func (htmlBlock) Finish(*engine.Generator, event.Tag, event.Event) error { return nil }

// ----------------------------------------------------------------------------
// Links
// ----------------------------------------------------------------------------

func newLink(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	l := tag.(event.Link)
	if l.Title == "" {
		if err := writef(g, "\\href{%s}{", l.Destination); err != nil {
			return nil, err
		}
		return closer("}"), nil
	}
	if err := writef(g, "\\pdftooltip{\\href{%s}{", l.Destination); err != nil {
		return nil, err
	}
	return closer("}}{" + l.Title + "}"), nil
}

func newInterLink(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	l := tag.(event.InterLink)
	if err := writef(g, "\\hyperref[%s]{", l.Label); err != nil {
		return nil, err
	}
	return closer("}"), nil
}

// ----------------------------------------------------------------------------
// Math
// ----------------------------------------------------------------------------

func newEquation(g *engine.Generator, _ event.Tag, _ event.Range) (engine.Unit, error) {
	if err := write(g, "\\begin{align*}\n"); err != nil {
		return nil, err
	}
	return closer("\\end{align*}\n"), nil
}

func newNumberedEquation(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	eq := tag.(event.NumberedEquation)
	open := "\\begin{align}\n"
	if eq.Label != "" {
		open += "\\label{" + eq.Label + "}\n"
	}
	if err := write(g, open); err != nil {
		return nil, err
	}
	return closer("\\end{align}\n"), nil
}

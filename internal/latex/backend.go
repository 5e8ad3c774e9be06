// Package latex implements the LaTeX backends of the generation engine.
//
// All flavors share the units of the body constructs. They differ in the
// preamble and epilogue hooks and in the units of headers and rules:
// report and thesis start their hierarchy at \chapter, and beamer maps
// headers onto sections, frames and boxes.
package latex

import (
	"fmt"
	"io"

	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// maxHeaderLevel is the deepest header level the backends can express.
const maxHeaderLevel = 3

// Backend is a LaTeX engine.Backend. It keeps per-document state and must
// not be shared between concurrent generations.
type Backend struct {
	opts Options

	// Beamer frame stack: strictly increasing open levels in 1..3 and the
	// title last seen at each level.
	levels []int
	titles [maxHeaderLevel + 1]string
}

var _ engine.Backend = (*Backend)(nil)

// New creates a backend.
func New(opts Options) *Backend {
	return &Backend{opts: opts}
}

// Flavor returns the configured flavor.
func (b *Backend) Flavor() Flavor {
	return b.opts.Flavor
}

// Units maps every container kind to its unit.
func (b *Backend) Units() engine.Mapping {
	var m engine.Mapping
	m[event.KindParagraph] = newParagraph
	m[event.KindRule] = newRule
	m[event.KindHeader] = newHeader
	m[event.KindBlockQuote] = newBlockQuote
	m[event.KindCodeBlock] = newCodeBlock
	m[event.KindList] = b.newList
	m[event.KindEnumerate] = newEnumerate
	m[event.KindItem] = newItem
	m[event.KindFootnoteDefinition] = newFootnoteDefinition
	m[event.KindHTMLBlock] = newHTMLBlock
	m[event.KindLink] = newLink
	m[event.KindInterLink] = newInterLink
	m[event.KindFigure] = newFigure
	m[event.KindTableFigure] = newTableFigure
	m[event.KindTable] = newTable
	m[event.KindTableHead] = newTableHead
	m[event.KindTableRow] = newTableRow
	m[event.KindTableCell] = newTableCell
	m[event.KindEmphasis] = inline(`\emph{`, `}`)
	m[event.KindStrong] = inline(`\textbf{`, `}`)
	m[event.KindStrikethrough] = inline(`\sout{`, `}`)
	m[event.KindInlineCode] = inline(`\texttt{`, `}`)
	m[event.KindInlineMath] = inline(`\begin{math}`, `\end{math}`)
	m[event.KindEquation] = newEquation
	m[event.KindNumberedEquation] = newNumberedEquation
	m[event.KindGraphviz] = b.newGraphviz
	m[event.KindFrame] = newFrame

	switch b.opts.Flavor {
	case Report, Thesis:
		m[event.KindHeader] = newBookHeader
	case Beamer:
		m[event.KindHeader] = b.newBeamerHeader
		m[event.KindRule] = b.newBeamerRule
	}
	return m
}

// Preamble writes everything up to the document body.
func (b *Backend) Preamble(g *engine.Generator) error {
	b.levels = b.levels[:0]
	b.titles = [maxHeaderLevel + 1]string{}

	var text string
	switch b.opts.Flavor {
	case Article:
		text = buildArticlePreamble(b.opts)
	case Report:
		text = buildReportPreamble(b.opts)
	case Thesis:
		text = buildThesisPreamble(b.opts)
	case Beamer:
		text = buildBeamerPreamble(b.opts)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFlavor, b.opts.Flavor)
	}
	return write(g, text)
}

// Epilogue closes the document.
func (b *Backend) Epilogue(g *engine.Generator) error {
	if b.opts.Flavor == Beamer {
		if err := b.closeFrames(g); err != nil {
			return err
		}
	}
	if !b.opts.Standalone {
		return nil
	}
	return write(g, "\\end{document}\n")
}

// write writes parts to the current output of g.
func write(g *engine.Generator, parts ...string) error {
	out := g.Out()
	for _, p := range parts {
		if _, err := io.WriteString(out, p); err != nil {
			return err
		}
	}
	return nil
}

func writef(g *engine.Generator, format string, args ...any) error {
	_, err := fmt.Fprintf(g.Out(), format, args...)
	return err
}

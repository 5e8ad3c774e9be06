package latex

import (
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// Emit writes a leaf event.
func (b *Backend) Emit(g *engine.Generator, ev event.Event, at event.Range) error {
	switch e := ev.(type) {
	case event.Text:
		return b.text(g, string(e))
	case event.HTML:
		return b.text(g, string(e))
	case event.InlineHTML:
		return b.text(g, string(e))
	case event.Latex:
		return write(g, string(e))
	case event.Label:
		return writef(g, "\\label{%s}\n", string(e))
	case event.FootnoteRef:
		return writef(g, "\\footnotemark[\\getrefnumber{fnote:%s}]", e.Label)
	case event.Citations:
		return write(g, citations(e))
	case event.URL:
		if e.Title == "" {
			return writef(g, "\\url{%s}", e.Destination)
		}
		return writef(g, "\\pdftooltip{\\url{%s}}{%s}", e.Destination, e.Title)
	case event.CrossRef:
		if e.Uppercase {
			return writef(g, "\\Cref{%s}", e.Label)
		}
		return writef(g, "\\cref{%s}", e.Label)
	case event.Image:
		return write(g, image(e.Path, e.Media))
	case event.Svg:
		return b.emitSvg(g, e, at)
	case event.PDF:
		return writef(g, "\\includepdf[pages=-]{%s}\n", texPath(e.Path))
	case event.SoftBreak:
		return write(g, "\n")
	case event.HardBreak:
		if g.Stack().Contains(event.KindTable) {
			return write(g, `\newline`)
		}
		return write(g, "\\\\\n")
	case event.TaskMarker:
		if e.Checked {
			return write(g, `[$\boxtimes$] `)
		}
		return write(g, `[$\square$] `)
	case event.Command:
		return write(g, command(e))
	default:
		engine.Invariant("LaTeX backend can't emit %s", event.Describe(ev))
		return nil
	}
}

// text escapes s for the innermost open construct.
func (b *Backend) text(g *engine.Generator, s string) error {
	var sb strings.Builder
	escapeTo(&sb, s, modeOf(g.Stack()))
	return write(g, sb.String())
}

func citations(cs event.Citations) string {
	var sb strings.Builder
	if len(cs) == 1 {
		if cs[0].Attrs != "" {
			sb.WriteString(`\cite[` + cs[0].Attrs + `]{` + cs[0].Key + `}`)
		} else {
			sb.WriteString(`\cite{` + cs[0].Key + `}`)
		}
		return sb.String()
	}
	sb.WriteString(`\cites`)
	for _, c := range cs {
		if c.Attrs != "" {
			sb.WriteString(`[` + c.Attrs + `]`)
		}
		sb.WriteString(`{` + c.Key + `}`)
	}
	return sb.String()
}

func command(c event.Command) string {
	switch c {
	case event.CommandTOC:
		return "\\tableofcontents\n"
	case event.CommandBibliography:
		return "\\printbibliography[heading=bibintoc]\n"
	case event.CommandListOfTables:
		return withoutProtrusion(`\listoftables`)
	case event.CommandListOfFigures:
		return withoutProtrusion(`\listoffigures`)
	case event.CommandListOfListings:
		return withoutProtrusion(`\lstlistoflistings`)
	case event.CommandAppendix:
		return "\\appendix{}\n" +
			"\\renewcommand\\thelstlisting{\\Alph{lstlisting}}\n" +
			"\\setcounter{lstlisting}{0}\n"
	default:
		engine.Invariant("unknown command %d", int(c))
		return ""
	}
}

// withoutProtrusion disables microtype protrusion around lists, which
// otherwise misaligns their page numbers.
func withoutProtrusion(cmd string) string {
	return "\\microtypesetup{protrusion=false}\n" + cmd + "\n\\microtypesetup{protrusion=true}\n"
}

// image returns the markup of an image wrapped in its figure environment.
func image(path string, m event.Media) string {
	env := figureEnvironment(m.Label, m.Caption, m.Figure)

	var sb strings.Builder
	sb.WriteString(env.begin())
	if m.Title != "" {
		sb.WriteString("\\pdftooltip{\n")
	}
	if m.Alt != "" {
		sb.WriteString(`\imagewithtext[`)
	} else {
		sb.WriteString(`\includegraphics[`)
	}
	sb.WriteString(graphicsOptions(m.Scale, m.Width, m.Height))
	sb.WriteString("]{" + texPath(path) + "}")
	if m.Alt != "" {
		sb.WriteString("{" + Escape(m.Alt) + "}")
	}
	sb.WriteString("\n")
	if m.Title != "" {
		sb.WriteString("}{" + m.Title + "}\n")
	}
	sb.WriteString(env.end())
	return sb.String()
}

func graphicsOptions(scale, width, height string) string {
	var sb strings.Builder
	if scale != "" {
		sb.WriteString("scale=" + scale + ",")
	}
	if width != "" {
		sb.WriteString("width=" + width + ",")
	}
	if height != "" {
		sb.WriteString("height=" + height + ",")
	}
	return sb.String()
}

func (b *Backend) emitSvg(g *engine.Generator, svg event.Svg, at event.Range) error {
	if b.opts.Renderer == nil {
		return g.Fail(at, "can't include svg image", ErrNoRenderer.Error(), "svg files are converted to pdf before inclusion")
	}
	pdf, err := b.opts.Renderer.SVG(g.Context(), svg.Path)
	if err != nil {
		return err
	}
	return write(g, image(pdf, svg.Media))
}

// texPath returns path with forward slashes, as LaTeX expects.
func texPath(path string) string {
	return filepath.ToSlash(path)
}

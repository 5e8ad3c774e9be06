package engine

import (
	"errors"
	"os"
	"strconv"

	"github.com/alnah/go-md2latex/internal/event"
	"github.com/alnah/go-md2latex/internal/resolve"
)

// include resolves an include event and dispatches its result.
func (g *Generator) include(inc event.Include, at event.Range) error {
	if g.resolver == nil {
		return g.Fail(at, "includes are disabled", "tried to include "+strconv.Quote(inc.Target))
	}
	d := g.current()

	res, err := g.resolver.Resolve(g.Context(), d.context, inc.Target)
	if err != nil {
		var rerr *resolve.Error
		if errors.As(err, &rerr) {
			return g.Fail(at, rerr.Msg, append([]string{"tried to include " + strconv.Quote(inc.Target)}, rerr.Notes...)...)
		}
		return g.Fail(at, "couldn't resolve "+strconv.Quote(inc.Target), "cause: "+err.Error())
	}

	switch r := res.(type) {
	case resolve.CommandInclude:
		return g.backend.Emit(g, r.Command, at)
	case resolve.Image:
		return g.backend.Emit(g, event.Image{Path: r.Path, Media: inc.Media}, at)
	case resolve.Svg:
		return g.backend.Emit(g, event.Svg{Path: r.Path, Media: inc.Media}, at)
	case resolve.PDF:
		return g.backend.Emit(g, event.PDF{Path: r.Path}, at)
	case resolve.Graphviz:
		return g.includeGraphviz(d, r.Path, inc.Media, at)
	case resolve.Markdown:
		return g.includeMarkdown(r, at)
	default:
		Invariant("unhandled include %T", res)
		return nil
	}
}

// includeGraphviz dispatches the dot file as a synthetic Graphviz container
// holding its source as text.
func (g *Generator) includeGraphviz(d *document, path string, m event.Media, at event.Range) error {
	src, err := os.ReadFile(path) // #nosec G304 -- path passed access checks
	if err != nil {
		return g.Fail(at, "can't read graphviz file", "cause: "+err.Error(), "reading from path "+path)
	}
	tag := event.Graphviz{
		Label:   m.Label,
		Caption: m.Caption,
		Scale:   m.Scale,
		Width:   m.Width,
		Height:  m.Height,
	}
	d.it.queue(
		event.At(event.Text(src), at),
		event.At(event.End{Tag: tag}, at),
	)
	err = g.VisitEvent(event.At(event.Start{Tag: tag}, at), d.it.peek())
	if errors.Is(err, ErrDiagnostic) {
		d.it.skip()
	}
	return err
}

// includeMarkdown generates another markdown document in place. Its
// headers are shifted below the latest header of the including document.
func (g *Generator) includeMarkdown(md resolve.Markdown, at event.Range) error {
	src, err := os.ReadFile(md.Path) // #nosec G304 -- path passed access checks
	if err != nil {
		return g.Fail(at, "error reading markdown include file", "cause: "+err.Error(), "reading from path "+md.Path)
	}
	if g.parser == nil {
		return g.Fail(at, "can't include markdown", ErrNoParser.Error())
	}
	events, err := g.parser.Parse(g.Context(), md.Path, src)
	if err != nil {
		return g.Fail(at, "error parsing markdown include file", "cause: "+err.Error())
	}
	if len(g.docs) > maxIncludeDepth {
		return g.Fail(at, "includes nested too deeply", "is a document including itself?")
	}
	return g.generateDocument(Document{
		Name:    md.Path,
		Source:  src,
		Events:  events,
		Context: md.Context,
	}, g.lastHeader)
}

// maxIncludeDepth bounds recursive markdown includes.
const maxIncludeDepth = 32

// Package engine is the backend-agnostic interpreter that turns a flat
// stream of Start/End and leaf events into output.
//
// The Generator keeps a stack of open units. Start events construct and
// push a unit chosen by the Backend, End events pop it and finish it with a
// one-event lookahead, and leaf events are written directly by the Backend.
// The innermost unit may intercept the events nested inside it, and any unit
// may redirect the output of its content into a private buffer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alnah/go-md2latex/internal/diag"
	"github.com/alnah/go-md2latex/internal/event"
	"github.com/alnah/go-md2latex/internal/resolve"
)

// ErrNoParser is returned when a document or include must be parsed but no
// Parser was configured.
var ErrNoParser = errors.New("no markdown parser configured")

// Resolver maps include targets to resources.
type Resolver interface {
	Resolve(ctx context.Context, base resolve.Context, ref string) (resolve.Include, error)
}

// Parser turns markdown source into events.
type Parser interface {
	Parse(ctx context.Context, name string, src []byte) ([]event.Spanned, error)
}

// Document is one generation input. When Events is nil, Source is parsed.
type Document struct {
	Name    string
	Source  []byte
	Events  []event.Spanned
	Context resolve.Context // zero means the project root
}

// Option configures a Generator.
type Option func(*Generator)

// WithResolver enables includes.
func WithResolver(r Resolver) Option {
	return func(g *Generator) { g.resolver = r }
}

// WithParser sets the parser for documents given as source and for
// markdown includes.
func WithParser(p Parser) Option {
	return func(g *Generator) { g.parser = p }
}

// WithDiagnostics sets the sink for recoverable problems.
func WithDiagnostics(s diag.Sink) Option {
	return func(g *Generator) { g.diags = s }
}

// document is the state of one (possibly included) input being walked.
type document struct {
	file    *diag.File
	context resolve.Context
	it      *iter
}

// Generator runs one generation at a time. It is not safe for concurrent
// use; create one Generator per document.
type Generator struct {
	backend  Backend
	units    Mapping
	resolver Resolver
	parser   Parser
	diags    diag.Sink

	// Per-run state.
	ctx        context.Context
	out        io.Writer
	stack      []entry
	docs       []*document
	lastHeader int
}

// New creates a Generator for backend. It panics if the backend does not
// map every container kind.
func New(backend Backend, opts ...Option) *Generator {
	g := &Generator{
		backend: backend,
		units:   backend.Units(),
		diags:   diag.Discard,
	}
	for kind, c := range g.units {
		if c == nil {
			Invariant("backend %T has no unit for %s", backend, event.Kind(kind))
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes the whole document to out: preamble, body, epilogue.
func (g *Generator) Generate(ctx context.Context, out io.Writer, doc Document) error {
	g.begin(ctx, out)
	defer g.end()

	if err := g.backend.Preamble(g); err != nil {
		return err
	}
	if err := g.generateDocument(doc, 0); err != nil {
		return err
	}
	if err := g.backend.Epilogue(g); err != nil {
		return err
	}
	if len(g.stack) != 0 {
		Invariant("%d containers still open after the epilogue: %v", len(g.stack), g.Stack().Kinds())
	}
	return nil
}

func (g *Generator) begin(ctx context.Context, out io.Writer) {
	if g.out != nil {
		Invariant("generator already running")
	}
	g.ctx = ctx
	g.out = out
	g.stack = g.stack[:0]
	g.docs = nil
	g.lastHeader = 0
}

func (g *Generator) end() {
	g.ctx = nil
	g.out = nil
}

// generateDocument walks one input until its events are exhausted.
func (g *Generator) generateDocument(doc Document, headerAdjust int) error {
	events := doc.Events
	if events == nil && len(doc.Source) > 0 {
		if g.parser == nil {
			return ErrNoParser
		}
		parsed, err := g.parser.Parse(g.ctx, doc.Name, doc.Source)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", doc.Name, err)
		}
		events = parsed
	}
	rctx := doc.Context
	if rctx.IsZero() {
		rctx = resolve.ProjectRoot()
	}

	d := &document{
		file:    diag.NewFile(doc.Name, doc.Source),
		context: rctx,
		it:      newIter(events, headerAdjust),
	}
	g.docs = append(g.docs, d)
	defer func() { g.docs = g.docs[:len(g.docs)-1] }()

	for {
		if err := g.ctx.Err(); err != nil {
			return err
		}
		ev, ok := d.it.next()
		if !ok {
			return nil
		}
		err := g.VisitEvent(ev, d.it.peek())
		switch {
		case err == nil:
		case errors.Is(err, ErrDiagnostic):
			// A failed Start pushed nothing: drop its content and its End.
			if _, isStart := ev.Event.(event.Start); isStart {
				d.it.skip()
			}
		default:
			return err
		}
	}
}

// VisitEvent dispatches a single event. peek is the next undispatched event.
// Units call it to inject synthetic events; it is the same entry point the
// dispatch loop uses.
func (g *Generator) VisitEvent(ev event.Spanned, peek event.Event) error {
	if end, ok := ev.Event.(event.End); ok {
		return g.finish(end, peek)
	}

	e := ev.Event
	if n := len(g.stack); n > 0 {
		if ic, ok := g.stack[n-1].unit.(Interceptor); ok {
			var err error
			e, err = ic.Intercept(Stack{entries: g.stack[:n-1]}, e)
			if err != nil {
				return err
			}
			if e == nil {
				return nil
			}
		}
	}

	switch e := e.(type) {
	case event.Start:
		return g.start(e.Tag, ev.At)
	case event.End:
		return g.finish(e, peek)
	case event.Include:
		return g.include(e, ev.At)
	default:
		return g.backend.Emit(g, e, ev.At)
	}
}

func (g *Generator) start(tag event.Tag, at event.Range) error {
	if tag == nil {
		Invariant("Start event without tag")
	}
	if h, ok := tag.(event.Header); ok {
		g.lastHeader = h.Level
	}
	kind := tag.Kind()
	unit, err := g.units[kind](g, tag, at)
	if err != nil {
		return err
	}
	g.stack = append(g.stack, entry{kind: kind, unit: unit, at: at})
	return nil
}

func (g *Generator) finish(end event.End, peek event.Event) error {
	n := len(g.stack)
	if n == 0 {
		Invariant("%s with no open container", event.Describe(end))
	}
	top := g.stack[n-1]
	g.stack[n-1] = entry{}
	g.stack = g.stack[:n-1]
	if end.Tag == nil || end.Tag.Kind() != top.kind {
		Invariant("%s does not close the open %s", event.Describe(end), top.kind)
	}
	return top.unit.Finish(g, end.Tag, peek)
}

// Out returns the current output: the buffer of the innermost redirecting
// unit, or the document output. It is resolved again on every call.
func (g *Generator) Out() io.Writer {
	for i := len(g.stack) - 1; i >= 0; i-- {
		if r, ok := g.stack[i].unit.(Redirector); ok {
			if w := r.Redirect(); w != nil {
				return w
			}
		}
	}
	return g.out
}

// Stack returns a view of the open containers.
func (g *Generator) Stack() Stack {
	return Stack{entries: g.stack}
}

// Context returns the context of the running generation.
func (g *Generator) Context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

// Diagnose reports a problem located at the given range of the current input.
func (g *Generator) Diagnose(sev diag.Severity, at event.Range, msg string, notes ...string) {
	var file *diag.File
	if n := len(g.docs); n > 0 {
		file = g.docs[n-1].file
	}
	g.diags.Report(diag.Report{Severity: sev, Message: msg, File: file, At: at, Notes: notes})
}

// Fail reports an error and returns ErrDiagnostic, so that the caller can
// return it to skip the current construct.
func (g *Generator) Fail(at event.Range, msg string, notes ...string) error {
	g.Diagnose(diag.Error, at, msg, notes...)
	return ErrDiagnostic
}

func (g *Generator) current() *document {
	if len(g.docs) == 0 {
		Invariant("no document is being generated")
	}
	return g.docs[len(g.docs)-1]
}

// Package frontend parses markdown with goldmark and flattens the syntax
// tree into the event stream consumed by the generation engine.
//
// On top of CommonMark and GFM (tables, strikethrough, task lists,
// autolinks, footnotes) it understands:
//   - element configs `{#label, caption="..", figure, width=..}` on the
//     line before a header, code block, table or image
//   - header labels `# Title {#label}`
//   - shortcut references `[#label]`, `[sec:label]` and citations `[@key]`
//   - images as includes: `![alt](file.md)` or `![](//toc)`
//   - special code blocks: equation, numberedequation, graphviz, inlinelatex
//   - inline math `` `$ x^2` `` and inline LaTeX `` `\ \LaTeX` ``
package frontend

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-md2latex/internal/diag"
	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// ErrParse indicates the markdown parser failed.
var ErrParse = errors.New("markdown parsing failed")

// referenceParserPriority runs shortcut references after code spans and
// footnotes but before links.
const referenceParserPriority = 150

// Options configures a Parser.
type Options struct {
	// Citations enables `[@key]` bibliography references.
	Citations bool
	// Figures wraps configured elements in floats unless their config
	// says otherwise.
	Figures bool
	// Diagnostics receives warnings about element configs. Defaults to
	// diag.Discard.
	Diagnostics diag.Sink
}

// Parser converts markdown to events. It is safe for concurrent use.
type Parser struct {
	opts Options
	md   goldmark.Markdown
}

var _ engine.Parser = (*Parser)(nil)

// New creates a Parser.
func New(opts Options) *Parser {
	if opts.Diagnostics == nil {
		opts.Diagnostics = diag.Discard
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
		),
		goldmark.WithParserOptions(
			parser.WithHeadingAttribute(), // # Title {#label}
			parser.WithInlineParsers(
				util.Prioritized(&referenceParser{citations: opts.Citations}, referenceParserPriority),
			),
		),
	)
	return &Parser{opts: opts, md: md}
}

// Parse converts src to events whose ranges point into src.
// Goldmark doesn't support cancellation, so parsing runs in a goroutine and
// Parse returns early when ctx is done.
func (p *Parser) Parse(ctx context.Context, name string, src []byte) ([]event.Spanned, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		events []event.Spanned
		err    error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %s: %v", ErrParse, name, r)}
			}
		}()
		s := prepareSource(src)
		doc := p.md.Parser().Parse(text.NewReader(s.text))
		c := newConverter(p.opts, diag.NewFile(name, src), s)
		done <- result{events: c.convert(doc)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.events, r.err
	}
}

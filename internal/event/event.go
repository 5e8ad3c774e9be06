// Package event defines the flat event stream consumed by the generation
// engine: leaf events and paired Start/End container events.
package event

import "fmt"

// Range is a byte span in the source document, used for diagnostics.
type Range struct {
	Start int
	End   int
}

// Event is one item of the stream. The set of implementations is closed.
type Event interface {
	isEvent()
}

// Spanned pairs an event with the source range it was produced from.
type Spanned struct {
	Event
	At Range
}

// At wraps e with range r.
func At(e Event, r Range) Spanned {
	return Spanned{Event: e, At: r}
}

// Plain wraps events with empty ranges. Synthetic streams and tests use it.
func Plain(events ...Event) []Spanned {
	out := make([]Spanned, len(events))
	for i, e := range events {
		out[i] = Spanned{Event: e}
	}
	return out
}

// Start opens a container.
type Start struct {
	Tag Tag
}

// End closes the innermost open container. Its tag must have the same kind
// as the matching Start.
type End struct {
	Tag Tag
}

// Text is literal text to be escaped for the output.
type Text string

// HTML is the content of a block-level HTML element.
type HTML string

// InlineHTML is an inline HTML fragment.
type InlineHTML string

// Latex is raw output passed through unchanged.
type Latex string

// Label is an anchor for cross references.
type Label string

// FootnoteRef references footnote Label.
type FootnoteRef struct {
	Label string
}

// Citation is one bibliography key with optional postnote attributes.
type Citation struct {
	Key   string
	Attrs string
}

// Citations references one or more bibliography entries.
type Citations []Citation

// URL is a bare hyperlink without content.
type URL struct {
	Destination string
	Title       string
}

// CrossRef is a reference to a document label without content.
type CrossRef struct {
	Label     string
	Uppercase bool
}

// Media holds the presentation attributes shared by images and includes.
type Media struct {
	Label   string
	Caption string
	Title   string
	Alt     string
	Scale   string
	Width   string
	Height  string
	Figure  bool
}

// Include names an external resource which the engine resolves before
// dispatching the result.
type Include struct {
	Target string
	Media
}

// Image is a resolved raster image.
type Image struct {
	Path string
	Media
}

// Svg is a resolved vector image.
type Svg struct {
	Path string
	Media
}

// PDF is a resolved PDF document included page by page.
type PDF struct {
	Path string
}

// SoftBreak is a line break in the source that does not break the output line.
type SoftBreak struct{}

// HardBreak forces a line break.
type HardBreak struct{}

// TaskMarker is the checkbox of a task list item.
type TaskMarker struct {
	Checked bool
}

// Command is a document-level generation command.
type Command int

const (
	CommandTOC Command = iota
	CommandBibliography
	CommandListOfTables
	CommandListOfFigures
	CommandListOfListings
	CommandAppendix
)

func (c Command) String() string {
	switch c {
	case CommandTOC:
		return "toc"
	case CommandBibliography:
		return "bibliography"
	case CommandListOfTables:
		return "listoftables"
	case CommandListOfFigures:
		return "listoffigures"
	case CommandListOfListings:
		return "listoflistings"
	case CommandAppendix:
		return "appendix"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

func (Start) isEvent()       {}
func (End) isEvent()         {}
func (Text) isEvent()        {}
func (HTML) isEvent()        {}
func (InlineHTML) isEvent()  {}
func (Latex) isEvent()       {}
func (Label) isEvent()       {}
func (FootnoteRef) isEvent() {}
func (Citations) isEvent()   {}
func (URL) isEvent()         {}
func (CrossRef) isEvent()    {}
func (Include) isEvent()     {}
func (Image) isEvent()       {}
func (Svg) isEvent()         {}
func (PDF) isEvent()         {}
func (SoftBreak) isEvent()   {}
func (HardBreak) isEvent()   {}
func (TaskMarker) isEvent()  {}
func (Command) isEvent()     {}

// IsStartOf reports whether e opens a container of kind k.
func IsStartOf(e Event, k Kind) bool {
	s, ok := e.(Start)
	return ok && s.Tag != nil && s.Tag.Kind() == k
}

// IsEndOf reports whether e closes a container of kind k.
func IsEndOf(e Event, k Kind) bool {
	s, ok := e.(End)
	return ok && s.Tag != nil && s.Tag.Kind() == k
}

// Describe returns a short human-readable name for e, for diagnostics.
func Describe(e Event) string {
	switch e := e.(type) {
	case nil:
		return "end of document"
	case Start:
		return "Start(" + e.Tag.Kind().String() + ")"
	case End:
		return "End(" + e.Tag.Kind().String() + ")"
	default:
		return fmt.Sprintf("%T", e)
	}
}

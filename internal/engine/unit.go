package engine

import (
	"io"

	"github.com/alnah/go-md2latex/internal/event"
)

// Unit is the handler of one open container. It is created when the Start
// event is dispatched and finished exactly once when the matching End
// arrives.
type Unit interface {
	// Finish writes closing output. The unit has already been popped, so
	// g.Out() resolves to the parent output. end is the End tag and peek
	// the next undispatched event, or nil at the end of the document.
	Finish(g *Generator, end event.Tag, peek event.Event) error
}

// Redirector is implemented by units that capture the output of their
// content. A nil writer means no redirection.
type Redirector interface {
	Redirect() io.Writer
}

// Interceptor is implemented by units that inspect the events nested
// directly inside them before dispatch. ancestors excludes the unit itself.
// Returning a nil event swallows ev.
type Interceptor interface {
	Intercept(ancestors Stack, ev event.Event) (event.Event, error)
}

// Constructor creates the unit for tag and writes its opening output.
// The unit is not on the stack yet: g.Stack() holds its ancestors.
type Constructor func(g *Generator, tag event.Tag, at event.Range) (Unit, error)

// Mapping maps every container kind to its constructor.
type Mapping [event.NumKinds]Constructor

// Backend selects the output flavor.
type Backend interface {
	// Units returns the constructor of every container kind.
	Units() Mapping
	// Emit writes a leaf event.
	Emit(g *Generator, ev event.Event, at event.Range) error
	// Preamble runs once before the first event.
	Preamble(g *Generator) error
	// Epilogue runs once after the last event.
	Epilogue(g *Generator) error
}

type entry struct {
	kind event.Kind
	unit Unit
	at   event.Range
}

// Stack is a read-only view of open containers.
type Stack struct {
	entries []entry
}

// Len returns the number of open containers.
func (s Stack) Len() int {
	return len(s.entries)
}

// Kind returns the kind of the i-th container counting from the innermost.
func (s Stack) Kind(i int) event.Kind {
	return s.entries[len(s.entries)-1-i].kind
}

// Unit returns the i-th unit counting from the innermost.
func (s Stack) Unit(i int) Unit {
	return s.entries[len(s.entries)-1-i].unit
}

// Top returns the innermost kind.
func (s Stack) Top() (event.Kind, bool) {
	if len(s.entries) == 0 {
		return 0, false
	}
	return s.entries[len(s.entries)-1].kind, true
}

// Contains reports whether a container of kind k is open.
func (s Stack) Contains(k event.Kind) bool {
	return s.Count(k) > 0
}

// Count returns the number of open containers of kind k.
func (s Stack) Count(k event.Kind) int {
	n := 0
	for _, e := range s.entries {
		if e.kind == k {
			n++
		}
	}
	return n
}

// Kinds returns the open kinds, outermost first.
func (s Stack) Kinds() []event.Kind {
	out := make([]event.Kind, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.kind
	}
	return out
}

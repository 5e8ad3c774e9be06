package engine

import "github.com/alnah/go-md2latex/internal/event"

// iter walks the events of one document. Events queued with pushFront are
// returned before the remaining source events.
type iter struct {
	events  []event.Spanned
	pos     int
	pending []event.Spanned
	// headerAdjust is added to the level of every header of this document.
	headerAdjust int
}

func newIter(events []event.Spanned, headerAdjust int) *iter {
	return &iter{events: events, headerAdjust: headerAdjust}
}

func (it *iter) next() (event.Spanned, bool) {
	if len(it.pending) > 0 {
		ev := it.pending[0]
		it.pending = it.pending[1:]
		return ev, true
	}
	if it.pos >= len(it.events) {
		return event.Spanned{}, false
	}
	ev := it.events[it.pos]
	it.pos++
	return it.adjust(ev), true
}

// peek returns the next event without consuming it, or nil at the end.
func (it *iter) peek() event.Event {
	if len(it.pending) > 0 {
		return it.pending[0].Event
	}
	if it.pos >= len(it.events) {
		return nil
	}
	return it.adjust(it.events[it.pos]).Event
}

// queue appends events to be returned before the rest of the source.
func (it *iter) queue(evs ...event.Spanned) {
	it.pending = append(it.pending, evs...)
}

// skip consumes events up to and including the End matching an already
// consumed Start.
func (it *iter) skip() {
	depth := 0
	for {
		ev, ok := it.next()
		if !ok {
			return
		}
		switch ev.Event.(type) {
		case event.Start:
			depth++
		case event.End:
			if depth == 0 {
				return
			}
			depth--
		}
	}
}

func (it *iter) adjust(ev event.Spanned) event.Spanned {
	if it.headerAdjust == 0 {
		return ev
	}
	switch e := ev.Event.(type) {
	case event.Start:
		if h, ok := e.Tag.(event.Header); ok {
			h.Level += it.headerAdjust
			ev.Event = event.Start{Tag: h}
		}
	case event.End:
		if h, ok := e.Tag.(event.Header); ok {
			h.Level += it.headerAdjust
			ev.Event = event.End{Tag: h}
		}
	}
	return ev
}

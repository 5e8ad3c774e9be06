package latex

import (
	"bytes"
	"io"
	"strings"

	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// Beamer maps header levels onto a different nesting: level 1 is a plain
// section, level 2 a frame and level 3 a rounded box inside a frame. Frames
// and boxes stay open after their header ends and are closed when a header
// of the same or a shallower level arrives.
//
// The content following a header must end up inside its frame, but the
// header has already been popped by then. A Frame marker is pushed through
// the engine when a header opens a frame and popped again, through the same
// entry point, by the next header, rule or the epilogue.

// frame marks the open frame on the engine stack.
type frame struct{}

func newFrame(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return frame{}, nil
}

func (frame) Finish(*engine.Generator, event.Tag, event.Event) error { return nil }

type beamerHeader struct {
	slugger
	b     *Backend
	level int
	label string
	title bytes.Buffer
}

func (b *Backend) newBeamerHeader(g *engine.Generator, tag event.Tag, at event.Range) (engine.Unit, error) {
	h := tag.(event.Header)
	if err := checkLevel(g, h, at, maxHeaderLevel); err != nil {
		return nil, err
	}
	if err := b.leaveFrame(g, at); err != nil {
		return nil, err
	}
	if err := b.closeUntil(g, h.Level); err != nil {
		return nil, err
	}
	return &beamerHeader{b: b, level: h.Level, label: h.Label}, nil
}

// Redirect captures the title, which is repeated as frame or box title.
func (u *beamerHeader) Redirect() io.Writer { return &u.title }

func (u *beamerHeader) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	title := u.title.String()
	err := write(g, `\`, strings.Repeat("sub", u.level-1), "section{", title, "}", labelCommand(u.labelOr(u.label)), "\n\n")
	if err != nil {
		return err
	}
	u.b.setTitle(u.level, title)
	if err := u.b.openUntil(g, u.level); err != nil {
		return err
	}
	return u.b.enterFrame(g)
}

// beamerRule starts a new frame continuing the current one.
type beamerRule struct {
	b *Backend
}

func (b *Backend) newBeamerRule(g *engine.Generator, _ event.Tag, at event.Range) (engine.Unit, error) {
	if err := b.leaveFrame(g, at); err != nil {
		return nil, err
	}
	return beamerRule{b: b}, nil
}

func (beamerRule) Intercept(_ engine.Stack, ev event.Event) (event.Event, error) {
	engine.Invariant("rule received nested %s", event.Describe(ev))
	return nil, nil
}

func (u beamerRule) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	if err := u.b.closeUntil(g, 2); err != nil {
		return err
	}
	if err := u.b.openUntil(g, 2); err != nil {
		return err
	}
	return u.b.enterFrame(g)
}

// leaveFrame pops the frame marker by dispatching its End. It runs when the
// next header or rule is constructed, not when the frame content finishes.
// Headers and rules must then be at the top level.
func (b *Backend) leaveFrame(g *engine.Generator, at event.Range) error {
	if top, ok := g.Stack().Top(); ok && top == event.KindFrame {
		if err := g.VisitEvent(event.At(event.End{Tag: event.Frame{}}, at), nil); err != nil {
			return err
		}
		if top, ok := g.Stack().Top(); ok && top == event.KindFrame {
			engine.Invariant("frame marker still open after its End")
		}
	}
	if n := g.Stack().Len(); n > 0 {
		outer, _ := g.Stack().Top()
		return g.Fail(at, "beamer headers and rules can't be nested", "found inside "+outer.String())
	}
	return nil
}

// enterFrame pushes the frame marker when a frame is open.
func (b *Backend) enterFrame(g *engine.Generator) error {
	if len(b.levels) == 0 || b.levels[len(b.levels)-1] < 2 {
		return nil
	}
	if g.Stack().Len() != 0 {
		engine.Invariant("frame marker pushed inside %v", g.Stack().Kinds())
	}
	return g.VisitEvent(event.Spanned{Event: event.Start{Tag: event.Frame{}}}, nil)
}

// closeFrames runs at the end of the document.
func (b *Backend) closeFrames(g *engine.Generator) error {
	if top, ok := g.Stack().Top(); ok && top == event.KindFrame {
		if err := g.VisitEvent(event.Spanned{Event: event.End{Tag: event.Frame{}}}, nil); err != nil {
			return err
		}
	}
	return b.closeUntil(g, 1)
}

// closeUntil closes every open level at or below level.
func (b *Backend) closeUntil(g *engine.Generator, level int) error {
	for n := len(b.levels); n > 0 && b.levels[n-1] >= level; n = len(b.levels) {
		closed := b.levels[n-1]
		b.levels = b.levels[:n-1]
		var err error
		switch closed {
		case 2:
			err = write(g, "\\end{frame}\n")
		case 3:
			err = write(g, "\\end{beamerboxesrounded}\n")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// openUntil opens every level from the innermost open one down to level.
// Intermediate levels get the last title seen at their level, if any.
func (b *Backend) openUntil(g *engine.Generator, level int) error {
	top := 0
	if n := len(b.levels); n > 0 {
		top = b.levels[n-1]
	}
	for l := top + 1; l <= level; l++ {
		b.levels = append(b.levels, l)
		var err error
		switch l {
		case 2:
			if title := b.titles[2]; title != "" {
				err = write(g, "\\begin{frame}[fragile]{", title, "}\n")
			} else {
				err = write(g, "\\begin{frame}[fragile]\n")
			}
		case 3:
			err = write(g, "\\begin{beamerboxesrounded}{", b.titles[3], "}\n")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) setTitle(level int, title string) {
	b.titles[level] = title
	for l := level + 1; l < len(b.titles); l++ {
		b.titles[l] = ""
	}
}

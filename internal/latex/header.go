package latex

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// slugger accumulates the label of a header from its text. It is fed every
// text event separately, so it only depends on the concatenated text.
type slugger struct {
	text strings.Builder
}

func (s *slugger) Intercept(_ engine.Stack, ev event.Event) (event.Event, error) {
	if t, ok := ev.(event.Text); ok {
		s.text.WriteString(string(t))
	}
	return ev, nil
}

// labelOr returns explicit when set, or the slug of the header text.
func (s *slugger) labelOr(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return Slug(s.text.String())
}

var lower = cases.Lower(language.Und)

// Slug keeps the ASCII letters, digits, dashes and underscores of text,
// lowercased. Spaces become dashes and anything else is dropped.
func Slug(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r > unicode.MaxASCII:
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return lower.String(b.String())
}

// labelCommand returns \label{label}, or nothing for an empty label.
func labelCommand(label string) string {
	if label == "" {
		return ""
	}
	return `\label{` + label + "}"
}

// header is a section of the article flavor.
type header struct {
	slugger
	label string
}

func newHeader(g *engine.Generator, tag event.Tag, at event.Range) (engine.Unit, error) {
	h := tag.(event.Header)
	if err := checkLevel(g, h, at, maxHeaderLevel); err != nil {
		return nil, err
	}
	if err := write(g, `\`, strings.Repeat("sub", h.Level-1), "section{"); err != nil {
		return nil, err
	}
	return &header{label: h.Label}, nil
}

// newBookHeader starts the hierarchy at \chapter.
func newBookHeader(g *engine.Generator, tag event.Tag, at event.Range) (engine.Unit, error) {
	h := tag.(event.Header)
	if err := checkLevel(g, h, at, maxHeaderLevel+1); err != nil {
		return nil, err
	}
	cmd := `\chapter{`
	if h.Level > 1 {
		cmd = `\` + strings.Repeat("sub", h.Level-2) + "section{"
	}
	if err := write(g, cmd); err != nil {
		return nil, err
	}
	return &header{label: h.Label}, nil
}

func (h *header) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	return write(g, "}", labelCommand(h.labelOr(h.label)), "\n\n")
}

// checkLevel reports headers nested deeper than limit.
func checkLevel(g *engine.Generator, h event.Header, at event.Range, limit int) error {
	if h.Level < 1 {
		engine.Invariant("header level %d", h.Level)
	}
	if h.Level <= limit {
		return nil
	}
	return g.Fail(at, "LaTeX backend does not support header nesting more than "+strconv.Itoa(limit)+" levels",
		"header has level "+strconv.Itoa(h.Level))
}

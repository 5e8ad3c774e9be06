package frontend

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2latex/internal/event"
)

// labelPrefixes are the label namespaces a reference may start with.
// A bare "#" references a header.
var labelPrefixes = []string{"sec:", "fig:", "img:", "tbl:", "fnote:"}

// kindReference is the AST kind of shortcut references.
var kindReference = ast.NewNodeKind("Reference")

// referenceNode is a `[#label]` cross reference or a `[@key]` citation.
type referenceNode struct {
	ast.BaseInline
	ev    event.Event
	start int
	end   int
}

func (n *referenceNode) Kind() ast.NodeKind { return kindReference }

func (n *referenceNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Event": event.Describe(n.ev)}, nil)
}

// referenceParser turns bracketed shortcut references into reference nodes
// before the link parser sees them.
type referenceParser struct {
	citations bool
}

var _ parser.InlineParser = (*referenceParser)(nil)

func (p *referenceParser) Trigger() []byte {
	return []byte{'['}
}

func (p *referenceParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	closing := bytes.IndexByte(line, ']')
	if closing < 2 {
		return nil
	}
	inner := line[1:closing]
	if bytes.IndexByte(inner, '[') >= 0 {
		return nil
	}
	// `[#x](...)` and `[#x][ref]` are links with content.
	if closing+1 < len(line) && (line[closing+1] == '(' || line[closing+1] == '[') {
		return nil
	}
	ev := classifyReference(string(inner), p.citations)
	if ev == nil {
		return nil
	}
	block.Advance(closing + 1)
	return &referenceNode{ev: ev, start: seg.Start, end: seg.Start + closing + 1}
}

// classifyReference returns the event for a shortcut reference, or nil if
// s is not one.
func classifyReference(s string, citations bool) event.Event {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "@") {
		if !citations {
			return nil
		}
		return parseCitations(trimmed)
	}
	if ref, ok := parseLabelRef(trimmed); ok {
		return ref
	}
	return nil
}

// parseLabelRef parses `#label` and `sec:label` style references. Labels
// are matched case-insensitively; an uppercase first letter asks for a
// capitalized reference.
func parseLabelRef(s string) (event.CrossRef, bool) {
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		if rest == "" || strings.ContainsAny(rest, " \t") {
			return event.CrossRef{}, false
		}
		r, _ := utf8.DecodeRuneInString(rest)
		return event.CrossRef{Label: strings.ToLower(rest), Uppercase: unicode.IsUpper(r)}, true
	}
	lower := strings.ToLower(s)
	for _, p := range labelPrefixes {
		if strings.HasPrefix(lower, p) && len(s) > len(p) && !strings.ContainsAny(s, " \t") {
			r, _ := utf8.DecodeRuneInString(s)
			return event.CrossRef{Label: lower, Uppercase: unicode.IsUpper(r)}, true
		}
	}
	return event.CrossRef{}, false
}

// parseCitations splits `@a p. 3, @b` into its entries. Each entry ends at
// the last comma before the next `@`.
func parseCitations(s string) event.Citations {
	var cites event.Citations
	for s != "" {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		next := strings.IndexByte(s[1:], '@')
		if next < 0 {
			cites = append(cites, parseCitation(s))
			break
		}
		next++
		single := s[:next]
		if comma := strings.LastIndexByte(single, ','); comma >= 0 {
			single = single[:comma]
		}
		cites = append(cites, parseCitation(single))
		s = s[next:]
	}
	return cites
}

// parseCitation splits `@key attrs` at the first space.
func parseCitation(s string) event.Citation {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	key, attrs, _ := strings.Cut(s, " ")
	return event.Citation{
		Key:   strings.TrimSuffix(key, ","),
		Attrs: strings.TrimSpace(attrs),
	}
}

package frontend

import (
	"sort"

	"github.com/alnah/go-md2latex/internal/event"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// source is a markdown document prepared for parsing: line endings are
// normalized to "\n" and the YAML front matter is blanked out. Offsets in
// text map back to the raw input through original.
type source struct {
	text []byte
	// removed lists, in ascending order, the offsets in text before which
	// a "\r" of the raw input was dropped.
	removed []int
}

func prepareSource(src []byte) *source {
	text := make([]byte, 0, len(src))
	var removed []int
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\r' {
			if i+1 < len(src) && src[i+1] == '\n' {
				removed = append(removed, len(text))
				continue
			}
			c = '\n'
		}
		text = append(text, c)
	}
	blankFrontMatter(text)
	return &source{text: text, removed: removed}
}

// blankFrontMatter replaces the front matter by blank lines of the same
// length, so that the markdown body keeps its offsets.
func blankFrontMatter(text []byte) {
	_, end, ok := yamlutil.SplitFrontMatter(text)
	if !ok {
		return
	}
	for i := range text[:end] {
		if text[i] != '\n' {
			text[i] = ' '
		}
	}
}

// original maps an offset in text to the raw input.
func (s *source) original(off int) int {
	return off + sort.SearchInts(s.removed, off+1)
}

// span maps a range of text to the raw input. The end is mapped through
// the last byte of the range, so that it excludes a dropped "\r".
func (s *source) span(start, end int) event.Range {
	r := event.Range{Start: s.original(start), End: s.original(start)}
	if end > start {
		r.End = s.original(end-1) + 1
	}
	return r
}

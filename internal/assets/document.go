package assets

import (
	"fmt"
	"os"
	"strings"
)

// BodyPlaceholder is the line of a document template replaced by the
// generated body.
const BodyPlaceholder = "HERADOCBODY"

// DocumentTemplate is a user supplied LaTeX document split around its body
// placeholder line.
type DocumentTemplate struct {
	Head string // everything before the placeholder line
	Tail string // everything after it
}

// ParseDocumentTemplate splits content at the first line consisting of
// BodyPlaceholder, ignoring surrounding blanks.
// Returns ErrNoPlaceholder if there is no such line.
func ParseDocumentTemplate(content string) (*DocumentTemplate, error) {
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.TrimSpace(line) == BodyPlaceholder {
			return &DocumentTemplate{
				Head: content[:offset],
				Tail: content[offset+len(line):],
			}, nil
		}
		offset += len(line)
	}
	return nil, ErrNoPlaceholder
}

// ReadDocumentTemplate reads and parses the document template at path.
func ReadDocumentTemplate(path string) (*DocumentTemplate, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user supplied template
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	tmpl, err := ParseDocumentTemplate(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tmpl, nil
}

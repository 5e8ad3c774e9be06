package yamlutil

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrFrontMatter indicates a front matter block that is not valid YAML.
var ErrFrontMatter = errors.New("invalid front matter")

// SplitFrontMatter detects a YAML front matter block at the start of a
// markdown document: a "---" line, the YAML, and a closing "---" or "..."
// line. It returns the YAML and the offset of the first byte after the
// block. ok is false when src has no complete front matter.
func SplitFrontMatter(src []byte) (yaml []byte, bodyStart int, ok bool) {
	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !found || string(bytes.TrimRight(first, " \t\r")) != "---" {
		return nil, 0, false
	}
	offset := len(first) + 1
	for len(rest) > 0 {
		line, next, found := bytes.Cut(rest, []byte("\n"))
		trimmed := string(bytes.TrimRight(line, " \t\r"))
		lineEnd := offset + len(line)
		if found {
			lineEnd++
		}
		if trimmed == "---" || trimmed == "..." {
			return src[len(first)+1 : offset], lineEnd, true
		}
		offset = lineEnd
		rest = next
	}
	return nil, 0, false
}

// DecodeFrontMatter decodes the front matter of src into v and reports
// whether src had one. Unknown keys are ignored, since front matter is
// shared with other markdown tools. An empty block decodes to nothing.
func DecodeFrontMatter(src []byte, v any) (bool, error) {
	block, _, ok := SplitFrontMatter(src)
	if !ok {
		return false, nil
	}
	if len(bytes.TrimSpace(block)) == 0 {
		return true, nil
	}
	if err := Unmarshal(block, v); err != nil {
		return true, fmt.Errorf("%w: %w", ErrFrontMatter, err)
	}
	return true, nil
}

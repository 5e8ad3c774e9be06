// Package dateutil resolves the date field of a document.
//
// A date is either literal text, the keyword "today" (left to LaTeX as
// \today, so the date is the one of the compilation), or "auto" with an
// optional format, which is expanded at generation time.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// Today is the LaTeX command the "today" keyword resolves to.
const Today = `\today`

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"german":   "DD.MM.YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"short":    "MMM YYYY",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text inside brackets is
// literal: "[Week of] D MMMM". Other characters are kept as they are.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for rest := format; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		n := writeToken(&b, rest)
		rest = rest[n:]
	}

	return b.String(), nil
}

// writeToken writes the translation of the token at the start of s, or its
// first byte when no token matches, and returns the bytes consumed.
func writeToken(b *strings.Builder, s string) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.goFmt)
			return len(t.token)
		}
	}
	b.WriteByte(s[0])
	return 1
}

// ResolveDate expands a date value:
//   - "today" → \today
//   - "auto" → t in YYYY-MM-DD
//   - "auto:FORMAT" → t in FORMAT, or in the named preset
//   - anything else is returned unchanged
//
// Keywords are case-insensitive; the format keeps its case.
func ResolveDate(value string, t time.Time) (string, error) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)

	switch {
	case lower == "today":
		return Today, nil
	case lower == "auto":
		return format(t, DefaultDateFormat)
	case strings.HasPrefix(lower, "auto:"):
		layout := trimmed[len("auto:"):]
		if layout == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(layout)]; ok {
			layout = preset
		}
		return format(t, layout)
	case strings.HasPrefix(lower, "auto"):
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	default:
		return value, nil
	}
}

func format(t time.Time, layout string) (string, error) {
	goFmt, err := ParseDateFormat(layout)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}

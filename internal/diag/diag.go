// Package diag collects recoverable, source-annotated problems found during
// generation. Fatal conditions are returned as errors instead.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/alnah/go-md2latex/internal/event"
)

// Severity of a report.
type Severity int

const (
	Warning Severity = iota
	Error
	// Bug marks a condition that should be impossible. It is still reported,
	// not raised, because the document can usually continue.
	Bug
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Bug:
		return "bug"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// File is a named source used to turn byte offsets into positions.
type File struct {
	Name    string
	Content []byte

	once  sync.Once
	lines []int
}

// NewFile creates a File.
func NewFile(name string, content []byte) *File {
	return &File{Name: name, Content: content}
}

// Position returns the 1-based line and column of offset. Columns count
// runes, not bytes. Offsets outside the content are clamped.
func (f *File) Position(offset int) (line, col int) {
	f.once.Do(func() {
		f.lines = []int{0}
		for i, b := range f.Content {
			if b == '\n' {
				f.lines = append(f.lines, i+1)
			}
		}
	})
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	return i + 1, utf8.RuneCount(f.Content[f.lines[i]:offset]) + 1
}

// Report is one diagnostic.
type Report struct {
	Severity Severity
	Message  string
	File     *File // nil when the report has no source
	At       event.Range
	Notes    []string
}

// Location formats the report position as name:line:col, or "" without a file.
func (r Report) Location() string {
	if r.File == nil {
		return ""
	}
	line, col := r.File.Position(r.At.Start)
	return fmt.Sprintf("%s:%d:%d", r.File.Name, line, col)
}

// String renders the report in the multi-line terminal format.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", r.Severity, r.Message)
	if loc := r.Location(); loc != "" {
		fmt.Fprintf(&b, "  --> %s\n", loc)
	}
	for _, n := range r.Notes {
		fmt.Fprintf(&b, "  = note: %s\n", n)
	}
	return b.String()
}

// Sink accepts reports. Implementations must be safe for concurrent use.
type Sink interface {
	Report(r Report)
}

// Writer renders reports to an io.Writer and counts them.
type Writer struct {
	mu       sync.Mutex
	w        io.Writer
	errors   int
	warnings int
}

// NewWriter creates a Writer sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Report writes r. Write errors are ignored: diagnostics are best effort.
func (w *Writer) Report(r Report) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r.Severity == Warning {
		w.warnings++
	} else {
		w.errors++
	}
	_, _ = io.WriteString(w.w, r.String())
}

// Counts returns the number of error and warning reports seen.
func (w *Writer) Counts() (errors, warnings int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errors, w.warnings
}

// Collector keeps reports in memory.
type Collector struct {
	mu      sync.Mutex
	reports []Report
}

// Report stores r.
func (c *Collector) Report(r Report) {
	c.mu.Lock()
	c.reports = append(c.reports, r)
	c.mu.Unlock()
}

// Reports returns a copy of all stored reports.
func (c *Collector) Reports() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Report(nil), c.reports...)
}

// Errors returns the stored reports with severity Error or Bug.
func (c *Collector) Errors() []Report {
	var out []Report
	for _, r := range c.Reports() {
		if r.Severity != Warning {
			out = append(out, r)
		}
	}
	return out
}

// String renders all stored reports.
func (c *Collector) String() string {
	var buf bytes.Buffer
	for _, r := range c.Reports() {
		buf.WriteString(r.String())
	}
	return buf.String()
}

// Discard drops every report.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Report) {}

// Compile-time interface checks.
var (
	_ Sink = (*Writer)(nil)
	_ Sink = (*Collector)(nil)
)

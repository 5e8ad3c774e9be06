package render

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alnah/go-md2latex/internal/hints"
)

// Sentinel errors for external tool failures.
var (
	ErrToolFailed     = errors.New("external tool failed")
	ErrToolTimeout    = errors.New("external tool timed out")
	ErrToolMissing    = errors.New("external tool not found")
	ErrUnknownEngine  = errors.New("unknown LaTeX engine")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// ToolError is the failure of an external program which ran and exited
// unsuccessfully. Its output is kept in the log files.
type ToolError struct {
	Tool     string
	ExitCode int // -1 when killed by a signal
	Logs     []string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	b.WriteString(e.Tool)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " returned error code %d", e.ExitCode)
	} else {
		fmt.Fprintf(&b, " failed: %v", e.Err)
	}
	b.WriteString(hints.ForToolLogs(e.Logs))
	return b.String()
}

// Unwrap matches both ErrToolFailed and the underlying exec error.
func (e *ToolError) Unwrap() []error {
	return []error{ErrToolFailed, e.Err}
}

func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

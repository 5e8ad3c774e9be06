package engine

import (
	"errors"
	"fmt"
)

// ErrDiagnostic is returned after a problem was reported to the diagnostics
// sink. The dispatch loop skips the offending subtree and continues.
var ErrDiagnostic = errors.New("diagnostic reported")

// InvariantError is the panic value raised when the dispatch loop detects an
// internal defect, such as an End event that does not match the open
// container. It never results from user input.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "internal invariant violated: " + e.Msg
}

// Invariant panics with an InvariantError. Units use it for states their
// contract forbids.
func Invariant(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}

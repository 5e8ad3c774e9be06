package resolve

import (
	"errors"
	"strings"
)

// Sentinel errors for include resolution.
var (
	ErrMalformed       = errors.New("malformed reference")
	ErrNotFound        = errors.New("include target not found")
	ErrPermission      = errors.New("permission denied")
	ErrUnknownFormat   = errors.New("unknown file format")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrDownload        = errors.New("error downloading content")
	ErrRemoteDisabled  = errors.New("remote includes are disabled")
	ErrCacheWrite      = errors.New("error writing downloaded content to cache")
	ErrPathOutsideRoot = errors.New("local relative path resolved outside the project root")
)

// Error is a resolution failure with supporting notes for the diagnostic.
type Error struct {
	Kind  error
	Msg   string
	Notes []string
}

func newError(kind error, msg string, notes ...string) *Error {
	return &Error{Kind: kind, Msg: msg, Notes: notes}
}

func (e *Error) Error() string {
	if len(e.Notes) == 0 {
		return e.Msg
	}
	return e.Msg + " (" + strings.Join(e.Notes, "; ") + ")"
}

func (e *Error) Unwrap() error {
	return e.Kind
}

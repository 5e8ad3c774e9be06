package resolve

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// documentScheme addresses files relative to the project root.
const documentScheme = "md2latex"

// documentHost is the host of project-relative URLs.
const documentHost = "document"

// ContextKind classifies where a document lives.
type ContextKind int

const (
	// LocalRelative documents live inside the project root.
	LocalRelative ContextKind = iota
	// LocalAbsolute documents were included through an absolute path.
	LocalAbsolute
	// Remote documents were downloaded.
	Remote
)

func (k ContextKind) String() string {
	switch k {
	case LocalRelative:
		return "local-relative"
	case LocalAbsolute:
		return "local-absolute"
	case Remote:
		return "remote"
	default:
		return fmt.Sprintf("ContextKind(%d)", int(k))
	}
}

// Context is the location of the document an include appears in.
// Targets are resolved relative to it.
type Context struct {
	url *url.URL
}

// ProjectRoot is the context of the main document.
func ProjectRoot() Context {
	return Context{url: &url.URL{Scheme: documentScheme, Host: documentHost, Path: "/"}}
}

// FromDir returns a project-relative context for the subdirectory dir.
func FromDir(dir string) (Context, error) {
	clean := path.Clean("/" + filepath.ToSlash(dir))
	if strings.HasPrefix(clean, "/..") {
		return Context{}, fmt.Errorf("%w: %q leaves the project root", ErrMalformed, dir)
	}
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	return Context{url: &url.URL{Scheme: documentScheme, Host: documentHost, Path: clean}}, nil
}

// fromURL creates the context of a document located at u.
func fromURL(u *url.URL) Context {
	return Context{url: u}
}

// Kind classifies the context by its URL scheme.
func (c Context) Kind() ContextKind {
	switch c.url.Scheme {
	case documentScheme:
		return LocalRelative
	case "file":
		return LocalAbsolute
	default:
		return Remote
	}
}

// URL returns a copy of the context URL.
func (c Context) URL() *url.URL {
	u := *c.url
	return &u
}

func (c Context) String() string {
	if c.url == nil {
		return "<none>"
	}
	return c.url.String()
}

// IsZero reports whether c was never initialized.
func (c Context) IsZero() bool {
	return c.url == nil
}

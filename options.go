package md2latex

import (
	"io"
	"time"

	"github.com/alnah/go-md2latex/internal/render"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the configuration set by options.
type converterConfig struct {
	backend     string
	projectRoot string
	style       string
	templateSet string
	assetPath   string
	template    string
	timeout     time.Duration
	engine      string
	outDir      string
	diagnostics io.Writer
	remote      bool
	cacheDir    string
	allowAll    bool
	allowedDirs []string
	now         func() time.Time
	newRenderer func(render.Options) toolRenderer
}

// defaultTimeout bounds each external tool invocation.
const defaultTimeout = render.DefaultTimeout

// WithBackend sets the backend used when a document does not name one.
func WithBackend(name string) Option {
	return func(c *Converter) {
		c.cfg.backend = name
	}
}

// WithProjectRoot sets the directory relative includes may not leave.
// Defaults to the current directory.
func WithProjectRoot(dir string) Option {
	return func(c *Converter) {
		c.cfg.projectRoot = dir
	}
}

// WithStyle sets the preamble style: a name ("default", "minimal") or the
// path of a .tex file.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.style = style
	}
}

// WithTemplateSet sets the title page templates by name.
func WithTemplateSet(name string) Option {
	return func(c *Converter) {
		c.cfg.templateSet = name
	}
}

// WithAssetPath sets a directory of custom styles and template sets,
// falling back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithDocumentTemplate wraps the generated body into a LaTeX file whose
// placeholder line is replaced by the body. The template then provides
// the document class and the packages.
func WithDocumentTemplate(path string) Option {
	return func(c *Converter) {
		c.cfg.template = path
	}
}

// WithTimeout bounds each external tool invocation.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2latex: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithEngine sets the LaTeX engine used for PDF output.
func WithEngine(engine string) Option {
	return func(c *Converter) {
		c.cfg.engine = engine
	}
}

// WithOutDir sets the directory of generated resources such as rendered
// diagrams. Defaults to the directory of the output file, or the current
// directory.
func WithOutDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.outDir = dir
	}
}

// WithDiagnostics writes diagnostics to w as they are found, in addition
// to returning them in the result.
func WithDiagnostics(w io.Writer) Option {
	return func(c *Converter) {
		c.cfg.diagnostics = w
	}
}

// WithRemote enables includes from http(s) URLs, cached in dir. An empty
// dir uses the user cache directory.
func WithRemote(dir string) Option {
	return func(c *Converter) {
		c.cfg.remote = true
		c.cfg.cacheDir = dir
	}
}

// WithAllowAbsolute permits includes from the given directories outside
// the project root.
func WithAllowAbsolute(dirs ...string) Option {
	return func(c *Converter) {
		c.cfg.allowedDirs = append(c.cfg.allowedDirs, dirs...)
	}
}

// WithAllowAllAbsolute permits includes from any absolute path.
func WithAllowAllAbsolute() Option {
	return func(c *Converter) {
		c.cfg.allowAll = true
	}
}

// withClock sets the time used for "auto" dates.
func withClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.cfg.now = now
	}
}

// withRenderer replaces the external tool runner.
func withRenderer(fn func(render.Options) toolRenderer) Option {
	return func(c *Converter) {
		c.cfg.newRenderer = fn
	}
}

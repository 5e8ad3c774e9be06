// Package render runs the external programs a LaTeX document depends on:
// graphviz for dot diagrams, a headless browser for SVG images and a LaTeX
// engine to compile the final PDF.
//
// Every invocation runs under a timeout and kills its whole process group
// on expiry. A failing tool leaves its output in <tool>_stdout.log and
// <tool>_stderr.log in the log directory.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-md2latex/internal/hints"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 2 * time.Minute

// LaTeX engines.
const (
	EnginePDFLaTeX = "pdflatex"
	EngineXeLaTeX  = "xelatex"
	EngineLuaLaTeX = "lualatex"
	EngineLatexmk  = "latexmk"
)

var engines = []string{EngineLatexmk, EngineLuaLaTeX, EnginePDFLaTeX, EngineXeLaTeX}

// Engines returns the supported LaTeX engines, sorted.
func Engines() []string {
	return slices.Clone(engines)
}

// ValidateEngine checks that name is a supported engine.
func ValidateEngine(name string) error {
	if slices.Contains(engines, name) {
		return nil
	}
	return fmt.Errorf("%w: %q%s", ErrUnknownEngine, name, hints.ForUnknownName(name, engines))
}

// Options configures a Renderer.
type Options struct {
	// LogDir receives the logs of failed tools. Defaults to the current
	// directory.
	LogDir string
	// OutDir receives converted images. Defaults to the current directory.
	OutDir  string
	Timeout time.Duration
	Engine  string // one of Engines(), defaults to pdflatex
	Runner  Runner // defaults to ExecRunner
}

// Renderer converts dot and SVG files to PDF and compiles LaTeX documents.
// It is not safe for concurrent use.
type Renderer struct {
	opts Options
	svg  *svgConverter
}

// New creates a Renderer. The browser used for SVG images is only started
// on first use.
func New(opts Options) *Renderer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Engine == "" {
		opts.Engine = EnginePDFLaTeX
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	return &Renderer{opts: opts, svg: newSVGConverter(opts.Timeout)}
}

// Close stops the browser if it was started.
func (r *Renderer) Close() error {
	return r.svg.Close()
}

// Graphviz renders a dot file to PDF next to it and returns the PDF path.
func (r *Renderer) Graphviz(ctx context.Context, dotPath string) (string, error) {
	if err := r.run(ctx, "", "dot", "-Tpdf", "-O", dotPath); err != nil {
		return "", err
	}
	return dotPath + ".pdf", nil
}

// SVG converts an SVG image to a PDF in the output directory and returns
// the PDF path.
func (r *Renderer) SVG(ctx context.Context, svgPath string) (string, error) {
	pdfPath, err := nextFreePath(r.opts.OutDir, "svg_%d.pdf")
	if err != nil {
		return "", err
	}
	if err := r.svg.convert(ctx, svgPath, pdfPath); err != nil {
		return "", fmt.Errorf("converting %s: %w", svgPath, err)
	}
	return pdfPath, nil
}

// PDF compiles texPath in its directory and returns the path of the PDF.
// With bibliography, biber runs between the engine passes.
func (r *Renderer) PDF(ctx context.Context, texPath string, bibliography bool) (string, error) {
	if err := ValidateEngine(r.opts.Engine); err != nil {
		return "", err
	}
	dir := filepath.Dir(texPath)
	base := filepath.Base(texPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if r.opts.Engine == EngineLatexmk {
		err := r.run(ctx, dir, EngineLatexmk, "-pdf", "-interaction=nonstopmode", "-halt-on-error", base)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, stem+".pdf"), nil
	}

	pass := func() error {
		return r.run(ctx, dir, r.opts.Engine, "-halt-on-error", "-interaction", "nonstopmode", base)
	}
	if err := pass(); err != nil {
		return "", err
	}
	if bibliography {
		if err := r.run(ctx, dir, "biber", stem); err != nil {
			return "", err
		}
	}
	// References and the table of contents settle after two more passes.
	for i := 0; i < 2; i++ {
		if err := pass(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, stem+".pdf"), nil
}

// run executes tool under the configured timeout and classifies its failure.
func (r *Renderer) run(ctx context.Context, dir, tool string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	stdout, stderr, err := r.opts.Runner.Run(ctx, dir, tool, args...)
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%w: %s%s", ErrToolMissing, tool, hints.ForToolMissing(tool))
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %s after %s%s", ErrToolTimeout, tool, r.opts.Timeout, hints.ForTimeout())
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return &ToolError{
		Tool:     tool,
		ExitCode: exitCode(err),
		Logs:     r.writeLogs(tool, stdout, stderr),
		Err:      err,
	}
}

// writeLogs stores the output of a failed tool and returns the paths
// written. Failing to write a log must not hide the tool failure.
func (r *Renderer) writeLogs(tool string, stdout, stderr []byte) []string {
	dir := r.opts.LogDir
	if dir == "" {
		dir = "."
	}
	var written []string
	for _, l := range []struct {
		suffix string
		data   []byte
	}{
		{"_stdout.log", stdout},
		{"_stderr.log", stderr},
	} {
		path := filepath.Join(dir, tool+l.suffix)
		if err := os.WriteFile(path, l.data, 0o600); err == nil {
			written = append(written, path)
		}
	}
	return written
}

// nextFreePath returns the first path in dir built from pattern and a
// counter that does not exist yet.
func nextFreePath(dir, pattern string) (string, error) {
	if dir == "" {
		dir = "."
	}
	for i := 0; i < 100000; i++ {
		p := filepath.Join(dir, fmt.Sprintf(pattern, i))
		if _, err := os.Lstat(p); os.IsNotExist(err) {
			return p, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", pattern, dir)
}

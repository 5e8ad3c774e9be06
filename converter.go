package md2latex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/dateutil"
	"github.com/alnah/go-md2latex/internal/diag"
	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/frontend"
	"github.com/alnah/go-md2latex/internal/hints"
	"github.com/alnah/go-md2latex/internal/latex"
	"github.com/alnah/go-md2latex/internal/render"
	"github.com/alnah/go-md2latex/internal/resolve"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// toolRenderer runs the external programs of one output directory.
type toolRenderer interface {
	latex.Renderer
	PDF(ctx context.Context, texPath string, bibliography bool) (string, error)
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ toolRenderer    = (*render.Renderer)(nil)
	_ engine.Parser   = (*frontend.Parser)(nil)
	_ engine.Resolver = (*resolve.Resolver)(nil)
	_ engine.Backend  = (*latex.Backend)(nil)
	_ diag.Sink       = teeSink(nil)
)

// defaultName identifies an input without name in diagnostics.
const defaultName = "input.md"

// Converter turns markdown documents into LaTeX and, optionally, PDF.
// Create with NewConverter, use Convert for each document, and Close when
// done. A Converter is not safe for concurrent use: use a ConverterPool.
type Converter struct {
	cfg      converterConfig
	loader   assets.AssetLoader
	style    string
	titles   latex.TitlePages
	template *assets.DocumentTemplate

	root    string
	perms   resolve.Permissions
	fetcher *resolve.Fetcher

	diags     diag.Sink
	renderers map[string]toolRenderer
}

// NewConverter creates a Converter. Assets, the document template and the
// include policy are loaded and checked once, here.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			backend:     BackendArticle,
			projectRoot: ".",
			style:       assets.DefaultStyleName,
			templateSet: assets.DefaultTemplateSetName,
			timeout:     defaultTimeout,
			engine:      render.EnginePDFLaTeX,
			now:         time.Now,
			newRenderer: func(o render.Options) toolRenderer { return render.New(o) },
		},
		diags:     diag.Discard,
		renderers: make(map[string]toolRenderer),
	}

	for _, opt := range opts {
		opt(c)
	}

	if _, err := parseBackend(c.cfg.backend); err != nil {
		return nil, err
	}
	if err := render.ValidateEngine(c.cfg.engine); err != nil {
		return nil, err
	}
	if err := c.loadAssets(); err != nil {
		return nil, err
	}
	if err := c.setupIncludes(); err != nil {
		return nil, err
	}
	if c.cfg.diagnostics != nil {
		c.diags = diag.NewWriter(c.cfg.diagnostics)
	}

	return c, nil
}

// loadAssets resolves the style, the title page templates and the
// optional document template.
func (c *Converter) loadAssets() error {
	loader, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.loader = loader

	if c.style, err = c.loadStyle(c.cfg.style); err != nil {
		return err
	}

	name := c.cfg.templateSet
	ts, err := c.loader.LoadTemplateSet(name)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateSetNotFound) {
			return fmt.Errorf("%w: %q%s", ErrTemplateSetNotFound, name, hints.ForUnknownName(name, assets.TemplateSetNames()))
		}
		return fmt.Errorf("loading template set: %w", err)
	}
	c.titles = latex.TitlePages{
		ThesisCover:      ts.ThesisCover,
		ThesisTitle:      ts.ThesisTitle,
		ThesisDisclaimer: ts.Disclaimer,
		ReportCover:      ts.ReportCover,
	}

	if c.cfg.template != "" {
		tmpl, err := assets.ReadDocumentTemplate(c.cfg.template)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTemplate, err)
		}
		c.template = tmpl
	}
	return nil
}

// loadStyle accepts a style name or the path of a .tex file.
func (c *Converter) loadStyle(style string) (string, error) {
	if fileutil.IsFilePath(style) {
		data, err := os.ReadFile(style) // #nosec G304 -- style path is user-provided
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrStyleNotFound, style, err)
		}
		return string(data), nil
	}
	content, err := c.loader.LoadStyle(style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("%w: %q%s", ErrStyleNotFound, style, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return "", fmt.Errorf("loading style: %w", err)
	}
	return content, nil
}

// setupIncludes checks the project root and builds the include policy.
func (c *Converter) setupIncludes() error {
	root, err := filepath.Abs(c.cfg.projectRoot)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProjectRoot, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProjectRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidProjectRoot, root)
	}
	c.root = root

	if c.cfg.allowAll {
		c.perms.AllowAllAbsolute()
	}
	for _, dir := range c.cfg.allowedDirs {
		if err := c.perms.AllowAbsolute(dir); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProjectRoot, err)
		}
	}

	if !c.cfg.remote {
		return nil
	}
	dir := c.cfg.cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteCache, err)
		}
		dir = filepath.Join(base, "go-md2latex")
	}
	fetcher, err := resolve.NewFetcher(dir, &http.Client{Timeout: c.cfg.timeout})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteCache, err)
	}
	c.fetcher = fetcher
	return nil
}

// Convert generates the LaTeX of input, writes it to input.OutputPath when
// set, and compiles it when input.PDF is set. Recoverable problems in the
// document do not fail the conversion: they are returned as diagnostics.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}
	if input.PDF && input.OutputPath == "" {
		return nil, ErrNoOutputPath
	}
	name := input.Name
	if name == "" {
		name = defaultName
	}

	doc, err := c.resolveDocument(name, input)
	if err != nil {
		return nil, err
	}
	flavor, err := parseBackend(doc.Backend)
	if err != nil {
		return nil, err
	}
	date, err := dateutil.ResolveDate(doc.Date, c.cfg.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	resolver, rctx, err := c.resolverFor(input.SourceDir)
	if err != nil {
		return nil, err
	}
	outDir := c.outDir(input.OutputPath)
	renderer, err := c.renderer(outDir)
	if err != nil {
		return nil, err
	}

	collector := &diag.Collector{}
	sink := teeSink{collector, c.diags}
	parser := frontend.New(frontend.Options{
		Citations:   doc.Bibliography != "",
		Figures:     doc.Figures == nil || *doc.Figures,
		Diagnostics: sink,
	})
	gen := func(opts latex.Options, out *bytes.Buffer, d engine.Document) error {
		g := engine.New(latex.New(opts),
			engine.WithResolver(resolver),
			engine.WithParser(parser),
			engine.WithDiagnostics(sink),
		)
		return g.Generate(ctx, out, d)
	}

	opts := c.latexOptions(doc, flavor, date)
	opts.OutDir = outDir
	opts.Renderer = renderer

	if len(doc.Abstracts) > 0 && flavor != latex.Thesis {
		sink.Report(diag.Report{
			Severity: diag.Warning,
			Message:  fmt.Sprintf("abstracts are ignored by the %s backend", flavor),
		})
	}
	if flavor == latex.Thesis {
		for _, path := range doc.Abstracts {
			body, err := c.renderAbstract(path, opts, rctx, gen)
			if err != nil {
				return nil, err
			}
			opts.Abstracts = append(opts.Abstracts, body)
		}
	}

	var out bytes.Buffer
	if c.template != nil {
		out.WriteString(c.template.Head)
	}
	if err := gen(opts, &out, engine.Document{Name: name, Source: []byte(input.Markdown), Context: rctx}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if c.template != nil {
		out.WriteString(c.template.Tail)
	}

	result = &ConvertResult{
		LaTeX:       out.Bytes(),
		Backend:     flavor.String(),
		Diagnostics: toDiagnostics(collector.Reports()),
	}
	if input.OutputPath == "" {
		return result, nil
	}

	if err := fileutil.WriteFileAtomic(input.OutputPath, result.LaTeX, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %s: %v%s", ErrWriteOutput, input.OutputPath, err, hints.ForOutputDirectory())
	}
	result.TexPath = input.OutputPath

	if input.PDF {
		pdfPath, err := renderer.PDF(ctx, input.OutputPath, doc.Bibliography != "")
		if err != nil {
			return nil, fmt.Errorf("compiling %s: %w", input.OutputPath, err)
		}
		result.PDFPath = pdfPath
	}
	return result, nil
}

// Close stops the external tools started by conversions.
func (c *Converter) Close() error {
	var errs []error
	for dir, r := range c.renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.renderers, dir)
	}
	return errors.Join(errs...)
}

// resolveDocument merges the metadata layers of input: the base document,
// the front matter, then the override.
func (c *Converter) resolveDocument(name string, input Input) (Document, error) {
	var front Document
	if _, err := yamlutil.DecodeFrontMatter([]byte(input.Markdown), &front); err != nil {
		return Document{}, fmt.Errorf("%s: %w", name, err)
	}
	front.relativeTo(input.SourceDir)

	doc := mergeDocument(input.Document, &front)
	doc = mergeDocument(&doc, input.Override)
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	if doc.Backend == "" {
		doc.Backend = c.cfg.backend
	}
	return doc, nil
}

// latexOptions maps a resolved document onto the backend options.
func (c *Converter) latexOptions(doc Document, flavor latex.Flavor, date string) latex.Options {
	opts := latex.DefaultOptions()
	opts.Flavor = flavor
	opts.Standalone = c.template == nil
	opts.Meta = latex.Metadata{
		Title:          doc.Title,
		Subtitle:       doc.Subtitle,
		Author:         doc.Author,
		Date:           date,
		Publisher:      doc.Publisher,
		Supervisor:     doc.Supervisor,
		Advisor:        doc.Advisor,
		University:     doc.University,
		Faculty:        doc.Faculty,
		ThesisType:     doc.ThesisType,
		Location:       doc.Location,
		LogoUniversity: absPath(doc.LogoUniversity),
		LogoFaculty:    absPath(doc.LogoFaculty),
		Disclaimer:     doc.Disclaimer,
	}
	if doc.Lang != "" {
		opts.Lang = doc.Lang
	}
	if doc.FontSize != "" {
		opts.FontSize = doc.FontSize
	}
	opts.ClassOptions = doc.classOptions()
	opts.Geometry = doc.geometry()
	opts.TitlePage = doc.TitlePage != nil && *doc.TitlePage
	opts.Bibliography = absPath(doc.Bibliography)
	if doc.CiteStyle != "" {
		opts.CiteStyle = doc.CiteStyle
	}
	if doc.BibStyle != "" {
		opts.BibStyle = doc.BibStyle
	}
	if doc.TightList != nil {
		opts.TightList = *doc.TightList
	}
	opts.BeamerTheme = doc.BeamerTheme
	opts.Style = c.style
	opts.HeaderIncludes = doc.HeaderIncludes
	opts.TitlePages = c.titles
	return opts
}

// renderAbstract generates the body of the markdown file at path, as an
// embedded article with the options of the document.
func (c *Converter) renderAbstract(path string, doc latex.Options, rctx resolve.Context,
	gen func(latex.Options, *bytes.Buffer, engine.Document) error,
) (string, error) {
	src, err := os.ReadFile(path) // #nosec G304 -- abstract path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAbstract, err)
	}
	opts := latex.Options{
		Flavor:    latex.Article,
		TightList: doc.TightList,
		OutDir:    doc.OutDir,
		Renderer:  doc.Renderer,
	}
	var out bytes.Buffer
	if err := gen(opts, &out, engine.Document{Name: path, Source: src, Context: rctx}); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrAbstract, path, err)
	}
	return out.String(), nil
}

// resolverFor returns the include resolver and the context of a document
// located in sourceDir. A document outside the project root is resolved as
// its own project.
func (c *Converter) resolverFor(sourceDir string) (*resolve.Resolver, resolve.Context, error) {
	root, rel := c.root, "."
	if sourceDir != "" {
		abs, err := filepath.Abs(sourceDir)
		if err != nil {
			return nil, resolve.Context{}, fmt.Errorf("resolving source directory: %w", err)
		}
		r, err := filepath.Rel(root, abs)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			root, r = abs, "."
		}
		rel = r
	}
	resolver, err := resolve.New(root, c.perms, c.fetcher)
	if err != nil {
		return nil, resolve.Context{}, fmt.Errorf("%w: %v", ErrInvalidProjectRoot, err)
	}
	rctx, err := resolve.FromDir(rel)
	if err != nil {
		return nil, resolve.Context{}, err
	}
	return resolver, rctx, nil
}

// outDir returns the directory of generated resources.
func (c *Converter) outDir(outputPath string) string {
	switch {
	case c.cfg.outDir != "":
		return c.cfg.outDir
	case outputPath != "":
		return filepath.Dir(outputPath)
	default:
		return "."
	}
}

// renderer returns the tool runner of dir, creating dir and the runner on
// first use.
func (c *Converter) renderer(dir string) (toolRenderer, error) {
	if r, ok := c.renderers[dir]; ok {
		return r, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	r := c.cfg.newRenderer(render.Options{
		LogDir:  dir,
		OutDir:  dir,
		Timeout: c.cfg.timeout,
		Engine:  c.cfg.engine,
	})
	c.renderers[dir] = r
	return r, nil
}

// parseBackend returns the flavor of a backend name.
func parseBackend(name string) (latex.Flavor, error) {
	flavor, err := latex.ParseFlavor(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnknownBackend, err)
	}
	return flavor, nil
}

// absPath makes a non-empty path absolute, so that LaTeX finds it from
// any compilation directory.
func absPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// teeSink forwards every report to all its sinks.
type teeSink []diag.Sink

func (t teeSink) Report(r diag.Report) {
	for _, s := range t {
		s.Report(r)
	}
}

func toDiagnostics(reports []diag.Report) []Diagnostic {
	if len(reports) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(reports))
	for i, r := range reports {
		out[i] = Diagnostic{
			Severity: r.Severity.String(),
			Message:  r.Message,
			Location: r.Location(),
			Notes:    r.Notes,
		}
	}
	return out
}

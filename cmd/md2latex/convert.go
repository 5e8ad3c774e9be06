package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/config"
)

// Sentinel errors for the convert command.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	document *md2latex.Document // config and env values
	override *md2latex.Document // CLI flag values
	pdf      bool
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	// Load configuration: flag > env > defaults
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg := config.DefaultConfig()
	if configName != "" {
		var err error
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Environment, then CLI flags, override the config
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	timeout, err := resolveTimeoutWithEnv(flags.render.timeout, envCfg.Timeout, cfg.Render.Timeout)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputPath)
	}

	if cfg.Resolve.ProjectRoot == "" {
		cfg.Resolve.ProjectRoot = inputDir(inputPath)
	}

	opts := converterOptions(cfg, timeout, env)
	pool := md2latex.NewConverterPool(md2latex.ResolvePoolSize(workers), opts...)
	defer pool.Close()

	params := &conversionParams{
		document: buildDocument(cfg),
		override: buildOverride(flags),
		pdf:      cfg.Output.PDF,
	}

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, params)
	return printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
}

// mergeFlags merges the CLI flags that configure the converter into
// config. Document flags are not merged: they become the override
// document, which outranks the front matter.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	// Backend is both: the converter default and an override
	set(&cfg.Document.Backend, flags.document.backend)

	// Assets
	set(&cfg.Assets.Style, flags.assets.style)
	set(&cfg.Assets.TemplateSet, flags.assets.templateSet)
	set(&cfg.Assets.Template, flags.assets.template)
	set(&cfg.Assets.BasePath, flags.assets.assetPath)

	// Render
	set(&cfg.Render.Engine, flags.render.engine)
	if flags.render.pdf {
		cfg.Output.PDF = true
	}

	// Resolve
	set(&cfg.Resolve.ProjectRoot, flags.resolve.projectRoot)
	set(&cfg.Resolve.CacheDir, flags.resolve.cacheDir)
	if len(flags.resolve.allowAbsolute) > 0 {
		cfg.Resolve.AllowAbsolute = append(cfg.Resolve.AllowAbsolute, flags.resolve.allowAbsolute...)
	}
	if flags.resolve.allowAll {
		cfg.Resolve.AllowAllAbsolute = true
	}
	if flags.resolve.remote {
		cfg.Resolve.AllowRemote = true
	}
}

// resolveTimeoutWithEnv determines the tool timeout.
// Priority: flag > env > config. Zero means the library default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	if flagValue != "" {
		return parseTimeout(flagValue)
	}
	if envValue > 0 {
		return envValue, nil
	}
	if configValue != "" {
		return parseTimeout(configValue)
	}
	return 0, nil
}

// parseTimeout parses a positive Go duration.
func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidTimeout, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, d)
	}
	return d, nil
}

// converterOptions builds the converter options shared by every worker.
func converterOptions(cfg *config.Config, timeout time.Duration, env *Environment) []md2latex.Option {
	opts := []md2latex.Option{
		md2latex.WithBackend(cfg.Document.Backend),
		md2latex.WithProjectRoot(cfg.Resolve.ProjectRoot),
		md2latex.WithEngine(cfg.Render.Engine),
		md2latex.WithDiagnostics(&lockedWriter{w: env.Stderr}),
	}
	if cfg.Assets.Style != "" {
		opts = append(opts, md2latex.WithStyle(cfg.Assets.Style))
	}
	if cfg.Assets.TemplateSet != "" {
		opts = append(opts, md2latex.WithTemplateSet(cfg.Assets.TemplateSet))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, md2latex.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.Template != "" {
		opts = append(opts, md2latex.WithDocumentTemplate(cfg.Assets.Template))
	}
	if timeout > 0 {
		opts = append(opts, md2latex.WithTimeout(timeout))
	}
	if cfg.Resolve.AllowRemote {
		opts = append(opts, md2latex.WithRemote(cfg.Resolve.CacheDir))
	}
	if cfg.Resolve.AllowAllAbsolute {
		opts = append(opts, md2latex.WithAllowAllAbsolute())
	} else if len(cfg.Resolve.AllowAbsolute) > 0 {
		opts = append(opts, md2latex.WithAllowAbsolute(cfg.Resolve.AllowAbsolute...))
	}
	return opts
}

// buildDocument maps the config to the base document, which the front
// matter of each file overrides.
func buildDocument(cfg *config.Config) *md2latex.Document {
	d := cfg.Document
	doc := &md2latex.Document{
		Backend:        d.Backend,
		Title:          d.Title,
		Subtitle:       d.Subtitle,
		Author:         d.Author,
		Date:           d.Date,
		Publisher:      d.Publisher,
		Lang:           d.Lang,
		FontSize:       d.FontSize,
		ClassOptions:   d.ClassOptions,
		Paper:          d.Paper,
		Orientation:    d.Orientation,
		Margin:         d.Margin,
		Bibliography:   d.Bibliography,
		CiteStyle:      d.CiteStyle,
		BibStyle:       d.BibStyle,
		Figures:        d.Figures,
		TightList:      d.TightList,
		HeaderIncludes: d.HeaderIncludes,

		ThesisType:     cfg.Thesis.Type,
		Supervisor:     cfg.Thesis.Supervisor,
		Advisor:        cfg.Thesis.Advisor,
		University:     cfg.Thesis.University,
		Faculty:        cfg.Thesis.Faculty,
		Location:       cfg.Thesis.Location,
		Disclaimer:     cfg.Thesis.Disclaimer,
		LogoUniversity: cfg.Thesis.LogoUniversity,
		LogoFaculty:    cfg.Thesis.LogoFaculty,
		Abstracts:      cfg.Thesis.Abstracts,

		BeamerTheme: cfg.Beamer.Theme,
	}
	// false in YAML is indistinguishable from unset
	if d.OneSide {
		doc.OneSide = boolPtr(true)
	}
	if d.TitlePage {
		doc.TitlePage = boolPtr(true)
	}
	return doc
}

// buildOverride maps the document flags to the override document.
// Returns nil when no document flag is set.
func buildOverride(flags *convertFlags) *md2latex.Document {
	doc := &md2latex.Document{
		Backend:      flags.document.backend,
		Title:        flags.document.title,
		Subtitle:     flags.document.subtitle,
		Author:       flags.document.author,
		Date:         flags.document.date,
		Lang:         flags.document.lang,
		FontSize:     flags.document.fontSize,
		Bibliography: absIfSet(flags.document.bibliography),
		BeamerTheme:  flags.document.beamerTheme,
		ClassOptions: flags.document.classOptions,
		Paper:        flags.page.paper,
		Orientation:  flags.page.orientation,
		Margin:       flags.page.margin,
	}
	if flags.page.oneSide {
		doc.OneSide = boolPtr(true)
	}
	if isZeroDocument(doc) {
		return nil
	}
	return doc
}

// isZeroDocument reports whether no field of d is set.
func isZeroDocument(d *md2latex.Document) bool {
	return d.Backend == "" && d.Title == "" && d.Subtitle == "" &&
		d.Author == "" && d.Date == "" && d.Lang == "" && d.FontSize == "" &&
		d.Bibliography == "" && d.BeamerTheme == "" && len(d.ClassOptions) == 0 &&
		d.Paper == "" && d.Orientation == "" && d.Margin == "" && d.OneSide == nil
}

// absIfSet makes a path given on the command line absolute, so it does
// not get resolved against the markdown file's directory.
func absIfSet(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func boolPtr(b bool) *bool { return &b }

// resolveInputPath determines the input path from args.
func resolveInputPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// inputDir returns the directory of the input: the input itself when it
// is a directory.
func inputDir(inputPath string) string {
	info, err := os.Stat(inputPath)
	if err == nil && info.IsDir() {
		return inputPath
	}
	return filepath.Dir(inputPath)
}

// Package config loads the YAML configuration of a conversion: document
// metadata, thesis and beamer settings, assets, output, include resolution
// and external tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid field value")
)

// Field length limits. Values end up verbatim in the LaTeX preamble.
const (
	MaxNameLength     = 100  // Author, supervisor, advisor
	MaxTitleLength    = 200  // Title, subtitle
	MaxDateLength     = 60   // "2025-12-31", "auto:MMMM D, YYYY", "\today"
	MaxPathLength     = 4096 // Bibliography, logos, templates, abstracts
	MaxTextLength     = 2000 // Disclaimer
	MaxOptionLength   = 100  // Class options, geometry values, theme
	MaxIncludeLength  = 1000 // One header include
	MaxOrgLength      = 200  // University, faculty, publisher
	MaxAbstracts      = 4
	MaxHeaderIncludes = 100
)

// Config holds all configuration for document generation.
type Config struct {
	Document DocumentConfig `yaml:"document"`
	Thesis   ThesisConfig   `yaml:"thesis"`
	Beamer   BeamerConfig   `yaml:"beamer"`
	Assets   AssetsConfig   `yaml:"assets"`
	Output   OutputConfig   `yaml:"output"`
	Resolve  ResolveConfig  `yaml:"resolve"`
	Render   RenderConfig   `yaml:"render"`
}

// DocumentConfig defines the document class and its metadata.
type DocumentConfig struct {
	Backend   string `yaml:"backend"` // article, report, thesis, beamer (default: article)
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Author    string `yaml:"author"`
	Date      string `yaml:"date"` // "auto", "auto:FORMAT", "today" or literal
	Publisher string `yaml:"publisher"`

	Lang         string   `yaml:"lang"`     // BCP 47 tag or babel name (default: english)
	FontSize     string   `yaml:"fontSize"` // 8pt to 20pt (default: 11pt)
	ClassOptions []string `yaml:"classOptions"`
	OneSide      bool     `yaml:"oneSide"`
	TitlePage    bool     `yaml:"titlePage"` // report: separate title page

	Paper       string `yaml:"paper"`       // geometry paper name, e.g. a4paper
	Orientation string `yaml:"orientation"` // portrait, landscape
	Margin      string `yaml:"margin"`      // geometry length, e.g. 2.5cm

	Bibliography string `yaml:"bibliography"` // .bib path, enables citations
	CiteStyle    string `yaml:"citeStyle"`
	BibStyle     string `yaml:"bibStyle"`

	Figures        *bool    `yaml:"figures"`   // wrap configured elements in floats (default: true)
	TightList      *bool    `yaml:"tightList"` // compact lists (default: true)
	HeaderIncludes []string `yaml:"headerIncludes"`
}

// ThesisConfig defines the thesis title pages.
type ThesisConfig struct {
	Type           string   `yaml:"type"` // e.g. "Master's Thesis in Informatics"
	University     string   `yaml:"university"`
	Faculty        string   `yaml:"faculty"`
	Supervisor     string   `yaml:"supervisor"`
	Advisor        string   `yaml:"advisor"`
	Location       string   `yaml:"location"`
	Disclaimer     string   `yaml:"disclaimer"`
	LogoUniversity string   `yaml:"logoUniversity"`
	LogoFaculty    string   `yaml:"logoFaculty"`
	Abstracts      []string `yaml:"abstracts"` // markdown files placed before the table of contents
}

// BeamerConfig defines presentation options.
type BeamerConfig struct {
	Theme string `yaml:"theme"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath"`    // Empty = use embedded assets
	Style       string `yaml:"style"`       // Preamble style name or .tex path (default: default)
	TemplateSet string `yaml:"templateSet"` // Title page template set (default: default)
	Template    string `yaml:"template"`    // Document template with a HERADOCBODY line
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	PDF        bool   `yaml:"pdf"`        // Compile the generated LaTeX to PDF
}

// ResolveConfig defines where includes may be read from.
type ResolveConfig struct {
	ProjectRoot      string   `yaml:"projectRoot"` // Empty = directory of the input
	AllowAbsolute    []string `yaml:"allowAbsolute"`
	AllowAllAbsolute bool     `yaml:"allowAllAbsolute"`
	AllowRemote      bool     `yaml:"allowRemote"`
	CacheDir         string   `yaml:"cacheDir"` // Remote include cache (default: user cache dir)
}

// RenderConfig defines external tool options.
type RenderConfig struct {
	Timeout string `yaml:"timeout"` // Go duration per tool run, e.g. "2m"
	Engine  string `yaml:"engine"`  // latexmk, pdflatex, xelatex, lualatex
}

// Backends lists the accepted document.backend values.
var Backends = []string{"article", "report", "thesis", "beamer"}

var fontSizePattern = regexp.MustCompile(`^([89]|1[0-9]|20)pt$`)

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.Document.validate(); err != nil {
		return err
	}
	if err := c.Thesis.validate(); err != nil {
		return err
	}
	if err := validateFieldLength("beamer.theme", c.Beamer.Theme, MaxOptionLength); err != nil {
		return err
	}

	// Validate asset fields
	for _, f := range []struct{ name, value string }{
		{"assets.basePath", c.Assets.BasePath},
		{"assets.style", c.Assets.Style},
		{"assets.templateSet", c.Assets.TemplateSet},
		{"assets.template", c.Assets.Template},
		{"output.defaultDir", c.Output.DefaultDir},
		{"resolve.projectRoot", c.Resolve.ProjectRoot},
		{"resolve.cacheDir", c.Resolve.CacheDir},
	} {
		if err := validateFieldLength(f.name, f.value, MaxPathLength); err != nil {
			return err
		}
	}
	for i, dir := range c.Resolve.AllowAbsolute {
		if err := validateFieldLength(fmt.Sprintf("resolve.allowAbsolute[%d]", i), dir, MaxPathLength); err != nil {
			return err
		}
	}

	// Validate render fields
	if c.Render.Timeout != "" {
		if _, err := c.Render.TimeoutDuration(); err != nil {
			return err
		}
	}
	if err := validateFieldLength("render.engine", c.Render.Engine, MaxOptionLength); err != nil {
		return err
	}

	return nil
}

func (d *DocumentConfig) validate() error {
	if d.Backend != "" && !isOneOf(d.Backend, Backends) {
		return fmt.Errorf("%w: document.backend %q (must be one of %s)", ErrInvalidField, d.Backend, strings.Join(Backends, ", "))
	}
	if d.FontSize != "" && !fontSizePattern.MatchString(d.FontSize) {
		return fmt.Errorf("%w: document.fontSize %q (must be between 8pt and 20pt)", ErrInvalidField, d.FontSize)
	}
	if d.Orientation != "" && !isOneOf(d.Orientation, []string{"portrait", "landscape"}) {
		return fmt.Errorf("%w: document.orientation %q (must be portrait or landscape)", ErrInvalidField, d.Orientation)
	}

	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"document.title", d.Title, MaxTitleLength},
		{"document.subtitle", d.Subtitle, MaxTitleLength},
		{"document.author", d.Author, MaxNameLength},
		{"document.date", d.Date, MaxDateLength},
		{"document.publisher", d.Publisher, MaxOrgLength},
		{"document.lang", d.Lang, MaxOptionLength},
		{"document.paper", d.Paper, MaxOptionLength},
		{"document.margin", d.Margin, MaxOptionLength},
		{"document.bibliography", d.Bibliography, MaxPathLength},
		{"document.citeStyle", d.CiteStyle, MaxOptionLength},
		{"document.bibStyle", d.BibStyle, MaxOptionLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	for i, opt := range d.ClassOptions {
		if err := validateFieldLength(fmt.Sprintf("document.classOptions[%d]", i), opt, MaxOptionLength); err != nil {
			return err
		}
	}
	if len(d.HeaderIncludes) > MaxHeaderIncludes {
		return fmt.Errorf("%w: document.headerIncludes has %d entries (max %d)", ErrInvalidField, len(d.HeaderIncludes), MaxHeaderIncludes)
	}
	for i, inc := range d.HeaderIncludes {
		if err := validateFieldLength(fmt.Sprintf("document.headerIncludes[%d]", i), inc, MaxIncludeLength); err != nil {
			return err
		}
	}
	return nil
}

func (t *ThesisConfig) validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"thesis.type", t.Type, MaxTitleLength},
		{"thesis.university", t.University, MaxOrgLength},
		{"thesis.faculty", t.Faculty, MaxOrgLength},
		{"thesis.supervisor", t.Supervisor, MaxNameLength},
		{"thesis.advisor", t.Advisor, MaxNameLength},
		{"thesis.location", t.Location, MaxNameLength},
		{"thesis.disclaimer", t.Disclaimer, MaxTextLength},
		{"thesis.logoUniversity", t.LogoUniversity, MaxPathLength},
		{"thesis.logoFaculty", t.LogoFaculty, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	if len(t.Abstracts) > MaxAbstracts {
		return fmt.Errorf("%w: thesis.abstracts has %d entries (max %d)", ErrInvalidField, len(t.Abstracts), MaxAbstracts)
	}
	for i, p := range t.Abstracts {
		if err := validateFieldLength(fmt.Sprintf("thesis.abstracts[%d]", i), p, MaxPathLength); err != nil {
			return err
		}
	}
	return nil
}

// TimeoutDuration parses the render timeout. It returns 0 when unset.
func (r RenderConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout %q: %v", ErrInvalidField, r.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout must be positive, got %s", ErrInvalidField, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func isOneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{Backend: "article"},
		Assets:   AssetsConfig{Style: "default", TemplateSet: "default"},
		Render:   RenderConfig{Engine: "pdflatex"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative paths in the file are relative to the file.
	cfg.resolvePaths(filepath.Dir(configPath))

	return cfg, nil
}

// resolvePaths makes the relative file paths of c relative to dir.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{
		&c.Document.Bibliography,
		&c.Thesis.LogoUniversity,
		&c.Thesis.LogoFaculty,
		&c.Assets.BasePath,
		&c.Assets.Template,
		&c.Output.DefaultDir,
		&c.Resolve.ProjectRoot,
		&c.Resolve.CacheDir,
	} {
		*p = joinRelative(dir, *p)
	}
	for i := range c.Thesis.Abstracts {
		c.Thesis.Abstracts[i] = joinRelative(dir, c.Thesis.Abstracts[i])
	}
	for i := range c.Resolve.AllowAbsolute {
		c.Resolve.AllowAbsolute[i] = joinRelative(dir, c.Resolve.AllowAbsolute[i])
	}
	// A style is a path only when it looks like one; otherwise it is a name.
	if isFilePath(c.Assets.Style) {
		c.Assets.Style = joinRelative(dir, c.Assets.Style)
	}
}

func joinRelative(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2latex/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2latex", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: triedPaths}
}

// NotFoundError lists the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

package md2latex

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2latex/internal/latex"
)

// Backend names.
const (
	BackendArticle = "article"
	BackendReport  = "report"
	BackendThesis  = "thesis"
	BackendBeamer  = "beamer"
)

// Backends returns the accepted backend names, sorted.
func Backends() []string {
	return latex.FlavorNames()
}

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Default page geometry of the paged backends.
const (
	DefaultPaper  = "a4"
	DefaultMargin = "2.5cm"
)

// MaxAbstracts bounds the abstracts of a thesis.
const MaxAbstracts = 4

// Document holds the metadata and layout of one document. It is read from
// the YAML front matter of the markdown, so the keys are flat.
//
// Zero values mean "not set": when documents are merged, a set field of
// the higher priority document wins.
type Document struct {
	Backend   string `yaml:"backend"`
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Author    string `yaml:"author"`
	Date      string `yaml:"date"` // literal, "today", "auto" or "auto:FORMAT"
	Publisher string `yaml:"publisher"`

	Lang         string   `yaml:"lang"`     // BCP 47 tag or babel name
	FontSize     string   `yaml:"fontSize"` // e.g. 11pt
	ClassOptions []string `yaml:"classOptions"`
	OneSide      *bool    `yaml:"oneSide"`
	TitlePage    *bool    `yaml:"titlePage"`

	Paper       string `yaml:"paper"` // a4, letter, a5paper, ...
	Orientation string `yaml:"orientation"`
	Margin      string `yaml:"margin"` // TeX length

	Bibliography string `yaml:"bibliography"`
	CiteStyle    string `yaml:"citeStyle"`
	BibStyle     string `yaml:"bibStyle"`

	Figures        *bool    `yaml:"figures"`
	TightList      *bool    `yaml:"tightList"`
	HeaderIncludes []string `yaml:"headerIncludes"`

	// Thesis.
	ThesisType     string   `yaml:"thesisType"`
	Supervisor     string   `yaml:"supervisor"`
	Advisor        string   `yaml:"advisor"`
	University     string   `yaml:"university"`
	Faculty        string   `yaml:"faculty"`
	Location       string   `yaml:"location"`
	Disclaimer     string   `yaml:"disclaimer"`
	LogoUniversity string   `yaml:"logoUniversity"`
	LogoFaculty    string   `yaml:"logoFaculty"`
	Abstracts      []string `yaml:"abstracts"` // markdown files

	// Beamer.
	BeamerTheme string `yaml:"beamerTheme"`
}

// Validate checks the fields that have a closed set of values.
// Returns nil if d is nil.
func (d *Document) Validate() error {
	if d == nil {
		return nil
	}
	if d.Backend != "" {
		if _, err := latex.ParseFlavor(d.Backend); err != nil {
			return fmt.Errorf("%w: %v", ErrUnknownBackend, err)
		}
	}
	switch strings.ToLower(d.Orientation) {
	case "", OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: orientation %q (must be portrait or landscape)", ErrInvalidDocument, d.Orientation)
	}
	if len(d.Abstracts) > MaxAbstracts {
		return fmt.Errorf("%w: %d abstracts (max %d)", ErrInvalidDocument, len(d.Abstracts), MaxAbstracts)
	}
	return nil
}

// mergeDocument returns base with every field set in over replacing the
// one of base. Either may be nil.
func mergeDocument(base, over *Document) Document {
	var d Document
	if base != nil {
		d = *base
	}
	if over == nil {
		return d
	}
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	list := func(dst *[]string, v []string) {
		if len(v) > 0 {
			*dst = v
		}
	}
	flag := func(dst **bool, v *bool) {
		if v != nil {
			*dst = v
		}
	}

	str(&d.Backend, over.Backend)
	str(&d.Title, over.Title)
	str(&d.Subtitle, over.Subtitle)
	str(&d.Author, over.Author)
	str(&d.Date, over.Date)
	str(&d.Publisher, over.Publisher)
	str(&d.Lang, over.Lang)
	str(&d.FontSize, over.FontSize)
	list(&d.ClassOptions, over.ClassOptions)
	flag(&d.OneSide, over.OneSide)
	flag(&d.TitlePage, over.TitlePage)
	str(&d.Paper, over.Paper)
	str(&d.Orientation, over.Orientation)
	str(&d.Margin, over.Margin)
	str(&d.Bibliography, over.Bibliography)
	str(&d.CiteStyle, over.CiteStyle)
	str(&d.BibStyle, over.BibStyle)
	flag(&d.Figures, over.Figures)
	flag(&d.TightList, over.TightList)
	list(&d.HeaderIncludes, over.HeaderIncludes)
	str(&d.ThesisType, over.ThesisType)
	str(&d.Supervisor, over.Supervisor)
	str(&d.Advisor, over.Advisor)
	str(&d.University, over.University)
	str(&d.Faculty, over.Faculty)
	str(&d.Location, over.Location)
	str(&d.Disclaimer, over.Disclaimer)
	str(&d.LogoUniversity, over.LogoUniversity)
	str(&d.LogoFaculty, over.LogoFaculty)
	list(&d.Abstracts, over.Abstracts)
	str(&d.BeamerTheme, over.BeamerTheme)
	return d
}

// relativeTo makes the file paths of d that are relative, relative to dir.
func (d *Document) relativeTo(dir string) {
	if dir == "" {
		return
	}
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	d.Bibliography = join(d.Bibliography)
	d.LogoUniversity = join(d.LogoUniversity)
	d.LogoFaculty = join(d.LogoFaculty)
	abstracts := make([]string, len(d.Abstracts))
	for i, p := range d.Abstracts {
		abstracts[i] = join(p)
	}
	d.Abstracts = abstracts
}

// geometry returns the options of the geometry package.
func (d *Document) geometry() []string {
	paper := d.Paper
	if paper == "" {
		paper = DefaultPaper
	}
	if !strings.HasSuffix(paper, "paper") {
		paper += "paper"
	}
	margin := d.Margin
	if margin == "" {
		margin = DefaultMargin
	}
	opts := []string{strings.ToLower(paper), "margin=" + margin}
	if strings.EqualFold(d.Orientation, OrientationLandscape) {
		opts = append(opts, OrientationLandscape)
	}
	return opts
}

// classOptions returns the extra document class options.
func (d *Document) classOptions() []string {
	opts := append([]string(nil), d.ClassOptions...)
	if d.OneSide != nil && *d.OneSide {
		opts = append(opts, "oneside")
	}
	return opts
}

// Input contains the parameters of one conversion.
type Input struct {
	Markdown string // Markdown content (required)

	// Name identifies the document in diagnostics. Defaults to "input.md".
	Name string

	// SourceDir is the directory of the markdown file. Relative includes
	// and front matter paths resolve against it. Defaults to the project
	// root.
	SourceDir string

	// Document is the base metadata, typically from a config file. The
	// front matter of Markdown overrides it, and Override overrides both.
	Document *Document
	Override *Document

	// OutputPath is where the LaTeX file is written. When empty, the
	// LaTeX is only returned in the result.
	OutputPath string

	// PDF compiles the written LaTeX file. Requires OutputPath.
	PDF bool
}

// Diagnostic is a recoverable problem found in the document. The
// generation skipped the offending construct and continued.
type Diagnostic struct {
	Severity string // "warning", "error" or "bug"
	Message  string
	Location string // file:line:col, empty when unknown
	Notes    []string
}

func (d Diagnostic) String() string {
	if d.Location == "" {
		return d.Severity + ": " + d.Message
	}
	return d.Location + ": " + d.Severity + ": " + d.Message
}

// ConvertResult contains the output of a conversion.
type ConvertResult struct {
	LaTeX       []byte
	TexPath     string // written LaTeX file, empty without Input.OutputPath
	PDFPath     string // compiled PDF, empty unless Input.PDF
	Backend     string
	Diagnostics []Diagnostic
}

// Errors returns the number of error diagnostics.
func (r *ConvertResult) Errors() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity != "warning" {
			n++
		}
	}
	return n
}

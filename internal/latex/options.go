package latex

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-md2latex/internal/hints"
)

// Sentinel errors.
var (
	ErrUnknownFlavor = errors.New("unknown document flavor")
	ErrNoRenderer    = errors.New("no renderer configured")
)

// Flavor selects the document class and the structural units.
type Flavor int

const (
	Article Flavor = iota
	Report
	Thesis
	Beamer
)

var flavorNames = map[Flavor]string{
	Article: "article",
	Report:  "report",
	Thesis:  "thesis",
	Beamer:  "beamer",
}

func (f Flavor) String() string {
	if name, ok := flavorNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Flavor(%d)", int(f))
}

// FlavorNames returns the accepted flavor names, sorted.
func FlavorNames() []string {
	names := make([]string, 0, len(flavorNames))
	for _, name := range flavorNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFlavor returns the flavor named name, case-insensitively.
func ParseFlavor(name string) (Flavor, error) {
	for f, n := range flavorNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q%s", ErrUnknownFlavor, name, hints.ForUnknownName(name, FlavorNames()))
}

// Renderer converts resources LaTeX cannot include directly into PDF files.
// Both methods return the path of the produced PDF.
type Renderer interface {
	Graphviz(ctx context.Context, dotPath string) (string, error)
	SVG(ctx context.Context, svgPath string) (string, error)
}

// Metadata is the document information written by the preamble. Values are
// written verbatim and may contain LaTeX.
type Metadata struct {
	Title      string
	Subtitle   string
	Author     string
	Date       string
	Publisher  string
	Supervisor string
	Advisor    string

	// Thesis and beamer title pages.
	University     string
	Faculty        string
	ThesisType     string
	Location       string
	LogoUniversity string
	LogoFaculty    string
	Disclaimer     string
}

// TitlePages holds the LaTeX snippets of the generated title pages.
type TitlePages struct {
	ThesisCover      string
	ThesisTitle      string
	ThesisDisclaimer string
	ReportCover      string
}

// Options configures a Backend.
type Options struct {
	Flavor Flavor
	// Standalone writes the document class, the packages and the document
	// environment. Without it only the body and the title matter are
	// written, for embedding into a template.
	Standalone bool

	Meta         Metadata
	Lang         string   // babel language
	FontSize     string   // e.g. 11pt
	ClassOptions []string // extra document class options
	Geometry     []string // geometry package options
	TitlePage    bool     // report: separate title page

	Bibliography string // .bib path, enables biblatex
	CiteStyle    string
	BibStyle     string

	TightList   bool   // compact itemize spacing
	BeamerTheme string // \usetheme argument, beamer only

	// Style is appended to the package list: macro definitions and fixes
	// the units rely on.
	Style          string
	HeaderIncludes []string
	TitlePages     TitlePages
	// Abstracts are LaTeX bodies placed before the thesis table of contents.
	Abstracts []string

	// OutDir receives generated files such as rendered graphs.
	OutDir   string
	Renderer Renderer
}

// DefaultOptions returns standalone article options.
func DefaultOptions() Options {
	return Options{
		Flavor:     Article,
		Standalone: true,
		Lang:       "english",
		FontSize:   "11pt",
		Geometry:   []string{"a4paper", "margin=2.5cm"},
		CiteStyle:  "numeric",
		BibStyle:   "numeric",
		TightList:  true,
	}
}

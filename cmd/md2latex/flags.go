package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags. They override both the
// config file and the front matter.
type documentFlags struct {
	backend      string
	title        string
	subtitle     string
	author       string
	date         string
	lang         string
	fontSize     string
	bibliography string
	beamerTheme  string
	classOptions []string
}

// pageFlags holds page geometry flags.
type pageFlags struct {
	paper       string
	orientation string
	margin      string
	oneSide     bool
}

// assetFlags holds asset-related flags (preamble style, title pages, custom asset path).
type assetFlags struct {
	style       string // Name or path of the preamble style
	templateSet string // Name of the title page template set
	template    string // Document template with a HERADOCBODY line
	assetPath   string // Override asset directory
}

// resolveFlags holds include resolution flags.
type resolveFlags struct {
	projectRoot   string
	allowAbsolute []string
	allowAll      bool
	remote        bool
	cacheDir      string
}

// renderFlags holds external tool flags.
type renderFlags struct {
	pdf     bool
	engine  string
	timeout string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	document documentFlags
	page     pageFlags
	assets   assetFlags
	resolve  resolveFlags
	render   renderFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.backend, "backend", "b", "", "document backend: article, report, thesis, beamer")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.subtitle, "subtitle", "", "document subtitle")
	fs.StringVar(&f.author, "author", "", "document author")
	fs.StringVar(&f.date, "date", "", "document date (\"auto\", \"auto:FORMAT\", \"today\" or literal)")
	fs.StringVar(&f.lang, "lang", "", "document language (e.g. en, de-CH, ngerman)")
	fs.StringVar(&f.fontSize, "font-size", "", "base font size (e.g. 11pt)")
	fs.StringVar(&f.bibliography, "bibliography", "", "BibTeX file, enables citations")
	fs.StringVar(&f.beamerTheme, "beamer-theme", "", "beamer theme")
	fs.StringSliceVar(&f.classOptions, "class-option", nil, "extra document class option (repeatable)")
}

// addPageFlags adds page geometry flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.paper, "paper", "p", "", "paper size: a4, a5, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.margin, "margin", "", "page margin as a TeX length (e.g. 2cm)")
	fs.BoolVar(&f.oneSide, "one-side", false, "one-sided layout")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "preamble style name or .tex file path")
	fs.StringVar(&f.templateSet, "template-set", "", "title page template set name")
	fs.StringVar(&f.template, "template", "", "document template with a HERADOCBODY line")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addResolveFlags adds include resolution flags to a FlagSet.
func addResolveFlags(fs *flag.FlagSet, f *resolveFlags) {
	fs.StringVar(&f.projectRoot, "project-root", "", "directory relative includes may not leave (default: input directory)")
	fs.StringSliceVar(&f.allowAbsolute, "allow-absolute", nil, "directory absolute includes may read from (repeatable)")
	fs.BoolVar(&f.allowAll, "allow-all-absolute", false, "allow includes from any absolute path")
	fs.BoolVar(&f.remote, "remote", false, "allow includes from http(s) URLs")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "remote include cache directory")
}

// addRenderFlags adds external tool flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.pdf, "pdf", false, "compile the generated LaTeX to PDF")
	fs.StringVarP(&f.engine, "engine", "e", "", "LaTeX engine: latexmk, pdflatex, xelatex, lualatex")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "timeout per external tool run (e.g., 30s, 2m)")
}

// newConvertFlagSet registers every convert flag into a new FlagSet.
// Shared by parsing and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output .tex file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)
	addResolveFlags(fs, &f.resolve)
	addRenderFlags(fs, &f.render)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

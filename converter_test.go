package md2latex

// Notes:
// - Tests Converter.Convert with a fake tool renderer so that no LaTeX
//   engine, graphviz or browser is needed.
// - Internal test options (withRenderer, withClock) inject the fake and a
//   fixed date for "auto" dates.
// - Documents are small markdown strings; assertions check the LaTeX
//   fragments a reader would look for, not whole files.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-md2latex/internal/render"
)

// ---------------------------------------------------------------------------
// Fake Implementations
// ---------------------------------------------------------------------------

type fakeRenderer struct {
	mu            sync.Mutex
	opts          render.Options
	graphviz      []string
	pdf           []string
	bibliography  bool
	pdfErr        error
	panicGraphviz bool
	closed        bool
}

func (f *fakeRenderer) Graphviz(_ context.Context, dotPath string) (string, error) {
	if f.panicGraphviz {
		panic("graphviz exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphviz = append(f.graphviz, dotPath)
	return strings.TrimSuffix(dotPath, ".dot") + ".pdf", nil
}

func (f *fakeRenderer) SVG(_ context.Context, svgPath string) (string, error) {
	return strings.TrimSuffix(svgPath, ".svg") + ".pdf", nil
}

func (f *fakeRenderer) PDF(_ context.Context, texPath string, bibliography bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pdf = append(f.pdf, texPath)
	f.bibliography = bibliography
	if f.pdfErr != nil {
		return "", f.pdfErr
	}
	return strings.TrimSuffix(texPath, ".tex") + ".pdf", nil
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

var fixedNow = time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)

// newTestConverter creates a converter rooted at a temp dir with a fake
// renderer and a fixed clock.
func newTestConverter(t *testing.T, fake *fakeRenderer, opts ...Option) *Converter {
	t.Helper()
	base := []Option{
		WithProjectRoot(t.TempDir()),
		withClock(func() time.Time { return fixedNow }),
		withRenderer(func(o render.Options) toolRenderer {
			fake.opts = o
			return fake
		}),
	}
	conv, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

func convert(t *testing.T, conv *Converter, input Input) *ConvertResult {
	t.Helper()
	result, err := conv.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return result
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func assertNotContains(t *testing.T, out string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(out, u) {
			t.Errorf("output should not contain %q:\n%s", u, out)
		}
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Option validation
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	notDir := filepath.Join(dir, "file.txt")
	writeTestFile(t, notDir, "x")
	customStyle := filepath.Join(dir, "custom.tex")
	writeTestFile(t, customStyle, `\newcommand{\custom}{}`)

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults", opts: nil},
		{name: "report backend", opts: []Option{WithBackend("Report")}},
		{name: "minimal style", opts: []Option{WithStyle("minimal")}},
		{name: "style path", opts: []Option{WithStyle(customStyle)}},
		{name: "plain template set", opts: []Option{WithTemplateSet("plain")}},
		{name: "latexmk engine", opts: []Option{WithEngine("latexmk")}},
		{name: "unknown backend", opts: []Option{WithBackend("book")}, wantErr: ErrUnknownBackend},
		{name: "unknown engine", opts: []Option{WithEngine("context")}, wantErr: ErrUnknownEngine},
		{name: "unknown style", opts: []Option{WithStyle("fancy")}, wantErr: ErrStyleNotFound},
		{name: "missing style file", opts: []Option{WithStyle(filepath.Join(dir, "nope.tex"))}, wantErr: ErrStyleNotFound},
		{name: "unknown template set", opts: []Option{WithTemplateSet("fancy")}, wantErr: ErrTemplateSetNotFound},
		{name: "missing asset path", opts: []Option{WithAssetPath(filepath.Join(dir, "nope"))}, wantErr: ErrInvalidAssetPath},
		{name: "missing document template", opts: []Option{WithDocumentTemplate(filepath.Join(dir, "nope.tex"))}, wantErr: ErrTemplate},
		{name: "missing project root", opts: []Option{WithProjectRoot(filepath.Join(dir, "nope"))}, wantErr: ErrInvalidProjectRoot},
		{name: "project root is a file", opts: []Option{WithProjectRoot(notDir)}, wantErr: ErrInvalidProjectRoot},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, err := NewConverter(append([]Option{WithProjectRoot(dir)}, tt.opts...)...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewConverter() error = %v", err)
				}
				_ = conv.Close()
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConverter_UnknownStyleHint(t *testing.T) {
	t.Parallel()

	_, err := NewConverter(WithProjectRoot(t.TempDir()), WithStyle("minimall"))
	if err == nil {
		t.Fatal("expected error")
	}
	assertContains(t, err.Error(), "hint:", "minimal")
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestConvert - Input validation
// ---------------------------------------------------------------------------

func TestConvert_InputValidation(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &fakeRenderer{})

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "empty markdown", input: Input{}, wantErr: ErrEmptyMarkdown},
		{name: "blank markdown", input: Input{Markdown: " \n\t"}, wantErr: ErrEmptyMarkdown},
		{name: "pdf without output path", input: Input{Markdown: "x", PDF: true}, wantErr: ErrNoOutputPath},
		{name: "unknown backend in override", input: Input{Markdown: "x", Override: &Document{Backend: "memo"}}, wantErr: ErrUnknownBackend},
		{name: "bad orientation", input: Input{Markdown: "x", Document: &Document{Orientation: "diagonal"}}, wantErr: ErrInvalidDocument},
		{name: "bad date", input: Input{Markdown: "x", Override: &Document{Date: "auto:[x"}}, wantErr: ErrInvalidDate},
		{name: "invalid front matter", input: Input{Markdown: "---\ntitle: [x\n---\nBody\n"}, wantErr: ErrFrontMatter},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			// The converter is shared and not safe for concurrent use.
			_, err := conv.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvert - Backends
// ---------------------------------------------------------------------------

func TestConvert_Article(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &fakeRenderer{})
	result := convert(t, conv, Input{Markdown: "# Hello\n\nSome *text*.\n"})

	out := string(result.LaTeX)
	assertContains(t, out,
		`{scrartcl}`,
		`\begin{document}`,
		`\section{Hello}\label{hello}`,
		`\emph{text}`,
		`\end{document}`,
	)
	if result.Backend != BackendArticle {
		t.Errorf("Backend = %q, want article", result.Backend)
	}
	if result.TexPath != "" || result.PDFPath != "" {
		t.Errorf("paths = %q, %q; want none without output path", result.TexPath, result.PDFPath)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", result.Diagnostics)
	}
}

func TestConvert_BackendSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		markdown string
		backend  string
		wants    []string
	}{
		{
			name:     "converter default",
			opts:     []Option{WithBackend("report")},
			markdown: "# Intro\n",
			backend:  BackendReport,
			wants:    []string{`{scrreprt}`, `\chapter{Intro}`},
		},
		{
			name:     "front matter wins over converter default",
			opts:     []Option{WithBackend("report")},
			markdown: "---\nbackend: beamer\nbeamerTheme: metropolis\n---\n## Slide\n\nBody\n",
			backend:  BackendBeamer,
			wants:    []string{`{beamer}`, `\usetheme{metropolis}`, `\begin{frame}`, `\end{frame}`},
		},
		{
			name:     "thesis",
			markdown: "---\nbackend: thesis\nuniversity: TU Example\n---\n# Chapter\n",
			backend:  BackendThesis,
			wants:    []string{`{scrbook}`, `\newcommand*{\getUniversity}{TU Example}`, `\tableofcontents`, `\chapter{Chapter}`},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, &fakeRenderer{}, tt.opts...)
			result := convert(t, conv, Input{Markdown: tt.markdown})
			if result.Backend != tt.backend {
				t.Errorf("Backend = %q, want %q", result.Backend, tt.backend)
			}
			assertContains(t, string(result.LaTeX), tt.wants...)
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvert - Metadata layers
// ---------------------------------------------------------------------------

func TestConvert_MetadataPrecedence(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &fakeRenderer{})
	result := convert(t, conv, Input{
		Markdown: "---\ntitle: From Front Matter\nsubtitle: Front Subtitle\n---\nBody\n",
		Document: &Document{Title: "From Config", Author: "Config Author", Subtitle: "Config Subtitle"},
		Override: &Document{Subtitle: "Flag Subtitle"},
	})

	out := string(result.LaTeX)
	assertContains(t, out,
		`\title{From Front Matter}`,
		`\author{Config Author}`,
		`\subtitle{Flag Subtitle}`,
		`\maketitle`,
	)
	assertNotContains(t, out, "From Config", "Front Subtitle", "title: From Front Matter")
}

func TestConvert_Dates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date string
		want string
	}{
		{"auto", `\date{2025-03-07}`},
		{"auto:long", `\date{March 7, 2025}`},
		{"today", `\date{\today}`},
		{"Spring 2025", `\date{Spring 2025}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.date, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, &fakeRenderer{})
			result := convert(t, conv, Input{Markdown: "Body\n", Document: &Document{Date: tt.date}})
			assertContains(t, string(result.LaTeX), tt.want)
		})
	}
}

func TestConvert_Layout(t *testing.T) {
	t.Parallel()

	oneSide := true
	conv := newTestConverter(t, &fakeRenderer{})
	result := convert(t, conv, Input{
		Markdown: "Body\n",
		Document: &Document{
			FontSize:       "12pt",
			Paper:          "letter",
			Orientation:    "landscape",
			Margin:         "1in",
			OneSide:        &oneSide,
			Lang:           "de",
			HeaderIncludes: []string{`\usepackage{lipsum}`},
		},
	})

	assertContains(t, string(result.LaTeX),
		`\documentclass[12pt,oneside,]{scrartcl}`,
		`\usepackage[letterpaper,margin=1in,landscape]{geometry}`,
		`\usepackage[ngerman]{babel}`,
		`\usepackage{lipsum}`,
	)
}

// ---------------------------------------------------------------------------
// TestConvert - Diagnostics
// ---------------------------------------------------------------------------

func TestConvert_DiagnosticsDoNotFail(t *testing.T) {
	t.Parallel()

	var printed bytes.Buffer
	conv := newTestConverter(t, &fakeRenderer{}, WithDiagnostics(&printed))
	result := convert(t, conv, Input{
		Name:     "deep.md",
		Markdown: "# Top\n\n#### Too deep\n\nAfter\n",
	})

	if result.Errors() != 1 {
		t.Fatalf("Errors() = %d, want 1: %v", result.Errors(), result.Diagnostics)
	}
	d := result.Diagnostics[0]
	if d.Severity != "error" || !strings.HasPrefix(d.Location, "deep.md:3:") {
		t.Errorf("diagnostic = %+v", d)
	}
	out := string(result.LaTeX)
	assertContains(t, out, `\section{Top}`, "After")
	assertNotContains(t, out, "Too deep")
	assertContains(t, printed.String(), "error:", "--> deep.md:3:")
}

func TestConvert_Includes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	writeTestFile(t, filepath.Join(docs, "chapter.md"), "Included paragraph.\n")
	writeTestFile(t, filepath.Join(root, "..", filepath.Base(root)+"-outside.md"), "Secret\n")

	conv := newTestConverter(t, &fakeRenderer{}, WithProjectRoot(root))

	t.Run("relative to the source directory", func(t *testing.T) {
		result := convert(t, conv, Input{Markdown: "![](chapter.md)\n", SourceDir: docs})
		assertContains(t, string(result.LaTeX), "Included paragraph.")
		if len(result.Diagnostics) != 0 {
			t.Errorf("Diagnostics = %v", result.Diagnostics)
		}
	})

	t.Run("missing target is a diagnostic", func(t *testing.T) {
		result := convert(t, conv, Input{Markdown: "Before\n\n![](missing.md)\n\nAfter\n", SourceDir: docs})
		if result.Errors() != 1 {
			t.Errorf("Errors() = %d, want 1: %v", result.Errors(), result.Diagnostics)
		}
		assertContains(t, string(result.LaTeX), "Before", "After")
	})

	t.Run("leaving the project root is a diagnostic", func(t *testing.T) {
		target := "../" + filepath.Base(root) + "-outside.md"
		result := convert(t, conv, Input{Markdown: "![](" + target + ")\n"})
		if result.Errors() != 1 {
			t.Errorf("Errors() = %d, want 1: %v", result.Errors(), result.Diagnostics)
		}
		assertNotContains(t, string(result.LaTeX), "Secret")
	})
}

// ---------------------------------------------------------------------------
// TestConvert - Templates and assets
// ---------------------------------------------------------------------------

func TestConvert_DocumentTemplate(t *testing.T) {
	t.Parallel()

	tmpl := filepath.Join(t.TempDir(), "template.tex")
	writeTestFile(t, tmpl, "\\documentclass{article}\n\\begin{document}\n  HERADOCBODY\n\\end{document}\n")

	conv := newTestConverter(t, &fakeRenderer{}, WithDocumentTemplate(tmpl))
	result := convert(t, conv, Input{Markdown: "# Hello\n"})

	out := string(result.LaTeX)
	if !strings.HasPrefix(out, "\\documentclass{article}\n\\begin{document}\n") {
		t.Errorf("output does not start with the template head:\n%s", out)
	}
	if !strings.HasSuffix(out, "\\end{document}\n") {
		t.Errorf("output does not end with the template tail:\n%s", out)
	}
	assertContains(t, out, `\section{Hello}`)
	assertNotContains(t, out, "HERADOCBODY", "scrartcl")
	if n := strings.Count(out, `\end{document}`); n != 1 {
		t.Errorf(`\end{document} appears %d times, want 1`, n)
	}
}

func TestConvert_StyleIsInPreamble(t *testing.T) {
	t.Parallel()

	style := filepath.Join(t.TempDir(), "house.tex")
	writeTestFile(t, style, `\newcommand{\housestyle}{}`)

	conv := newTestConverter(t, &fakeRenderer{}, WithStyle(style))
	out := string(convert(t, conv, Input{Markdown: "Body\n"}).LaTeX)

	styleAt := strings.Index(out, `\housestyle`)
	beginAt := strings.Index(out, `\begin{document}`)
	if styleAt < 0 || styleAt > beginAt {
		t.Errorf("style at %d, \\begin{document} at %d", styleAt, beginAt)
	}
}

func TestConvert_Abstracts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "abstract.md"), "---\ntitle: ignored\n---\nThis thesis studies **things**.\n")

	t.Run("thesis places abstracts before the contents", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t, &fakeRenderer{})
		result := convert(t, conv, Input{
			Markdown:  "---\nbackend: thesis\nabstracts: [abstract.md]\n---\n# Start\n",
			SourceDir: dir,
		})
		out := string(result.LaTeX)
		abstractAt := strings.Index(out, `This thesis studies \textbf{things}.`)
		tocAt := strings.Index(out, `\tableofcontents`)
		if abstractAt < 0 || abstractAt > tocAt {
			t.Errorf("abstract at %d, contents at %d:\n%s", abstractAt, tocAt, out)
		}
		assertNotContains(t, out, "ignored")
	})

	t.Run("other backends warn", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t, &fakeRenderer{})
		result := convert(t, conv, Input{
			Markdown:  "---\nabstracts: [abstract.md]\n---\nBody\n",
			SourceDir: dir,
		})
		if len(result.Diagnostics) != 1 || result.Diagnostics[0].Severity != "warning" {
			t.Errorf("Diagnostics = %v, want one warning", result.Diagnostics)
		}
		if result.Errors() != 0 {
			t.Errorf("Errors() = %d, want 0", result.Errors())
		}
	})

	t.Run("missing abstract fails", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t, &fakeRenderer{})
		_, err := conv.Convert(context.Background(), Input{
			Markdown:  "---\nbackend: thesis\nabstracts: [nope.md]\n---\nBody\n",
			SourceDir: dir,
		})
		if !errors.Is(err, ErrAbstract) {
			t.Errorf("error = %v, want ErrAbstract", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvert - Output files and external tools
// ---------------------------------------------------------------------------

func TestConvert_WritesOutputAndPDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fake := &fakeRenderer{}
	conv := newTestConverter(t, fake)
	texPath := filepath.Join(dir, "out", "doc.tex")
	if err := os.MkdirAll(filepath.Dir(texPath), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result := convert(t, conv, Input{
		Markdown:   "Body\n",
		Document:   &Document{Bibliography: "refs.bib"},
		OutputPath: texPath,
		PDF:        true,
	})

	written, err := os.ReadFile(texPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Equal(written, result.LaTeX) {
		t.Error("written file differs from result.LaTeX")
	}
	if result.TexPath != texPath {
		t.Errorf("TexPath = %q, want %q", result.TexPath, texPath)
	}
	if want := filepath.Join(dir, "out", "doc.pdf"); result.PDFPath != want {
		t.Errorf("PDFPath = %q, want %q", result.PDFPath, want)
	}
	if len(fake.pdf) != 1 || !fake.bibliography {
		t.Errorf("PDF calls = %v, bibliography = %v", fake.pdf, fake.bibliography)
	}
	if fake.opts.OutDir != filepath.Dir(texPath) || fake.opts.Engine != render.EnginePDFLaTeX {
		t.Errorf("renderer options = %+v", fake.opts)
	}
	assertContains(t, string(result.LaTeX), `\addbibresource{`)
}

func TestConvert_PDFFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{pdfErr: &render.ToolError{Tool: "pdflatex", ExitCode: 1, Err: errors.New("exit status 1")}}
	conv := newTestConverter(t, fake)

	_, err := conv.Convert(context.Background(), Input{
		Markdown:   "Body\n",
		OutputPath: filepath.Join(t.TempDir(), "doc.tex"),
		PDF:        true,
	})
	if !errors.Is(err, ErrToolFailed) {
		t.Errorf("error = %v, want ErrToolFailed", err)
	}
}

func TestConvert_OutputDirectoryMissing(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &fakeRenderer{}, WithOutDir(t.TempDir()))
	_, err := conv.Convert(context.Background(), Input{
		Markdown:   "Body\n",
		OutputPath: filepath.Join(t.TempDir(), "missing", "doc.tex"),
	})
	if !errors.Is(err, ErrWriteOutput) {
		t.Errorf("error = %v, want ErrWriteOutput", err)
	}
}

func TestConvert_Graphviz(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	fake := &fakeRenderer{}
	conv := newTestConverter(t, fake, WithOutDir(outDir))

	result := convert(t, conv, Input{Markdown: "```graphviz\ndigraph { a -> b }\n```\n"})

	if len(fake.graphviz) != 1 {
		t.Fatalf("graphviz calls = %v, want 1", fake.graphviz)
	}
	src, err := os.ReadFile(fake.graphviz[0])
	if err != nil {
		t.Fatalf("reading dot source: %v", err)
	}
	assertContains(t, string(src), "a -> b")
	assertContains(t, string(result.LaTeX), `\includegraphics[`, "graphviz_")
}

func TestConvert_RecoversPanics(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &fakeRenderer{panicGraphviz: true}, WithOutDir(t.TempDir()))
	result, err := conv.Convert(context.Background(), Input{Markdown: "```graphviz\ndigraph {}\n```\n"})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("error = %v, want ErrInternal", err)
	}
	if result != nil {
		t.Error("result should be nil after a panic")
	}
	assertContains(t, err.Error(), "graphviz exploded")

	// The converter stays usable.
	convert(t, conv, Input{Markdown: "Body\n"})
}

func TestConvert_Canceled(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &fakeRenderer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Markdown: "Body\n"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClose_ClosesRenderers(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{}
	conv := newTestConverter(t, fake)
	convert(t, conv, Input{Markdown: "Body\n"})

	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("renderer not closed")
	}
	if err := conv.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

// Package md2latex converts Markdown documents to LaTeX, and optionally to
// PDF through a LaTeX engine.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2latex.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2latex.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.tex", result.LaTeX, 0644)
//
// Set Input.OutputPath to write the .tex file, and Input.PDF to compile it.
//
// # Conversion Pipeline
//
//  1. Front matter decoding and metadata merging (config < front matter < override)
//  2. Markdown parsing via Goldmark into a flat stream of events
//  3. Generation: a stack interpreter dispatches the events to the units of
//     the selected backend, resolving includes on the way
//  4. Optional PDF compilation (latexmk, or an engine with biber passes)
//
// # Backends
//
// Four backends are available: "article", "report", "thesis" (cover, title
// page, disclaimer, abstracts) and "beamer" (headers become sections,
// frames and blocks). A document selects one in its front matter:
//
//	---
//	backend: beamer
//	title: Results
//	beamerTheme: metropolis
//	---
//
// # Recoverable Problems
//
// Problems in the document, such as an include that cannot be resolved or
// a header that is too deep, do not fail the conversion: the construct is
// skipped and a Diagnostic is returned in ConvertResult.Diagnostics. Use
// WithDiagnostics to print them as they are found.
//
// # Includes
//
// Images whose target is a markdown, image, SVG, PDF or graphviz file are
// includes: ![](chapter2.md). Relative targets may not leave the project
// root (WithProjectRoot). Absolute paths and remote URLs must be allowed
// explicitly with WithAllowAbsolute and WithRemote.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool := md2latex.NewConverterPool(4, md2latex.WithBackend("report"))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Custom Assets
//
// Override the embedded preamble styles and title page templates with
// WithAssetPath:
//
//	assets/
//	├── styles/
//	│   └── custom.tex
//	└── templates/
//	    └── custom/
//	        ├── thesis-cover.tex
//	        ├── thesis-title.tex
//	        ├── disclaimer.tex
//	        └── report-cover.tex
//
// WithDocumentTemplate replaces the generated preamble by a complete LaTeX
// file whose HERADOCBODY line receives the body.
package md2latex

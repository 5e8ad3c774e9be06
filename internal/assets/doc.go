// Package assets provides the LaTeX snippets generated documents are built
// from: preamble styles and title page template sets. Assets can be loaded
// from embedded files or a custom directory.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default, minimal)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is
// not found. This enables overriding specific assets while keeping
// defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.tex              # Preamble macros (e.g., default.tex)
//	└── templates/
//	    └── {name}/
//	        ├── thesis-cover.tex    # Thesis cover page
//	        ├── thesis-title.tex    # Thesis title page
//	        ├── disclaimer.tex      # Thesis disclaimer page
//	        └── report-cover.tex    # Report cover page
//
// Templates read the document fields through the \getTitle, \getAuthor,
// \getUniversity, ... commands defined by the preamble.
//
// A document template is a complete LaTeX file supplied by the user. Its
// HERADOCBODY line is replaced by the generated body, see
// ParseDocumentTemplate.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets

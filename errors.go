package md2latex

import (
	"errors"

	"github.com/alnah/go-md2latex/internal/render"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown   = errors.New("markdown content cannot be empty")
	ErrUnknownBackend  = errors.New("unknown backend")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidDocument = errors.New("invalid document settings")
	ErrAbstract        = errors.New("abstract generation failed")
	ErrGeneration      = errors.New("LaTeX generation failed")
	ErrWriteOutput     = errors.New("writing output failed")
	ErrNoOutputPath    = errors.New("PDF output requires an output path")

	// ErrInternal wraps a violated invariant or any other panic recovered
	// during conversion. It always indicates a defect, never bad input.
	ErrInternal = errors.New("internal error")

	// Asset loading errors.
	ErrInvalidAssetPath    = errors.New("invalid asset path")
	ErrStyleNotFound       = errors.New("style not found")
	ErrTemplateSetNotFound = errors.New("template set not found")
	ErrTemplate            = errors.New("invalid document template")

	// Include resolution errors.
	ErrInvalidProjectRoot = errors.New("invalid project root")
	ErrRemoteCache        = errors.New("remote include cache unavailable")
)

// ErrFrontMatter indicates a front matter block that is not valid YAML.
var ErrFrontMatter = yamlutil.ErrFrontMatter

// External tool errors, matched with errors.Is on the errors returned by
// Convert when PDF output or diagram rendering fails.
var (
	ErrToolMissing   = render.ErrToolMissing
	ErrToolFailed    = render.ErrToolFailed
	ErrToolTimeout   = render.ErrToolTimeout
	ErrUnknownEngine = render.ErrUnknownEngine
)

package main

import (
	"errors"
	"os"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/config"
)

// Exit codes for the md2latex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error, or documents with errors
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitTool    = 4 // LaTeX engine, graphviz or browser failures
)

// ErrUsage wraps invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool errors (exit 4)
	if errors.Is(err, md2latex.ErrToolMissing) ||
		errors.Is(err, md2latex.ErrToolFailed) ||
		errors.Is(err, md2latex.ErrToolTimeout) {
		return ExitTool
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdownFiles) ||
		errors.Is(err, md2latex.ErrWriteOutput) ||
		errors.Is(err, md2latex.ErrRemoteCache) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, md2latex.ErrEmptyMarkdown) ||
		errors.Is(err, md2latex.ErrUnknownBackend) ||
		errors.Is(err, md2latex.ErrUnknownEngine) ||
		errors.Is(err, md2latex.ErrInvalidDate) ||
		errors.Is(err, md2latex.ErrInvalidDocument) ||
		errors.Is(err, md2latex.ErrFrontMatter) ||
		errors.Is(err, md2latex.ErrStyleNotFound) ||
		errors.Is(err, md2latex.ErrTemplateSetNotFound) ||
		errors.Is(err, md2latex.ErrTemplate) ||
		errors.Is(err, md2latex.ErrInvalidAssetPath) ||
		errors.Is(err, md2latex.ErrInvalidProjectRoot) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

package assets

import (
	"fmt"
	"strings"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a preamble style by name using the default embedded loader.
// The name should not include the .tex extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplateSet loads a template set by name using the default embedded loader.
// The name identifies a directory containing the title page templates.
// Returns ErrTemplateSetNotFound if the template set does not exist.
// Returns ErrIncompleteTemplateSet if required templates are missing.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTemplateSet(name string) (*TemplateSet, error) {
	return defaultLoader.LoadTemplateSet(name)
}

// AssetLoader defines the contract for loading preamble styles and title
// page templates.
type AssetLoader interface {
	// LoadStyle loads a style by name (without .tex extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the title page templates of a set.
	// Returns ErrTemplateSetNotFound if no template of the set exists and
	// ErrIncompleteTemplateSet if only some do.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// ValidateAssetName checks that an asset name is a plain file name stem.
// Path separators and dots are rejected, so a name can neither leave its
// directory nor pick another extension than .tex.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

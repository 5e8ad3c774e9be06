package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads styles and template sets below a user directory:
//
//	{root}/styles/{name}.tex
//	{root}/templates/{name}/*.tex
type FilesystemLoader struct {
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader creates a FilesystemLoader rooted at dir.
// Returns ErrInvalidBasePath unless dir is a readable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	_, err = os.ReadDir(root)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil && !isDir(root):
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{root: root}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// LoadStyle reads {root}/styles/{name}.tex.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := f.read("styles", name+".tex")
	switch {
	case os.IsNotExist(err):
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	case err != nil:
		return "", err
	}
	return string(data), nil
}

// LoadTemplateSet reads the title pages of {root}/templates/{name}.
func (f *FilesystemLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return readTemplateSet(name, func(file string) ([]byte, error) {
		return f.read("templates", name, file)
	})
}

// read returns the content of a file below root. Symlinks are resolved
// before the containment check, so a link cannot point outside root.
func (f *FilesystemLoader) read(elem ...string) ([]byte, error) {
	path := filepath.Join(append([]string{f.root}, elem...)...)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if !strings.HasPrefix(path, f.root+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, filepath.Join(elem...), f.root)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- contained in root
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return data, err
}

var _ AssetLoader = (*FilesystemLoader)(nil)

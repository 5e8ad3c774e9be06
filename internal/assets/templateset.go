package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// TemplateSet holds the LaTeX title pages of one look.
type TemplateSet struct {
	Name        string // Identifier (name or directory path)
	ThesisCover string
	ThesisTitle string
	Disclaimer  string
	ReportCover string
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in preamble style.
const DefaultStyleName = "default"

// templateFiles lists the files of a template set directory.
var templateFiles = []string{
	"thesis-cover.tex",
	"thesis-title.tex",
	"disclaimer.tex",
	"report-cover.tex",
}

// readTemplateSet reads every file of the set through read. read must
// return an error matching fs.ErrNotExist for a missing file.
func readTemplateSet(name string, read func(file string) ([]byte, error)) (*TemplateSet, error) {
	contents := make([]string, len(templateFiles))
	var missing []string
	for i, file := range templateFiles {
		data, err := read(file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, file)
		case errors.Is(err, ErrPathTraversal), errors.Is(err, ErrAssetRead):
			return nil, err
		case err != nil:
			return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, file, err)
		default:
			contents[i] = string(data)
		}
	}

	// If every file is missing, the template set doesn't exist
	if len(missing) == len(templateFiles) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, strings.Join(missing, ", "))
	}

	return &TemplateSet{
		Name:        name,
		ThesisCover: contents[0],
		ThesisTitle: contents[1],
		Disclaimer:  contents[2],
		ReportCover: contents[3],
	}, nil
}

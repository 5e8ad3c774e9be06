package resolve

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-md2latex/internal/event"
	"github.com/alnah/go-md2latex/internal/hints"
)

// Include is the resolved, access-checked result of an include target.
type Include interface {
	isInclude()
}

// CommandInclude is a generation command such as a table of contents.
type CommandInclude struct {
	Command event.Command
}

// Markdown is another markdown document, resolved in its own Context.
type Markdown struct {
	Path    string
	Context Context
}

// Image is a raster image.
type Image struct{ Path string }

// Svg is a vector image.
type Svg struct{ Path string }

// PDF is a PDF document.
type PDF struct{ Path string }

// Graphviz is a dot source file.
type Graphviz struct{ Path string }

func (CommandInclude) isInclude() {}
func (Markdown) isInclude()       {}
func (Image) isInclude()          {}
func (Svg) isInclude()            {}
func (PDF) isInclude()            {}
func (Graphviz) isInclude()       {}

// commands maps lowercase command names to commands.
var commands = map[string]event.Command{
	"toc":             event.CommandTOC,
	"tableofcontents": event.CommandTOC,
	"bibliography":    event.CommandBibliography,
	"references":      event.CommandBibliography,
	"listoftables":    event.CommandListOfTables,
	"listoffigures":   event.CommandListOfFigures,
	"listoflistings":  event.CommandListOfListings,
	"appendix":        event.CommandAppendix,
}

// CommandNames returns the accepted command names.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}

// ParseCommand parses a command name case-insensitively.
func ParseCommand(name string) (event.Command, error) {
	if cmd, ok := commands[strings.ToLower(name)]; ok {
		return cmd, nil
	}
	e := newError(ErrUnknownCommand, "no implementation found for command "+strconv.Quote(name))
	if s := hints.Suggest(name, CommandNames()); s != "" {
		e.Notes = append(e.Notes, "did you mean "+strconv.Quote(s)+"?")
	}
	return 0, e
}

// includeForPath guesses the include type from the file extension.
func includeForPath(path string, ctx Context) (Include, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "md", "markdown":
		return Markdown{Path: path, Context: ctx}, nil
	case "png", "jpg", "jpeg":
		return Image{Path: path}, nil
	case "svg":
		return Svg{Path: path}, nil
	case "pdf":
		return PDF{Path: path}, nil
	case "dot", "gv":
		return Graphviz{Path: path}, nil
	case "":
		return nil, newError(ErrUnknownFormat, "no file extension",
			"need file extension to differentiate file type")
	default:
		return nil, newError(ErrUnknownFormat, "unknown file format "+strconv.Quote(ext))
	}
}

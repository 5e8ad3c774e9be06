package render

import (
	"fmt"
	"os/exec"

	"github.com/alnah/go-md2latex/internal/hints"
)

// ToolStatus is the result of looking up one external program.
type ToolStatus struct {
	Name string
	Path string // empty when missing
	Err  error
}

// CheckTools looks up the programs a conversion with the given engine may
// run. Missing tools are reported, not returned as errors: graphviz is only
// needed by documents with diagrams.
func CheckTools(engine string) []ToolStatus {
	names := []string{engine, "biber", "dot"}
	if engine == EngineLatexmk {
		names = []string{EngineLatexmk, EnginePDFLaTeX, "biber", "dot"}
	}
	statuses := make([]ToolStatus, 0, len(names))
	for _, name := range names {
		s := ToolStatus{Name: name}
		path, err := exec.LookPath(name)
		if err != nil {
			s.Err = fmt.Errorf("%w: %s%s", ErrToolMissing, name, hints.ForToolMissing(name))
		} else {
			s.Path = path
		}
		statuses = append(statuses, s)
	}
	return statuses
}

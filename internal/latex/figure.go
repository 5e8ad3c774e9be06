package latex

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// environment is an optional non-floating figure or table around inline
// content. It is only written when there is a label or caption to attach.
type environment struct {
	name    string // empty: no environment
	label   string
	caption string
}

func figureEnvironment(label, caption string, force bool) environment {
	if label == "" && caption == "" && !force {
		return environment{}
	}
	return environment{name: "figure", label: label, caption: caption}
}

func tableEnvironment(label, caption string) environment {
	if label == "" && caption == "" {
		return environment{}
	}
	return environment{name: "table", label: label, caption: caption}
}

func (e environment) begin() string {
	if e.name == "" {
		return ""
	}
	return "\\begin{" + e.name + "}[H]\n\\centering\n"
}

func (e environment) end() string {
	if e.name == "" {
		return ""
	}
	s := ""
	if e.caption != "" {
		s += "\\caption{" + e.caption + "}\n"
	}
	if e.label != "" {
		s += "\\label{" + e.label + "}\n"
	}
	return s + "\\end{" + e.name + "}\n"
}

// float is a floating figure or table whose content comes from the events
// inside it.
type float struct {
	name    string
	label   string
	caption string
}

func newFigure(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	f := tag.(event.Figure)
	return beginFloat(g, "figure", f.Label, f.Caption)
}

func newTableFigure(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	f := tag.(event.TableFigure)
	return beginFloat(g, "table", f.Label, f.Caption)
}

func beginFloat(g *engine.Generator, name, label, caption string) (engine.Unit, error) {
	if err := write(g, "\\begin{"+name+"}"); err != nil {
		return nil, err
	}
	return &float{name: name, label: label, caption: caption}, nil
}

func (f *float) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	if err := writef(g, "\\caption{%s}\n", f.caption); err != nil {
		return err
	}
	if f.label != "" {
		if err := writef(g, "\\label{%s}\n", f.label); err != nil {
			return err
		}
	}
	return writef(g, "\\end{%s}\n", f.name)
}

// graphviz collects dot source and replaces it by the rendered graph.
type graphviz struct {
	b   *Backend
	tag event.Graphviz
	at  event.Range
	src bytes.Buffer
}

func (b *Backend) newGraphviz(g *engine.Generator, tag event.Tag, at event.Range) (engine.Unit, error) {
	if b.opts.Renderer == nil {
		return nil, g.Fail(at, "can't render graphviz", ErrNoRenderer.Error())
	}
	return &graphviz{b: b, tag: tag.(event.Graphviz), at: at}, nil
}

func (u *graphviz) Redirect() io.Writer { return &u.src }

func (u *graphviz) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	path, err := nextFreePath(u.b.opts.OutDir, "graphviz_%d.dot")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, u.src.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing graphviz source: %w", err)
	}
	pdf, err := u.b.opts.Renderer.Graphviz(g.Context(), path)
	if err != nil {
		return err
	}

	env := figureEnvironment(u.tag.Label, u.tag.Caption, false)
	return write(g,
		env.begin(),
		`\includegraphics[`, graphicsOptions(u.tag.Scale, u.tag.Width, u.tag.Height), "]{", texPath(pdf), "}\n",
		env.end(),
	)
}

// nextFreePath returns the first path in dir built from pattern and a
// counter that does not exist yet.
func nextFreePath(dir, pattern string) (string, error) {
	if dir == "" {
		dir = "."
	}
	for i := 0; i < 100000; i++ {
		p := filepath.Join(dir, fmt.Sprintf(pattern, i))
		if _, err := os.Lstat(p); os.IsNotExist(err) {
			return p, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", pattern, dir)
}

package latex

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

type table struct {
	env environment
}

func newTable(g *engine.Generator, tag event.Tag, _ event.Range) (engine.Unit, error) {
	t := tag.(event.Table)
	env := tableEnvironment(t.Label, t.Caption)
	if err := write(g, env.begin(), tabularHeader(t.Columns)); err != nil {
		return nil, err
	}
	return &table{env: env}, nil
}

// tabularHeader returns the opening of a full-width tabularx with one
// X-derived column per table column. Column widths are percentages of the
// table; tabularx expects them as multiples of the average column width.
func tabularHeader(cols []event.Column) string {
	var sb strings.Builder
	sb.WriteString(`\begin{tabularx}{\textwidth}{|`)
	n := float64(len(cols))
	for _, c := range cols {
		width := c.Width
		if width <= 0 {
			width = 100 / n
		}
		fmt.Fprintf(&sb, " >{\\hsize=%.3f\\hsize}", n*(width/100))
		switch c.Align {
		case event.AlignLeft:
			sb.WriteString("L |")
		case event.AlignCenter:
			sb.WriteString("C |")
		case event.AlignRight:
			sb.WriteString("R |")
		default:
			sb.WriteString("X |")
		}
	}
	sb.WriteString("}\n\\hline\n")
	return sb.String()
}

func (t *table) Finish(g *engine.Generator, _ event.Tag, _ event.Event) error {
	return write(g, "\\end{tabularx}\n", t.env.end())
}

func newTableHead(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return closer("\\\\ \\thickhline\n"), nil
}

func newTableRow(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return closer("\\\\ \\hline\n"), nil
}

type tableCell struct{}

func newTableCell(*engine.Generator, event.Tag, event.Range) (engine.Unit, error) {
	return tableCell{}, nil
}

// Finish writes the column separator when another cell of the same row
// follows.
func (tableCell) Finish(g *engine.Generator, _ event.Tag, peek event.Event) error {
	if event.IsStartOf(peek, event.KindTableCell) {
		return write(g, "&")
	}
	return nil
}

package event

import "fmt"

// Kind identifies a container construct. Every Start/End pair carries a Tag
// of one Kind, and a Backend maps each Kind to exactly one unit constructor.
type Kind int

// Container kinds.
const (
	KindParagraph Kind = iota
	KindRule
	KindHeader
	KindBlockQuote
	KindCodeBlock
	KindList
	KindEnumerate
	KindItem
	KindFootnoteDefinition
	KindHTMLBlock
	KindLink
	KindInterLink
	KindFigure
	KindTableFigure
	KindTable
	KindTableHead
	KindTableRow
	KindTableCell
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindInlineCode
	KindInlineMath
	KindEquation
	KindNumberedEquation
	KindGraphviz
	KindFrame

	// NumKinds is the number of container kinds.
	NumKinds
)

var kindNames = [NumKinds]string{
	KindParagraph:          "Paragraph",
	KindRule:               "Rule",
	KindHeader:             "Header",
	KindBlockQuote:         "BlockQuote",
	KindCodeBlock:          "CodeBlock",
	KindList:               "List",
	KindEnumerate:          "Enumerate",
	KindItem:               "Item",
	KindFootnoteDefinition: "FootnoteDefinition",
	KindHTMLBlock:          "HTMLBlock",
	KindLink:               "Link",
	KindInterLink:          "InterLink",
	KindFigure:             "Figure",
	KindTableFigure:        "TableFigure",
	KindTable:              "Table",
	KindTableHead:          "TableHead",
	KindTableRow:           "TableRow",
	KindTableCell:          "TableCell",
	KindEmphasis:           "Emphasis",
	KindStrong:             "Strong",
	KindStrikethrough:      "Strikethrough",
	KindInlineCode:         "InlineCode",
	KindInlineMath:         "InlineMath",
	KindEquation:           "Equation",
	KindNumberedEquation:   "NumberedEquation",
	KindGraphviz:           "Graphviz",
	KindFrame:              "Frame",
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsCode reports whether text inside this kind is verbatim source code.
func (k Kind) IsCode() bool {
	return k == KindCodeBlock || k == KindInlineCode
}

// IsMath reports whether text inside this kind is math mode.
func (k Kind) IsMath() bool {
	return k == KindInlineMath || k == KindEquation || k == KindNumberedEquation
}

// Tag is the payload of a Start or End event.
type Tag interface {
	Kind() Kind
}

// Alignment of a table column.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Column describes one table column: its alignment and its relative width
// in percent of the table width.
type Column struct {
	Align Alignment
	Width float64
}

type (
	Paragraph  struct{}
	Rule       struct{}
	BlockQuote struct{}
	List       struct{}
	Item       struct{}
	HTMLBlock  struct{}

	TableHead struct{}
	TableRow  struct{}
	TableCell struct{}

	Emphasis      struct{}
	Strong        struct{}
	Strikethrough struct{}
	InlineCode    struct{}
	InlineMath    struct{}

	// Frame marks an open beamer frame. It never comes from the parser.
	Frame struct{}
)

// Header is a section heading. Level starts at 1.
type Header struct {
	Level int
	Label string
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Language string
	Label    string
	Caption  string
}

// Enumerate is an ordered list starting at Start.
type Enumerate struct {
	Start int
}

// FootnoteDefinition holds the body of footnote Label.
type FootnoteDefinition struct {
	Label string
}

// Link is a hyperlink with content.
type Link struct {
	Destination string
	Title       string
}

// InterLink is a reference to a label inside the document, with content.
type InterLink struct {
	Label     string
	Uppercase bool
}

// Figure wraps its content in a floating figure environment.
type Figure struct {
	Label   string
	Caption string
}

// TableFigure wraps a table in a floating table environment.
type TableFigure struct {
	Label   string
	Caption string
}

// Table is a GFM table.
type Table struct {
	Label   string
	Caption string
	Columns []Column
}

// Equation is an unnumbered display math block.
type Equation struct {
	Label   string
	Caption string
}

// NumberedEquation is a numbered display math block.
type NumberedEquation struct {
	Label   string
	Caption string
}

// Graphviz holds dot source to be rendered to a figure.
type Graphviz struct {
	Label   string
	Caption string
	Scale   string
	Width   string
	Height  string
}

func (Paragraph) Kind() Kind          { return KindParagraph }
func (Rule) Kind() Kind               { return KindRule }
func (Header) Kind() Kind             { return KindHeader }
func (BlockQuote) Kind() Kind         { return KindBlockQuote }
func (CodeBlock) Kind() Kind          { return KindCodeBlock }
func (List) Kind() Kind               { return KindList }
func (Enumerate) Kind() Kind          { return KindEnumerate }
func (Item) Kind() Kind               { return KindItem }
func (FootnoteDefinition) Kind() Kind { return KindFootnoteDefinition }
func (HTMLBlock) Kind() Kind          { return KindHTMLBlock }
func (Link) Kind() Kind               { return KindLink }
func (InterLink) Kind() Kind          { return KindInterLink }
func (Figure) Kind() Kind             { return KindFigure }
func (TableFigure) Kind() Kind        { return KindTableFigure }
func (Table) Kind() Kind              { return KindTable }
func (TableHead) Kind() Kind          { return KindTableHead }
func (TableRow) Kind() Kind           { return KindTableRow }
func (TableCell) Kind() Kind          { return KindTableCell }
func (Emphasis) Kind() Kind           { return KindEmphasis }
func (Strong) Kind() Kind             { return KindStrong }
func (Strikethrough) Kind() Kind      { return KindStrikethrough }
func (InlineCode) Kind() Kind         { return KindInlineCode }
func (InlineMath) Kind() Kind         { return KindInlineMath }
func (Equation) Kind() Kind           { return KindEquation }
func (NumberedEquation) Kind() Kind   { return KindNumberedEquation }
func (Graphviz) Kind() Kind           { return KindGraphviz }
func (Frame) Kind() Kind              { return KindFrame }

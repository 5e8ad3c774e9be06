package frontend

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-md2latex/internal/diag"
	"github.com/alnah/go-md2latex/internal/event"
)

// converter flattens one goldmark document into events.
type converter struct {
	opts   Options
	file   *diag.File
	src    *source
	events []event.Spanned

	// blockAt is the range of the innermost block, used for inline nodes
	// that carry no position.
	blockAt event.Range

	footnotes map[int]*extast.Footnote // by index
	pending   []int                    // referenced, not yet written
	written   map[int]bool
}

func newConverter(opts Options, file *diag.File, s *source) *converter {
	return &converter{
		opts:      opts,
		file:      file,
		src:       s,
		footnotes: map[int]*extast.Footnote{},
		written:   map[int]bool{},
	}
}

func (c *converter) convert(doc ast.Node) []event.Spanned {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		list, ok := n.(*extast.FootnoteList)
		if !ok {
			continue
		}
		for fn := list.FirstChild(); fn != nil; fn = fn.NextSibling() {
			if f, ok := fn.(*extast.Footnote); ok {
				c.footnotes[f.Index] = f
			}
		}
	}
	c.blocks(doc, true)
	return c.events
}

// ----------------------------------------------------------------------------
// Output helpers
// ----------------------------------------------------------------------------

func (c *converter) push(ev event.Event, at event.Range) {
	c.events = append(c.events, event.At(ev, at))
}

func (c *converter) open(tag event.Tag, at event.Range) {
	c.push(event.Start{Tag: tag}, at)
}

func (c *converter) close(tag event.Tag, at event.Range) {
	c.push(event.End{Tag: tag}, at)
}

// wrap writes tag around the events produced by body.
func (c *converter) wrap(tag event.Tag, at event.Range, body func()) {
	c.open(tag, at)
	body()
	c.close(tag, at)
}

func (c *converter) warn(at event.Range, msg string, notes ...string) {
	c.opts.Diagnostics.Report(diag.Report{
		Severity: diag.Warning,
		Message:  msg,
		File:     c.file,
		At:       at,
		Notes:    notes,
	})
}

func (c *converter) warnUnused(cfg *elementConfig, at event.Range) {
	if keys := cfg.unused(); len(keys) > 0 {
		c.warn(at, "unused element config: "+strings.Join(keys, ", "))
	}
}

// rangeOf returns the source range covered by n, or the range of the
// enclosing block when n has no text of its own.
func (c *converter) rangeOf(n ast.Node) event.Range {
	start, stop, ok := extent(n)
	if !ok {
		return c.blockAt
	}
	return c.src.span(start, stop)
}

// extent returns the smallest text span holding every segment below n.
func extent(n ast.Node) (start, stop int, ok bool) {
	add := func(s, e int) {
		if !ok || s < start {
			start = s
		}
		if !ok || e > stop {
			stop = e
		}
		ok = true
	}
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			add(n.Segment.Start, n.Segment.Stop)
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				s := n.Segments.At(i)
				add(s.Start, s.Stop)
			}
		case *referenceNode:
			add(n.start, n.end)
		default:
			if n.Type() == ast.TypeBlock {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					s := lines.At(i)
					add(s.Start, s.Stop)
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return start, stop, ok
}

// ----------------------------------------------------------------------------
// Blocks
// ----------------------------------------------------------------------------

// blocks converts the children of parent. At the top level, footnote
// definitions follow the block holding their first reference.
func (c *converter) blocks(parent ast.Node, top bool) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		n = c.block(n)
		if top {
			c.flushFootnotes()
		}
	}
}

// block converts n and returns the last node it consumed, which is the
// next sibling when n configures it.
func (c *converter) block(n ast.Node) ast.Node {
	at := c.rangeOf(n)
	outer := c.blockAt
	c.blockAt = at
	defer func() { c.blockAt = outer }()

	switch n := n.(type) {
	case *ast.Paragraph:
		return c.paragraph(n, at)
	case *ast.TextBlock:
		c.inlines(n.FirstChild())
	case *ast.Heading:
		c.heading(n, nil, at)
	case *ast.FencedCodeBlock:
		c.fencedCode(n, nil, at)
	case *ast.CodeBlock:
		c.code(n, "", nil, at)
	case *ast.Blockquote:
		c.wrap(event.BlockQuote{}, at, func() { c.blocks(n, false) })
	case *ast.List:
		var tag event.Tag = event.List{}
		if n.IsOrdered() {
			tag = event.Enumerate{Start: n.Start}
		}
		c.wrap(tag, at, func() { c.blocks(n, false) })
	case *ast.ListItem:
		c.wrap(event.Item{}, at, func() { c.blocks(n, false) })
	case *ast.ThematicBreak:
		c.wrap(event.Rule{}, at, func() {})
	case *ast.HTMLBlock:
		c.htmlBlock(n, at)
	case *extast.Table:
		c.table(n, nil, at)
	case *extast.FootnoteList:
		// Definitions are written next to their references.
	default:
		c.blocks(n, false)
	}
	return n
}

func (c *converter) paragraph(n *ast.Paragraph, at event.Range) ast.Node {
	if cfg, cfgAt, rest, ok := c.leadingConfig(n); ok {
		return c.configured(n, cfg, cfgAt, rest)
	}
	if img := c.soleImage(n.FirstChild()); img != nil {
		c.image(img, nil, at)
		return n
	}
	c.wrap(event.Paragraph{}, at, func() { c.inlines(n.FirstChild()) })
	return n
}

// leadingConfig parses an element config on the first line of n. rest is
// the first inline node after that line, nil if the config is alone.
func (c *converter) leadingConfig(n *ast.Paragraph) (cfg *elementConfig, at event.Range, rest ast.Node, ok bool) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return nil, at, nil, false
	}
	first := lines.At(0)
	line := string(first.Value(c.src.text))
	if !isConfigLine(line) {
		return nil, at, nil, false
	}
	at = c.src.span(first.Start, first.Start+len(strings.TrimRight(line, "\n")))

	cfg, warnings, err := parseConfig(line)
	if err != nil {
		c.warn(at, "malformed element config", "the line is kept as text", "quote values containing commas: caption=\"a, b\"")
		return nil, at, nil, false
	}
	for _, w := range warnings {
		c.warn(at, w)
	}

	for rest = n.FirstChild(); rest != nil; rest = rest.NextSibling() {
		if s, _, ok := extent(rest); ok && s >= first.Stop {
			break
		}
	}
	return cfg, at, rest, true
}

// configured applies a config paragraph to its target: the image sharing
// its paragraph, or the next header, code block, table or image.
func (c *converter) configured(n *ast.Paragraph, cfg *elementConfig, cfgAt event.Range, rest ast.Node) ast.Node {
	if rest != nil {
		if img := c.soleImage(rest); img != nil {
			c.image(img, cfg, cfgAt)
			return n
		}
		c.anchor(cfg, cfgAt)
		c.wrap(event.Paragraph{}, c.rangeOf(n), func() { c.inlines(rest) })
		return n
	}

	next := n.NextSibling()
	switch t := next.(type) {
	case *ast.Heading:
		c.asBlock(t, func(at event.Range) { c.heading(t, cfg, at) })
		return next
	case *ast.FencedCodeBlock:
		c.asBlock(t, func(at event.Range) { c.fencedCode(t, cfg, at) })
		return next
	case *ast.CodeBlock:
		c.asBlock(t, func(at event.Range) { c.code(t, "", cfg, at) })
		return next
	case *extast.Table:
		c.asBlock(t, func(at event.Range) { c.table(t, cfg, at) })
		return next
	case *ast.Paragraph:
		if img := c.soleImage(t.FirstChild()); img != nil {
			c.asBlock(t, func(at event.Range) { c.image(img, cfg, at) })
			return next
		}
	}
	c.anchor(cfg, cfgAt)
	return n
}

// asBlock runs convert with n as the current block.
func (c *converter) asBlock(n ast.Node, convert func(at event.Range)) {
	at := c.rangeOf(n)
	outer := c.blockAt
	c.blockAt = at
	convert(at)
	c.blockAt = outer
}

// anchor writes the label of a config that has no element to apply to.
func (c *converter) anchor(cfg *elementConfig, at event.Range) {
	label := cfg.takeLabel()
	if label == "" {
		c.warn(at, "element config without an element to apply it to",
			"a config applies to the next header, code block, table or image")
		return
	}
	c.push(event.Label(label), at)
	c.warnUnused(cfg, at)
}

// figure wraps body in a float when cfg asks for one. The float takes the
// label and caption.
func (c *converter) figure(cfg *elementConfig, table bool, at event.Range, body func()) {
	if cfg == nil || !cfg.wantsFigure(c.opts.Figures) {
		body()
		return
	}
	var tag event.Tag = event.Figure{Label: cfg.takeLabel(), Caption: cfg.takeCaption()}
	if table {
		tag = event.TableFigure{Label: cfg.takeLabel(), Caption: cfg.takeCaption()}
	}
	c.wrap(tag, at, body)
}

// heading resolves the label from a prefix config or a `{#label}` suffix.
// Having both is ambiguous: the label is then generated from the text.
func (c *converter) heading(n *ast.Heading, cfg *elementConfig, at event.Range) {
	prefix := cfg.takeLabel()
	var inline string
	if v, ok := n.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok {
			inline = strings.ToLower(string(id))
		}
	}

	label := inline
	if prefix != "" {
		label = prefix
		if inline != "" {
			c.warn(at, "header has both prefix and inline style labels, ignoring both",
				"the label is generated from the header text")
			label = ""
		}
	}
	c.wrap(event.Header{Level: n.Level, Label: label}, at, func() { c.inlines(n.FirstChild()) })
	c.warnUnused(cfg, at)
}

func (c *converter) fencedCode(n *ast.FencedCodeBlock, cfg *elementConfig, at event.Range) {
	var info string
	if n.Info != nil {
		info = strings.TrimSpace(string(n.Info.Segment.Value(c.src.text)))
	}
	lang, inline, hasInline := strings.Cut(info, ",")
	if hasInline {
		if cfg != nil {
			c.warn(at, "code block has both prefix and inline style configs, ignoring both")
			cfg = nil
		} else {
			parsed, warnings, err := parseConfig("{" + inline + "}")
			if err != nil {
				c.warn(at, "malformed element config in code block info", "the config is ignored")
			}
			for _, w := range warnings {
				c.warn(at, w)
			}
			cfg = parsed
		}
	}
	c.code(n, strings.TrimSpace(lang), cfg, at)
}

// code converts a code block. Some languages stand for math, graphs or raw
// LaTeX rather than listings.
func (c *converter) code(n ast.Node, lang string, cfg *elementConfig, at event.Range) {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		s := lines.At(i)
		buf.Write(s.Value(c.src.text))
	}
	content := buf.String()

	if lang == "inlinelatex" {
		c.push(event.Latex(content), at)
		c.warnUnused(cfg, at)
		return
	}

	c.figure(cfg, false, at, func() {
		var tag event.Tag
		switch lang {
		case "equation", "$$":
			tag = event.Equation{Label: cfg.takeLabel(), Caption: cfg.takeCaption()}
		case "numberedequation", "$$$":
			tag = event.NumberedEquation{Label: cfg.takeLabel(), Caption: cfg.takeCaption()}
		case "graphviz":
			tag = event.Graphviz{
				Label:   cfg.takeLabel(),
				Caption: cfg.takeCaption(),
				Scale:   cfg.take("scale"),
				Width:   cfg.take("width"),
				Height:  cfg.take("height"),
			}
		default:
			tag = event.CodeBlock{Language: lang, Label: cfg.takeLabel(), Caption: cfg.takeCaption()}
		}
		c.wrap(tag, at, func() {
			if content != "" {
				c.push(event.Text(content), at)
			}
		})
	})
	c.warnUnused(cfg, at)
}

// htmlBlock keeps the text of an HTML block. Blocks holding only comments
// or markup produce nothing.
func (c *converter) htmlBlock(n *ast.HTMLBlock, at event.Range) {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		s := lines.At(i)
		buf.Write(s.Value(c.src.text))
	}
	if n.HasClosure() {
		buf.Write(n.ClosureLine.Value(c.src.text))
	}
	text := strings.TrimSpace(htmlText(buf.Bytes()))
	if text == "" {
		return
	}
	c.wrap(event.HTMLBlock{}, at, func() { c.push(event.HTML(text), at) })
}

func (c *converter) table(n *extast.Table, cfg *elementConfig, at event.Range) {
	c.figure(cfg, true, at, func() {
		tag := event.Table{Label: cfg.takeLabel(), Caption: cfg.takeCaption(), Columns: c.columns(n)}
		c.wrap(tag, at, func() {
			for row := n.FirstChild(); row != nil; row = row.NextSibling() {
				var rowTag event.Tag = event.TableRow{}
				if _, ok := row.(*extast.TableHeader); ok {
					rowTag = event.TableHead{}
				}
				c.wrap(rowTag, c.rangeOf(row), func() {
					for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
						c.wrap(event.TableCell{}, c.rangeOf(cell), func() { c.inlines(cell.FirstChild()) })
					}
				})
			}
		})
	})
	c.warnUnused(cfg, at)
}

// columns returns the alignment and estimated width of every column.
func (c *converter) columns(n *extast.Table) []event.Column {
	cells := make([][]string, len(n.Alignments))
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		i := 0
		for cell := row.FirstChild(); cell != nil && i < len(cells); cell = cell.NextSibling() {
			cells[i] = append(cells[i], c.plainText(cell))
			i++
		}
	}
	widths := columnWidths(cells)

	cols := make([]event.Column, len(n.Alignments))
	for i, a := range n.Alignments {
		cols[i] = event.Column{Align: alignment(a), Width: widths[i]}
	}
	return cols
}

func alignment(a extast.Alignment) event.Alignment {
	switch a {
	case extast.AlignLeft:
		return event.AlignLeft
	case extast.AlignCenter:
		return event.AlignCenter
	case extast.AlignRight:
		return event.AlignRight
	default:
		return event.AlignNone
	}
}

// soleImage returns the image when the nodes starting at first are one
// image and blank text.
func (c *converter) soleImage(first ast.Node) *ast.Image {
	var img *ast.Image
	for n := first; n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Image:
			if img != nil {
				return nil
			}
			img = n
		case *ast.Text:
			if len(bytes.TrimSpace(n.Segment.Value(c.src.text))) != 0 {
				return nil
			}
		default:
			return nil
		}
	}
	return img
}

// image writes an image as an include of its destination.
func (c *converter) image(n *ast.Image, cfg *elementConfig, at event.Range) {
	c.figure(cfg, false, at, func() {
		media := event.Media{
			Label:   cfg.takeLabel(),
			Caption: cfg.takeCaption(),
			Title:   string(n.Title),
			Alt:     c.plainText(n),
			Scale:   cfg.take("scale"),
			Width:   cfg.take("width"),
			Height:  cfg.take("height"),
		}
		c.push(event.Include{Target: string(n.Destination), Media: media}, c.rangeOf(n))
	})
	c.warnUnused(cfg, at)
}

// ----------------------------------------------------------------------------
// Footnotes
// ----------------------------------------------------------------------------

func (c *converter) footnoteRef(n *extast.FootnoteLink) {
	fn, ok := c.footnotes[n.Index]
	if !ok {
		return
	}
	c.push(event.FootnoteRef{Label: string(fn.Ref)}, c.blockAt)
	c.pending = append(c.pending, n.Index)
}

// flushFootnotes writes the definitions referenced so far, including those
// referenced from inside other definitions.
func (c *converter) flushFootnotes() {
	for len(c.pending) > 0 {
		idx := c.pending[0]
		c.pending = c.pending[1:]
		if c.written[idx] {
			continue
		}
		c.written[idx] = true

		fn := c.footnotes[idx]
		at := c.rangeOf(fn)
		outer := c.blockAt
		c.blockAt = at
		c.wrap(event.FootnoteDefinition{Label: string(fn.Ref)}, at, func() { c.blocks(fn, false) })
		c.blockAt = outer
	}
}

// ----------------------------------------------------------------------------
// Inlines
// ----------------------------------------------------------------------------

// inlines converts first and its following siblings.
func (c *converter) inlines(first ast.Node) {
	for n := first; n != nil; n = n.NextSibling() {
		c.inline(n)
	}
}

func (c *converter) inline(n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		at := c.src.span(n.Segment.Start, n.Segment.Stop)
		value := n.Segment.Value(c.src.text)
		if !n.IsRaw() {
			value = unescape(value)
		}
		if len(value) > 0 {
			c.push(event.Text(value), at)
		}
		switch {
		case n.HardLineBreak():
			c.push(event.HardBreak{}, at)
		case n.SoftLineBreak():
			c.push(event.SoftBreak{}, at)
		}
	case *ast.String:
		if len(n.Value) > 0 {
			c.push(event.Text(n.Value), c.blockAt)
		}
	case *ast.CodeSpan:
		c.codeSpan(n)
	case *ast.Emphasis:
		var tag event.Tag = event.Emphasis{}
		if n.Level >= 2 {
			tag = event.Strong{}
		}
		c.wrap(tag, c.rangeOf(n), func() { c.inlines(n.FirstChild()) })
	case *extast.Strikethrough:
		c.wrap(event.Strikethrough{}, c.rangeOf(n), func() { c.inlines(n.FirstChild()) })
	case *ast.Link:
		c.link(n)
	case *ast.AutoLink:
		c.push(event.URL{Destination: string(n.URL(c.src.text))}, c.blockAt)
	case *ast.Image:
		c.image(n, nil, c.rangeOf(n))
	case *ast.RawHTML:
		c.rawHTML(n)
	case *extast.TaskCheckBox:
		c.push(event.TaskMarker{Checked: n.IsChecked}, c.blockAt)
	case *extast.FootnoteLink:
		c.footnoteRef(n)
	case *extast.FootnoteBacklink:
		// LaTeX footnotes link back by themselves.
	case *referenceNode:
		c.push(n.ev, c.src.span(n.start, n.end))
	default:
		c.inlines(n.FirstChild())
	}
}

// unescape resolves backslash escapes and character references.
func unescape(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(b)))
}

// codeSpan writes inline code. A leading "$ " makes it inline math, a
// leading "\ " raw LaTeX.
func (c *converter) codeSpan(n *ast.CodeSpan) {
	var buf bytes.Buffer
	for t := n.FirstChild(); t != nil; t = t.NextSibling() {
		switch t := t.(type) {
		case *ast.Text:
			v := t.Segment.Value(c.src.text)
			if bytes.HasSuffix(v, []byte("\n")) {
				buf.Write(v[:len(v)-1])
				buf.WriteByte(' ')
				continue
			}
			buf.Write(v)
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	code := buf.String()
	at := c.rangeOf(n)

	if first, size := utf8.DecodeRuneInString(code); size > 0 && (first == '$' || first == '\\') {
		if second, next := utf8.DecodeRuneInString(code[size:]); next > 0 && unicode.IsSpace(second) {
			body := code[size+next:]
			if first == '\\' {
				c.push(event.Latex(body), at)
				return
			}
			c.wrap(event.InlineMath{}, at, func() { c.push(event.Text(body), at) })
			return
		}
	}
	c.wrap(event.InlineCode{}, at, func() {
		if code != "" {
			c.push(event.Text(code), at)
		}
	})
}

// link writes a hyperlink, or a reference when the destination is a label.
func (c *converter) link(n *ast.Link) {
	at := c.rangeOf(n)
	dest := string(n.Destination)
	ref, isRef := parseLabelRef(dest)

	if n.FirstChild() == nil {
		if isRef {
			c.push(ref, at)
		} else {
			c.push(event.URL{Destination: dest, Title: string(n.Title)}, at)
		}
		return
	}
	var tag event.Tag = event.Link{Destination: dest, Title: string(n.Title)}
	if isRef {
		tag = event.InterLink{Label: ref.Label, Uppercase: ref.Uppercase}
	}
	c.wrap(tag, at, func() { c.inlines(n.FirstChild()) })
}

// rawHTML keeps line breaks. Other inline markup has no LaTeX rendering
// and is dropped.
func (c *converter) rawHTML(n *ast.RawHTML) {
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		s := n.Segments.At(i)
		buf.Write(s.Value(c.src.text))
	}
	if isLineBreak(buf.Bytes()) {
		c.push(event.HardBreak{}, c.rangeOf(n))
	}
}

// plainText concatenates the text below n, for alt texts and column widths.
func (c *converter) plainText(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			v := n.Segment.Value(c.src.text)
			if !n.IsRaw() {
				v = unescape(v)
			}
			sb.Write(v)
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

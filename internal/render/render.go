package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/bleikamp/catmd/internal/syntax"
	"github.com/bleikamp/catmd/internal/termfmt"
)

var (
	colorDarkGray     = termfmt.NewNamedColor(termfmt.BrightBlack)
	colorYellow       = termfmt.NewNamedColor(termfmt.Yellow)
	colorLightMagenta = termfmt.NewNamedColor(termfmt.BrightMagenta)
	colorLightCyan    = termfmt.NewNamedColor(termfmt.BrightCyan)
	colorCyan         = termfmt.NewNamedColor(termfmt.Cyan)
	colorLightGreen   = termfmt.NewNamedColor(termfmt.BrightGreen)
	colorLightBlue    = termfmt.NewNamedColor(termfmt.BrightBlue)
	colorGreen        = termfmt.NewNamedColor(termfmt.Green)
)

// Render turns src into a RenderedDocument. table resolves syntax
// highlighting for fenced code blocks; it may be nil, in which case every
// code block falls back to the unhighlighted light-green rule.
func Render(src []byte, table syntax.Table) (*RenderedDocument, error) {
	md := goldmark.New(goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		extension.Typographer,
	))

	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)
	if root == nil {
		return nil, fmt.Errorf("render: parse markdown: nil document")
	}

	b := &builder{src: src, syntaxTable: table, doc: &RenderedDocument{}}
	if err := ast.Walk(root, b.visit); err != nil {
		return nil, fmt.Errorf("render: walk document: %w", err)
	}
	b.flushLine()

	if len(b.doc.Lines) == 0 {
		b.doc.Lines = append(b.doc.Lines, RenderedLine{})
	}

	return b.doc, nil
}

type listFrame struct {
	ordered bool
	next    int
}

type linkAccum struct {
	target string
	label  *strings.Builder
}

type tableState struct {
	alignments   []extast.Alignment
	rows         [][]string
	headerRowIdx int
}

// builder holds the renderer's mutable dispatch state while walking the
// goldmark AST. One builder renders exactly one document.
type builder struct {
	src         []byte
	syntaxTable syntax.Table
	doc         *RenderedDocument

	curSegs []StyledSegment

	emphasisDepth int
	strongDepth   int
	strikeDepth   int
	linkDepth     int
	headingLevel  int

	blockquoteDepth int
	listStack       []listFrame

	itemPrefixPending bool
	pendingItemIndent string
	pendingItemMarker string

	linkStack []linkAccum
	linkLabel *strings.Builder

	imageAlt *strings.Builder

	cellBuf *strings.Builder
	table   *tableState

	provisionalLinks []int
}

func (b *builder) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			b.headingLevel = node.Level
		} else {
			title := strings.TrimSpace(concatSegs(b.curSegs))
			b.flushLine()
			if node.Level <= 3 && title != "" {
				b.doc.Toc = append(b.doc.Toc, TocEntry{Level: node.Level, Title: title, Line: len(b.doc.Lines) - 1})
			}
			b.headingLevel = 0
			b.blank()
		}

	case *ast.Paragraph:
		if !entering {
			b.flushLine()
			b.blank()
		}

	case *ast.TextBlock:
		if !entering {
			b.flushLine()
		}

	case *ast.Blockquote:
		if entering {
			b.blockquoteDepth++
		} else {
			b.blockquoteDepth--
			b.flushLine()
			b.blank()
		}

	case *ast.List:
		if entering {
			start := node.Start
			if start < 1 {
				start = 1
			}
			b.listStack = append(b.listStack, listFrame{
				ordered: node.IsOrdered(),
				next:    start,
			})
		} else {
			b.listStack = b.listStack[:len(b.listStack)-1]
			b.flushLine()
			b.blank()
		}

	case *ast.ListItem:
		if entering {
			frame := &b.listStack[len(b.listStack)-1]
			indent := strings.Repeat("  ", len(b.listStack)-1)
			var marker string
			if frame.ordered {
				marker = fmt.Sprintf("%d. ", frame.next)
				frame.next++
			} else {
				marker = "- "
			}
			b.pendingItemIndent = indent
			b.pendingItemMarker = marker
			b.itemPrefixPending = true
		} else {
			b.itemPrefixPending = false
		}

	case *ast.ThematicBreak:
		if entering {
			b.flushLine()
			b.curSegs = []StyledSegment{{Text: strings.Repeat("-", 64), Style: Style{Foreground: colorDarkGray}}}
			b.flushLine()
			b.blank()
		}
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock:
		if entering {
			b.flushLine()
			lang := string(node.Language(b.src))
			b.renderCodeBlock(node.Lines(), lang)
			b.blank()
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			b.flushLine()
			b.renderCodeBlock(node.Lines(), "")
			b.blank()
		}
		return ast.WalkSkipChildren, nil

	case *ast.Emphasis:
		if node.Level >= 2 {
			if entering {
				b.strongDepth++
			} else {
				b.strongDepth--
			}
		} else {
			if entering {
				b.emphasisDepth++
			} else {
				b.emphasisDepth--
			}
		}

	case *extast.Strikethrough:
		if entering {
			b.strikeDepth++
		} else {
			b.strikeDepth--
		}

	case *ast.Text:
		if entering {
			value := string(node.Segment.Value(b.src))
			b.emitText(value, b.currentStyle())
			if node.HardLineBreak() {
				b.flushLine()
			} else if node.SoftLineBreak() {
				b.emitText(" ", b.currentStyle())
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.String:
		if entering {
			b.emitText(string(node.Value), b.currentStyle())
		}
		return ast.WalkSkipChildren, nil

	case *ast.Link:
		if entering {
			b.linkDepth++
			b.linkStack = append(b.linkStack, linkAccum{target: string(node.Destination), label: &strings.Builder{}})
			b.linkLabel = b.linkStack[len(b.linkStack)-1].label
		} else {
			b.linkDepth--
			b.finalizeLink()
		}

	case *ast.AutoLink:
		if entering {
			url := string(node.URL(b.src))
			label := string(node.Label(b.src))
			b.linkDepth++
			b.emitText(label, b.currentStyle())
			b.linkDepth--
			b.doc.Links = append(b.doc.Links, LinkRef{Label: label, Target: url, Line: noLineYet})
			b.provisionalLinks = append(b.provisionalLinks, len(b.doc.Links)-1)
		}
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		if entering {
			b.imageAlt = &strings.Builder{}
		} else {
			alt := b.imageAlt.String()
			target := string(node.Destination)
			b.imageAlt = nil
			placeholder := fmt.Sprintf("[image: %s] (%s)", alt, target)
			b.emitText(placeholder, Style{Foreground: colorLightBlue})
		}

	case *extast.TaskCheckBox:
		if entering {
			b.emitListItemCheckbox(node.IsChecked)
		}
		return ast.WalkSkipChildren, nil

	case *extast.Table:
		if entering {
			b.table = &tableState{alignments: node.Alignments, headerRowIdx: -1}
		} else {
			b.renderTable()
			b.table = nil
			b.blank()
		}

	case *extast.TableHeader:
		if entering {
			b.table.rows = append(b.table.rows, nil)
			b.table.headerRowIdx = len(b.table.rows) - 1
		}

	case *extast.TableRow:
		if entering {
			b.table.rows = append(b.table.rows, nil)
		}

	case *extast.TableCell:
		if entering {
			b.cellBuf = &strings.Builder{}
		} else {
			last := len(b.table.rows) - 1
			b.table.rows[last] = append(b.table.rows[last], b.cellBuf.String())
			b.cellBuf = nil
		}

	case *extast.FootnoteList:
		if entering {
			b.flushLine()
			b.pushLine([]StyledSegment{{Text: strings.Repeat("-", 20), Style: Style{Foreground: colorDarkGray}}})
			b.pushLine([]StyledSegment{{Text: "Footnotes"}})
			b.blank()
		}

	case *extast.Footnote:
		if entering {
			b.flushLine()
			b.curSegs = append(b.curSegs, StyledSegment{Text: fmt.Sprintf("%d. ", node.Index)})
		} else {
			b.flushLine()
			b.blank()
		}

	case *extast.FootnoteLink:
		if entering {
			b.emitText(fmt.Sprintf("[%d]", node.Index), Style{Foreground: colorLightCyan})
		}
		return ast.WalkSkipChildren, nil

	case *extast.FootnoteBackLink:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (b *builder) currentStyle() Style {
	if b.headingLevel > 0 {
		switch b.headingLevel {
		case 1:
			return Style{Bold: true, Foreground: colorYellow}
		case 2:
			return Style{Bold: true, Foreground: colorLightMagenta}
		default:
			return Style{Bold: true, Foreground: colorLightCyan}
		}
	}

	var s Style
	if b.emphasisDepth > 0 {
		s.Italic = true
	}
	if b.strongDepth > 0 {
		s.Bold = true
	}
	if b.strikeDepth > 0 {
		s.CrossedOut = true
	}
	if b.linkDepth > 0 {
		s.Foreground = colorCyan
		s.Underline = true
	}
	return s
}

func (b *builder) emitText(text string, style Style) {
	if text == "" {
		return
	}
	if b.cellBuf != nil {
		b.cellBuf.WriteString(text)
		return
	}
	if b.imageAlt != nil {
		b.imageAlt.WriteString(text)
		return
	}
	b.ensureListPrefix()
	b.curSegs = append(b.curSegs, StyledSegment{Text: text, Style: style})
	if b.linkLabel != nil {
		b.linkLabel.WriteString(text)
	}
}

func (b *builder) ensureListPrefix() {
	if !b.itemPrefixPending {
		return
	}
	b.itemPrefixPending = false
	b.curSegs = append(b.curSegs, StyledSegment{Text: b.pendingItemIndent + b.pendingItemMarker})
}

func (b *builder) emitListItemCheckbox(checked bool) {
	if !b.itemPrefixPending {
		return
	}
	b.itemPrefixPending = false
	marker := "[ ] "
	style := Style{}
	if checked {
		marker = "[x] "
		style = Style{Bold: true, Foreground: colorGreen}
	}
	b.curSegs = append(b.curSegs,
		StyledSegment{Text: b.pendingItemIndent},
		StyledSegment{Text: marker, Style: style},
	)
}

func (b *builder) finalizeLink() {
	n := len(b.linkStack)
	cur := b.linkStack[n-1]
	b.linkStack = b.linkStack[:n-1]
	if len(b.linkStack) > 0 {
		b.linkLabel = b.linkStack[len(b.linkStack)-1].label
	} else {
		b.linkLabel = nil
	}

	label := strings.TrimSpace(cur.label.String())
	if label == "" {
		label = cur.target
	}
	b.doc.Links = append(b.doc.Links, LinkRef{Label: label, Target: cur.target, Line: noLineYet})
	b.provisionalLinks = append(b.provisionalLinks, len(b.doc.Links)-1)
}

func (b *builder) renderCodeBlock(lines *text.Segments, lang string) {
	if lines == nil {
		return
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw := strings.TrimRight(string(seg.Value(b.src)), "\r\n")
		b.emitCodeLine(raw, lang)
	}
}

func (b *builder) emitCodeLine(code, lang string) {
	var segs []StyledSegment
	if b.blockquoteDepth > 0 {
		segs = append(segs, StyledSegment{Text: strings.Repeat("> ", b.blockquoteDepth), Style: Style{Foreground: colorDarkGray}})
	}
	segs = append(segs, StyledSegment{Text: "  ", Style: Style{Foreground: colorDarkGray}})

	if lang != "" && b.syntaxTable != nil {
		if tokens, ok := b.syntaxTable.Highlight(lang, code); ok {
			for _, tok := range tokens {
				segs = append(segs, StyledSegment{
					Text: tok.Text,
					Style: Style{
						Foreground: tok.Foreground,
						Background: tok.Background,
						Bold:       tok.Bold,
						Italic:     tok.Italic,
						Underline:  tok.Underline,
					},
				})
			}
			b.pushLine(segs)
			return
		}
	}

	segs = append(segs, StyledSegment{Text: code, Style: Style{Foreground: colorLightGreen}})
	b.pushLine(segs)
}

func (b *builder) renderTable() {
	if b.table == nil || len(b.table.rows) == 0 {
		return
	}

	cols := 0
	for _, row := range b.table.rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	for _, row := range b.table.rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	for ri, row := range b.table.rows {
		cells := make([]string, cols)
		for i := 0; i < cols; i++ {
			if i < len(row) {
				cells[i] = padRight(row[i], widths[i])
			} else {
				cells[i] = padRight("", widths[i])
			}
		}
		line := "| " + strings.Join(cells, " | ") + " |"

		style := Style{}
		if ri == b.table.headerRowIdx {
			style.Foreground = colorYellow
		}
		b.pushLine([]StyledSegment{{Text: line, Style: style}})

		if ri == b.table.headerRowIdx {
			seps := make([]string, cols)
			for i := 0; i < cols; i++ {
				align := extast.AlignNone
				if i < len(b.table.alignments) {
					align = b.table.alignments[i]
				}
				seps[i] = alignSeparator(align, widths[i])
			}
			b.pushLine([]StyledSegment{{Text: "| " + strings.Join(seps, " | ") + " |"}})
		}
	}
}

func alignSeparator(a extast.Alignment, width int) string {
	if width < 3 {
		width = 3
	}
	switch a {
	case extast.AlignLeft:
		return ":" + strings.Repeat("-", width-1)
	case extast.AlignRight:
		return strings.Repeat("-", width-1) + ":"
	case extast.AlignCenter:
		if width < 2 {
			width = 2
		}
		return ":" + strings.Repeat("-", width-2) + ":"
	default:
		return strings.Repeat("-", width)
	}
}

func padRight(s string, width int) string {
	if w := utf8.RuneCountInString(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func (b *builder) flushLine() {
	if len(b.curSegs) == 0 && b.blockquoteDepth == 0 {
		return
	}
	segs := b.curSegs
	if b.blockquoteDepth > 0 {
		prefix := StyledSegment{Text: strings.Repeat("> ", b.blockquoteDepth), Style: Style{Foreground: colorDarkGray}}
		segs = append([]StyledSegment{prefix}, segs...)
	}
	b.pushLine(segs)
	b.curSegs = nil
}

func (b *builder) blank() {
	if n := len(b.doc.Lines); n > 0 {
		last := b.doc.Lines[n-1]
		if last.Plain == "" && len(last.Segments) == 0 {
			return
		}
	}
	b.doc.Lines = append(b.doc.Lines, RenderedLine{})
}

func (b *builder) pushLine(segs []StyledSegment) {
	b.doc.Lines = append(b.doc.Lines, RenderedLine{Segments: segs, Plain: concatSegs(segs)})
	idx := len(b.doc.Lines) - 1
	for _, li := range b.provisionalLinks {
		b.doc.Links[li].Line = idx
	}
	b.provisionalLinks = b.provisionalLinks[:0]
}

func concatSegs(segs []StyledSegment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

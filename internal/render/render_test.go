package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bleikamp/catmd/internal/syntax"
)

func requireValid(t *testing.T, doc *RenderedDocument) {
	t.Helper()
	require.NoError(t, doc.CheckInvariants())
}

func linesPlain(doc *RenderedDocument) []string {
	out := make([]string, len(doc.Lines))
	for i, l := range doc.Lines {
		out[i] = l.Plain
	}
	return out
}

func TestRenderParagraphAndEmphasis(t *testing.T) {
	doc, err := Render([]byte("hello *there* **world**\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Equal(t, "hello there world", doc.Lines[0].Plain)

	var italic, bold bool
	for _, seg := range doc.Lines[0].Segments {
		if seg.Text == "there" && seg.Style.Italic {
			italic = true
		}
		if seg.Text == "world" && seg.Style.Bold {
			bold = true
		}
	}
	require.True(t, italic)
	require.True(t, bold)
}

func TestRenderHeadingStylesAndToc(t *testing.T) {
	src := "# Title\n\n## Sub\n\n###### Deep\n"
	doc, err := Render([]byte(src), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Len(t, doc.Toc, 2) // level-6 heading is dropped (> 3)
	require.Equal(t, "Title", doc.Toc[0].Title)
	require.Equal(t, 1, doc.Toc[0].Level)
	require.Equal(t, "Sub", doc.Toc[1].Title)
	require.Equal(t, 2, doc.Toc[1].Level)

	titleLine := doc.Lines[doc.Toc[0].Line]
	require.Equal(t, "Title", titleLine.Plain)
	require.True(t, titleLine.Segments[0].Style.Bold)
	require.Equal(t, colorYellow, titleLine.Segments[0].Style.Foreground)
}

func TestRenderBlockquoteDepthPrefix(t *testing.T) {
	doc, err := Render([]byte("> outer\n> > inner\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.True(t, strings.HasPrefix(doc.Lines[0].Plain, "> "))
	require.True(t, strings.HasPrefix(doc.Lines[2].Plain, "> > "))
}

func TestRenderUnorderedList(t *testing.T) {
	doc, err := Render([]byte("- one\n- two\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Contains(t, linesPlain(doc), "- one")
	require.Contains(t, linesPlain(doc), "- two")
}

func TestRenderOrderedListNumbering(t *testing.T) {
	doc, err := Render([]byte("3. third\n4. fourth\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Contains(t, linesPlain(doc), "3. third")
	require.Contains(t, linesPlain(doc), "4. fourth")
}

func TestRenderNestedListIndent(t *testing.T) {
	doc, err := Render([]byte("- top\n  - nested\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	found := false
	for _, l := range doc.Lines {
		if l.Plain == "  - nested" {
			found = true
		}
	}
	require.True(t, found)
}

func TestRenderTaskList(t *testing.T) {
	doc, err := Render([]byte("- [x] done\n- [ ] todo\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Contains(t, linesPlain(doc), "[x] done")
	require.Contains(t, linesPlain(doc), "[ ] todo")
}

func TestRenderFencedCodeBlockNoLanguage(t *testing.T) {
	src := "```\nplain code\n```\n"
	doc, err := Render([]byte(src), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	found := false
	for _, l := range doc.Lines {
		if strings.Contains(l.Plain, "plain code") {
			found = true
			for _, seg := range l.Segments {
				if seg.Text == "plain code" {
					require.Equal(t, colorLightGreen, seg.Style.Foreground)
				}
			}
		}
	}
	require.True(t, found)
}

type stubTable struct{}

func (stubTable) Highlight(lang, line string) ([]syntax.Token, bool) {
	if lang != "stub" {
		return nil, false
	}
	return []syntax.Token{{Text: line, Foreground: colorCyan}}, true
}

func TestRenderFencedCodeBlockWithHighlighter(t *testing.T) {
	src := "```stub\nhi\n```\n"
	doc, err := Render([]byte(src), stubTable{})
	require.NoError(t, err)
	requireValid(t, doc)

	found := false
	for _, l := range doc.Lines {
		if strings.Contains(l.Plain, "hi") {
			found = true
		}
	}
	require.True(t, found)
}

func TestRenderTable(t *testing.T) {
	src := "| A | B |\n| --- | ---: |\n| x | y |\n"
	doc, err := Render([]byte(src), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	var headerLine, sepLine string
	for i, l := range doc.Lines {
		if strings.Contains(l.Plain, "A") && strings.Contains(l.Plain, "B") {
			headerLine = l.Plain
			sepLine = doc.Lines[i+1].Plain
			break
		}
	}
	require.NotEmpty(t, headerLine)
	require.True(t, strings.HasPrefix(headerLine, "| "))
	require.Contains(t, sepLine, ":")
}

func TestRenderLinkCreatesLinkRef(t *testing.T) {
	doc, err := Render([]byte("see [docs](https://example.com/docs)\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Len(t, doc.Links, 1)
	require.Equal(t, "docs", doc.Links[0].Label)
	require.Equal(t, "https://example.com/docs", doc.Links[0].Target)
	require.Equal(t, 0, doc.Links[0].Line)
}

func TestRenderImagePlaceholderNoLinkRef(t *testing.T) {
	doc, err := Render([]byte("![a cat](cat.png)\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Empty(t, doc.Links)
	require.Contains(t, doc.Lines[0].Plain, "[image: a cat] (cat.png)")
}

func TestRenderAutoLink(t *testing.T) {
	doc, err := Render([]byte("<https://example.com>\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Len(t, doc.Links, 1)
	require.Equal(t, "https://example.com", doc.Links[0].Target)
}

func TestRenderHardAndSoftBreaks(t *testing.T) {
	src := "one\\\ntwo\nthree\n"
	doc, err := Render([]byte(src), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	require.Equal(t, "one", doc.Lines[0].Plain)
	require.Equal(t, "two three", doc.Lines[1].Plain)
}

func TestRenderThematicBreak(t *testing.T) {
	doc, err := Render([]byte("a\n\n---\n\nb\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	found := false
	for _, l := range doc.Lines {
		if l.Plain == strings.Repeat("-", 64) {
			found = true
		}
	}
	require.True(t, found)
}

func TestRenderStrikethrough(t *testing.T) {
	doc, err := Render([]byte("~~gone~~\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	found := false
	for _, seg := range doc.Lines[0].Segments {
		if seg.Text == "gone" && seg.Style.CrossedOut {
			found = true
		}
	}
	require.True(t, found)
}

func TestRenderFootnote(t *testing.T) {
	src := "see[^1]\n\n[^1]: the note\n"
	doc, err := Render([]byte(src), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	joined := strings.Join(linesPlain(doc), "\n")
	require.Contains(t, joined, "[1]")
	require.Contains(t, joined, "Footnotes")
	require.Contains(t, joined, "the note")
}

func TestRenderFootnoteMarkerIsLightCyan(t *testing.T) {
	doc, err := Render([]byte("see[^1]\n\n[^1]: the note\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	var found bool
	for _, line := range doc.Lines {
		for _, seg := range line.Segments {
			if seg.Text == "[1]" {
				found = true
				require.Equal(t, colorLightCyan, seg.Style.Foreground)
			}
		}
	}
	require.True(t, found, "expected a [1] footnote marker segment")
}

func TestRenderEmptyDocumentHasOneLine(t *testing.T) {
	doc, err := Render([]byte(""), nil)
	require.NoError(t, err)
	requireValid(t, doc)
	require.Len(t, doc.Lines, 1)
	require.Equal(t, "", doc.Lines[0].Plain)
}

func TestRenderNoDoubleBlankLines(t *testing.T) {
	doc, err := Render([]byte("a\n\n\n\nb\n"), nil)
	require.NoError(t, err)
	requireValid(t, doc)

	for i := 1; i < len(doc.Lines); i++ {
		if doc.Lines[i].Plain == "" {
			require.NotEqual(t, "", doc.Lines[i-1].Plain, "no two consecutive blank lines")
		}
	}
}

package view

import (
	"fmt"
	"strings"

	"github.com/bleikamp/catmd/internal/diffline"
	"github.com/bleikamp/catmd/internal/nav"
	"github.com/bleikamp/catmd/internal/render"
	"github.com/bleikamp/catmd/internal/snapshot"
	"github.com/bleikamp/catmd/internal/termfmt"
)

const (
	timelineDockDefault = 6
	timelineDockMin     = 3
	tocTitleTruncate    = 32
)

// Frame is a fully composed, ANSI-styled terminal frame: Height rows,
// each clipped to Width visible cells.
type Frame struct {
	Width  int
	Height int
	Rows   []string
}

// Compose builds a Frame for the given navigation state, document path
// (used in the status line; pass "<stdin>" for piped input), and
// viewport size.
func Compose(state *nav.State, docPath string, width, height int) Frame {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	state.SetViewportHeight(contentHeightBudget(state, height))

	frame := Frame{Width: width, Height: height}

	statusHeight := 1
	dockHeight := 0
	if state.WatchMode() && state.TimelineOpen() && height >= timelineDockMin+2 {
		dockHeight = timelineDockDefault
		if room := height - statusHeight - 1; room < dockHeight {
			dockHeight = room
		}
		if dockHeight < timelineDockMin {
			dockHeight = 0
		}
	}
	contentHeight := height - statusHeight - dockHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	contentWidth := width
	tocWidth := 0
	if state.TOCOpen() {
		tocWidth = width / 3
		if tocWidth < 24 {
			tocWidth = 24
		}
		contentWidth = width - tocWidth - 1
		if contentWidth < 1 {
			contentWidth = 1
		}
	}

	doc := state.ActiveDocument()
	snap := state.ActiveSnapshot()

	contentRows := renderContent(state, doc, snap, contentHeight, contentWidth)
	var tocRows []string
	if state.TOCOpen() {
		tocRows = renderTOC(state, doc, snap, contentHeight, tocWidth)
	}

	for i := 0; i < contentHeight; i++ {
		row := contentRows[i]
		if state.TOCOpen() {
			row = padToWidth(tocRows[i], tocWidth) + " " + row
		}
		frame.Rows = append(frame.Rows, padToWidth(row, width))
	}

	if dockHeight > 0 {
		frame.Rows = append(frame.Rows, renderTimeline(state, dockHeight, width)...)
	}

	frame.Rows = append(frame.Rows, padToWidth(termfmt.TruncateToWidth(renderStatus(state, docPath), width), width))

	for len(frame.Rows) < height {
		frame.Rows = append(frame.Rows, strings.Repeat(" ", width))
	}
	if len(frame.Rows) > height {
		frame.Rows = frame.Rows[:height]
	}

	return frame
}

// contentHeightBudget estimates the content-region row count before the
// real layout runs, so nav.State's scroll bookkeeping (MaxScroll) sees a
// viewport height consistent with what Compose will actually draw.
func contentHeightBudget(state *nav.State, height int) int {
	statusHeight := 1
	dockHeight := 0
	if state.WatchMode() && state.TimelineOpen() && height >= timelineDockMin+2 {
		dockHeight = timelineDockDefault
		if room := height - statusHeight - 1; room < dockHeight {
			dockHeight = room
		}
		if dockHeight < timelineDockMin {
			dockHeight = 0
		}
	}
	h := height - statusHeight - dockHeight
	if h < 1 {
		h = 1
	}
	return h
}

func styleSGR(st render.Style) string {
	return termfmt.SGR(st.Foreground, st.Background, st.Bold, st.Italic, st.Underline, st.Reversed, st.CrossedOut)
}

func buildLineANSI(line render.RenderedLine, overlay render.Style) string {
	var b strings.Builder
	for _, seg := range line.Segments {
		st := seg.Style.Merge(overlay)
		if sgr := styleSGR(st); sgr != "" {
			b.WriteString(sgr)
			b.WriteString(seg.Text)
			b.WriteString(termfmt.ANSIReset)
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func padToWidth(s string, width int) string {
	w := termfmt.TextWidthWithANSICodes(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padRowToWidth(ansi string, width int, overlay render.Style) string {
	w := termfmt.TextWidthWithANSICodes(ansi)
	if w >= width {
		return ansi
	}
	pad := width - w
	sgr := styleSGR(render.Style{Background: overlay.Background})
	if sgr == "" {
		return ansi + strings.Repeat(" ", pad)
	}
	return ansi + sgr + strings.Repeat(" ", pad) + termfmt.ANSIReset
}

func gutterColor(phase diffline.Phase) termfmt.Color {
	switch phase {
	case diffline.PhaseBright:
		return termfmt.NewNamedColor(termfmt.BrightRed)
	case diffline.PhaseDim:
		return termfmt.NewNamedColor(termfmt.BrightBlack)
	default:
		return termfmt.NewNamedColor(termfmt.BrightBlue)
	}
}

func tintColor(phase diffline.Phase) (termfmt.Color, bool) {
	switch phase {
	case diffline.PhaseBright:
		return termfmt.RGB(70, 35, 0), true
	case diffline.PhaseDim:
		return termfmt.RGB(36, 36, 36), true
	default:
		return termfmt.Color{}, false
	}
}

// hunkPhases returns the anchor-line set (for gutter markers) and the
// changed-line set (for background tinting) of snap, both keyed by line
// index in snap's document and valued by the snapshot's current
// freshness phase.
func hunkPhases(snap *snapshot.WatchSnapshot) (anchors, changed map[int]diffline.Phase) {
	anchors = make(map[int]diffline.Phase)
	changed = make(map[int]diffline.Phase)
	if snap == nil {
		return anchors, changed
	}
	phase := diffline.Freshness(snap.Age())
	for _, h := range snap.Diff.Hunks {
		anchor := diffline.HunkAnchor(h)
		anchors[anchor] = phase
		if h.Added > 0 {
			for ln := h.StartLine; ln < h.EndLine; ln++ {
				changed[ln] = phase
			}
		} else {
			changed[anchor] = phase
		}
	}
	return anchors, changed
}

func renderContent(state *nav.State, doc *render.RenderedDocument, snap *snapshot.WatchSnapshot, contentHeight, contentWidth int) []string {
	rows := make([]string, 0, contentHeight)
	if doc == nil {
		for len(rows) < contentHeight {
			rows = append(rows, strings.Repeat(" ", contentWidth))
		}
		return rows
	}
	textWidth := contentWidth - 2
	if textWidth < 1 {
		textWidth = 1
	}

	anchors, changed := hunkPhases(snap)
	matchSet := make(map[int]bool, len(state.Matches()))
	for _, m := range state.Matches() {
		matchSet[m] = true
	}
	linkLine := -1
	if sel := state.SelectedLink(); sel >= 0 && sel < len(doc.Links) {
		linkLine = doc.Links[sel].Line
	}

	scroll := state.Scroll()
	for lineIdx := scroll; lineIdx < len(doc.Lines) && len(rows) < contentHeight; lineIdx++ {
		line := doc.Lines[lineIdx]

		overlay := render.Style{}
		if phase, ok := changed[lineIdx]; ok {
			if c, set := tintColor(phase); set {
				overlay.Background = c
			}
		}
		if matchSet[lineIdx] {
			overlay.Background = termfmt.RGB(40, 40, 40)
		}
		if lineIdx == linkLine {
			overlay.Background = termfmt.NewNamedColor(termfmt.Blue)
			overlay.Foreground = termfmt.NewNamedColor(termfmt.White)
		}

		body := buildLineANSI(line, overlay)
		wrapped := termfmt.WrapToWidth(body, textWidth)
		subRows := strings.Split(wrapped, "\n")

		gutter := "  "
		if phase, ok := anchors[lineIdx]; ok {
			gutter = termfmt.SGR(gutterColor(phase), termfmt.Color{}, true, false, false, false, false) + "▌ " + termfmt.ANSIReset
		}

		for si, sub := range subRows {
			if len(rows) >= contentHeight {
				break
			}
			prefix := "  "
			if si == 0 {
				prefix = gutter
			}
			rows = append(rows, prefix+padRowToWidth(sub, textWidth, overlay))
		}
	}

	for len(rows) < contentHeight {
		rows = append(rows, strings.Repeat(" ", contentWidth))
	}
	return rows
}

func renderTOC(state *nav.State, doc *render.RenderedDocument, snap *snapshot.WatchSnapshot, contentHeight, tocWidth int) []string {
	rows := make([]string, 0, contentHeight)
	if doc == nil {
		for len(rows) < contentHeight {
			rows = append(rows, strings.Repeat(" ", tocWidth))
		}
		return rows
	}

	var phase diffline.Phase
	var deltas map[int]diffline.SectionDelta
	if snap != nil {
		phase = diffline.Freshness(snap.Age())
		deltas = snap.Diff.SectionDeltas
	}

	for i, entry := range doc.Toc {
		if len(rows) >= contentHeight {
			break
		}
		cursor := "  "
		if i == state.TOCSelected() {
			cursor = "> "
		}
		indent := strings.Repeat("  ", max0(entry.Level-1))

		delta, hasDelta := deltas[i]

		marker := ""
		if hasDelta {
			switch phase {
			case diffline.PhaseBright:
				marker = termfmt.SGR(termfmt.NewNamedColor(termfmt.BrightRed), termfmt.Color{}, false, false, false, false, false) + "● " + termfmt.ANSIReset
			case diffline.PhaseDim:
				marker = termfmt.SGR(termfmt.NewNamedColor(termfmt.BrightBlack), termfmt.Color{}, false, false, false, false, false) + "● " + termfmt.ANSIReset
			}
		}

		suffix := ""
		if state.TimelineOpen() && hasDelta {
			suffix = fmt.Sprintf(" (+%d/-%d)", delta.Added, delta.Removed)
		}

		row := cursor + indent + marker + entry.Title + suffix
		row = termfmt.TruncateToWidth(row, tocWidth)
		rows = append(rows, padToWidth(row, tocWidth))
	}

	for len(rows) < contentHeight {
		rows = append(rows, strings.Repeat(" ", tocWidth))
	}
	return rows
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func renderTimeline(state *nav.State, dockHeight, width int) []string {
	rows := make([]string, 0, dockHeight)
	n := state.SnapshotCount()
	activeIdx := state.ActiveIndex()

	for shown := 0; shown < dockHeight && shown < n; shown++ {
		idx := n - 1 - shown
		snap := state.SnapshotAt(idx)

		sections := len(snap.Diff.SectionDeltas)
		top := snap.Diff.TopSection
		fallback := ""
		if snap.Diff.Overflow {
			if top == "" {
				top = "(none)"
			}
			fallback = "  (fallback)"
		}
		top = termfmt.TruncateToWidth(top, tocTitleTruncate)

		row := fmt.Sprintf("r%d  %s  +%d/-%d  h:%d  top:%s%s",
			snap.Revision,
			snap.CreatedAt.Format("15:04:05"),
			snap.Diff.Added, snap.Diff.Removed,
			sections,
			top,
			fallback,
		)
		row = termfmt.TruncateToWidth(row, width)

		switch {
		case idx == activeIdx:
			row = termfmt.SGR(termfmt.Color{}, termfmt.Color{}, true, false, false, true, false) + padToWidth(row, width) + termfmt.ANSIReset
		case idx == n-1:
			row = termfmt.SGR(termfmt.NewNamedColor(termfmt.Cyan), termfmt.Color{}, false, false, false, false, false) + row + termfmt.ANSIReset
		}

		rows = append(rows, padToWidth(row, width))
	}

	for len(rows) < dockHeight {
		rows = append(rows, strings.Repeat(" ", width))
	}
	return rows
}

func renderStatus(state *nav.State, docPath string) string {
	var segs []string

	if state.WatchMode() {
		snap := state.ActiveSnapshot()
		if snap != nil {
			if state.IsLive() {
				segs = append(segs, fmt.Sprintf("LIVE r%d | +%d/-%d | sections:%d | watch:on",
					snap.Revision, snap.Diff.Added, snap.Diff.Removed, len(snap.Diff.SectionDeltas)))
			} else {
				segs = append(segs, fmt.Sprintf("HISTORY r%d (%d behind LIVE) | +%d/-%d | hunks:%d",
					snap.Revision, state.Lag(), snap.Diff.Added, snap.Diff.Removed, len(snap.Diff.Hunks)))
			}
		}
	}

	segs = append(segs, docPath)

	doc := state.ActiveDocument()
	if sel := state.SelectedLink(); doc != nil && sel >= 0 && sel < len(doc.Links) {
		segs = append(segs, fmt.Sprintf("link[%d/%d]: %s", sel+1, len(doc.Links), doc.Links[sel].Label))
	} else {
		segs = append(segs, "link: none")
	}

	switch {
	case state.SearchMode():
		segs = append(segs, "/"+state.SearchQuery())
	case state.SearchQuery() != "":
		segs = append(segs, fmt.Sprintf("search='%s' %d/%d", state.SearchQuery(), state.MatchIndex()+1, len(state.Matches())))
	}

	if state.Status() != "" {
		segs = append(segs, state.Status())
	}

	return strings.Join(segs, " | ")
}

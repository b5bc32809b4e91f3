package render

import (
	"fmt"
	"strings"
)

// CheckInvariants validates the termination invariants from SPEC_FULL.md
// §4.1 and the RenderedLine.Plain reconstruction rule from §3. It returns
// the first violation found, or nil.
func (d *RenderedDocument) CheckInvariants() error {
	if len(d.Lines) == 0 {
		return fmt.Errorf("render: document has no lines")
	}

	for i, line := range d.Lines {
		var concat strings.Builder
		for _, seg := range line.Segments {
			concat.WriteString(seg.Text)
		}
		if concat.String() != line.Plain {
			return fmt.Errorf("line[%d]: segments do not reconstruct Plain", i)
		}
	}

	lastLine := -1
	for i, entry := range d.Toc {
		if entry.Line < 0 || entry.Line >= len(d.Lines) {
			return fmt.Errorf("toc[%d]: line %d out of range", i, entry.Line)
		}
		if entry.Line < lastLine {
			return fmt.Errorf("toc[%d]: line %d decreases from previous entry's %d", i, entry.Line, lastLine)
		}
		if entry.Level < 1 || entry.Level > 3 {
			return fmt.Errorf("toc[%d]: level %d outside retained range 1-3", i, entry.Level)
		}
		lastLine = entry.Line
	}

	for i, link := range d.Links {
		if link.Line == noLineYet || link.Line < 0 || link.Line >= len(d.Lines) {
			return fmt.Errorf("links[%d]: line %d not resolved to a valid line", i, link.Line)
		}
	}

	return nil
}

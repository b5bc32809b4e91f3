// Package render turns Markdown source into a RenderedDocument: styled
// lines, a table of contents, and a link table. Rendering is a pure
// function of (source, syntax table) — no I/O, no global state.
//
// Representation: a RenderedDocument is a flat slice of RenderedLines, each
// an ordered run of StyledSegments plus the concatenation of their text.
// TocEntry and LinkRef both point back into that slice by line index.
//
// Invariants (checked by CheckInvariants, exercised from tests):
//   - Lines is never empty.
//   - Every TocEntry.Line is in range and TocEntry.Line values are
//     non-decreasing across the slice.
//   - Every LinkRef.Line is in range (never left at its provisional
//     sentinel).
package render

import (
	"github.com/bleikamp/catmd/internal/termfmt"
)

// Color is re-exported so callers outside this package don't need to
// import internal/termfmt directly just to build a Style.
type Color = termfmt.Color

// Style is the additive set of visual attributes a StyledSegment carries.
// Styles compose field-wise: later writers override colors outright and
// OR together boolean modifiers, per SPEC_FULL.md's styling-composition
// note.
type Style struct {
	Foreground Color
	Background Color
	Bold       bool
	Italic     bool
	Underline  bool
	CrossedOut bool
	Reversed   bool
}

// Merge layers extra on top of s: extra's colors win when set, and its
// boolean modifiers OR in.
func (s Style) Merge(extra Style) Style {
	out := s
	if extra.Foreground.IsSet() {
		out.Foreground = extra.Foreground
	}
	if extra.Background.IsSet() {
		out.Background = extra.Background
	}
	out.Bold = out.Bold || extra.Bold
	out.Italic = out.Italic || extra.Italic
	out.Underline = out.Underline || extra.Underline
	out.CrossedOut = out.CrossedOut || extra.CrossedOut
	out.Reversed = out.Reversed || extra.Reversed
	return out
}

// StyledSegment is one run of text sharing a single Style.
type StyledSegment struct {
	Text  string
	Style Style
}

// RenderedLine is an ordered sequence of StyledSegments plus their
// concatenated plain-text form. Plain always equals the concatenation of
// every segment's Text — CheckInvariants verifies this for tests that
// build lines by hand.
type RenderedLine struct {
	Segments []StyledSegment
	Plain    string
}

// TocEntry is one heading retained in the table of contents. Only levels
// 1-3 are retained; entries appear in source order.
type TocEntry struct {
	Level int
	Title string
	Line  int
}

// LinkRef is one link encountered in the document.
type LinkRef struct {
	Label  string
	Target string
	Line   int
}

// noLineYet is the provisional sentinel a LinkRef.Line holds between link
// end and the next line flush. It must never survive to the finished
// RenderedDocument.
const noLineYet = int(^uint(0) >> 1) // max int

// RenderedDocument is the renderer's complete, immutable output.
type RenderedDocument struct {
	Lines []RenderedLine
	Toc   []TocEntry
	Links []LinkRef
}

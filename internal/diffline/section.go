package diffline

import (
	"sort"
	"time"

	"github.com/bleikamp/catmd/internal/render"
)

// SectionDelta is the added/removed line count attributed to one TOC
// entry by a SnapshotDiff.
type SectionDelta struct {
	Added   int
	Removed int
}

// SnapshotDiff is the diff between two successive renderings, with each
// hunk mapped onto the TOC entries it touches.
type SnapshotDiff struct {
	Added         int
	Removed       int
	Hunks         []DiffHunk
	SectionDeltas map[int]SectionDelta
	TopSection    string
	Overflow      bool
}

// BuildSnapshotDiff diffs previous against next (by plain-text line) and
// maps each hunk onto next.Toc.
func BuildSnapshotDiff(previous, next *render.RenderedDocument) SnapshotDiff {
	oldLines := plainLines(previous)
	newLines := plainLines(next)

	lineDiff := ComputeLineDiff(oldLines, newLines, DefaultMaxCells)

	out := SnapshotDiff{
		Added:         lineDiff.Added,
		Removed:       lineDiff.Removed,
		Hunks:         lineDiff.Hunks,
		Overflow:      lineDiff.Overflow,
		SectionDeltas: make(map[int]SectionDelta),
	}

	tocLines := make([]int, len(next.Toc))
	for i, entry := range next.Toc {
		tocLines[i] = entry.Line
	}

	for _, hunk := range out.Hunks {
		anchor := HunkAnchor(hunk)
		endAnchor := anchor
		if hunk.Added > 0 {
			endAnchor = hunk.EndLine - 1
		}

		startIdx := tocPredecessor(tocLines, anchor)
		endIdx := tocPredecessor(tocLines, endAnchor)
		if startIdx < 0 {
			continue
		}
		if endIdx < startIdx {
			endIdx = startIdx
		}

		for idx := startIdx; idx <= endIdx; idx++ {
			if _, ok := out.SectionDeltas[idx]; !ok {
				out.SectionDeltas[idx] = SectionDelta{}
			}
		}
		primary := out.SectionDeltas[startIdx]
		primary.Added += hunk.Added
		primary.Removed += hunk.Removed
		out.SectionDeltas[startIdx] = primary
	}

	if len(out.SectionDeltas) > 0 {
		min := -1
		for idx := range out.SectionDeltas {
			if min == -1 || idx < min {
				min = idx
			}
		}
		out.TopSection = next.Toc[min].Title
	}

	return out
}

// HunkAnchor is the single representative line used for navigation and
// gutter markers: StartLine when the hunk has a non-empty new extent,
// otherwise max(StartLine-1, 0).
func HunkAnchor(h DiffHunk) int {
	if h.Added > 0 {
		return h.StartLine
	}
	a := h.StartLine - 1
	if a < 0 {
		a = 0
	}
	return a
}

// tocPredecessor returns the largest index i with lines[i] <= target, or -1
// if none. lines must be sorted ascending, per the TOC non-decreasing-line
// invariant.
func tocPredecessor(lines []int, target int) int {
	i := sort.Search(len(lines), func(i int) bool { return lines[i] > target })
	return i - 1
}

func plainLines(doc *render.RenderedDocument) []string {
	out := make([]string, len(doc.Lines))
	for i, l := range doc.Lines {
		out[i] = l.Plain
	}
	return out
}

// Phase is a snapshot's freshness bucket, read from its age at draw time
// rather than scheduled as an event.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseBright
	PhaseDim
)

const (
	brightWindow = 2 * time.Second
	dimWindow    = 15 * time.Second
)

// Freshness classifies age (time since a snapshot's creation instant) into
// a Phase.
func Freshness(age time.Duration) Phase {
	switch {
	case age <= brightWindow:
		return PhaseBright
	case age <= dimWindow:
		return PhaseDim
	default:
		return PhaseNone
	}
}

package diffline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bleikamp/catmd/internal/render"
)

func docWithLines(lines []string, toc []render.TocEntry) *render.RenderedDocument {
	doc := &render.RenderedDocument{Toc: toc}
	for _, l := range lines {
		doc.Lines = append(doc.Lines, render.RenderedLine{Plain: l, Segments: []render.StyledSegment{{Text: l}}})
	}
	return doc
}

func TestBuildSnapshotDiffSectionMapping(t *testing.T) {
	toc := []render.TocEntry{
		{Level: 1, Title: "Intro", Line: 0},
		{Level: 2, Title: "Details", Line: 3},
	}
	oldLines := []string{"# Intro", "", "body", "## Details", "", "one", "two", "three"}
	newLines := []string{"# Intro", "", "body", "## Details", "", "one", "two CHANGED", "three"}

	previous := docWithLines(oldLines, toc)
	next := docWithLines(newLines, toc)

	diff := BuildSnapshotDiff(previous, next)
	require.Len(t, diff.SectionDeltas, 1)
	delta, ok := diff.SectionDeltas[1]
	require.True(t, ok)
	require.Equal(t, 1, delta.Added)
	require.Equal(t, 1, delta.Removed)
	require.Equal(t, "Details", diff.TopSection)
}

func TestBuildSnapshotDiffIdenticalIsEmpty(t *testing.T) {
	toc := []render.TocEntry{{Level: 1, Title: "Intro", Line: 0}}
	doc := docWithLines([]string{"# Intro", "body"}, toc)

	diff := BuildSnapshotDiff(doc, doc)
	require.Empty(t, diff.Hunks)
	require.Equal(t, 0, diff.Added)
	require.Equal(t, 0, diff.Removed)
	require.Empty(t, diff.SectionDeltas)
	require.Empty(t, diff.TopSection)
}

func TestFreshnessPhases(t *testing.T) {
	require.Equal(t, PhaseBright, Freshness(0))
	require.Equal(t, PhaseBright, Freshness(2*time.Second))
	require.Equal(t, PhaseDim, Freshness(3*time.Second))
	require.Equal(t, PhaseDim, Freshness(15*time.Second))
	require.Equal(t, PhaseNone, Freshness(16*time.Second))
}

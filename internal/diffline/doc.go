// Package diffline computes line-level diffs between successive document
// renderings and maps them onto table-of-contents sections.
//
// Representation: ComputeLineDiff returns a LineDiff: total added/removed
// line counts plus a disjoint, start_line-ordered slice of Hunks over the
// new document's line space. BuildSnapshotDiff wraps this with a mapping
// from each hunk to the TOC entries it touches.
//
// Invariants:
//   - Hunks are disjoint and sorted by StartLine.
//   - If Overflow is false, summing hunks.Added/Removed equals the
//     top-level Added/Removed.
//   - If old and new are identical, Added = Removed = 0 and Hunks is nil.
//
// Memory bound: the LCS table is rows*cols ints; ComputeLineDiff refuses to
// allocate it past maxCells and instead reports a single whole-region hunk
// with Overflow set. This is a correctness guard, not just a performance
// one — see DefaultMaxCells.
package diffline

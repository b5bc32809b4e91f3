package diffline

import "fmt"

// CheckInvariants validates the disjoint-and-ordered hunk invariant and,
// when Overflow is false, that summed hunk counts match the top-level
// totals. It returns the first violation found, or nil.
func (d LineDiff) CheckInvariants() error {
	prevEnd := -1
	var sumAdded, sumRemoved int
	for i, h := range d.Hunks {
		if h.StartLine < prevEnd {
			return fmt.Errorf("hunk[%d]: start %d overlaps previous end %d", i, h.StartLine, prevEnd)
		}
		if h.EndLine < h.StartLine {
			return fmt.Errorf("hunk[%d]: end %d precedes start %d", i, h.EndLine, h.StartLine)
		}
		sumAdded += h.Added
		sumRemoved += h.Removed
		prevEnd = h.EndLine
	}

	if !d.Overflow {
		if sumAdded != d.Added {
			return fmt.Errorf("sum of hunk.Added (%d) does not match Added (%d)", sumAdded, d.Added)
		}
		if sumRemoved != d.Removed {
			return fmt.Errorf("sum of hunk.Removed (%d) does not match Removed (%d)", sumRemoved, d.Removed)
		}
	}

	return nil
}

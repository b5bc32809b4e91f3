package snapshot

import (
	"time"

	"github.com/bleikamp/catmd/internal/diffline"
	"github.com/bleikamp/catmd/internal/render"
)

// WatchSnapshot is one revision held by the Store.
type WatchSnapshot struct {
	Revision int
	// CreatedAt is wall-clock, used for display (the timeline dock's
	// HH:MM:SS column).
	CreatedAt time.Time
	// CreatedInstant is read from the same time.Now() call as CreatedAt
	// but used only via Age, which relies on its monotonic component —
	// wall-clock adjustments must never perturb freshness decay.
	CreatedInstant time.Time
	Document       *render.RenderedDocument
	Diff           diffline.SnapshotDiff
}

// Age returns how long ago s was created, per the monotonic clock.
func (s WatchSnapshot) Age() time.Duration {
	return time.Since(s.CreatedInstant)
}

// Store is a FIFO of WatchSnapshots bounded by a fixed capacity.
type Store struct {
	snapshots    []WatchSnapshot
	capacity     int
	nextRevision int
}

// NewStore builds an empty Store. capacity must be >= 1.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{capacity: capacity, nextRevision: 1}
}

// Len returns the number of snapshots currently held.
func (s *Store) Len() int { return len(s.snapshots) }

// Capacity returns the store's configured bound.
func (s *Store) Capacity() int { return s.capacity }

// At returns the snapshot at index i.
func (s *Store) At(i int) *WatchSnapshot { return &s.snapshots[i] }

// LastIndex returns the index of the most recently appended snapshot, or
// -1 if the store is empty.
func (s *Store) LastIndex() int { return len(s.snapshots) - 1 }

// Last returns the most recently appended snapshot, or nil if empty.
func (s *Store) Last() *WatchSnapshot {
	if len(s.snapshots) == 0 {
		return nil
	}
	return &s.snapshots[len(s.snapshots)-1]
}

// Append computes a diff against the last stored snapshot (or an empty
// document if the store is empty) and pushes rendered as a new revision,
// unless the diff is a true no-op (added=removed=0, no hunks), in which
// case the append is refused and ok is false. evicted reports how many
// snapshots were dropped from the front to respect capacity; callers that
// track an active index must rebind it to 0 when evicted > 0 and their
// active index no longer exists.
func (s *Store) Append(rendered *render.RenderedDocument) (ok bool, evicted int) {
	var prev *render.RenderedDocument
	if last := s.Last(); last != nil {
		prev = last.Document
	} else {
		prev = &render.RenderedDocument{Lines: []render.RenderedLine{{}}}
	}

	diff := diffline.BuildSnapshotDiff(prev, rendered)
	if diff.Added == 0 && diff.Removed == 0 && len(diff.Hunks) == 0 && s.Len() > 0 {
		return false, 0
	}

	now := time.Now()
	s.snapshots = append(s.snapshots, WatchSnapshot{
		Revision:       s.nextRevision,
		CreatedAt:      now,
		CreatedInstant: now,
		Document:       rendered,
		Diff:           diff,
	})
	s.nextRevision++

	for len(s.snapshots) > s.capacity {
		s.snapshots = s.snapshots[1:]
		evicted++
	}

	return true, evicted
}

// ResetFrom clears the store and pushes a single snapshot with an empty
// diff. Used when the document source itself changes (opening a linked
// file, backstack pop) rather than the same file being re-rendered.
// Revision ids continue to increase; they are never reset to 1.
func (s *Store) ResetFrom(rendered *render.RenderedDocument) {
	now := time.Now()
	s.snapshots = []WatchSnapshot{{
		Revision:       s.nextRevision,
		CreatedAt:      now,
		CreatedInstant: now,
		Document:       rendered,
		Diff:           diffline.SnapshotDiff{SectionDeltas: map[int]diffline.SectionDelta{}},
	}}
	s.nextRevision++
}

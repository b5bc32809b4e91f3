// Package nav holds the Navigation State machine: scroll offset, TOC and
// link cursors, the live/history split over a snapshot.Store, search mode,
// and the cross-document backstack. It owns the Store exclusively — no
// other package should hold one.
//
// Invariants:
//   - Scroll is always in [0, MaxScroll()] for the active document.
//   - TOCSelected is always the predecessor of Scroll among TOC entries.
//   - ActiveIndex is always in [0, store.Len()-1].
package nav

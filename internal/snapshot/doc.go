// Package snapshot holds the bounded history of renderings the watch loop
// produces, one WatchSnapshot per accepted revision.
//
// Representation: Store is a FIFO over a plain slice. append computes a
// diff against the last stored snapshot and refuses a no-op append
// (added=removed=0, no hunks); otherwise it allocates the next revision id
// and evicts from the front until back within capacity.
//
// Invariants:
//   - Revision ids strictly increase across the store's lifetime, even
//     across evictions — they are never reused or decreased.
//   - len(snapshots) <= capacity at all times.
//   - After ResetFrom, exactly one snapshot remains, with an empty diff.
package snapshot

package nav

import (
	"fmt"
	"strings"

	"github.com/bleikamp/catmd/internal/diffline"
	"github.com/bleikamp/catmd/internal/render"
	"github.com/bleikamp/catmd/internal/snapshot"
)

// maxScroll16 bounds MaxScroll to fit a 16-bit scroll value.
const maxScroll16 = 65535

// HistoryEntry is one entry in the cross-document backstack: the path
// being left and the scroll offset to restore on return.
type HistoryEntry struct {
	Path   string
	Scroll int
}

// State is the Navigation State machine. It owns the snapshot.Store
// exclusively — callers never hold or mutate the Store directly.
type State struct {
	store *snapshot.Store

	activeIndex    int
	scroll         int
	viewportHeight int

	tocOpen      bool
	tocSelected  int
	timelineOpen bool
	selectedLink int

	backstack []HistoryEntry

	searchMode  bool
	searchQuery string
	matches     []int
	matchIndex  int

	status    string
	watchMode bool
}

// NewState builds a Navigation State over store, which must already hold
// at least the initial snapshot.
func NewState(store *snapshot.Store) *State {
	return &State{store: store, selectedLink: -1}
}

func (s *State) SetWatchMode(on bool) { s.watchMode = on }
func (s *State) WatchMode() bool      { return s.watchMode }

func (s *State) Status() string     { return s.status }
func (s *State) SetStatus(m string) { s.status = m }

// ActiveIndex is always in [0, store.Len()-1].
func (s *State) ActiveIndex() int { return s.activeIndex }

// IsLive reports whether the active snapshot is the most recent one.
func (s *State) IsLive() bool { return s.activeIndex == s.store.LastIndex() }

// Lag is how many revisions behind live the active snapshot is.
func (s *State) Lag() int { return s.store.LastIndex() - s.activeIndex }

func (s *State) ActiveSnapshot() *snapshot.WatchSnapshot {
	if s.store.Len() == 0 {
		return nil
	}
	return s.store.At(s.activeIndex)
}

func (s *State) ActiveDocument() *render.RenderedDocument {
	if snap := s.ActiveSnapshot(); snap != nil {
		return snap.Document
	}
	return nil
}

// SnapshotCount is how many revisions the underlying Store currently holds.
func (s *State) SnapshotCount() int { return s.store.Len() }

// SnapshotAt returns the i'th held revision, oldest first.
func (s *State) SnapshotAt(i int) *snapshot.WatchSnapshot { return s.store.At(i) }

func (s *State) Scroll() int               { return s.scroll }
func (s *State) TOCOpen() bool             { return s.tocOpen }
func (s *State) TOCSelected() int          { return s.tocSelected }
func (s *State) TimelineOpen() bool        { return s.timelineOpen }
func (s *State) SelectedLink() int         { return s.selectedLink }
func (s *State) SearchMode() bool          { return s.searchMode }
func (s *State) SearchQuery() string       { return s.searchQuery }
func (s *State) Matches() []int            { return s.matches }
func (s *State) MatchIndex() int           { return s.matchIndex }
func (s *State) Backstack() []HistoryEntry { return s.backstack }

// SetViewportHeight is set by the View Composer each frame; it reclamps
// scroll since MaxScroll may shrink.
func (s *State) SetViewportHeight(h int) {
	s.viewportHeight = h
	s.SetScroll(s.scroll)
}

// MaxScroll is the saturating scroll ceiling for the active document,
// clamped to fit a 16-bit scroll value.
func (s *State) MaxScroll() int {
	doc := s.ActiveDocument()
	if doc == nil {
		return 0
	}
	vh := s.viewportHeight
	if vh < 1 {
		vh = 1
	}
	m := len(doc.Lines) - vh
	if m < 0 {
		m = 0
	}
	if m > maxScroll16 {
		m = maxScroll16
	}
	return m
}

func (s *State) clampScroll(v int) int {
	if v < 0 {
		return 0
	}
	if max := s.MaxScroll(); v > max {
		return max
	}
	return v
}

// SetScroll clamps v into [0, MaxScroll()] and resyncs the TOC cursor.
func (s *State) SetScroll(v int) {
	s.scroll = s.clampScroll(v)
	s.syncTOCCursor()
}

func (s *State) MoveCursor(delta int) { s.SetScroll(s.scroll + delta) }
func (s *State) Top()                 { s.SetScroll(0) }
func (s *State) Bottom()              { s.SetScroll(s.MaxScroll()) }

func (s *State) HalfPage(forward bool) {
	half := s.viewportHeight / 2
	if half < 1 {
		half = 1
	}
	if forward {
		s.MoveCursor(half)
	} else {
		s.MoveCursor(-half)
	}
}

func (s *State) ToggleTOC()      { s.tocOpen = !s.tocOpen }
func (s *State) ToggleTimeline() { s.timelineOpen = !s.timelineOpen }

// syncTOCCursor sets TOCSelected to the largest-indexed TOC entry whose
// line <= scroll, or 0 if none.
func (s *State) syncTOCCursor() {
	doc := s.ActiveDocument()
	sel := 0
	if doc != nil {
		for i, e := range doc.Toc {
			if e.Line <= s.scroll {
				sel = i
			} else {
				break
			}
		}
	}
	s.tocSelected = sel
}

// JumpHeading moves to the next (forward) or previous (backward) TOC
// entry relative to scroll. When no entry lies beyond scroll in that
// direction it moves to the last (forward) or first (backward) entry.
func (s *State) JumpHeading(forward bool) {
	doc := s.ActiveDocument()
	if doc == nil || len(doc.Toc) == 0 {
		return
	}
	if forward {
		for _, e := range doc.Toc {
			if e.Line > s.scroll {
				s.SetScroll(e.Line)
				return
			}
		}
		s.SetScroll(doc.Toc[len(doc.Toc)-1].Line)
		return
	}
	for i := len(doc.Toc) - 1; i >= 0; i-- {
		if doc.Toc[i].Line < s.scroll {
			s.SetScroll(doc.Toc[i].Line)
			return
		}
	}
	s.SetScroll(doc.Toc[0].Line)
}

// JumpHunk moves to the next or previous hunk anchor, wrapping at the
// ends, and returns the "Hunk k/N" status it also records.
func (s *State) JumpHunk(forward bool) string {
	snap := s.ActiveSnapshot()
	if snap == nil || len(snap.Diff.Hunks) == 0 {
		s.status = "no hunks"
		return s.status
	}

	anchors := make([]int, len(snap.Diff.Hunks))
	for i, h := range snap.Diff.Hunks {
		anchors[i] = diffline.HunkAnchor(h)
	}

	idx := -1
	if forward {
		for i, a := range anchors {
			if a > s.scroll && (idx == -1 || a < anchors[idx]) {
				idx = i
			}
		}
		if idx == -1 {
			for i, a := range anchors {
				if idx == -1 || a < anchors[idx] {
					idx = i
				}
			}
		}
	} else {
		for i, a := range anchors {
			if a < s.scroll && (idx == -1 || a > anchors[idx]) {
				idx = i
			}
		}
		if idx == -1 {
			for i, a := range anchors {
				if idx == -1 || a > anchors[idx] {
					idx = i
				}
			}
		}
	}

	s.SetScroll(anchors[idx])
	s.status = fmt.Sprintf("Hunk %d/%d", idx+1, len(anchors))
	return s.status
}

func (s *State) firstHunkAnchor() (int, bool) {
	snap := s.ActiveSnapshot()
	if snap == nil || len(snap.Diff.Hunks) == 0 {
		return 0, false
	}
	return diffline.HunkAnchor(snap.Diff.Hunks[0]), true
}

// RevisionForward, RevisionBackward, and JumpToLive are no-ops outside
// watch mode.
func (s *State) RevisionForward() {
	if !s.watchMode {
		s.status = "revision navigation is disabled without --watch"
		return
	}
	if s.activeIndex < s.store.LastIndex() {
		s.activeIndex++
		s.syncAfterActivation()
	}
}

func (s *State) RevisionBackward() {
	if !s.watchMode {
		s.status = "revision navigation is disabled without --watch"
		return
	}
	if s.activeIndex > 0 {
		s.activeIndex--
		s.syncAfterActivation()
	}
}

func (s *State) JumpToLive() {
	if !s.watchMode {
		s.status = "revision navigation is disabled without --watch"
		return
	}
	s.activeIndex = s.store.LastIndex()
	s.syncAfterActivation()
}

func (s *State) syncAfterActivation() {
	oldScroll := s.scroll
	s.applyScrollPreservation(oldScroll, false)
}

// CycleLink advances (or retreats) the selected link with wraparound,
// and follows scroll to the newly selected link's line.
func (s *State) CycleLink(forward bool) {
	doc := s.ActiveDocument()
	if doc == nil || len(doc.Links) == 0 {
		return
	}
	n := len(doc.Links)
	switch {
	case s.selectedLink < 0:
		if forward {
			s.selectedLink = 0
		} else {
			s.selectedLink = n - 1
		}
	case forward:
		s.selectedLink = (s.selectedLink + 1) % n
	default:
		s.selectedLink = (s.selectedLink - 1 + n) % n
	}
	s.SetScroll(doc.Links[s.selectedLink].Line)
}

// BeginSearch opens search mode with an empty query.
func (s *State) BeginSearch() {
	s.searchMode = true
	s.searchQuery = ""
	s.recomputeMatches()
}

// TypeSearch extends the query by one rune and recomputes matches.
func (s *State) TypeSearch(r rune) {
	s.searchQuery += string(r)
	s.recomputeMatches()
}

// BackspaceSearch trims one rune from the query.
func (s *State) BackspaceSearch() {
	if s.searchQuery == "" {
		return
	}
	runes := []rune(s.searchQuery)
	s.searchQuery = string(runes[:len(runes)-1])
	s.recomputeMatches()
}

// CloseSearch exits the typing UI; the query and match list (and n/N
// navigation over them) remain active until a new search begins.
func (s *State) CloseSearch() { s.searchMode = false }

func (s *State) recomputeMatches() {
	s.matches = nil
	doc := s.ActiveDocument()
	if doc == nil || s.searchQuery == "" {
		s.matchIndex = 0
		return
	}
	q := asciiLower(s.searchQuery)
	for i, l := range doc.Lines {
		if strings.Contains(asciiLower(l.Plain), q) {
			s.matches = append(s.matches, i)
		}
	}
	if s.matchIndex >= len(s.matches) {
		s.matchIndex = 0
	}
}

// asciiLower folds only 'A'-'Z'; search matching is ASCII-case-insensitive,
// not Unicode-aware, so letters like 'É' are left untouched.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func (s *State) NextMatch() {
	if len(s.matches) == 0 {
		return
	}
	s.matchIndex = (s.matchIndex + 1) % len(s.matches)
	s.SetScroll(s.matches[s.matchIndex])
}

func (s *State) PrevMatch() {
	if len(s.matches) == 0 {
		return
	}
	s.matchIndex = (s.matchIndex - 1 + len(s.matches)) % len(s.matches)
	s.SetScroll(s.matches[s.matchIndex])
}

// PushBackstack records the path being left and the current scroll.
func (s *State) PushBackstack(path string) {
	s.backstack = append(s.backstack, HistoryEntry{Path: path, Scroll: s.scroll})
}

// PopBackstack removes and returns the most recent backstack entry.
func (s *State) PopBackstack() (HistoryEntry, bool) {
	if len(s.backstack) == 0 {
		return HistoryEntry{}, false
	}
	n := len(s.backstack) - 1
	e := s.backstack[n]
	s.backstack = s.backstack[:n]
	return e, true
}

// ResetFrom replaces the store's contents with a single fresh snapshot of
// doc (the document source changed: a link load or backstack pop) and
// restores scroll (0 for a fresh load; a popped HistoryEntry's Scroll on
// backstack return).
func (s *State) ResetFrom(doc *render.RenderedDocument, scroll int) {
	s.store.ResetFrom(doc)
	s.activeIndex = 0
	s.selectedLink = -1
	s.searchMode = false
	s.searchQuery = ""
	s.matches = nil
	s.SetScroll(scroll)
}

// Append renders a reload through the Store, following live mode forward
// or holding the active index in history mode (rebinding across
// evictions), then applies the scroll-preservation rule. Returns false if
// the Store refused the append as a no-op.
func (s *State) Append(doc *render.RenderedDocument) bool {
	wasLive := s.store.Len() == 0 || s.activeIndex == s.store.LastIndex()
	oldScroll := s.scroll

	ok, evicted := s.store.Append(doc)
	if !ok {
		return false
	}

	if wasLive {
		s.activeIndex = s.store.LastIndex()
	} else {
		s.activeIndex -= evicted
		if s.activeIndex < 0 {
			s.activeIndex = 0
		}
	}

	s.applyScrollPreservation(oldScroll, wasLive)
	return true
}

// applyScrollPreservation implements the four-branch rule from
// spec.md §4.4: keep the current search match's scroll; else keep
// oldScroll if still in range; else (when fallbackToFirstHunk) jump to
// the first hunk anchor; else clamp to MaxScroll.
func (s *State) applyScrollPreservation(oldScroll int, fallbackToFirstHunk bool) {
	if s.searchQuery != "" {
		s.recomputeMatches()
	}

	switch {
	case s.searchQuery != "" && len(s.matches) > 0:
		s.SetScroll(s.matches[s.matchIndex])
	case oldScroll <= s.MaxScroll():
		s.SetScroll(oldScroll)
	case fallbackToFirstHunk:
		if anchor, ok := s.firstHunkAnchor(); ok {
			s.SetScroll(anchor)
		} else {
			s.SetScroll(s.MaxScroll())
		}
	default:
		s.SetScroll(s.MaxScroll())
	}
}

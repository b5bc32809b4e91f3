package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bleikamp/catmd/internal/applog"
	"github.com/bleikamp/catmd/internal/nav"
	"github.com/bleikamp/catmd/internal/opener"
	"github.com/bleikamp/catmd/internal/render"
	"github.com/bleikamp/catmd/internal/snapshot"
	"github.com/bleikamp/catmd/internal/syntax"
	"github.com/bleikamp/catmd/internal/termio"
	"github.com/bleikamp/catmd/internal/view"
	"github.com/bleikamp/catmd/internal/watch"
)

const keyPollTimeout = 120 * time.Millisecond

// cursorHome repositions the cursor for the next full-frame redraw; the
// alternate screen is entered once by Terminal.Enter and left untouched
// until Exit.
const cursorHome = "\x1b[H"

// loop is the Event Loop state (spec.md §4.6): everything it needs besides
// the pure nav.State it mutates each iteration.
type loop struct {
	cfg   config
	state *nav.State
	table syntax.Table

	term termio.Terminal
	keys termio.KeySource
	out  io.Writer

	docPath     string
	watchPath   string
	watcher     watch.Watcher
	watchCh     <-chan struct{}
	reloadLatch bool
}

func runInteractive(cfg config, docPath string, doc *render.RenderedDocument, table syntax.Table, a RunArgs) int {
	store := snapshot.NewStore(cfg.historyCap)
	store.Append(doc)
	state := nav.NewState(store)
	state.SetWatchMode(cfg.watch)

	lp := &loop{cfg: cfg, state: state, table: table, docPath: docPath, watchPath: docPath}

	if cfg.watch {
		w, err := watch.New()
		if err != nil {
			fmt.Fprintln(a.Stderr, newError(KindWatcherInit, err).Error())
			return 1
		}
		ch, err := w.Start(cfg.inputPath)
		if err != nil {
			fmt.Fprintln(a.Stderr, newError(KindWatcherInit, err).Error())
			return 1
		}
		lp.watcher = w
		lp.watchCh = ch
	}

	stdin := a.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	lp.out = a.Stdout

	term := termio.New(stdin, a.Stdout)
	if err := term.Enter(); err != nil {
		fmt.Fprintln(a.Stderr, newError(KindTerminalSetup, err).Error())
		if lp.watcher != nil {
			_ = lp.watcher.Close()
		}
		return 1
	}
	lp.term = term
	defer func() {
		if err := term.Exit(); err != nil {
			applog.Log("app: terminal exit failed: %v", err)
		}
		if lp.watcher != nil {
			if err := lp.watcher.Close(); err != nil {
				applog.Log("app: watcher close failed: %v", err)
			}
		}
	}()

	lp.keys = termio.NewKeySource(stdin)

	return lp.run()
}

func (lp *loop) run() int {
	for {
		lp.draw()

		if lp.reloadLatch {
			lp.reload()
			lp.reloadLatch = false
		}
		lp.drainWatch()

		key, ok, err := lp.keys.Poll(keyPollTimeout)
		if err != nil {
			applog.Log("app: key source closed: %v", err)
			return 0
		}
		if !ok {
			continue
		}
		if lp.handleKey(key) {
			return 0
		}
	}
}

func (lp *loop) draw() {
	width, height, err := lp.term.Size()
	if err != nil {
		width, height = 80, 24
	}
	frame := view.Compose(lp.state, lp.docPath, width, height)
	_, _ = io.WriteString(lp.out, cursorHome+strings.Join(frame.Rows, "\r\n"))
}

// drainWatch non-blockingly consumes every pending watch notification,
// coalescing them into a single latch for the next iteration to service.
func (lp *loop) drainWatch() {
	if lp.watchCh == nil {
		return
	}
	for {
		select {
		case _, ok := <-lp.watchCh:
			if !ok {
				lp.watchCh = nil
				return
			}
			lp.reloadLatch = true
		default:
			return
		}
	}
}

// reload re-reads and re-renders the watched file and appends it as a new
// revision. It is a no-op while the active document has navigated away
// from the watched file (a link follow or backstack pop) — the watcher
// only ever targets the original input path.
func (lp *loop) reload() {
	if lp.docPath != lp.watchPath {
		return
	}
	src, err := os.ReadFile(lp.watchPath)
	if err != nil {
		lp.state.SetStatus(fmt.Sprintf("reload failed: %v", err))
		return
	}
	doc, err := render.Render(src, lp.table)
	if err != nil {
		lp.state.SetStatus(fmt.Sprintf("reload failed: %v", err))
		return
	}
	lp.state.Append(doc)
}

// handleKey dispatches one key press and reports whether the loop should
// quit.
func (lp *loop) handleKey(k termio.Key) bool {
	if lp.state.SearchMode() {
		lp.handleSearchKey(k)
		return false
	}

	switch {
	case k.IsRune('q'):
		return true
	case k.IsRune('j'), k.Special == termio.KeyDown:
		lp.state.MoveCursor(1)
	case k.IsRune('k'), k.Special == termio.KeyUp:
		lp.state.MoveCursor(-1)
	case k.IsRune('g'):
		lp.state.Top()
	case k.IsRune('G'):
		lp.state.Bottom()
	case k.Special == termio.KeyCtrlD:
		lp.state.HalfPage(true)
	case k.Special == termio.KeyCtrlU:
		lp.state.HalfPage(false)
	case k.IsRune('t'):
		lp.state.ToggleTOC()
	case k.Special == termio.KeyTab:
		lp.state.CycleLink(true)
	case k.Special == termio.KeyShiftTab:
		lp.state.CycleLink(false)
	case k.Special == termio.KeyEnter:
		lp.handleEnter()
	case k.IsRune('o'):
		lp.handleForceOpen()
	case k.IsRune('['):
		lp.state.JumpHeading(false)
	case k.IsRune(']'):
		lp.state.JumpHeading(true)
	case k.Special == termio.KeyBackspace:
		lp.handleBackspace()
	case k.IsRune('/'):
		lp.state.BeginSearch()
	case k.IsRune('n'):
		lp.state.NextMatch()
	case k.IsRune('N'):
		lp.state.PrevMatch()
	case k.IsRune('v'):
		lp.state.ToggleTimeline()
	case k.IsRune('h'), k.Special == termio.KeyLeft:
		lp.state.RevisionBackward()
	case k.IsRune('l'), k.Special == termio.KeyRight:
		lp.state.RevisionForward()
	case k.IsRune('L'):
		lp.state.JumpToLive()
	case k.IsRune('('):
		lp.state.JumpHunk(false)
	case k.IsRune(')'):
		lp.state.JumpHunk(true)
	}
	return false
}

func (lp *loop) handleSearchKey(k termio.Key) {
	switch {
	case k.Special == termio.KeyEnter, k.Special == termio.KeyEscape:
		lp.state.CloseSearch()
	case k.Special == termio.KeyBackspace:
		lp.state.BackspaceSearch()
	case k.Special == termio.KeyNone && k.Rune != 0:
		lp.state.TypeSearch(k.Rune)
	}
}

func (lp *loop) handleEnter() {
	doc := lp.state.ActiveDocument()
	if doc == nil {
		return
	}
	if lp.state.TOCOpen() {
		if sel := lp.state.TOCSelected(); sel >= 0 && sel < len(doc.Toc) {
			lp.state.SetScroll(doc.Toc[sel].Line)
		}
		return
	}
	sel := lp.state.SelectedLink()
	if sel < 0 || sel >= len(doc.Links) {
		lp.state.SetStatus("no link selected")
		return
	}
	lp.followLink(doc.Links[sel].Target)
}

func (lp *loop) handleForceOpen() {
	doc := lp.state.ActiveDocument()
	if doc == nil {
		return
	}
	sel := lp.state.SelectedLink()
	if sel < 0 || sel >= len(doc.Links) {
		lp.state.SetStatus("no link selected")
		return
	}
	if err := opener.Open(doc.Links[sel].Target); err != nil {
		lp.state.SetStatus(fmt.Sprintf("open failed: %v", err))
	}
}

func (lp *loop) handleBackspace() {
	entry, ok := lp.state.PopBackstack()
	if !ok {
		return
	}
	src, err := os.ReadFile(entry.Path)
	if err != nil {
		lp.state.SetStatus(fmt.Sprintf("open %s: %v", entry.Path, err))
		return
	}
	doc, err := render.Render(src, lp.table)
	if err != nil {
		lp.state.SetStatus(fmt.Sprintf("open %s: %v", entry.Path, err))
		return
	}
	lp.state.ResetFrom(doc, entry.Scroll)
	lp.docPath = entry.Path
}

// followLink resolves one link's target per the link-navigation rules:
// any #fragment is recorded and surfaced verbatim in the status line
// rather than resolved to a line (a stated non-goal), scheme-qualified
// targets go to the external opener, and everything else is treated as a
// path to another local Markdown file relative to the current document's
// directory.
func (lp *loop) followLink(target string) {
	path, fragment := splitFragment(target)

	if path == "" {
		if fragment != "" {
			lp.state.SetStatus(fmt.Sprintf("anchor '#%s' not resolved", fragment))
		}
		return
	}
	if looksExternal(path) {
		if err := opener.Open(target); err != nil {
			lp.state.SetStatus(fmt.Sprintf("open failed: %v", err))
		}
		return
	}
	if lp.docPath == stdinDisplayPath {
		lp.state.SetStatus("cannot follow a local link from stdin input")
		return
	}

	newPath := resolveLocalTarget(lp.docPath, path)
	src, err := os.ReadFile(newPath)
	if err != nil {
		lp.state.SetStatus(fmt.Sprintf("open %s: %v", newPath, err))
		return
	}
	doc, err := render.Render(src, lp.table)
	if err != nil {
		lp.state.SetStatus(fmt.Sprintf("open %s: %v", newPath, err))
		return
	}

	lp.state.PushBackstack(lp.docPath)
	lp.state.ResetFrom(doc, 0)
	lp.docPath = newPath

	if fragment != "" {
		lp.state.SetStatus(fmt.Sprintf("anchor '#%s' not resolved", fragment))
	}
}

func looksExternal(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:")
}

// splitFragment splits target into its path and #fragment parts (the
// fragment excludes the leading '#'). A pure "#frag" anchor target yields
// an empty path.
func splitFragment(target string) (path, fragment string) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}

// resolveLocalTarget resolves target (with any #fragment stripped; callers
// that need the fragment itself use splitFragment first) relative to the
// directory of the document it was linked from.
func resolveLocalTarget(fromPath, target string) string {
	target, _ = splitFragment(target)
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(fromPath), target)
}

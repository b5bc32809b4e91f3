package watch

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bleikamp/catmd/internal/applog"
)

// Watcher is the filesystem-change contract the Event Loop polls for
// reload notifications. Start begins watching path and returns a channel
// that receives a value on every coalesced write/create; the channel is
// not closed when watching stops.
// Close stops watching every path started on this Watcher.
type Watcher interface {
	Start(path string) (<-chan struct{}, error)
	Close() error
}

// New returns an fsnotify-backed Watcher.
func New() (Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	return &fsWatcher{fsw: w, signals: make(chan struct{}, 1)}, nil
}

type fsWatcher struct {
	fsw     *fsnotify.Watcher
	signals chan struct{}
	watched string
}

// Start watches path's containing directory and begins pumping reload
// signals into the returned channel. A second Start call retargets the
// watcher at the new path, unwatching the previous directory first.
func (w *fsWatcher) Start(path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve path: %w", err)
	}
	dir := filepath.Dir(abs)

	if w.watched != "" && w.watched != dir {
		if err := w.fsw.Remove(w.watched); err != nil {
			applog.Log("watch: unwatch %s: %v", w.watched, err)
		}
	}

	if w.watched != dir {
		if err := w.fsw.Add(dir); err != nil {
			return nil, fmt.Errorf("watch: watch dir %s: %w", dir, err)
		}
		applog.Log("watch: watching dir %s for %s", dir, abs)
	}
	w.watched = dir

	if w.signals == nil {
		w.signals = make(chan struct{}, 1)
	}

	go w.pump(abs)

	return w.signals, nil
}

// pump drains fsnotify events for one Start call, posting a coalesced
// reload signal whenever target is written or recreated. It exits once
// the watcher is closed (Events channel closes) or the directory is
// retargeted out from under it.
func (w *fsWatcher) pump(target string) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case w.signals <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			applog.Log("watch: fsnotify error: %v", err)
		}
	}
}

func (w *fsWatcher) Close() error {
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("watch: close: %w", err)
	}
	return nil
}

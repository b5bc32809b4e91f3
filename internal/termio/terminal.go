// Package termio is the concrete terminal backend and key-event source for
// catmd's pager. internal/app drives the pager through the Terminal and
// KeySource contracts; this package is the one real implementation of them,
// built on raw-mode terminal I/O.
package termio

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	cursorHome     = "\x1b[H"
	altScreenEnter = "\x1b[?1049h" + cursorHome
	altScreenExit  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearScreen    = "\x1b[2J" + cursorHome
)

var errNoFileDescriptor = errors.New("termio: raw mode requires *os.File input")

// Terminal owns exclusive access to the controlling terminal for the
// lifetime of the pager. Enter must be paired with Exit on every exit path,
// including failures (spec.md §5's "shared resources" contract).
type Terminal interface {
	Enter() error
	Exit() error
	Size() (width, height int, err error)
}

// New returns a Terminal backed by in/out. in must be an *os.File (a real
// file descriptor) for raw mode to apply.
func New(in *os.File, out io.Writer) Terminal {
	if out == nil {
		out = in
	}
	return &realTerminal{in: in, out: out}
}

type realTerminal struct {
	in  *os.File
	out io.Writer

	mu      sync.Mutex
	state   *term.State
	entered bool
}

func (rt *realTerminal) Enter() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.entered {
		return nil
	}
	if rt.in == nil {
		return errNoFileDescriptor
	}

	fd := int(rt.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}

	if err := rt.writeString(altScreenEnter + clearScreen + hideCursor); err != nil {
		_ = term.Restore(fd, state)
		return err
	}

	rt.state = state
	rt.entered = true
	return nil
}

func (rt *realTerminal) Exit() error {
	rt.mu.Lock()
	if !rt.entered {
		rt.mu.Unlock()
		return nil
	}
	fd := int(rt.in.Fd())
	state := rt.state
	rt.state = nil
	rt.entered = false
	rt.mu.Unlock()

	var firstErr error
	if state != nil {
		if err := term.Restore(fd, state); err != nil {
			firstErr = err
		}
	}
	if err := rt.writeString(showCursor + altScreenExit); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (rt *realTerminal) Size() (int, int, error) {
	if rt.in == nil {
		return 0, 0, errNoFileDescriptor
	}
	return term.GetSize(int(rt.in.Fd()))
}

func (rt *realTerminal) writeString(s string) error {
	if rt.out == nil || len(s) == 0 {
		return nil
	}
	_, err := io.WriteString(rt.out, s)
	return err
}

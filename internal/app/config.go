package app

import (
	"io"
	"os"

	"github.com/bleikamp/catmd/internal/termio"
)

// RunArgs is the fully parsed command line, independent of how the flags
// were decoded (cmd/catmd uses internal/cliflags; tests construct RunArgs
// directly).
type RunArgs struct {
	// Path is the positional input argument: a file path, "-", or "" if
	// omitted.
	Path        string
	Interactive bool
	Plain       bool
	Watch       bool
	HistoryCap  int

	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer
}

// config is RunArgs after input-mode resolution (spec.md §6).
type config struct {
	fromStdin   bool
	inputPath   string
	interactive bool
	watch       bool
	historyCap  int
}

func resolveConfig(a RunArgs) (config, *Error) {
	if a.Plain && a.Interactive {
		return config{}, newError(KindArgumentConflict, errConflict("--plain and --interactive cannot be combined"))
	}

	fromStdin := false
	inputPath := a.Path

	switch a.Path {
	case "-":
		fromStdin = true
	case "":
		if termio.IsTTY(a.Stdin) {
			return config{}, newError(KindInputMissing, errConflict("no input file given and stdin is a terminal"))
		}
		fromStdin = true
	}

	if a.Watch && fromStdin {
		return config{}, newError(KindArgumentConflict, errConflict("--watch requires a file input, not stdin"))
	}

	historyCap := a.HistoryCap
	if historyCap <= 0 {
		return config{}, newError(KindArgumentConflict, errConflict("--history must be a positive integer"))
	}

	interactive := a.Interactive
	if !a.Plain && !a.Interactive {
		interactive = !fromStdin && termio.IsTTY(stdoutFile(a.Stdout))
	}

	return config{
		fromStdin:   fromStdin,
		inputPath:   inputPath,
		interactive: interactive,
		watch:       a.Watch,
		historyCap:  historyCap,
	}, nil
}

// stdoutFile recovers the *os.File backing an io.Writer, when there is
// one, so IsTTY can inspect it. Writers built over a buffer (as in tests)
// simply aren't TTYs.
func stdoutFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func errConflict(msg string) error { return simpleError(msg) }

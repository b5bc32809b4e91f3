package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bleikamp/catmd/internal/applog"
	"github.com/bleikamp/catmd/internal/render"
	"github.com/bleikamp/catmd/internal/syntax"
)

// stdinDisplayPath is the status-line/doc-path label used when the input
// came from stdin rather than a named file.
const stdinDisplayPath = "<stdin>"

// Run is catmd's single entrypoint: resolve input mode, load and render
// the document, then either print it plainly or hand off to the
// interactive event loop. It returns a process exit code and never calls
// os.Exit itself, so callers (tests, cmd/catmd) stay in control of the
// process.
func Run(a RunArgs) int {
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}

	cfg, cfgErr := resolveConfig(a)
	if cfgErr != nil {
		fmt.Fprintln(a.Stderr, cfgErr.Error())
		return 1
	}

	src, docPath, err := loadInput(a.Stdin, cfg)
	if err != nil {
		fmt.Fprintln(a.Stderr, newError(KindIO, err).Error())
		return 1
	}

	table := syntax.NewChromaTable("")
	doc, err := render.Render(src, table)
	if err != nil {
		fmt.Fprintln(a.Stderr, newError(KindIO, err).Error())
		return 1
	}

	if !cfg.interactive {
		return runPlain(doc, a.Stdout)
	}

	return runInteractive(cfg, docPath, doc, table, a)
}

func loadInput(stdin *os.File, cfg config) ([]byte, string, error) {
	if cfg.fromStdin {
		if stdin == nil {
			stdin = os.Stdin
		}
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return src, stdinDisplayPath, nil
	}

	src, err := os.ReadFile(cfg.inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", cfg.inputPath, err)
	}
	return src, cfg.inputPath, nil
}

// runPlain writes the joined plain text of every line with no trailing
// newline, per spec.md §6.
func runPlain(doc *render.RenderedDocument, out io.Writer) int {
	lines := make([]string, len(doc.Lines))
	for i, l := range doc.Lines {
		lines[i] = l.Plain
	}
	if _, err := io.WriteString(out, strings.Join(lines, "\n")); err != nil {
		applog.Log("app: plain output write failed: %v", err)
		return 1
	}
	return 0
}

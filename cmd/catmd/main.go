// Command catmd is a terminal pager for Markdown with live reload: point
// it at a file with --watch and it keeps redrawing as the file changes,
// remembering a bounded history of past revisions you can step back
// through.
package main

import (
	"fmt"
	"os"

	"github.com/bleikamp/catmd/internal/app"
	"github.com/bleikamp/catmd/internal/cliflags"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := cliflags.New()
	interactive := fs.Bool("interactive", 'i', false)
	plain := fs.Bool("plain", 0, false)
	watch := fs.Bool("watch", 'w', false)
	history := fs.Int("history", 0, 50)

	positional, err := fs.Parse(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "catmd:", err)
		return 1
	}

	var path string
	if len(positional) > 0 {
		path = positional[0]
	}

	return app.Run(app.RunArgs{
		Path:        path,
		Interactive: *interactive,
		Plain:       *plain,
		Watch:       *watch,
		HistoryCap:  *history,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	})
}

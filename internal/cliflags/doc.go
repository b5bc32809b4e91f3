// Package cliflags is a small typed flag registry for catmd's single
// command: -i/--interactive, --plain, -w/--watch, --history <N>, and one
// positional path argument. Trimmed from the teacher's internal/q/cli
// FlagSet — this binary has one command and four flags, so the
// surrounding command-tree/subcommand/help framework that package also
// provides has nothing to manage here.
package cliflags

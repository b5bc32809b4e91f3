// Package watch turns filesystem writes to a single file into reload
// signals for the Event Loop. It watches the file's containing directory
// rather than the file itself (so editors that write-via-rename/replace
// are still observed) and filters events down to the exact path,
// collapsing Write/Create events into reload pulses on a channel that
// holds at most one pending pulse.
package watch

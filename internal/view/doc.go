// Package view composes a terminal frame from navigation state: the
// content pane (gutter, freshness tinting, scroll, wrap), an optional
// table-of-contents column, an optional timeline dock, and a status
// line. Compose maps (nav.State, document path, viewport size) to a Frame
// of fully ANSI-styled, width-clipped rows; the only state it writes is the
// content height, recorded through State.SetViewportHeight. It never
// touches a terminal, and freshness comes from each snapshot's Age(),
// which measures the time since that snapshot was captured.
package view

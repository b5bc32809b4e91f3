// Package app wires the Renderer, Diff Engine, Snapshot Store, Navigation
// State, and View Composer into the single-threaded event loop: draw,
// service the watch latch, drain pending watch notifications, poll keys
// for up to 120ms, dispatch. It is the one package that knows about both
// the pure core (render/diffline/snapshot/nav/view) and the external
// collaborators (termio, watch, opener) named in spec.md §6.
package app

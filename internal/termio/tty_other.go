//go:build !linux && !android

package termio

// isTTY falls back to a char-device stat check on platforms without a
// TCGETS ioctl probe. golang.org/x/term.IsTerminal is the more complete
// answer on those platforms but pulls in OS-specific syscall tables we don't
// otherwise need; this mirrors the teacher's own per-OS tty_*.go split.
func isTTY(r any) bool {
	return hasCharDevice(r)
}

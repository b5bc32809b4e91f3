// Package opener hands a target (file path or URL the user activated via
// Enter on a link) to the platform's default "open" mechanism, the way a
// desktop file manager would: xdg-open on Linux, open on macOS, cmd /c
// start on Windows.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open runs the platform's default opener on target and waits for the
// opener command to exit. It returns an error if the command cannot be
// started or exits with a non-zero status.
func Open(target string) error {
	cmd, args, err := command(target)
	if err != nil {
		return err
	}

	c := exec.Command(cmd, args...)
	if err := c.Run(); err != nil {
		return fmt.Errorf("opener: run %s: %w", cmd, err)
	}
	return nil
}

func command(target string) (string, []string, error) {
	switch runtime.GOOS {
	case "linux":
		return "xdg-open", []string{target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", target}, nil
	default:
		return "", nil, fmt.Errorf("opener: unsupported platform %q", runtime.GOOS)
	}
}

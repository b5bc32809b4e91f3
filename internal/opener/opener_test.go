package opener

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandPicksPlatformOpener(t *testing.T) {
	cmd, args, err := command("https://example.com")
	require.NoError(t, err)

	switch runtime.GOOS {
	case "linux":
		require.Equal(t, "xdg-open", cmd)
		require.Equal(t, []string{"https://example.com"}, args)
	case "darwin":
		require.Equal(t, "open", cmd)
		require.Equal(t, []string{"https://example.com"}, args)
	case "windows":
		require.Equal(t, "cmd", cmd)
		require.Equal(t, []string{"/c", "start", "", "https://example.com"}, args)
	}
}

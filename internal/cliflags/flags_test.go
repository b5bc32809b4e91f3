package cliflags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsesLongBoolFlagBare(t *testing.T) {
	fs := New()
	watch := fs.Bool("watch", 0, false)

	positional, err := fs.Parse([]string{"--watch", "doc.md"})
	require.NoError(t, err)
	require.True(t, *watch)
	require.Equal(t, []string{"doc.md"}, positional)
}

func TestParsesLongBoolFlagEquals(t *testing.T) {
	fs := New()
	plain := fs.Bool("plain", 0, true)

	_, err := fs.Parse([]string{"--plain=false"})
	require.NoError(t, err)
	require.False(t, *plain)
}

func TestParsesShorthandBoolFlag(t *testing.T) {
	fs := New()
	interactive := fs.Bool("interactive", 'i', false)

	positional, err := fs.Parse([]string{"-i", "doc.md"})
	require.NoError(t, err)
	require.True(t, *interactive)
	require.Equal(t, []string{"doc.md"}, positional)
}

func TestParsesIntFlagWithSeparateValue(t *testing.T) {
	fs := New()
	history := fs.Int("history", 0, 50)

	positional, err := fs.Parse([]string{"--history", "200", "doc.md"})
	require.NoError(t, err)
	require.Equal(t, 200, *history)
	require.Equal(t, []string{"doc.md"}, positional)
}

func TestDashDashEndsFlagParsing(t *testing.T) {
	fs := New()
	fs.Bool("watch", 0, false)

	positional, err := fs.Parse([]string{"--", "--watch", "doc.md"})
	require.NoError(t, err)
	require.Equal(t, []string{"--watch", "doc.md"}, positional)
}

func TestUnknownFlagReturnsError(t *testing.T) {
	fs := New()
	_, err := fs.Parse([]string{"--nope"})
	require.Error(t, err)
}

func TestMissingValueReturnsError(t *testing.T) {
	fs := New()
	fs.Int("history", 0, 50)
	_, err := fs.Parse([]string{"--history"})
	require.Error(t, err)
}

func TestInvalidIntValueReturnsError(t *testing.T) {
	fs := New()
	fs.Int("history", 0, 50)
	_, err := fs.Parse([]string{"--history", "abc"})
	require.Error(t, err)
}

func TestSingleDashIsPositional(t *testing.T) {
	fs := New()
	positional, err := fs.Parse([]string{"-"})
	require.NoError(t, err)
	require.Equal(t, []string{"-"}, positional)
}

package termfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorIsSet(t *testing.T) {
	require.False(t, Color{}.IsSet())
	require.True(t, NewNamedColor(Red).IsSet())
	require.True(t, RGB(1, 2, 3).IsSet())
	require.True(t, Indexed(200).IsSet())
}

func TestSGRNamed(t *testing.T) {
	require.Equal(t, "\x1b[31m", SGR(NewNamedColor(Red), Color{}, false, false, false, false, false))
	require.Equal(t, "\x1b[41m", SGR(Color{}, NewNamedColor(Red), false, false, false, false, false))
}

func TestSGRRGB(t *testing.T) {
	require.Equal(t, "\x1b[38;2;10;20;30m", SGR(RGB(10, 20, 30), Color{}, false, false, false, false, false))
}

func TestSGRCombinesAttributes(t *testing.T) {
	seq := SGR(NewNamedColor(Green), Color{}, true, false, true, false, false)
	require.Equal(t, "\x1b[1;4;32m", seq)
}

func TestSGRCrossedOut(t *testing.T) {
	seq := SGR(Color{}, Color{}, false, false, false, false, true)
	require.Equal(t, "\x1b[9m", seq)
}

func TestSGREmptyWhenUnset(t *testing.T) {
	require.Equal(t, "", SGR(Color{}, Color{}, false, false, false, false, false))
}

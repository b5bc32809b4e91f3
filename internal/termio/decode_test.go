package termio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecoderPlainRunes(t *testing.T) {
	var d decoder
	keys := d.feed([]byte("jkq"))
	require.Len(t, keys, 3)
	require.True(t, keys[0].IsRune('j'))
	require.True(t, keys[1].IsRune('k'))
	require.True(t, keys[2].IsRune('q'))
}

func TestDecoderArrowKeys(t *testing.T) {
	var d decoder
	keys := d.feed([]byte("\x1b[A\x1b[B\x1b[C\x1b[D"))
	require.Equal(t, []Key{
		{Special: KeyUp},
		{Special: KeyDown},
		{Special: KeyRight},
		{Special: KeyLeft},
	}, keys)
}

func TestDecoderPartialEscapeAcrossReads(t *testing.T) {
	var d decoder
	keys := d.feed([]byte("\x1b["))
	require.Empty(t, keys)
	keys = d.feed([]byte("A"))
	require.Equal(t, []Key{{Special: KeyUp}}, keys)
}

func TestDecoderShiftTab(t *testing.T) {
	var d decoder
	keys := d.feed([]byte("\x1b[Z"))
	require.Equal(t, []Key{{Special: KeyShiftTab}}, keys)
}

func TestDecoderBareEscape(t *testing.T) {
	var d decoder
	keys := d.feed([]byte{0x1b})
	require.Equal(t, []Key{{Special: KeyEscape}}, keys)
}

func TestDecoderControlBytes(t *testing.T) {
	var d decoder
	keys := d.feed([]byte{'\t', '\r', 0x7f, 0x04, 0x15})
	require.Equal(t, []Key{
		{Special: KeyTab},
		{Special: KeyEnter},
		{Special: KeyBackspace},
		{Special: KeyCtrlD},
		{Special: KeyCtrlU},
	}, keys)
}

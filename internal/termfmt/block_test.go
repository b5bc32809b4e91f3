package termfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockWidth(t *testing.T) {
	require.Equal(t, 0, BlockWidth(""))
	require.Equal(t, 5, BlockWidth("hello"))
	require.Equal(t, 7, BlockWidth("hi\nlengthy\nok"))
	require.Equal(t, 2, BlockWidth("\x1b[31mhi\x1b[0m"))
}

func TestBlockHeight(t *testing.T) {
	require.Equal(t, 0, BlockHeight(""))
	require.Equal(t, 1, BlockHeight("one line"))
	require.Equal(t, 3, BlockHeight("a\nb\nc"))
	require.Equal(t, 3, BlockHeight("a\nb\n")) // trailing newline counts as a blank last row
}

func TestBlockNormalizeWidth(t *testing.T) {
	require.Equal(t, "", BlockNormalizeWidth(""))
	require.Equal(t, "hi   \nworld", BlockNormalizeWidth("hi\nworld"))
	require.Equal(t, "hi\nok", BlockNormalizeWidth("hi\nok"))
}

func TestWrapToWidth(t *testing.T) {
	require.Equal(t, "", WrapToWidth("", 10))
	require.Equal(t, "hello", WrapToWidth("hello", 0))
	require.Equal(t, "hel\nlo", WrapToWidth("hello", 3))
	require.Equal(t, "ab\ncd\ne", WrapToWidth("ab\ncd\ne", 2))
}

func TestWrapToWidthPreservesANSI(t *testing.T) {
	wrapped := WrapToWidth("\x1b[31mhello\x1b[0m", 3)
	require.Equal(t, "\x1b[31mhel\nlo\x1b[0m", wrapped)
}

func TestTruncateWithEllipsis(t *testing.T) {
	require.Equal(t, "", TruncateWithEllipsis("anything", 0))
	require.Equal(t, "short", TruncateWithEllipsis("short", 10))
	require.Equal(t, "abc…", TruncateWithEllipsis("abcdefgh", 4))
}

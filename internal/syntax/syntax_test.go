package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChromaTableUnknownLanguage(t *testing.T) {
	table := NewChromaTable("monokai")
	tokens, ok := table.Highlight("not-a-real-language", "whatever")
	require.False(t, ok)
	require.Nil(t, tokens)
}

func TestChromaTableHighlightsGo(t *testing.T) {
	table := NewChromaTable("monokai")
	tokens, ok := table.Highlight("go", `func main() {}`)
	require.True(t, ok)
	require.NotEmpty(t, tokens)

	var joined string
	for _, tok := range tokens {
		joined += tok.Text
	}
	require.Equal(t, `func main() {}`, joined)
}

func TestChromaTableFallsBackToDefaultStyle(t *testing.T) {
	table := NewChromaTable("not-a-real-style")
	tokens, ok := table.Highlight("go", "x := 1")
	require.True(t, ok)
	require.NotEmpty(t, tokens)
}

func TestChromaTableCachesLexerLookup(t *testing.T) {
	table := NewChromaTable("monokai")
	_, ok := table.Highlight("python", "x = 1")
	require.True(t, ok)
	require.Contains(t, table.lexers, "python")

	_, ok = table.Highlight("python", "y = 2")
	require.True(t, ok)
}

package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bleikamp/catmd/internal/render"
	"github.com/bleikamp/catmd/internal/syntax"
)

func chromaTableForTest() syntax.Table { return syntax.NewChromaTable("") }

func TestRunPlainJoinsLinesWithoutTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody text.\n"), 0o644))

	var out, errOut bytes.Buffer
	code := Run(RunArgs{Path: path, Plain: true, HistoryCap: 50, Stdout: &out, Stderr: &errOut})

	require.Equal(t, 0, code)
	require.Empty(t, errOut.String())
	require.NotEmpty(t, out.String())
	require.False(t, bytes.HasSuffix(out.Bytes(), []byte("\n")))
}

func TestRunReportsIOErrorForMissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run(RunArgs{Path: "/no/such/file.md", Plain: true, HistoryCap: 50, Stdout: &out, Stderr: &errOut})

	require.NotEqual(t, 0, code)
	require.Contains(t, errOut.String(), "I/O")
}

func TestRunReportsArgumentConflictBeforeTouchingInput(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run(RunArgs{Path: "/no/such/file.md", Plain: true, Interactive: true, HistoryCap: 50, Stdout: &out, Stderr: &errOut})

	require.NotEqual(t, 0, code)
	require.Contains(t, errOut.String(), "argument-conflict")
}

func TestRunPlainOutputMatchesRenderedPlainLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	src := []byte("# Heading\n\nSome paragraph text.\n")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	table := chromaTableForTest()
	doc, err := render.Render(src, table)
	require.NoError(t, err)

	var out bytes.Buffer
	code := runPlain(doc, &out)
	require.Equal(t, 0, code)

	expected := ""
	for i, l := range doc.Lines {
		if i > 0 {
			expected += "\n"
		}
		expected += l.Plain
	}
	require.Equal(t, expected, out.String())
}

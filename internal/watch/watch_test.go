package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# hello"), 0o644))

	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	signals, err := w.Start(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("# hello world"), 0o644))

	select {
	case <-signals:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload signal")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(path, []byte("# hello"), 0o644))

	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	signals, err := w.Start(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))

	select {
	case <-signals:
		t.Fatal("unexpected reload signal for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseStopsPump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# hello"), 0o644))

	w, err := New()
	require.NoError(t, err)

	_, err = w.Start(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func TestScanDirectoryDefaults(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"a.pdf",
		"sub/b.PNG",
		"sub/c.docx",
		"notes.txt",
	)

	paths, stats, err := ScanDirectory(root, nil, true)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(root, "a.pdf"), paths[0])
	assert.Equal(t, filepath.Join(root, "sub", "b.PNG"), paths[1])
	assert.Equal(t, uint32(2), stats.Matched)
}

func TestScanDirectoryExplicitExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.pdf", "b.txt", "c.jpg")

	paths, _, err := ScanDirectory(root, []string{".TXT", "pdf"}, true)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(root, "a.pdf"), paths[0])
	assert.Equal(t, filepath.Join(root, "b.txt"), paths[1])
}

func TestScanDirectorySkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"visible.pdf",
		".hidden.pdf",
		".cache/inside.pdf",
	)

	paths, _, err := ScanDirectory(root, nil, true)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(root, "visible.pdf"), paths[0])

	// Hidden entries are included when skipHidden is off.
	paths, _, err = ScanDirectory(root, nil, false)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestScanDirectoryEmptyRoot(t *testing.T) {
	_, _, err := ScanDirectory("  ", nil, true)
	assert.Error(t, err)
}

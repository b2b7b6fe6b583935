package corpus

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abstract.txt")
	writeFile(t, path, "BRAF p.V600E was found.\n")

	r, err := Open(path)
	require.NoError(t, err)
	docs, err := ReadAll(r)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "abstract.txt", docs[0].ID)
	assert.Equal(t, path, docs[0].Path)
	assert.Equal(t, "BRAF p.V600E was found.\n", docs[0].Text)
}

func TestOpen_GzipDetectedByContent(t *testing.T) {
	// No .gz suffix; detection uses the magic bytes.
	path := filepath.Join(t.TempDir(), "abstract.txt")
	writeGzip(t, path, "KRAS G12C mutation")

	r, err := Open(path)
	require.NoError(t, err)
	docs, err := ReadAll(r)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "KRAS G12C mutation", docs[0].Text)
}

func TestOpen_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	writeFile(t, path, "")

	r, err := Open(path)
	require.NoError(t, err)
	docs, err := ReadAll(r)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Text)
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "second")
	writeGzip(t, filepath.Join(dir, "c.txt.gz"), "third")
	writeFile(t, filepath.Join(dir, "a.txt"), "first")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	r, err := Open(dir)
	require.NoError(t, err)
	docs, err := ReadAll(r)
	require.NoError(t, err)

	var ids, texts []string
	for _, d := range docs {
		ids = append(ids, d.ID)
		texts = append(texts, d.Text)
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt.gz"}, ids)
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.txt")
	writeFile(t, path, "# header\nc.677C>T\n\n  p.Val600Glu  \nrs1234\n")

	r, err := OpenLines(path)
	require.NoError(t, err)
	docs, err := ReadAll(r)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "c.677C>T", docs[0].Text)
	assert.Equal(t, "variants.txt:2", docs[0].ID)
	assert.Equal(t, "p.Val600Glu", docs[1].Text)
	assert.Equal(t, "variants.txt:4", docs[1].ID)
	assert.Equal(t, "rs1234", docs[2].Text)
}

func TestOpenLines_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.txt.gz")
	writeGzip(t, path, "c.677C>T\nrs1234\n")

	r, err := OpenLines(path)
	require.NoError(t, err)
	docs, err := ReadAll(r)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "rs1234", docs[1].Text)
}

func TestSingleReader_NextAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "x")

	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	d, err := r.Next()
	require.NoError(t, err)
	assert.Nil(t, d)
}

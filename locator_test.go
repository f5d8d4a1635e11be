package corpora

import (
	"archive/zip"
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, fsys afero.Fs, path string, entries map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, afero.WriteFile(fsys, path, buf.Bytes(), 0o644))
}

func TestPathLocatorFindsPlainResource(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys,
		"/data/corpora/sample-corpus/words.txt", []byte("alpha\n"), 0o644))

	locator := NewPathLocator(fsys, []string{"/missing", "/data"})
	root, err := locator.Find("corpora/sample-corpus")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "corpora", "sample-corpus"), root)
}

func TestPathLocatorMissReportsSearchedDirs(t *testing.T) {
	locator := NewPathLocator(afero.NewMemMapFs(), []string{"/a", "/b"})

	_, err := locator.Find("corpora/nope")
	require.Error(t, err)
	var notFound *ResourceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "corpora/nope", notFound.Resource)
	assert.Equal(t, []string{"/a", "/b"}, notFound.Searched)
	assert.Contains(t, err.Error(), "install it")
	assert.Contains(t, err.Error(), "/b")
}

func TestPathLocatorFindsZipEntry(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeZip(t, fsys, "/data/corpora/abc.zip", map[string]string{
		"abc/def/words.txt": "alpha\nbeta\n",
	})

	locator := NewPathLocator(fsys, []string{"/data"})
	root, err := locator.Find("corpora/abc.zip/abc/def/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "corpora", "abc.zip", "abc", "def"), root)

	_, err = locator.Find("corpora/abc.zip/abc/ghi/")
	var notFound *ResourceNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestPathLocatorZipContainerOnly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeZip(t, fsys, "/data/corpora/abc.zip", map[string]string{
		"abc/words.txt": "alpha\n",
	})

	locator := NewPathLocator(fsys, []string{"/data"})
	root, err := locator.Find("corpora/abc.zip")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "corpora", "abc.zip"), root)
}

func TestOpenRootPlainDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys,
		"/data/corpora/sample-corpus/words.txt", []byte("alpha\n"), 0o644))

	dir, err := OpenRoot(fsys, "/data/corpora/sample-corpus")
	require.NoError(t, err)
	data, err := afero.ReadFile(dir, "words.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", string(data))
}

func TestOpenRootThroughZip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeZip(t, fsys, "/data/corpora/abc.zip", map[string]string{
		"abc/def/words.txt": "alpha\nbeta\n",
	})

	dir, err := OpenRoot(fsys, "/data/corpora/abc.zip/abc/def")
	require.NoError(t, err)
	data, err := afero.ReadFile(dir, "words.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\n", string(data))
}

func TestOpenRootMissingArchive(t *testing.T) {
	_, err := OpenRoot(afero.NewMemMapFs(), "/data/corpora/abc.zip/abc")
	require.Error(t, err)
}

func TestDefaultSearchPathHonorsEnv(t *testing.T) {
	t.Setenv("CORPORA_DATA", "/first"+string(filepath.ListSeparator)+"/second")

	dirs := DefaultSearchPath()
	require.GreaterOrEqual(t, len(dirs), 2)
	assert.Equal(t, "/first", dirs[0])
	assert.Equal(t, "/second", dirs[1])
}

func TestPathLocatorOnDisk(t *testing.T) {
	base := t.TempDir()
	fsys := afero.NewOsFs()
	require.NoError(t, fsys.MkdirAll(filepath.Join(base, "corpora", "sample-corpus"), 0o755))
	require.NoError(t, afero.WriteFile(fsys,
		filepath.Join(base, "corpora", "sample-corpus", "words.txt"), []byte("alpha\n"), 0o644))

	locator := NewPathLocator(fsys, []string{base})
	root, err := locator.Find("corpora/sample-corpus")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "corpora", "sample-corpus"), root)
}

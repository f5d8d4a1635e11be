package corpora

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/afero/zipfs"
)

// DefaultSearchPath returns the data directories searched by the default
// locator: entries of the CORPORA_DATA environment variable first, then the
// user's home directory, then shared system locations.
func DefaultSearchPath() []string {
	var dirs []string
	if env := os.Getenv("CORPORA_DATA"); env != "" {
		for _, dir := range filepath.SplitList(env) {
			if dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "corpora_data"))
	}
	dirs = append(dirs,
		"/usr/share/corpora_data",
		"/usr/local/share/corpora_data",
		"/usr/lib/corpora_data",
		"/usr/local/lib/corpora_data",
	)
	return dirs
}

// PathLocator resolves resource paths against a list of data directories on
// a filesystem. Resources may pass through a zip container: a candidate like
// "corpora/abc.zip/abc/def/" matches when a directory entry "abc/def" exists
// inside an "abc.zip" found under one of the data directories.
type PathLocator struct {
	fsys afero.Fs
	path []string
}

// NewPathLocator creates a locator over fsys searching dirs in order.
func NewPathLocator(fsys afero.Fs, dirs []string) *PathLocator {
	return &PathLocator{
		fsys: fsys,
		path: append([]string(nil), dirs...),
	}
}

// SearchPath returns a snapshot of the searched directories.
func (l *PathLocator) SearchPath() []string {
	return append([]string(nil), l.path...)
}

// Find resolves a slash-separated resource path to an absolute location.
// A miss in every data directory returns *ResourceNotFoundError.
func (l *PathLocator) Find(resource string) (string, error) {
	if idx := strings.Index(resource, ".zip/"); idx >= 0 {
		return l.findInZip(resource[:idx+4], strings.Trim(resource[idx+5:], "/"))
	}

	for _, dir := range l.path {
		candidate := filepath.Join(dir, filepath.FromSlash(resource))
		ok, err := afero.Exists(l.fsys, candidate)
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", candidate, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", &ResourceNotFoundError{Resource: resource, Searched: l.SearchPath()}
}

func (l *PathLocator) findInZip(container, entry string) (string, error) {
	resource := container
	if entry != "" {
		resource = container + "/" + entry
	}

	for _, dir := range l.path {
		zipPath := filepath.Join(dir, filepath.FromSlash(container))
		ok, err := afero.Exists(l.fsys, zipPath)
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", zipPath, err)
		}
		if !ok {
			continue
		}

		found, err := l.zipHasEntry(zipPath, entry)
		if err != nil {
			return "", err
		}
		if found {
			return filepath.Join(zipPath, filepath.FromSlash(entry)), nil
		}
	}
	return "", &ResourceNotFoundError{Resource: resource, Searched: l.SearchPath()}
}

func (l *PathLocator) zipHasEntry(zipPath, entry string) (bool, error) {
	if entry == "" {
		return true, nil
	}
	f, err := l.fsys.Open(zipPath)
	if err != nil {
		return false, fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat archive %s: %w", zipPath, err)
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		return false, fmt.Errorf("read archive %s: %w", zipPath, err)
	}
	return afero.Exists(zipfs.New(zr), "/"+entry)
}

// OpenRoot opens a locator-resolved root as a filesystem scoped to that
// root. Plain directory roots become a base-path view of fsys; roots that
// pass through a zip container become a view inside the archive. The backing
// archive file, if any, stays open for the life of the returned filesystem.
func OpenRoot(fsys afero.Fs, root string) (afero.Fs, error) {
	norm := filepath.ToSlash(root)
	idx := strings.Index(norm, ".zip/")
	if idx < 0 {
		if strings.HasSuffix(norm, ".zip") {
			idx = len(norm) - len(".zip")
		} else {
			return afero.NewBasePathFs(fsys, root), nil
		}
	}

	zipPath := root[:idx+len(".zip")]
	f, err := fsys.Open(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive %s: %w", zipPath, err)
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read archive %s: %w", zipPath, err)
	}

	zfs := zipfs.New(zr)
	entry := strings.Trim(norm[idx+len(".zip"):], "/")
	if entry == "" {
		return zfs, nil
	}
	return afero.NewBasePathFs(zfs, "/"+entry), nil
}

// Package reader provides concrete corpus readers usable as Handle
// constructors. The readers open their root through corpora.OpenRoot, so the
// same reader works on plain directories and zip-packaged corpora.
package reader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/timgates42/corpora"
)

// WordList is a corpus of newline-separated word files. All files are read
// eagerly at construction time; that cost is exactly what a lazy Handle
// defers.
type WordList struct {
	root  string
	files []string
	words []string
}

// NewWordList reads the named word files under root. With no files given,
// every regular file directly under root is read. Files are read in sorted
// name order.
func NewWordList(fsys afero.Fs, root string, files ...string) (*WordList, error) {
	dir, err := corpora.OpenRoot(fsys, root)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		files, err = listFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("list corpus %s: %w", root, err)
		}
	} else {
		files = append([]string(nil), files...)
		sort.Strings(files)
	}

	w := &WordList{root: root, files: files}
	for _, file := range files {
		data, err := afero.ReadFile(dir, file)
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w", file, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				w.words = append(w.words, line)
			}
		}
	}
	return w, nil
}

// Constructor adapts NewWordList to a handle constructor over fsys. String
// construction arguments select the word files to read.
func Constructor(fsys afero.Fs) corpora.Constructor[*WordList] {
	return func(root string, args ...any) (*WordList, error) {
		files := make([]string, 0, len(args))
		for _, arg := range args {
			file, ok := arg.(string)
			if !ok {
				return nil, fmt.Errorf("wordlist argument must be a file name, got %T", arg)
			}
			files = append(files, file)
		}
		return NewWordList(fsys, root, files...)
	}
}

// Words returns every word in the corpus, in file order.
func (w *WordList) Words() []string {
	return w.words
}

// Files returns the word file names that make up the corpus.
func (w *WordList) Files() []string {
	return w.files
}

// Count returns the number of words in the corpus.
func (w *WordList) Count() int {
	return len(w.words)
}

func (w *WordList) String() string {
	return fmt.Sprintf("<WordList in %q with %d words>", w.root, len(w.words))
}

func listFiles(dir afero.Fs) ([]string, error) {
	entries, err := afero.ReadDir(dir, "/")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

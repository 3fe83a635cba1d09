package engine

import (
	"path/filepath"

	"github.com/PatxiBS/ud2-storageFork/internal/storage"
)

// Maps an absolute event path to a file name of the namespace.
// Paths outside the root, nested paths and reserved temp names are rejected.
func (w *Watcher) fileName(absPath string) (string, bool) {
	cleanPath := filepath.Clean(absPath)
	if filepath.Dir(cleanPath) != w.rootPath {
		return "", false
	}
	name := filepath.Base(cleanPath)
	if storage.ValidateName(name) != nil {
		return "", false
	}
	return name, true
}

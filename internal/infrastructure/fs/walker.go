package fs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kernelforge/kernel/internal/ports"
)

// Walker implements ports.DirectoryIterator by recursively walking the
// real filesystem beneath a root directory.
type Walker struct{}

// NewWalker constructs a Walker. It holds no state.
func NewWalker() *Walker { return &Walker{} }

var _ ports.DirectoryIterator = (*Walker)(nil)

// Walk visits every regular file reachable from root. A root that does not
// exist yet is treated as empty rather than an error, since the plugin
// directory may not have been created before the first scan.
func (w *Walker) Walk(root string, fn func(path string) error) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(path)
	})
}

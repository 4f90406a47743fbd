package fs

import (
	"path/filepath"

	"github.com/kernelforge/kernel/internal/ports"
)

// StorageManager resolves the kernel's on-disk layout beneath a single
// base directory: configDir for persisted documents, dataDir for
// discovered plugin manifests and libraries.
type StorageManager struct {
	configDir string
	dataDir   string
}

// NewStorageManager constructs a StorageManager rooted at base, with
// configuration under base/config and data under base/data.
func NewStorageManager(base string) *StorageManager {
	return &StorageManager{
		configDir: filepath.Join(base, "config"),
		dataDir:   filepath.Join(base, "data"),
	}
}

var _ ports.StorageManager = (*StorageManager)(nil)

func (s *StorageManager) ConfigDir() string { return s.configDir }
func (s *StorageManager) DataDir() string   { return s.dataDir }

// Resolve joins relative beneath the directory named by scope.
func (s *StorageManager) Resolve(scope ports.ConfigScope, relative string) string {
	return filepath.Join(s.configDir, string(scope), relative)
}

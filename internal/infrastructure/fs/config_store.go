// Package fs implements the filesystem-backed adapters for the kernel's
// storage and configuration collaborators: a ConfigStore that persists
// small JSON documents with atomic write-then-rename, a StorageManager
// that resolves config/ and data/ directories beneath one base directory,
// and a DirectoryIterator that walks
// the real filesystem.
package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kernelforge/kernel/internal/ports"
)

// ConfigStore persists named configuration documents as JSON files under a
// root directory, one subdirectory per scope. Writes are atomic: the new
// document is written to a temporary file and renamed over the target,
// so a crash mid-write never leaves a half-written document behind.
type ConfigStore struct {
	mu   sync.Mutex
	root string
}

// NewConfigStore constructs a ConfigStore rooted at root. root is created
// on first write if it does not already exist.
func NewConfigStore(root string) *ConfigStore {
	return &ConfigStore{root: root}
}

var _ ports.ConfigStore = (*ConfigStore)(nil)

func (s *ConfigStore) pathFor(name string, scope ports.ConfigScope) string {
	return filepath.Join(s.root, string(scope), name+".json")
}

// Read returns the document stored under name in scope, or an empty map if
// no document has been written yet.
func (s *ConfigStore) Read(name string, scope ports.ConfigScope) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pathFor(name, scope))
	if os.IsNotExist(err) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config store: read %q/%q: %w", scope, name, err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config store: parse %q/%q: %w", scope, name, err)
	}
	return doc, nil
}

// Write persists values under name in scope, replacing any prior contents.
func (s *ConfigStore) Write(name string, scope ports.ConfigScope, values map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(name, scope)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config store: create directory for %q/%q: %w", scope, name, err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("config store: marshal %q/%q: %w", scope, name, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("config store: write temp file for %q/%q: %w", scope, name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("config store: rename temp file for %q/%q: %w", scope, name, err)
	}
	return nil
}

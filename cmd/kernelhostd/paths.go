package main

import (
	"os"
	"path/filepath"
)

// defaultBaseDir resolves the directory the host's storage manager roots
// itself at: ~/.kernelhostd, with config/ and data/ subdirectories beneath
// it for persisted plugin settings and discovered manifests respectively.
func defaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kernelhostd"), nil
}

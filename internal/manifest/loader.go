package manifest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kernelforge/kernel/internal/ports"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// manifestExtensions lists the file extensions the loader treats as
// manifest candidates; anything else is skipped silently during a scan.
var manifestExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// Loader scans directories for manifest files, parses and validates each,
// and reports duplicate ids across the scanned set.
type Loader struct {
	walker ports.DirectoryIterator
}

// NewLoader constructs a Loader that walks directories via walker.
func NewLoader(walker ports.DirectoryIterator) *Loader {
	return &Loader{walker: walker}
}

// FileError pairs a manifest file path with the error encountered parsing
// or validating it. A per-file error never aborts the scan.
type FileError struct {
	Path string
	Err  error
}

// Scan walks every directory in dirs, parses every manifest candidate file
// it finds, and returns the set of valid manifests plus one FileError per
// file that failed to parse or validate. Duplicate ids across the full
// scanned set are reported as FileErrors wrapping ErrDuplicateID, one for
// every file that declares the id, and none of those manifests is returned.
func (l *Loader) Scan(dirs []string) ([]Manifest, []FileError) {
	var manifests []Manifest
	var fileErrs []FileError

	for _, dir := range dirs {
		err := l.walker.Walk(dir, func(path string) error {
			if !manifestExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			m, err := parseFile(path)
			if err != nil {
				fileErrs = append(fileErrs, FileError{Path: path, Err: err})
				return nil
			}
			manifests = append(manifests, m)
			return nil
		})
		if err != nil {
			fileErrs = append(fileErrs, FileError{Path: dir, Err: err})
		}
	}

	manifests, dupErrs := dedupeByID(manifests)
	fileErrs = append(fileErrs, dupErrs...)

	sort.Slice(manifests, func(i, j int) bool { return manifests[i].ID < manifests[j].ID })
	return manifests, fileErrs
}

func dedupeByID(manifests []Manifest) ([]Manifest, []FileError) {
	byID := make(map[string][]Manifest, len(manifests))
	for _, m := range manifests {
		byID[m.ID] = append(byID[m.ID], m)
	}

	var kept []Manifest
	var errs []FileError
	for id, group := range byID {
		if len(group) == 1 {
			kept = append(kept, group[0])
			continue
		}
		paths := make([]string, 0, len(group))
		for _, m := range group {
			paths = append(paths, m.SourcePath)
		}
		sort.Strings(paths)
		for _, m := range group {
			errs = append(errs, FileError{Path: m.SourcePath, Err: ErrDuplicateID{ID: id, Paths: paths}})
		}
	}
	return kept, errs
}

func parseFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, ErrParse{Path: path, Cause: err}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, ErrParse{Path: path, Cause: err}
	}

	if err := validatorInstance().Struct(m); err != nil {
		return Manifest{}, ErrInvalid{Path: path, Cause: err}
	}

	m.BaseDir = filepath.Dir(path)
	m.SourcePath = path
	return m, nil
}

func joinPath(base, relative string) string {
	if relative == "" {
		return base
	}
	return filepath.Join(base, relative)
}

// Package manifest implements the manifest loader: it scans one or more
// directories for plugin description files, parses each as YAML, and
// validates the result with struct tags.
package manifest

// Dependency is a declared dependency on another plugin id, optionally
// constrained to a version range.
type Dependency struct {
	ID       string `yaml:"id" validate:"required"`
	Range    string `yaml:"range,omitempty"`
	Required bool   `yaml:"required"`
}

// Incompatibility is a declared incompatibility with another plugin id
// whenever that plugin's version satisfies Range.
type Incompatibility struct {
	ID    string `yaml:"id" validate:"required"`
	Range string `yaml:"range" validate:"required"`
}

// ResourceAccess is the access mode a plugin claims over a resource.
type ResourceAccess string

const (
	AccessExclusiveWrite   ResourceAccess = "ExclusiveWrite"
	AccessSharedRead       ResourceAccess = "SharedRead"
	AccessProvidesUniqueID ResourceAccess = "ProvidesUniqueId"
)

// Resource is a single resource claim: a (type, id) pair plus the access
// mode the plugin requests over it.
type Resource struct {
	Type   string         `yaml:"type" validate:"required"`
	ID     string         `yaml:"id" validate:"required"`
	Access ResourceAccess `yaml:"access" validate:"required,oneof=ExclusiveWrite SharedRead ProvidesUniqueId"`
}

// StageRequirementKind names how a plugin relates to a lifecycle stage.
type StageRequirementKind string

const (
	StageRequired StageRequirementKind = "required"
	StageOptional StageRequirementKind = "optional"
	StageProvided StageRequirementKind = "provides"
)

// StageRequirement declares a plugin's relationship to a named stage.
type StageRequirement struct {
	StageID string               `yaml:"stage_id" validate:"required"`
	Kind    StageRequirementKind `yaml:"kind" validate:"required,oneof=required optional provides"`
}

// Manifest is the declarative record a manifest file parses into. BaseDir
// is populated by the loader, not read from the file itself; EntryPoint and
// Files are resolved relative to it.
type Manifest struct {
	ID                        string             `yaml:"id" validate:"required"`
	Name                      string             `yaml:"name" validate:"required"`
	Version                   string             `yaml:"version" validate:"required"`
	Description               string             `yaml:"description"`
	EntryPoint                string             `yaml:"entry_point" validate:"required"`
	CompatibleHostAPIVersions []string           `yaml:"compatible_host_api_versions" validate:"required,min=1"`
	Dependencies              []Dependency       `yaml:"dependencies,omitempty" validate:"dive"`
	ConflictsWith             []string           `yaml:"conflicts_with,omitempty"`
	IncompatibleWith          []Incompatibility  `yaml:"incompatible_with,omitempty" validate:"dive"`
	Resources                 []Resource         `yaml:"resources,omitempty" validate:"dive"`
	StageRequirements         []StageRequirement `yaml:"stage_requirements,omitempty" validate:"dive"`
	Priority                  string             `yaml:"priority,omitempty"`
	IsCore                    bool               `yaml:"is_core,omitempty"`
	Tags                      []string           `yaml:"tags,omitempty"`
	Files                     []string           `yaml:"files,omitempty"`

	// BaseDir is the directory the manifest file was found in. EntryPoint
	// and every path in Files are relative to it.
	BaseDir string `yaml:"-"`
	// SourcePath is the manifest file's own path, kept for diagnostics.
	SourcePath string `yaml:"-"`
}

// EntryPointPath returns the entry point resolved against BaseDir.
func (m Manifest) EntryPointPath() string {
	return joinPath(m.BaseDir, m.EntryPoint)
}

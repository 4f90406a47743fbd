// Package reposync is a sample statically linked plugin: it clones or
// updates a single git repository, exercising go-git and the kernel's
// ExclusiveWrite resource claim on its destination directory.
package reposync

import (
	"context"
	"fmt"

	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/stage"
)

// ID is this plugin's registry identity and stage id prefix.
const ID = "reposync"

// StageID is the stage this plugin provides.
const StageID = ID + ".sync"

// Plugin syncs Config.Destination against Config.URL each time StageID
// runs.
type Plugin struct {
	cfg Config
}

// New constructs the plugin. Environment overrides (REPOSYNC_URL,
// REPOSYNC_DESTINATION, REPOSYNC_BRANCH, REPOSYNC_DEPTH) take precedence
// over cfg, so a deployment can point an already-built binary at a
// different repository without recompiling it.
func New(cfg Config) *Plugin {
	return &Plugin{cfg: cfg.withEnvOverrides()}
}

var _ plugin.Plugin = (*Plugin)(nil)

func (p *Plugin) ID() string          { return ID }
func (p *Plugin) DisplayName() string { return "Repository Sync" }

func (p *Plugin) PluginVersion() plugin.Version { return plugin.MustParseVersion("1.0.0") }

func (p *Plugin) IsCore() bool { return false }

func (p *Plugin) Priority() plugin.Priority { return plugin.DefaultThirdParty }

func (p *Plugin) CompatibleHostAPIVersions() []plugin.Range {
	return []plugin.Range{plugin.MustParseRange("^1.0")}
}

func (p *Plugin) Dependencies() []plugin.Dependency { return nil }

func (p *Plugin) ConflictsWith() []string { return nil }

func (p *Plugin) IncompatibleWith() []plugin.Incompatibility { return nil }

func (p *Plugin) StageRequirements() []plugin.StageRequirement {
	return []plugin.StageRequirement{{StageID: StageID, Kind: plugin.StageProvided}}
}

func (p *Plugin) ResourceClaims() []plugin.ResourceClaim {
	return []plugin.ResourceClaim{{Type: "filesystem", ID: p.cfg.Destination, Access: plugin.ExclusiveWrite}}
}

// PreflightCheck validates the configuration without touching the
// filesystem or network.
func (p *Plugin) PreflightCheck(ctx context.Context) error {
	if p.cfg.URL == "" {
		return fmt.Errorf("reposync: url is required")
	}
	if p.cfg.Destination == "" {
		return fmt.Errorf("reposync: destination is required")
	}
	return nil
}

// Init acquires no services; the repository is synced lazily when StageID
// runs, not eagerly at plugin init.
func (p *Plugin) Init(ctx context.Context, app plugin.Application) error { return nil }

func (p *Plugin) RegisterStages(ctx context.Context, registry *stage.Registry) error {
	return registry.Register(&syncStage{cfg: p.cfg})
}

// Shutdown has nothing to release: the plugin holds no open handles
// between stage runs.
func (p *Plugin) Shutdown(ctx context.Context) error { return nil }

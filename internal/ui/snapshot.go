package ui

// PluginStatus is one row in the plugin list: an id and its current
// lifecycle state, rendered as returned by plugin.State.String().
type PluginStatus struct {
	ID    string
	State string
}

// HistoryEntry is one past stage execution or plugin transition, kept in
// the order it was observed.
type HistoryEntry struct {
	Kind   string
	Detail string
}

// Snapshot is the immutable read model the bridge hands the bubbletea
// program each time it refreshes. The program never reaches back into the
// registries itself; it only ever renders the snapshot it was last given.
type Snapshot struct {
	Components []string
	Plugins    []PluginStatus
	History    []HistoryEntry
}

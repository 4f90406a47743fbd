package ui

// refreshMsg carries a freshly built snapshot into the bubbletea program.
// The bridge sends one whenever a subscribed plugin.* or stage.* event
// arrives, from a new goroutine rather than the dispatcher's calling one.
type refreshMsg struct {
	snapshot Snapshot
}

// quitMsg requests the program exit its Update/View loop. Stop sends this
// instead of killing the goroutine directly, so the model gets a chance to
// settle (and so the same shutdown path works whether the quit originates
// from the keyboard or from the host).
type quitMsg struct{}

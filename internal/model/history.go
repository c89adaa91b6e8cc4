package model

// maxHistory caps the number of retained snapshots. When the cap is hit the
// oldest snapshot is dropped.
const maxHistory = 50

// History is a linear undo/redo stack over layout snapshots. Every mutating
// user action commits exactly one snapshot; transient mid-gesture states are
// never recorded.
type History struct {
	snapshots []*Layout
	index     int
}

// NewHistory creates a history seeded with the initial layout state.
func NewHistory(initial *Layout) *History {
	return &History{
		snapshots: []*Layout{initial.Clone()},
		index:     0,
	}
}

// Commit records a deep copy of the layout as the newest snapshot,
// discarding any redo entries beyond the current position.
func (h *History) Commit(l *Layout) {
	h.snapshots = append(h.snapshots[:h.index+1], l.Clone())
	h.index++

	if len(h.snapshots) > maxHistory {
		drop := len(h.snapshots) - maxHistory
		h.snapshots = h.snapshots[drop:]
		h.index -= drop
	}
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool {
	return h.index < len(h.snapshots)-1
}

// Undo steps back one snapshot and returns a deep copy of it, so later
// edits cannot mutate the stored history. Returns nil, false when already
// at the oldest snapshot.
func (h *History) Undo() (*Layout, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return h.snapshots[h.index].Clone(), true
}

// Redo steps forward one snapshot. Returns nil, false when already at the
// newest snapshot.
func (h *History) Redo() (*Layout, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return h.snapshots[h.index].Clone(), true
}

// Depth returns the number of stored snapshots.
func (h *History) Depth() int {
	return len(h.snapshots)
}

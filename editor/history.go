package editor

import "github.com/DomEscobar/PDF-Simple/annotation"

// Snapshot is the complete annotation list at one point in time. Snapshots
// are the unit of undo/redo: commands never mutate a snapshot in place, they
// build a fresh slice and hand it to History.Push. Annotation values inside a
// snapshot are shared structurally across history entries; Update replaces
// the whole object, so shared values are never written to.
type Snapshot []annotation.Annotation

// History holds the linear undo/redo state. Present always reflects the most
// recently pushed snapshot; past and future never overlap in time.
type History struct {
	past    []Snapshot
	present Snapshot
	future  []Snapshot
}

// Present returns the current snapshot.
func (h *History) Present() Snapshot { return h.present }

// Push records a new present snapshot. The prior present moves onto the past
// stack and any redo entries are discarded.
func (h *History) Push(next Snapshot) {
	h.past = append(h.past, h.present)
	h.present = next
	h.future = nil
}

// Undo moves present back by one entry. It reports false when there is no
// history to unwind.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]Snapshot{h.present}, h.future...)
	h.present = last
	return true
}

// Redo reapplies the most recently undone entry. It reports false when there
// is nothing to redo.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return true
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth reports the number of entries available for undo and redo.
func (h *History) Depth() (past, future int) {
	return len(h.past), len(h.future)
}

package layout

import "github.com/matzehuels/rangedeck/pkg/grid"

// MaxHistory is the number of arrangements kept for undo.
const MaxHistory = 20

// PushHistory returns history with snapshot appended, dropping the oldest
// entries beyond MaxHistory. The snapshot is copied.
func PushHistory(history []grid.Slots, snapshot grid.Slots) []grid.Slots {
	out := make([]grid.Slots, 0, min(len(history)+1, MaxHistory))
	start := 0
	if len(history)+1 > MaxHistory {
		start = len(history) + 1 - MaxHistory
	}
	for _, h := range history[start:] {
		out = append(out, h.Clone())
	}
	snap := snapshot.Clone()
	if snap == nil {
		snap = grid.Slots{}
	}
	return append(out, snap)
}

// PopHistory removes the most recent snapshot. ok is false when history is
// empty.
func PopHistory(history []grid.Slots) (rest []grid.Slots, top grid.Slots, ok bool) {
	if len(history) == 0 {
		return history, nil, false
	}
	n := len(history) - 1
	rest = make([]grid.Slots, n)
	copy(rest, history[:n])
	return rest, history[n].Clone(), true
}

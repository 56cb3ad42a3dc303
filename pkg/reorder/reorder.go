// Package reorder implements grid-mode rearrangement of a comparison.
//
// There are two layers:
//
//   - Pure slot-list operations ([MoveToEmpty], [Insert]) that compute a new
//     arrangement from a drop.
//   - State operations ([Commit], [Undo], [Adjust], [Reset], [ApplyPreset])
//     that turn an arrangement into a new [layout.State], maintaining the
//     bounded undo history and the column override.
//
// A [Gesture] ties the two together for one drag: it records what the pointer
// is over and resolves the drop against that record.
//
// # Insertion
//
// Dropping onto an occupied cell inserts into the compacted list (all items,
// source removed). Left and right insert before or after the target. Top and
// bottom work on rows: top inserts at the start of the target's row and bottom
// at the start of the next row.
//
//	order := grid.Slots{"A", "B", "C", "D"}
//	next, _ := reorder.Insert(order, "D", "B", grid.SideBottom, 2)
//	// next = [A B D C]
package reorder

import (
	"errors"

	"github.com/matzehuels/rangedeck/pkg/grid"
)

// Sentinel errors for unresolvable gestures. They never indicate data loss;
// callers treat them as a no-op.
var (
	// ErrSourceNotFound is returned when the dragged item is not in the order.
	ErrSourceNotFound = errors.New("drag source not found")

	// ErrTargetNotFound is returned when the drop index does not match the
	// slot the pointer was last over.
	ErrTargetNotFound = errors.New("drop target not found")
)

// MoveToEmpty moves source into the empty slot at index and leaves an empty
// slot where it was. index may lie past the end of order (in display
// padding); the order grows to reach it. The result is trimmed.
func MoveToEmpty(order grid.Slots, source string, index int) (grid.Slots, error) {
	from := order.IndexOf(source)
	if from < 0 {
		return nil, ErrSourceNotFound
	}
	if index < 0 || order.At(index) != grid.Empty {
		return nil, ErrTargetNotFound
	}
	size := max(len(order), index+1)
	next := make(grid.Slots, size)
	copy(next, order)
	next[from] = grid.Empty
	next[index] = source
	return grid.Trim(next), nil
}

// Insert removes source from the compacted order and inserts it next to
// target according to side. cols is the effective column count used for
// top/bottom row math; values below 1 are treated as 1. The insertion index
// is clamped to the end of the list.
func Insert(order grid.Slots, source, target string, side grid.Side, cols int) (grid.Slots, error) {
	if order.IndexOf(source) < 0 {
		return nil, ErrSourceNotFound
	}
	if target == source || target == grid.Empty {
		return nil, ErrTargetNotFound
	}
	if cols < 1 {
		cols = 1
	}

	base := make(grid.Slots, 0, len(order))
	for _, id := range grid.Compact(order) {
		if id != source {
			base = append(base, id)
		}
	}

	anchor := base.IndexOf(target)
	if anchor < 0 {
		return nil, ErrTargetNotFound
	}

	at := anchor
	switch side {
	case grid.SideRight:
		at = anchor + 1
	case grid.SideLeft:
		at = anchor
	case grid.SideTop:
		at = (anchor / cols) * cols
	case grid.SideBottom:
		at = (anchor/cols + 1) * cols
	default:
		return nil, ErrTargetNotFound
	}
	at = min(at, len(base))

	next := make(grid.Slots, 0, len(base)+1)
	next = append(next, base[:at]...)
	next = append(next, source)
	next = append(next, base[at:]...)
	return grid.Trim(next), nil
}

package reorder

import "github.com/matzehuels/rangedeck/pkg/grid"

// Target is an occupied drop target: the slot index, the item that was in
// it when the pointer arrived and the side the pointer is on.
type Target struct {
	Index int       `json:"index"`
	Item  string    `json:"item"`
	Side  grid.Side `json:"side"`
}

// Gesture is the drag state machine for one pointer:
//
//	idle → dragging → over-empty | over-item(side) | outside → idle
//
// The zero value is idle. A Gesture is not safe for concurrent use.
type Gesture struct {
	source    string
	overEmpty int // -1 when not over an empty slot
	target    *Target
}

// Start begins a drag of source, discarding any previous drag.
func (g *Gesture) Start(source string) {
	g.source = source
	g.overEmpty = -1
	g.target = nil
}

// Dragging reports whether a drag is in progress.
func (g *Gesture) Dragging() bool { return g.source != "" }

// Source returns the dragged item, or "" when idle.
func (g *Gesture) Source() string { return g.source }

// OverEmptyIndex returns the empty slot the pointer is over, if any.
func (g *Gesture) OverEmptyIndex() (int, bool) {
	if !g.Dragging() || g.overEmpty < 0 {
		return -1, false
	}
	return g.overEmpty, true
}

// Target returns the occupied target the pointer is over, if any.
func (g *Gesture) Target() (Target, bool) {
	if !g.Dragging() || g.target == nil {
		return Target{}, false
	}
	return *g.target, true
}

// OverEmpty records that the pointer is over the empty slot at index and
// clears any directional target.
func (g *Gesture) OverEmpty(index int) {
	if !g.Dragging() {
		return
	}
	g.overEmpty = index
	g.target = nil
}

// OverItem records that the pointer is over item at index on the given side.
// Hovering the dragged item itself clears both targets.
func (g *Gesture) OverItem(index int, item string, side grid.Side) {
	if !g.Dragging() {
		return
	}
	g.overEmpty = -1
	if item == g.source || item == grid.Empty {
		g.target = nil
		return
	}
	g.target = &Target{Index: index, Item: item, Side: side}
}

// Over classifies the pointer at (x, y) against the cell at index of slots,
// whose bounding box is rect, and records the result.
func (g *Gesture) Over(slots grid.Slots, index int, x, y float64, rect grid.Rect) {
	item := slots.At(index)
	if item == grid.Empty {
		g.OverEmpty(index)
		return
	}
	g.OverItem(index, item, grid.ClassifyDrop(x, y, rect))
}

// Leave clears both targets; the drag continues.
func (g *Gesture) Leave() {
	g.overEmpty = -1
	g.target = nil
}

// Cancel returns the gesture to idle.
func (g *Gesture) Cancel() {
	g.source = ""
	g.Leave()
}

// Drop resolves the drag against order at index and returns the new,
// trimmed order. The gesture is idle afterwards whatever the outcome.
func (g *Gesture) Drop(order grid.Slots, index, cols int) (grid.Slots, error) {
	defer g.Cancel()
	return g.Resolve(order, index, cols)
}

// Resolve computes the order a drop at index would produce without ending
// the drag. order may differ from the one the pointer moved over: index must
// lie within the display slots of order, and an item target must still hold
// the item that was hovered, otherwise ErrTargetNotFound is returned.
func (g *Gesture) Resolve(order grid.Slots, index, cols int) (grid.Slots, error) {
	if !g.Dragging() || order.IndexOf(g.source) < 0 {
		return nil, ErrSourceNotFound
	}
	if index < 0 || index >= grid.DisplayLen(order, cols) {
		return nil, ErrTargetNotFound
	}
	if i, ok := g.OverEmptyIndex(); ok && i == index {
		return MoveToEmpty(order, g.source, index)
	}
	if t, ok := g.Target(); ok && t.Index == index {
		if order.At(index) != t.Item {
			return nil, ErrTargetNotFound
		}
		return Insert(order, g.source, t.Item, t.Side, cols)
	}
	return nil, ErrTargetNotFound
}

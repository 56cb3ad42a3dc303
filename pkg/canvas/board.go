package canvas

import "math"

// Mode selects what a gesture changes.
type Mode int

// Gesture modes.
const (
	Move Mode = iota
	Resize
)

// String returns "move" or "resize".
func (m Mode) String() string {
	if m == Resize {
		return "resize"
	}
	return "move"
}

type gesture struct {
	id      string
	mode    Mode
	startX  float64
	startY  float64
	initPos Point
	initSz  Size
}

// Board owns the cards of one comparison and the active gesture, if any.
// A Board is not safe for concurrent use; it follows a single pointer.
type Board struct {
	cards  []Card
	topZ   int
	active *gesture
	dirty  bool
}

// NewBoard copies cards into a new board. topZ is the persisted
// bring-to-front counter; it is raised to the highest z found in cards.
func NewBoard(cards []Card, topZ int) *Board {
	b := &Board{cards: make([]Card, len(cards)), topZ: topZ}
	copy(b.cards, cards)
	for _, c := range b.cards {
		if c.Z > b.topZ {
			b.topZ = c.Z
		}
	}
	return b
}

// Cards returns a copy of the current cards.
func (b *Board) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// TopZ returns the bring-to-front counter.
func (b *Board) TopZ() int { return b.topZ }

// Dirty reports whether any card changed since the board was created or
// since the last MarkClean.
func (b *Board) Dirty() bool { return b.dirty }

// MarkClean clears the dirty flag after the cards were persisted.
func (b *Board) MarkClean() { b.dirty = false }

// Listening reports whether a gesture is active.
func (b *Board) Listening() bool { return b.active != nil }

// Active returns the id and mode of the active gesture.
func (b *Board) Active() (id string, mode Mode, ok bool) {
	if b.active == nil {
		return "", Move, false
	}
	return b.active.id, b.active.mode, true
}

func (b *Board) index(id string) int {
	for i := range b.cards {
		if b.cards[i].ID == id {
			return i
		}
	}
	return -1
}

// PointerDown starts a gesture on card id at (x, y). Any gesture still
// active is ended first. It returns false, and starts nothing, if id is not
// on the board.
func (b *Board) PointerDown(id string, mode Mode, x, y float64) bool {
	b.PointerUp()
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.active = &gesture{
		id:      id,
		mode:    mode,
		startX:  x,
		startY:  y,
		initPos: b.cards[i].Position,
		initSz:  b.cards[i].Size,
	}
	return true
}

// PointerMove applies the pointer delta since PointerDown. It is a no-op when
// no gesture is active.
func (b *Board) PointerMove(x, y float64) {
	g := b.active
	if g == nil {
		return
	}
	i := b.index(g.id)
	if i < 0 {
		b.active = nil
		return
	}
	dx, dy := x-g.startX, y-g.startY
	switch g.mode {
	case Move:
		b.cards[i].Position = Point{X: g.initPos.X + dx, Y: g.initPos.Y + dy}
	case Resize:
		b.cards[i].Size = Size{
			Width:  math.Max(MinWidth, g.initSz.Width+dx),
			Height: math.Max(MinHeight, g.initSz.Height+dy),
		}
	}
	b.dirty = true
}

// PointerUp ends the active gesture. Calling it with no gesture is a no-op.
func (b *Board) PointerUp() {
	b.active = nil
}

// Close ends any active gesture. The board remains usable.
func (b *Board) Close() {
	b.PointerUp()
}

// BringToFront gives card id the next z-order value and advances the
// counter. It returns false if id is not on the board.
func (b *Board) BringToFront(id string) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.topZ++
	b.cards[i].Z = b.topZ
	b.dirty = true
	return true
}

// Drag runs a complete move gesture by (dx, dy).
func (b *Board) Drag(id string, dx, dy float64) bool {
	if !b.PointerDown(id, Move, 0, 0) {
		return false
	}
	b.PointerMove(dx, dy)
	b.PointerUp()
	return true
}

// ResizeBy runs a complete resize gesture by (dw, dh).
func (b *Board) ResizeBy(id string, dw, dh float64) bool {
	if !b.PointerDown(id, Resize, 0, 0) {
		return false
	}
	b.PointerMove(dw, dh)
	b.PointerUp()
	return true
}

// Package canvas implements the free-canvas mode of a comparison.
//
// In canvas mode every item is a card with its own position, size and
// stacking order. Cards are moved and resized with pointer gestures and can
// be brought to the front. Positions are not clamped: the canvas is several
// times larger than the viewport.
//
// # Gestures
//
// A [Board] tracks at most one gesture at a time. PointerDown captures the
// start point and the card's initial geometry, PointerMove applies the delta,
// and PointerUp ends the gesture:
//
//	b := canvas.NewBoard(cards, topZ)
//	b.PointerDown("s1", canvas.Move, 100, 100)
//	b.PointerMove(140, 90) // s1 moved by (+40, -10)
//	b.PointerUp()
//
// While a gesture is active the board is "listening" for pointer events.
// PointerUp and Close always stop listening, so repeated drags never pile up
// handlers.
package canvas

// Initial placement and resize limits.
const (
	StaggerX      = 60.0
	StaggerY      = 150.0
	StaggerStep   = 40.0
	DefaultWidth  = 500.0
	DefaultHeight = 400.0
	MinWidth      = 300.0
	MinHeight     = 250.0
)

// Point is a canvas position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a card size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Card is one item's placement on the canvas.
type Card struct {
	ID       string `json:"id"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
	Z        int    `json:"z"`
}

// Stagger places ids diagonally with the default size and ascending z-order.
// The result depends only on the order of ids.
func Stagger(ids []string) []Card {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		off := StaggerStep * float64(i)
		cards[i] = Card{
			ID:       id,
			Position: Point{X: StaggerX + off, Y: StaggerY + off},
			Size:     Size{Width: DefaultWidth, Height: DefaultHeight},
			Z:        i + 1,
		}
	}
	return cards
}

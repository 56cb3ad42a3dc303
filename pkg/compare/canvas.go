package compare

import (
	"context"

	"github.com/matzehuels/rangedeck/pkg/canvas"
	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/layout"
)

// Canvas reports whether the comparison is in free-canvas mode.
func (c *Controller) Canvas() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Canvas
}

// Listening reports whether a canvas gesture is active.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board != nil && c.board.Listening()
}

// PointerDown starts a move or resize of card id. It returns false when the
// comparison is not on the canvas or has no such card.
func (c *Controller) PointerDown(id string, mode canvas.Mode, x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return false
	}
	return c.board.PointerDown(id, mode, x, y)
}

// PointerMove updates the active canvas gesture.
func (c *Controller) PointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board != nil {
		c.board.PointerMove(x, y)
	}
}

// PointerUp ends the active canvas gesture and persists the cards if they
// changed.
func (c *Controller) PointerUp(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return nil
	}
	c.board.PointerUp()
	return c.persistBoard(ctx)
}

// BringToFront raises card id above every other card and persists the
// counter. It returns false for an unknown card.
func (c *Controller) BringToFront(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil || !c.board.BringToFront(id) {
		return false, nil
	}
	return true, c.persistBoard(ctx)
}

// MoveCard moves card id by (dx, dy) in one gesture.
func (c *Controller) MoveCard(ctx context.Context, id string, dx, dy float64) error {
	return c.cardGesture(ctx, id, func(b *canvas.Board) bool { return b.Drag(id, dx, dy) })
}

// ResizeCard grows card id by (dw, dh) in one gesture. The size never drops
// below the canvas minimum.
func (c *Controller) ResizeCard(ctx context.Context, id string, dw, dh float64) error {
	return c.cardGesture(ctx, id, func(b *canvas.Board) bool { return b.ResizeBy(id, dw, dh) })
}

func (c *Controller) cardGesture(ctx context.Context, id string, fn func(*canvas.Board) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return errors.New(errors.ErrCodeUnsupported, "comparison %q is not in canvas mode", c.key)
	}
	if !fn(c.board) {
		return errors.New(errors.ErrCodeNotFound, "no card %q in comparison %q", id, c.key)
	}
	return c.persistBoard(ctx)
}

func (c *Controller) persistBoard(ctx context.Context) error {
	if !c.board.Dirty() {
		return nil
	}
	cards, topZ := c.board.Cards(), c.board.TopZ()
	st, err := c.store.Set(ctx, c.key, func(st layout.State) layout.State {
		if st.Stale(c.items) {
			st = layout.Initial(c.items)
		}
		st.Cards = cards
		st.TopZ = topZ
		return st
	})
	if err != nil {
		return err
	}
	c.st = st
	c.board.MarkClean()
	return nil
}

func (c *Controller) resetBoard() {
	if c.board != nil {
		c.board.Close()
	}
	c.board = nil
	if c.st.Canvas {
		c.board = canvas.NewBoard(c.st.Cards, c.st.TopZ)
	}
}

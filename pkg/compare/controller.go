// Package compare drives one comparison: it binds a layout state from a
// [store.Store] to the gesture state machines of the reorder and canvas
// engines and persists every change.
//
// A [Controller] is what a UI talks to:
//
//	c, err := compare.Open(ctx, s, "btn-vs-bb", items, compare.Options{
//		Columns: grid.Viewport{Width: 1440},
//	})
//	c.DragStart("s3")
//	c.DragOver(0, x, y, cellRect)
//	st, err := c.Drop(ctx, 0)
//
// Gestures that cannot be resolved are dropped silently: the drag ends, the
// state is left as it was and no error is returned.
package compare

import (
	"context"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rangedeck/pkg/canvas"
	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/layout"
	"github.com/matzehuels/rangedeck/pkg/observability"
	"github.com/matzehuels/rangedeck/pkg/reorder"
	"github.com/matzehuels/rangedeck/pkg/store"
)

// Options configures a Controller.
type Options struct {
	// Columns measures the rendered grid. nil falls back to the default
	// breakpoints at a zero-width viewport.
	Columns grid.ColumnSource

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// PresetControl is one preset button.
type PresetControl struct {
	Rows    int  `json:"rows"`
	Cols    int  `json:"cols"`
	Enabled bool `json:"enabled"`
}

// Controller owns the live state of one comparison. It is safe for
// concurrent use, though gestures assume a single pointer.
type Controller struct {
	mu      sync.Mutex
	store   *store.Store
	key     string
	items   []layout.Item
	columns grid.ColumnSource
	logger  *log.Logger

	st        layout.State
	gesture   reorder.Gesture
	gestureID string
	board     *canvas.Board
}

// Open loads the state for key, reinitializing it if items changed since it
// was stored.
func Open(ctx context.Context, s *store.Store, key string, items []layout.Item, opts Options) (*Controller, error) {
	st, err := s.Get(ctx, key, items)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		store:   s,
		key:     key,
		items:   append([]layout.Item(nil), items...),
		columns: opts.Columns,
		logger:  logger.With("comparison", key),
		st:      st,
	}
	c.resetBoard()
	return c, nil
}

// Key returns the comparison key.
func (c *Controller) Key() string { return c.key }

// Items returns the compared items.
func (c *Controller) Items() []layout.Item {
	return append([]layout.Item(nil), c.items...)
}

// State returns a copy of the current state.
func (c *Controller) State() layout.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Clone()
}

// SetColumnSource replaces the grid measurement, e.g. after a resize.
func (c *Controller) SetColumnSource(src grid.ColumnSource) {
	c.mu.Lock()
	c.columns = src
	c.mu.Unlock()
}

// Columns returns the effective column count.
func (c *Controller) Columns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cols()
}

func (c *Controller) cols() int { return c.colsOf(c.st) }

func (c *Controller) colsOf(st layout.State) int {
	return st.Columns(grid.Chain(c.columns, grid.Viewport{}))
}

// Slots returns the display slots: the order padded to full rows plus the
// spare rows.
func (c *Controller) Slots() grid.Slots {
	c.mu.Lock()
	defer c.mu.Unlock()
	return grid.DisplaySlots(c.st.Order, c.cols())
}

// Presets returns every default preset with its enablement for the current
// item count.
func (c *Controller) Presets() []PresetControl {
	out := make([]PresetControl, len(reorder.DefaultPresets))
	for i, p := range reorder.DefaultPresets {
		out[i] = PresetControl{Rows: p.Rows, Cols: p.Cols, Enabled: p.Enabled(len(c.items))}
	}
	return out
}

// =============================================================================
// Drag and drop
// =============================================================================

// DragStart begins dragging source.
func (c *Controller) DragStart(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture.Start(source)
	c.gestureID = uuid.NewString()
	c.logger.Debug("drag start", "source", source, "gesture", c.gestureID)
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gesture.Dragging()
}

// DragOver records the pointer at (x, y) over the display slot at index,
// whose bounding box is rect.
func (c *Controller) DragOver(index int, x, y float64, rect grid.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture.Over(grid.DisplaySlots(c.st.Order, c.cols()), index, x, y, rect)
}

// DragOverSide records the pointer over the display slot at index on a known
// side. Surfaces without pointer geometry use it.
func (c *Controller) DragOverSide(index int, side grid.Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := grid.DisplaySlots(c.st.Order, c.cols()).At(index)
	if item == grid.Empty {
		c.gesture.OverEmpty(index)
		return
	}
	c.gesture.OverItem(index, item, side)
}

// DragLeave records the pointer leaving every slot.
func (c *Controller) DragLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture.Leave()
}

// DragCancel abandons the drag.
func (c *Controller) DragCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture.Cancel()
}

// Drop resolves the drag at index. An unresolvable drop ends the drag and
// leaves the state unchanged; it is not an error.
//
// The drop is resolved against the stored order inside the write, so a
// change saved by another process since the last read is kept. A hovered
// slot whose content changed in the meantime makes the drop unresolvable.
func (c *Controller) Drop(ctx context.Context, index int) (layout.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.gestureID
	c.gestureID = ""
	g := c.gesture
	c.gesture.Cancel()
	source := g.Source()

	var reason error
	err := c.update(ctx, func(st layout.State) layout.State {
		order, err := g.Resolve(st.Order, index, c.colsOf(st))
		if err != nil {
			reason = err
			return st
		}
		return reorder.Commit(st, order)
	})
	if err != nil {
		return c.st.Clone(), err
	}
	if reason != nil {
		c.logger.Debug("drop ignored", "source", source, "index", index, "gesture", id, "reason", reason)
		observability.Layout().OnDrop(ctx, c.key, id, false)
		return c.st.Clone(), nil
	}
	observability.Layout().OnDrop(ctx, c.key, id, true)
	c.logger.Debug("drop applied", "source", source, "index", index, "gesture", id)
	return c.st.Clone(), nil
}

// =============================================================================
// Actions
// =============================================================================

// Undo restores the previous arrangement. It reports false when there was
// nothing to undo.
func (c *Controller) Undo(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var restored bool
	err := c.update(ctx, func(st layout.State) layout.State {
		st, restored = reorder.Undo(st)
		return st
	})
	observability.Layout().OnUndo(ctx, c.key, restored)
	return restored, err
}

// Adjust removes the empty slots.
func (c *Controller) Adjust(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.update(ctx, reorder.Adjust)
}

// Reset restores the original order, zoom and automatic columns. It reports
// false, and writes nothing, when the state already matches.
func (c *Controller) Reset(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var changed bool
	err := c.update(ctx, func(st layout.State) layout.State {
		st, changed = reorder.Reset(st)
		return st
	})
	return changed, err
}

// ApplyPreset lays the items out in p's shape.
func (c *Controller) ApplyPreset(ctx context.Context, p reorder.Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.update(ctx, func(st layout.State) layout.State {
		next, _ := reorder.ApplyPreset(st, p)
		return next
	})
	if err == nil {
		observability.Layout().OnPreset(ctx, c.key, p.Rows, p.Cols)
	}
	return err
}

// SetZoom sets the zoom level, clamped to [layout.MinZoom, layout.MaxZoom].
func (c *Controller) SetZoom(ctx context.Context, level float64) error {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return errors.New(errors.ErrCodeInvalidZoom, "zoom must be a finite number")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.update(ctx, func(st layout.State) layout.State {
		st.Zoom = layout.ClampZoom(level)
		return st
	})
}

// SetSimpleMode switches between the stacked list and the grid or canvas.
func (c *Controller) SetSimpleMode(ctx context.Context, simple bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.update(ctx, func(st layout.State) layout.State {
		st.SimpleMode = simple
		return st
	})
}

// Close ends any gesture in progress.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture.Cancel()
	if c.board != nil {
		c.board.Close()
	}
}

// update applies fn to the stored state and adopts the result. A stored
// state that no longer matches the items is rebuilt first.
func (c *Controller) update(ctx context.Context, fn store.Updater) error {
	st, err := c.store.Set(ctx, c.key, func(st layout.State) layout.State {
		if st.Stale(c.items) {
			st = layout.Initial(c.items)
		}
		return fn(st)
	})
	if err != nil {
		return err
	}
	canvasChanged := st.Canvas != c.st.Canvas
	c.st = st
	if canvasChanged {
		c.resetBoard()
	}
	return nil
}

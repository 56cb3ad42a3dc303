package reorder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/layout"
)

// =============================================================================
// Arrangement changes
// =============================================================================

// Commit installs a new arrangement produced by a drop. The previous order is
// pushed onto the undo history, the order is trimmed, and the column override
// returns to auto: a manual rearrangement leaves any preset layout.
func Commit(st layout.State, order grid.Slots) layout.State {
	next := st.Clone()
	next.History = layout.PushHistory(st.History, st.Order)
	next.Order = grid.Trim(order)
	next.ColumnOverride = 0
	return next
}

// Undo restores the most recent arrangement from the history. ok is false,
// and st is returned unchanged, when there is nothing to undo.
func Undo(st layout.State) (layout.State, bool) {
	rest, top, ok := layout.PopHistory(st.History)
	if !ok {
		return st, false
	}
	next := st.Clone()
	next.History = rest
	next.Order = top
	return next, true
}

// Adjust removes every empty slot from the order without changing the item
// order. If the order changes, the previous one is pushed onto the history.
func Adjust(st layout.State) layout.State {
	compact := grid.Compact(st.Order)
	if grid.Equal(compact, st.Order) {
		return st
	}
	next := st.Clone()
	next.History = layout.PushHistory(st.History, st.Order)
	next.Order = compact
	return next
}

// Reset restores the original item order, zoom 1 and auto columns. changed
// is false, and st is returned unchanged, when the state already matches.
func Reset(st layout.State) (next layout.State, changed bool) {
	sameOrder := grid.Equal(grid.Trim(st.Order), grid.Trim(st.Original))
	if sameOrder && st.Zoom == layout.DefaultZoom && st.ColumnOverride == 0 {
		return st, false
	}
	next = st.Clone()
	if !sameOrder {
		next.History = layout.PushHistory(st.History, st.Order)
	}
	next.Order = st.Original.Clone()
	if next.Order == nil {
		next.Order = grid.Slots{}
	}
	next.Zoom = layout.DefaultZoom
	next.ColumnOverride = 0
	return next, true
}

// =============================================================================
// Presets
// =============================================================================

// Preset is a fixed grid shape.
type Preset struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DefaultPresets are the shapes offered to the user.
var DefaultPresets = []Preset{
	{1, 2}, {1, 3}, {2, 2}, {2, 3}, {3, 3}, {2, 4}, {3, 4}, {4, 4},
}

// Preset shape limits. Both bounds are checked before rows and cols are
// multiplied, so the slot count of a valid preset cannot overflow.
const (
	MaxPresetRows  = 64
	MaxPresetCols  = 16
	MaxPresetSlots = MaxPresetRows * MaxPresetCols
)

// Slots returns rows*cols. It is only meaningful for a valid preset.
func (p Preset) Slots() int { return p.Rows * p.Cols }

// String returns the "RxC" form.
func (p Preset) String() string { return fmt.Sprintf("%dx%d", p.Rows, p.Cols) }

// Validate rejects non-positive shapes and shapes beyond [MaxPresetRows] by
// [MaxPresetCols].
func (p Preset) Validate() error {
	if p.Rows < 1 || p.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidPreset, "preset must have at least one row and column, got %s", p)
	}
	if p.Rows > MaxPresetRows || p.Cols > MaxPresetCols {
		return errors.New(errors.ErrCodeInvalidPreset,
			"preset %s is too large (at most %d rows and %d columns)", p, MaxPresetRows, MaxPresetCols)
	}
	return nil
}

// ParsePreset parses "RxC", for example "2x3".
func ParsePreset(s string) (Preset, error) {
	rows, cols, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Preset{}, errors.New(errors.ErrCodeInvalidPreset, "preset %q is not in RxC form", s)
	}
	r, err := strconv.Atoi(rows)
	if err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeInvalidPreset, err, "preset %q has invalid rows", s)
	}
	c, err := strconv.Atoi(cols)
	if err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeInvalidPreset, err, "preset %q has invalid columns", s)
	}
	p := Preset{Rows: r, Cols: c}
	return p, p.Validate()
}

// Enabled reports whether the preset is a close fit for count items: count
// must lie in [slots-1, slots] for shapes of up to 6 slots and in
// [slots-2, slots] for larger ones.
func (p Preset) Enabled(count int) bool {
	return PresetEnabled(count, p.Rows, p.Cols)
}

// PresetEnabled is the enablement rule for a rows×cols preset.
func PresetEnabled(count, rows, cols int) bool {
	if rows < 1 || cols < 1 || rows > MaxPresetRows || cols > MaxPresetCols {
		return false
	}
	total := rows * cols
	slack := 2
	if total <= 6 {
		slack = 1
	}
	return count >= total-slack && count <= total
}

// ApplyPreset lays the compacted items out row-major in a rows×cols grid and
// pins the column count to cols. Items beyond rows*cols are left out of the
// arrangement; they remain part of the comparison. The result keeps its
// trailing empty slots so the preset shape is visible.
func ApplyPreset(st layout.State, p Preset) (layout.State, error) {
	if err := p.Validate(); err != nil {
		return st, err
	}
	compact := grid.Compact(st.Order)
	order := make(grid.Slots, p.Slots())
	copy(order, compact)

	next := st.Clone()
	if !grid.Equal(order, st.Order) {
		next.History = layout.PushHistory(st.History, st.Order)
	}
	next.Order = order
	next.ColumnOverride = p.Cols
	return next, nil
}

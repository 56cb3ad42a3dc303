// Package layout defines the per-comparison layout state and its lifecycle.
//
// A [State] is the single source of truth for one comparison: the grid
// arrangement, the sticky column override, the zoom level, the free-canvas
// cards and the undo history. States are values; every change produces a new
// State and callers never mutate a stored one in place.
//
// # Lifecycle
//
// A state is bound to the set of items it was built for through its
// [Signature]. When the item set changes, the stored state is discarded and
// rebuilt with [Initial]:
//
//	st := layout.Initial(items)
//	if st.Stale(newItems) {
//	    st = layout.Initial(newItems) // arrangement and history are gone
//	}
package layout

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/rangedeck/pkg/canvas"
	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
)

// GlobalKey is the comparison key for the cross-notebook comparison.
const GlobalKey = "global"

// KindAnalysis is the item kind that switches a comparison to canvas mode
// when every item in the set has it.
const KindAnalysis = "analysis"

// Zoom bounds.
const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
)

// Item is the part of a scenario the layout engine needs.
type Item struct {
	ID   string `json:"id" toml:"id"`
	Kind string `json:"kind,omitempty" toml:"kind"`
}

// State is the layout state of one comparison.
type State struct {
	SimpleMode     bool          `json:"simple_mode"`
	Canvas         bool          `json:"canvas"`
	Order          grid.Slots    `json:"order"`
	ColumnOverride int           `json:"column_override,omitempty"` // 0 = derive from viewport
	Zoom           float64       `json:"zoom"`
	Cards          []canvas.Card `json:"cards,omitempty"`
	TopZ           int           `json:"top_z,omitempty"`
	Signature      string        `json:"signature"`
	Original       grid.Slots    `json:"original"`
	History        []grid.Slots  `json:"history,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Signature returns the canonical signature of an item set: the ids sorted
// and joined with commas. Item order does not affect the result.
func Signature(items []Item) string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// IsAnalysisSet reports whether items is non-empty and every item is an
// analysis.
func IsAnalysisSet(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if it.Kind != KindAnalysis {
			return false
		}
	}
	return true
}

// NaturalOrder returns the item ids in the order given.
func NaturalOrder(items []Item) grid.Slots {
	out := make(grid.Slots, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// ValidateItems checks every id and rejects duplicates.
func ValidateItems(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := errors.ValidateItemID(it.ID); err != nil {
			return err
		}
		if _, dup := seen[it.ID]; dup {
			return errors.New(errors.ErrCodeInvalidItem, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// Initial builds a fresh state for items. Analysis sets start in canvas mode
// with placed cards and an empty grid order; everything else starts in grid
// mode with the natural item order.
func Initial(items []Item) State {
	natural := NaturalOrder(items)
	st := State{
		Zoom:      DefaultZoom,
		Signature: Signature(items),
		Original:  natural.Clone(),
	}
	if IsAnalysisSet(items) {
		st.Canvas = true
		st.Order = grid.Slots{}
		st.Cards = canvas.Stagger(natural)
		st.TopZ = len(st.Cards)
		return st
	}
	st.Order = natural
	return st
}

// Stale reports whether the state was built for a different item set.
func (s State) Stale(items []Item) bool {
	return s.Signature != Signature(items)
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Order = s.Order.Clone()
	out.Original = s.Original.Clone()
	if s.Cards != nil {
		out.Cards = make([]canvas.Card, len(s.Cards))
		copy(out.Cards, s.Cards)
	}
	if s.History != nil {
		out.History = make([]grid.Slots, len(s.History))
		for i, h := range s.History {
			out.History[i] = h.Clone()
		}
	}
	return out
}

// Columns returns the effective column count: the override when set,
// otherwise whatever src yields (at least 1).
func (s State) Columns(src grid.ColumnSource) int {
	if s.ColumnOverride > 0 {
		return s.ColumnOverride
	}
	return grid.Chain(src).Columns()
}

// Card returns the card for id.
func (s State) Card(id string) (canvas.Card, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return canvas.Card{}, false
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN clamps to DefaultZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

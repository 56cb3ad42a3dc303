package grid

import (
	"sort"
	"strconv"
	"strings"
)

// ColumnSource yields a column count. A count of 0 means the source cannot
// answer yet (for example an element that has not been measured).
type ColumnSource interface {
	Columns() int
}

// =============================================================================
// Fixed
// =============================================================================

// Fixed is a ColumnSource that always returns the same count.
type Fixed int

// Columns returns n, or 0 when n is not positive.
func (n Fixed) Columns() int {
	if n < 1 {
		return 0
	}
	return int(n)
}

// =============================================================================
// Viewport breakpoints
// =============================================================================

// Breakpoint maps a minimum viewport width to a column count.
type Breakpoint struct {
	MinWidth float64 `toml:"min_width" json:"min_width"`
	Columns  int     `toml:"columns" json:"columns"`
}

// Breakpoints is a breakpoint table. Order does not matter; the widest
// matching breakpoint wins.
type Breakpoints []Breakpoint

// DefaultBreakpoints is the standard table: >=1536 → 5, >=1280 → 4,
// >=768 → 3, otherwise 2.
var DefaultBreakpoints = Breakpoints{
	{MinWidth: 1536, Columns: 5},
	{MinWidth: 1280, Columns: 4},
	{MinWidth: 768, Columns: 3},
	{MinWidth: 0, Columns: 2},
}

// For returns the column count for a viewport width. An empty table, or a
// width below every breakpoint, yields 1.
func (b Breakpoints) For(width float64) int {
	sorted := make(Breakpoints, len(b))
	copy(sorted, b)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinWidth > sorted[j].MinWidth })
	for _, bp := range sorted {
		if width >= bp.MinWidth && bp.Columns > 0 {
			return bp.Columns
		}
	}
	return 1
}

// Viewport is a ColumnSource backed by a breakpoint table.
type Viewport struct {
	Width       float64
	Breakpoints Breakpoints // nil uses DefaultBreakpoints
}

// Columns returns the breakpoint column count for the viewport width.
func (v Viewport) Columns() int {
	bps := v.Breakpoints
	if len(bps) == 0 {
		bps = DefaultBreakpoints
	}
	return bps.For(v.Width)
}

// =============================================================================
// Chain
// =============================================================================

type chain []ColumnSource

// Chain returns a ColumnSource that asks each source in turn and returns the
// first positive count. If none answers, it returns 1.
func Chain(sources ...ColumnSource) ColumnSource {
	return chain(sources)
}

func (c chain) Columns() int {
	for _, s := range c {
		if s == nil {
			continue
		}
		if n := s.Columns(); n > 0 {
			return n
		}
	}
	return 1
}

// ColumnsFor resolves the effective column count: the measured grid if it
// answers, otherwise the default breakpoint table for viewportWidth. The
// result is always at least 1.
func ColumnsFor(measured ColumnSource, viewportWidth float64) int {
	return Chain(measured, Viewport{Width: viewportWidth}).Columns()
}

// =============================================================================
// Track lists
// =============================================================================

// Tracks is a ColumnSource that counts the column tracks of a computed
// grid-template-columns value such as "240px 240px 240px" or
// "repeat(3, minmax(0, 1fr))". Values that cannot be counted ("", "none",
// auto-fill repeats) yield 0.
type Tracks string

// Columns returns the track count.
func (t Tracks) Columns() int {
	n, ok := countTracks(strings.TrimSpace(string(t)))
	if !ok {
		return 0
	}
	return n
}

func countTracks(s string) (int, bool) {
	if s == "" || s == "none" {
		return 0, false
	}
	n := 0
	for _, tok := range splitTopLevel(s) {
		switch {
		case strings.HasPrefix(tok, "["):
			// line names are not tracks
		case strings.HasPrefix(tok, "repeat("):
			body := strings.TrimSuffix(strings.TrimPrefix(tok, "repeat("), ")")
			countStr, rest, found := strings.Cut(body, ",")
			if !found {
				return 0, false
			}
			count, err := strconv.Atoi(strings.TrimSpace(countStr))
			if err != nil || count < 1 {
				return 0, false
			}
			inner, ok := countTracks(strings.TrimSpace(rest))
			if !ok {
				return 0, false
			}
			n += count * inner
		default:
			n++
		}
	}
	return n, n > 0
}

// splitTopLevel splits s on whitespace that is not nested inside () or [].
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start = -1
	)
	for i, r := range s {
		switch {
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		}
		space := r == ' ' || r == '\t' || r == '\n'
		if space && depth == 0 {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// Package grid provides the pure geometry behind the comparison grid.
//
// Nothing in this package holds state. It answers three questions for the
// layout engine:
//
//   - How many columns does the grid have? ([ColumnSource], [ColumnsFor])
//   - Which side of a cell is the pointer on? ([ClassifyDrop])
//   - What does a slot list look like once padded for display? ([DisplaySlots])
//
// # Slot Lists
//
// A [Slots] value is an ordered list of item ids where the empty string marks
// an empty slot. The trimmed form (no trailing empties) is canonical; display
// padding is derived on every read and never stored:
//
//	order := grid.Slots{"a", "", "b"}
//	grid.DisplaySlots(order, 3) // [a "" b "" "" "" "" "" ""]
//
// Slots encode empty entries as JSON null:
//
//	["a", null, "b"]
//
// # Column Sources
//
// Column counts come from a [ColumnSource]. [Fixed] pins a count, [Viewport]
// maps a viewport width through a breakpoint table, and [Tracks] counts the
// tracks of a computed grid-template-columns value. [Chain] picks the first
// source that yields a positive count:
//
//	cols := grid.ColumnsFor(grid.Tracks(measured), 1400) // 4 until measured
package grid

package reorder

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/layout"
)

func stateOf(ids ...string) layout.State {
	items := make([]layout.Item, len(ids))
	for i, id := range ids {
		items[i] = layout.Item{ID: id, Kind: "range"}
	}
	return layout.Initial(items)
}

func TestCommitAndUndoAreInverse(t *testing.T) {
	s1 := stateOf("A", "B", "C", "D")
	s1.ColumnOverride = 2

	order, err := Insert(s1.Order, "D", "A", grid.SideLeft, 2)
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	s2 := Commit(s1, order)

	if s2.ColumnOverride != 0 {
		t.Errorf("ColumnOverride after drop = %d, want 0", s2.ColumnOverride)
	}
	if diff := cmp.Diff(grid.Slots{"D", "A", "B", "C"}, s2.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}

	s3, ok := Undo(s2)
	if !ok {
		t.Fatal("Undo() ok = false")
	}
	if diff := cmp.Diff(s1.Order, s3.Order); diff != "" {
		t.Errorf("Undo() did not restore order (-want +got):\n%s", diff)
	}
	if len(s3.History) != 0 {
		t.Errorf("len(History) after undo = %d, want 0", len(s3.History))
	}
}

func TestCommitTrims(t *testing.T) {
	st := Commit(stateOf("A", "B"), grid.Slots{"B", "", "A", "", ""})
	if diff := cmp.Diff(grid.Slots{"B", "", "A"}, st.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitDoesNotMutateInput(t *testing.T) {
	s1 := stateOf("A", "B")
	_ = Commit(s1, grid.Slots{"B", "A"})
	if len(s1.History) != 0 || !grid.Equal(s1.Order, grid.Slots{"A", "B"}) {
		t.Errorf("Commit() mutated its input: %+v", s1)
	}
}

func TestUndoEmpty(t *testing.T) {
	st := stateOf("A")
	got, ok := Undo(st)
	if ok {
		t.Error("Undo() ok = true with empty history")
	}
	if !grid.Equal(got.Order, st.Order) {
		t.Errorf("Undo() changed order: %v", got.Order)
	}
}

func TestHistoryBoundThroughCommit(t *testing.T) {
	st := stateOf("A", "B")
	for i := 0; i < 25; i++ {
		st = Commit(st, grid.Slots{"A", "B", fmt.Sprint(i)})
	}

	undos := 0
	for {
		var ok bool
		st, ok = Undo(st)
		if !ok {
			break
		}
		undos++
	}
	if undos != layout.MaxHistory {
		t.Errorf("recoverable undos = %d, want %d", undos, layout.MaxHistory)
	}
}

func TestAdjust(t *testing.T) {
	st := stateOf("A", "B", "C")
	st.Order = grid.Slots{"", "A", "", "B", "C"}

	once := Adjust(st)
	if diff := cmp.Diff(grid.Slots{"A", "B", "C"}, once.Order); diff != "" {
		t.Errorf("Adjust() mismatch (-want +got):\n%s", diff)
	}
	if len(once.History) != 1 {
		t.Errorf("len(History) = %d, want 1", len(once.History))
	}

	twice := Adjust(once)
	if diff := cmp.Diff(once.Order, twice.Order); diff != "" {
		t.Errorf("Adjust() not idempotent (-once +twice):\n%s", diff)
	}
	if len(twice.History) != 1 {
		t.Errorf("second Adjust() pushed history: len = %d", len(twice.History))
	}
}

func TestReset(t *testing.T) {
	st := stateOf("A", "B", "C")

	if _, changed := Reset(st); changed {
		t.Error("Reset() changed a pristine state")
	}

	moved := Commit(st, grid.Slots{"C", "A", "B"})
	moved.Zoom = 1.5
	moved.ColumnOverride = 3

	got, changed := Reset(moved)
	if !changed {
		t.Fatal("Reset() changed = false")
	}
	if diff := cmp.Diff(grid.Slots{"A", "B", "C"}, got.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if got.Zoom != 1 || got.ColumnOverride != 0 {
		t.Errorf("Zoom = %v, ColumnOverride = %d; want 1, 0", got.Zoom, got.ColumnOverride)
	}

	zoomed := st
	zoomed.Zoom = 0.75
	if got, changed := Reset(zoomed); !changed || got.Zoom != 1 {
		t.Errorf("Reset() of zoom only = (%v, %v)", got.Zoom, changed)
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    Preset
		wantErr bool
	}{
		{"2x3", Preset{2, 3}, false},
		{" 3X3 ", Preset{3, 3}, false},
		{"2", Preset{}, true},
		{"ax2", Preset{}, true},
		{"0x2", Preset{0, 2}, true},
		{"1x50000000", Preset{}, true},
		{"3037000500x3037000500", Preset{}, true},
		{"64x16", Preset{64, 16}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePreset(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidPreset) {
				t.Errorf("ParsePreset(%q) code = %v", tt.in, errors.GetCode(err))
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePreset(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPresetEnabled(t *testing.T) {
	tests := []struct {
		count, rows, cols int
		want              bool
	}{
		{4, 2, 2, true},
		{3, 2, 2, true},
		{2, 2, 2, false},
		{5, 2, 2, false},
		{6, 2, 3, true},
		{5, 2, 3, true},
		{4, 2, 3, false},
		{9, 3, 3, true},
		{8, 3, 3, true},
		{7, 3, 3, true},
		{6, 3, 3, false},
		{10, 3, 3, false},
		{1, 1, 2, true},
		{0, 0, 0, false},
		{0, 3037000500, 3037000500, false},
		{4, -2, -2, false},
		{1, 1, 1 << 30, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_in_%dx%d", tt.count, tt.rows, tt.cols), func(t *testing.T) {
			if got := PresetEnabled(tt.count, tt.rows, tt.cols); got != tt.want {
				t.Errorf("PresetEnabled(%d, %d, %d) = %v, want %v", tt.count, tt.rows, tt.cols, got, tt.want)
			}
		})
	}
}

func TestApplyPresetRoundTrip(t *testing.T) {
	st := stateOf("A", "B", "C", "D", "E")
	st.Order = grid.Slots{"A", "", "B", "C", "", "", "D", "E"}

	got, err := ApplyPreset(st, Preset{Rows: 2, Cols: 3})
	if err != nil {
		t.Fatalf("ApplyPreset() error: %v", err)
	}
	if diff := cmp.Diff(grid.Slots{"A", "B", "C", "D", "E", ""}, got.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if got.ColumnOverride != 3 {
		t.Errorf("ColumnOverride = %d, want 3", got.ColumnOverride)
	}
	empties := len(got.Order) - got.Order.Items()
	if empties != 1 {
		t.Errorf("empty slots = %d, want 1", empties)
	}
}

func TestApplyPresetOverflowHidesItems(t *testing.T) {
	st := stateOf("A", "B", "C", "D", "E")

	got, err := ApplyPreset(st, Preset{Rows: 2, Cols: 2})
	if err != nil {
		t.Fatalf("ApplyPreset() error: %v", err)
	}
	if diff := cmp.Diff(grid.Slots{"A", "B", "C", "D"}, got.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if got.Signature != st.Signature {
		t.Error("ApplyPreset() changed the item set signature")
	}
}

func TestApplyPresetInvalid(t *testing.T) {
	st := stateOf("A")
	tests := []Preset{
		{Rows: 0, Cols: 2},
		{Rows: 2, Cols: -1},
		{Rows: MaxPresetRows + 1, Cols: 1},
		{Rows: 1, Cols: MaxPresetCols + 1},
		{Rows: 1, Cols: 50_000_000},
		{Rows: 3037000500, Cols: 3037000500},
		{Rows: -3037000500, Cols: -3037000500},
	}

	for _, p := range tests {
		t.Run(p.String(), func(t *testing.T) {
			got, err := ApplyPreset(st, p)
			if !errors.Is(err, errors.ErrCodeInvalidPreset) {
				t.Fatalf("ApplyPreset(%s) error = %v, want INVALID_PRESET", p, err)
			}
			if diff := cmp.Diff(st, got); diff != "" {
				t.Errorf("ApplyPreset(%s) changed state (-want +got):\n%s", p, diff)
			}
		})
	}

	largest := Preset{Rows: MaxPresetRows, Cols: MaxPresetCols}
	got, err := ApplyPreset(st, largest)
	if err != nil {
		t.Fatalf("ApplyPreset(%s) error: %v", largest, err)
	}
	if len(got.Order) != MaxPresetSlots {
		t.Errorf("len(Order) = %d, want %d", len(got.Order), MaxPresetSlots)
	}
}

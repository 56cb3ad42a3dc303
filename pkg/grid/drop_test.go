package grid

import (
	"encoding/json"
	"testing"
)

func TestClassifyDrop(t *testing.T) {
	cell := Rect{Left: 0, Top: 0, Width: 100, Height: 100}
	tests := []struct {
		name string
		x, y float64
		rect Rect
		want Side
	}{
		{"right of centre line", 90, 50, cell, SideRight},
		{"left of centre line", 10, 50, cell, SideLeft},
		{"near top", 50, 5, cell, SideTop},
		{"near bottom", 50, 95, cell, SideBottom},
		{"diagonal tie goes horizontal", 90, 90, cell, SideRight},
		{"diagonal tie top-left", 10, 10, cell, SideLeft},
		{"exact centre", 50, 50, cell, SideRight},
		{"vertical just beats horizontal", 70, 80, cell, SideBottom},
		{"offset rect", 310, 220, Rect{Left: 300, Top: 200, Width: 200, Height: 100}, SideLeft},
		{"wide cell favours vertical", 150, 10, Rect{Width: 400, Height: 100}, SideTop},
		{"degenerate rect", 5, 5, Rect{}, SideRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDrop(tt.x, tt.y, tt.rect); got != tt.want {
				t.Errorf("ClassifyDrop(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{SideNone, SideTop, SideBottom, SideLeft, SideRight} {
		got, err := ParseSide(s.String())
		if err != nil {
			t.Fatalf("ParseSide(%q) error: %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseSide(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Error("ParseSide(middle) should fail")
	}
}

func TestSideJSON(t *testing.T) {
	var payload struct {
		Side Side `json:"side"`
	}
	if err := json.Unmarshal([]byte(`{"side":"bottom"}`), &payload); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if payload.Side != SideBottom {
		t.Errorf("Side = %v, want bottom", payload.Side)
	}
	data, _ := json.Marshal(payload)
	if string(data) != `{"side":"bottom"}` {
		t.Errorf("Marshal = %s", data)
	}
}

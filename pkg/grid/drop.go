package grid

import (
	"encoding/json"
	"fmt"
	"math"
)

// Side is the edge of a target cell a dragged item is dropped against.
type Side int

// Drop sides.
const (
	SideNone Side = iota
	SideTop
	SideBottom
	SideLeft
	SideRight
)

var sideNames = [...]string{"", "top", "bottom", "left", "right"}

// String returns the lowercase side name, or "" for SideNone.
func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return ""
	}
	return sideNames[s]
}

// ParseSide parses a side name. The empty string parses as SideNone.
func ParseSide(name string) (Side, error) {
	for i, n := range sideNames {
		if n == name {
			return Side(i), nil
		}
	}
	return SideNone, fmt.Errorf("unknown drop side %q", name)
}

// MarshalJSON encodes the side as its name.
func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a side name.
func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, err := ParseSide(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Vertical reports whether the side is top or bottom.
func (s Side) Vertical() bool {
	return s == SideTop || s == SideBottom
}

// Rect is a cell bounding box in viewport coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ClassifyDrop decides which side of r the pointer at (x, y) is on.
//
// The pointer's offset from the cell centre is normalised per axis:
//
//	pV = |relY - h/2| / (h/2)
//	pH = |relX - w/2| / (w/2)
//
// The vertical axis is chosen only when pV > pH, so exact ties go horizontal.
// The sign of the offset then picks the side; a pointer exactly on the centre
// line counts as bottom or right. Degenerate rects classify as right.
func ClassifyDrop(x, y float64, r Rect) Side {
	if r.Width <= 0 || r.Height <= 0 {
		return SideRight
	}
	relX := x - r.Left
	relY := y - r.Top
	halfW := r.Width / 2
	halfH := r.Height / 2

	pV := math.Abs(relY-halfH) / halfH
	pH := math.Abs(relX-halfW) / halfW

	if pV > pH {
		if relY >= halfH {
			return SideBottom
		}
		return SideTop
	}
	if relX >= halfW {
		return SideRight
	}
	return SideLeft
}

package grid

import (
	"bytes"
	"encoding/json"
)

// Empty marks an empty slot.
const Empty = ""

// SpareRows is the number of empty rows appended below the last occupied row
// so there is always somewhere to drop.
const SpareRows = 2

// Slots is an ordered slot list. Empty entries are represented by [Empty].
type Slots []string

// Items returns the number of occupied slots.
func (s Slots) Items() int {
	n := 0
	for _, id := range s {
		if id != Empty {
			n++
		}
	}
	return n
}

// IndexOf returns the slot index holding id, or -1.
func (s Slots) IndexOf(id string) int {
	if id == Empty {
		return -1
	}
	for i, v := range s {
		if v == id {
			return i
		}
	}
	return -1
}

// At returns the id at index i, treating out-of-range indices as padding.
func (s Slots) At(i int) string {
	if i < 0 || i >= len(s) {
		return Empty
	}
	return s[i]
}

// Clone returns a copy that shares no backing array with s.
// A nil list clones to nil.
func (s Slots) Clone() Slots {
	if s == nil {
		return nil
	}
	out := make(Slots, len(s))
	copy(out, s)
	return out
}

// Equal reports whether a and b hold the same ids in the same slots.
// Nil and empty lists are equal.
func Equal(a, b Slots) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Trim removes trailing empty slots. A list with no items trims to an empty,
// non-nil list.
func Trim(s Slots) Slots {
	last := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != Empty {
			last = i
			break
		}
	}
	out := make(Slots, last+1)
	copy(out, s[:last+1])
	return out
}

// Compact removes every empty slot, keeping the relative order of items.
func Compact(s Slots) Slots {
	out := make(Slots, 0, len(s))
	for _, id := range s {
		if id != Empty {
			out = append(out, id)
		}
	}
	return out
}

// DisplaySlots pads order for rendering: the result covers every slot of the
// order, is a whole number of rows of cols, and ends with [SpareRows] empty
// rows. cols below 1 is treated as 1.
func DisplaySlots(order Slots, cols int) Slots {
	out := make(Slots, DisplayLen(order, cols))
	copy(out, Trim(order))
	return out
}

// DisplayLen returns len(DisplaySlots(order, cols)) without building the
// slots. Indexes at or past it are outside the rendered grid.
func DisplayLen(order Slots, cols int) int {
	if cols < 1 {
		cols = 1
	}
	rows := (len(Trim(order)) + cols - 1) / cols
	return (rows + SpareRows) * cols
}

// MarshalJSON encodes empty slots as null.
func (s Slots) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, id := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if id == Empty {
			buf.WriteString("null")
			continue
		}
		b, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes null entries as empty slots.
func (s *Slots) UnmarshalJSON(data []byte) error {
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Slots, len(raw))
	for i, p := range raw {
		if p != nil {
			out[i] = *p
		}
	}
	*s = out
	return nil
}

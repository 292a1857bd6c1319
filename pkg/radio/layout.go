package radio

import (
	"errors"
	"fmt"
	"sort"
)

// ErrLayout is returned when a model's tables do not fit its image.
var ErrLayout = errors.New("invalid memory layout")

// Region is a named span of an image.
type Region struct {
	Name   string
	Offset int
	Size   int
}

// End is the offset just past the region.
func (r Region) End() int {
	return r.Offset + r.Size
}

// Extent is anything that ends at a known offset in a record.
type Extent interface {
	End() int
}

// CheckLayout verifies that every region lies inside an image of size
// bytes and that no two regions overlap. Adjacent regions are allowed.
func CheckLayout(model string, size int, regions ...Region) error {
	sorted := append([]Region(nil), regions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, r := range sorted {
		if r.Offset < 0 || r.Size <= 0 || r.End() > size {
			return fmt.Errorf("%w: %s %s at 0x%X+%d outside 0x%X byte image", ErrLayout, model, r.Name, r.Offset, r.Size, size)
		}
		if i > 0 && sorted[i-1].End() > r.Offset {
			prev := sorted[i-1]
			return fmt.Errorf("%w: %s %s ends at 0x%X past %s at 0x%X", ErrLayout, model, prev.Name, prev.End(), r.Name, r.Offset)
		}
	}
	return nil
}

// CheckRecord verifies that a record of size bytes has the fixed size want
// and that every field ends inside it.
func CheckRecord(model, record string, size, want int, fields ...Extent) error {
	if size != want {
		return fmt.Errorf("%w: %s %s record is %d bytes, want %d", ErrLayout, model, record, size, want)
	}
	for i, f := range fields {
		if f.End() > size {
			return fmt.Errorf("%w: %s %s field %d ends at %d past %d byte record", ErrLayout, model, record, i, f.End(), size)
		}
	}
	return nil
}

// Package codec reads and writes the packed fields found in radio memory
// images: bit ranges, multi-byte frequencies, packed character strings and
// bitsets.
package codec

// Bits addresses Width bits of the byte at Offset, starting Shift bits above
// the least significant bit.
type Bits struct {
	Offset int
	Shift  uint
	Width  uint
}

// Bit returns a single-bit field.
func Bit(offset int, bit uint) Bits {
	return Bits{Offset: offset, Shift: bit, Width: 1}
}

// Byte returns a field spanning the whole byte.
func Byte(offset int) Bits {
	return Bits{Offset: offset, Shift: 0, Width: 8}
}

func (f Bits) mask() uint32 {
	return (1<<f.Width - 1) << f.Shift
}

// Get extracts the field value.
func (f Bits) Get(b []byte) uint32 {
	return (uint32(b[f.Offset]) & f.mask()) >> f.Shift
}

// Set stores v, truncated to the field width. Neighbouring bits are preserved.
func (f Bits) Set(b []byte, v uint32) {
	m := f.mask()
	b[f.Offset] = byte((uint32(b[f.Offset]) &^ m) | ((v << f.Shift) & m))
}

// Max is the largest value the field can hold.
func (f Bits) Max() uint32 {
	return 1<<f.Width - 1
}

// End is the offset just past the field's byte.
func (f Bits) End() int {
	return f.Offset + 1
}

// Split joins two bit ranges into one value; Hi supplies the upper bits.
type Split struct {
	Hi Bits
	Lo Bits
}

// Get extracts the combined value.
func (s Split) Get(b []byte) uint32 {
	return s.Hi.Get(b)<<s.Lo.Width | s.Lo.Get(b)
}

// Set stores v across both ranges.
func (s Split) Set(b []byte, v uint32) {
	s.Hi.Set(b, v>>s.Lo.Width)
	s.Lo.Set(b, v)
}

// Max is the largest value the pair can hold.
func (s Split) Max() uint32 {
	return 1<<(s.Hi.Width+s.Lo.Width) - 1
}

// End is the offset just past the later of the two ranges.
func (s Split) End() int {
	if e := s.Lo.End(); e > s.Hi.End() {
		return e
	}
	return s.Hi.End()
}

// Field is implemented by Bits, Split and Uint.
type Field interface {
	Get(b []byte) uint32
	Set(b []byte, v uint32)
	Max() uint32
	End() int
}

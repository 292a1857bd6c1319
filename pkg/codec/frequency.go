package codec

// Order is the byte order of a multi-byte value.
type Order int

const (
	BigEndian Order = iota
	LittleEndian
)

// Uint addresses an unsigned integer of Bits bits at Offset. Values narrower
// than their byte span keep the unused top bits of the most significant byte
// untouched.
type Uint struct {
	Offset int
	Bits   uint
	Order  Order
}

// BE16, BE24, BE32, LE16 and LE32 are shorthands for the common widths.
func BE16(offset int) Uint { return Uint{offset, 16, BigEndian} }
func BE24(offset int) Uint { return Uint{offset, 24, BigEndian} }
func BE32(offset int) Uint { return Uint{offset, 32, BigEndian} }
func LE16(offset int) Uint { return Uint{offset, 16, LittleEndian} }
func LE32(offset int) Uint { return Uint{offset, 32, LittleEndian} }

// Size is the number of bytes spanned.
func (u Uint) Size() int {
	return int(u.Bits+7) / 8
}

// End is the offset just past the value.
func (u Uint) End() int {
	return u.Offset + u.Size()
}

// index returns the position of the i-th byte counted from the most
// significant one.
func (u Uint) index(i int) int {
	if u.Order == BigEndian {
		return u.Offset + i
	}
	return u.Offset + u.Size() - 1 - i
}

func (u Uint) topBits() uint {
	return 1 + (u.Bits-1)%8
}

// Get extracts the value.
func (u Uint) Get(b []byte) uint32 {
	top := u.topBits()
	v := uint32(b[u.index(0)]) & (1<<top - 1)
	for i := 1; i < u.Size(); i++ {
		v = v<<8 | uint32(b[u.index(i)])
	}
	return v
}

// Set stores v, truncated to Bits.
func (u Uint) Set(b []byte, v uint32) {
	n := u.Size()
	for i := n - 1; i > 0; i-- {
		b[u.index(i)] = byte(v)
		v >>= 8
	}
	top := u.topBits()
	m := byte(1<<top - 1)
	hi := u.index(0)
	b[hi] = b[hi]&^m | byte(v)&m
}

// Max is the largest storable value.
func (u Uint) Max() uint32 {
	if u.Bits >= 32 {
		return ^uint32(0)
	}
	return 1<<u.Bits - 1
}

// Frequency is a Uint that stores Hz in units of a divisor.
type Frequency struct {
	Uint
}

// Hz returns the stored frequency scaled by div.
func (f Frequency) Hz(b []byte, div uint32) uint32 {
	return f.Get(b) * div
}

// SetHz stores hz/div. It reports false when the quotient does not fit.
func (f Frequency) SetHz(b []byte, hz, div uint32) bool {
	q := hz / div
	if q > f.Max() {
		return false
	}
	f.Set(b, q)
	return true
}

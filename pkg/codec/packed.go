package codec

// PackedString stores Chars characters of Bits bits each, most significant
// character first, as value = char - Base. The packed form must fit in
// eight bytes.
type PackedString struct {
	Offset int
	Chars  int
	Bits   uint
	Base   byte
}

// Size is the number of bytes the string spans.
func (p PackedString) Size() int {
	return (int(p.Bits)*p.Chars-1)/8 + 1
}

// End is the offset just past the string.
func (p PackedString) End() int {
	return p.Offset + p.Size()
}

func (p PackedString) load(b []byte) uint64 {
	var acc uint64
	for _, c := range b[p.Offset : p.Offset+p.Size()] {
		acc = acc<<8 | uint64(c)
	}
	return acc
}

func (p PackedString) store(b []byte, acc uint64) {
	for i := p.Size() - 1; i >= 0; i-- {
		b[p.Offset+i] = byte(acc)
		acc >>= 8
	}
}

// Unpack decodes the characters.
func (p PackedString) Unpack(b []byte) string {
	acc := p.load(b)
	mask := uint64(1)<<p.Bits - 1
	out := make([]byte, p.Chars)
	for i := range out {
		shift := uint(p.Chars-1-i) * p.Bits
		out[i] = p.Base + byte(acc>>shift&mask)
	}
	return string(out)
}

// Pack encodes s, padding short input with spaces. Bits above the packed
// characters are preserved.
func (p PackedString) Pack(b []byte, s string) {
	used := uint(p.Chars) * p.Bits
	acc := p.load(b) >> used << used
	mask := uint64(1)<<p.Bits - 1
	for i := 0; i < p.Chars; i++ {
		c := byte(' ')
		if i < len(s) {
			c = s[i]
		}
		shift := uint(p.Chars-1-i) * p.Bits
		acc |= uint64(c-p.Base) & mask << shift
	}
	p.store(b, acc)
}

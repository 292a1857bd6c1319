package codec

// Flags is a bitset of one bit per channel, least significant bit first.
type Flags struct {
	Offset int
}

// Size is the number of bytes holding count flags.
func (f Flags) Size(count int) int {
	return (count + 7) / 8
}

// Get reports whether bit i is set.
func (f Flags) Get(b []byte, i int) bool {
	return b[f.Offset+i/8]&(1<<uint(i%8)) != 0
}

// Set assigns bit i.
func (f Flags) Set(b []byte, i int, v bool) {
	m := byte(1 << uint(i%8))
	if v {
		b[f.Offset+i/8] |= m
	} else {
		b[f.Offset+i/8] &^= m
	}
}

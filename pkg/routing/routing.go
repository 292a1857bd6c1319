// Package routing holds D-STAR routing call signs and the interned call
// sign tables some radios keep in memory.
package routing

import "strings"

// Size is the fixed length of a routing call sign.
const Size = 8

// Routing is a space padded call sign.
type Routing [Size]byte

var (
	// CQCQCQ addresses everyone.
	CQCQCQ = New("CQCQCQ")
	// Direct is used for simplex operation without a repeater.
	Direct = New("DIRECT")
	// NotUse marks an empty slot.
	NotUse = New("")
)

// New pads s with spaces, truncating anything past Size characters.
func New(s string) Routing {
	var r Routing
	n := copy(r[:], s)
	for i := n; i < Size; i++ {
		r[i] = ' '
	}
	return r
}

// FromBytes copies the first Size bytes of b.
func FromBytes(b []byte) Routing {
	var r Routing
	copy(r[:], b)
	return r
}

// String returns the padded call sign.
func (r Routing) String() string {
	return string(r[:])
}

// Trimmed returns the call sign without trailing padding.
func (r Routing) Trimmed() string {
	return strings.TrimRight(string(r[:]), " ")
}

// Put writes the call sign into b.
func (r Routing) Put(b []byte) {
	copy(b, r[:])
}

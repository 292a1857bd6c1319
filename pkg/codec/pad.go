package codec

// Pad copies s into dst and fills the remainder with pad. Input longer than
// dst is truncated.
func Pad(dst []byte, s string, pad byte) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = pad
	}
}

// Fill sets every byte of dst to v.
func Fill(dst []byte, v byte) {
	for i := range dst {
		dst[i] = v
	}
}

// CString returns the bytes of b up to the first byte equal to any of stops.
func CString(b []byte, stops ...byte) string {
	for i, c := range b {
		for _, s := range stops {
			if c == s {
				return string(b[:i])
			}
		}
	}
	return string(b)
}

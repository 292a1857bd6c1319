package radio

import (
	"strconv"
	"strings"
)

func isSpace(c byte) bool {
	return c == ' ' || (c >= '\t' && c <= '\r')
}

func digits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// ParseUint parses a leading decimal number the way C's strtoul does:
// leading white space and a sign are accepted and a negative value wraps.
// It returns the unparsed remainder, which is all of s when no digits are
// found.
func ParseUint(s string) (uint64, string) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	end := digits(s, i)
	if end == i {
		return 0, s
	}
	n, err := strconv.ParseUint(s[i:end], 10, 64)
	if err != nil {
		n = ^uint64(0)
	}
	if neg {
		n = -n
	}
	return n, s[end:]
}

// ParseFloat parses a leading decimal floating point number the way C's
// strtod does and returns the unparsed remainder.
func ParseFloat(s string) (float64, string) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mant := i
	i = digits(s, i)
	if i < len(s) && s[i] == '.' {
		i = digits(s, i+1)
	}
	if i == mant || (i == mant+1 && s[mant] == '.') {
		return 0, s
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if k := digits(s, j); k > j {
			i = k
		}
	}
	f, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		return 0, s
	}
	return f, s[i:]
}

// Escape quotes b for CSV output, stopping at the first NUL. Quotes and
// backslashes are escaped with a backslash.
func Escape(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range b {
		if c == 0 {
			break
		}
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}


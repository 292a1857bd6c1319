package radio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dougsko/radio2csv/pkg/routing"
)

// Field is one CSV column of a model. Get returns the text form of a channel
// value and false when the raw value has no text form; the text is then the
// bare number. Set parses text and reports whether it was accepted.
type Field struct {
	Name string
	Get  func(ch int) (string, bool)
	Set  func(ch int, text string) bool
}

// Accessor reads and writes the raw value behind a field.
type Accessor struct {
	Get func(ch int) uint32
	Set func(ch int, v uint32) bool
}

// Flag reads and writes one boolean per channel.
type Flag struct {
	Get func(ch int) bool
	Set func(ch int, v bool)
}

// Text reads and writes the raw text behind a name field.
type Text struct {
	Get func(ch int) []byte
	Set func(ch int, s string) bool
}

// Call reads and writes a routing call sign.
type Call struct {
	Get func(ch int) routing.Routing
	Set func(ch int, r routing.Routing) bool
}

// Bounded wraps every field so out of range channels fail instead of
// touching the image.
func Bounded(count int, fields ...Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		get, set := f.Get, f.Set
		out[i] = Field{
			Name: f.Name,
			Get: func(ch int) (string, bool) {
				if ch < 0 || ch >= count {
					return "", false
				}
				return get(ch)
			},
			Set: func(ch int, text string) bool {
				if ch < 0 || ch >= count {
					return false
				}
				return set(ch, text)
			},
		}
	}
	return out
}

// Lookup returns the field with the given name, ignoring case.
func Lookup(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// ValidField is the channel number column. Its getter reports whether the
// channel is in use; its setter marks the channel used when the rest of the
// row is non-empty and resets it otherwise.
func ValidField(name string, offset int, valid func(ch int) bool, setValid func(ch int, v bool)) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			return strconv.Itoa(ch + offset), valid(ch)
		},
		Set: func(ch int, rest string) bool {
			setValid(ch, rest != "")
			return true
		},
	}
}

func raw(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

// FormatMHz prints a frequency in Hz as MHz with six decimals.
func FormatMHz(hz uint32) string {
	return fmt.Sprintf("%.6f", float64(hz)/1000000.0)
}

// ParseMHz parses a MHz value into Hz. The whole text must be numeric.
func ParseMHz(text string) (uint32, bool) {
	f, rest := ParseFloat(text)
	if rest != "" {
		return 0, false
	}
	hz := 0.5 + 1000000.0*f
	if hz < 0 || hz > math.MaxUint32 {
		return 0, false
	}
	return uint32(hz), true
}

// FrequencyField prints and parses MHz.
func FrequencyField(name string, a Accessor) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			return FormatMHz(a.Get(ch)), true
		},
		Set: func(ch int, text string) bool {
			hz, ok := ParseMHz(text)
			return ok && a.Set(ch, hz)
		},
	}
}

// SearchLabel finds key in labels, ignoring case.
func SearchLabel(key string, labels []string) int {
	for i, l := range labels {
		if strings.EqualFold(key, l) {
			return i
		}
	}
	return -1
}

// SearchFloat finds the first entry within precision of key.
func SearchFloat(key float64, table []float64, precision float64) int {
	for i, v := range table {
		if d := key - v; d < precision && d > -precision {
			return i
		}
	}
	return -1
}

// EnumField maps raw values to labels.
func EnumField(name string, labels []string, a Accessor) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			if v >= uint32(len(labels)) {
				return raw(v), false
			}
			return labels[v], true
		},
		Set: func(ch int, text string) bool {
			i := SearchLabel(text, labels)
			return i >= 0 && a.Set(ch, uint32(i))
		},
	}
}

func tableField(name string, table []float64, format string, precision float64, a Accessor) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			if v >= uint32(len(table)) {
				return raw(v), false
			}
			return fmt.Sprintf(format, table[v]), true
		},
		Set: func(ch int, text string) bool {
			f, _ := ParseFloat(text)
			i := SearchFloat(f, table, precision)
			return i >= 0 && a.Set(ch, uint32(i))
		},
	}
}

// StepField maps raw values to tuning steps printed in kHz.
func StepField(name string, steps []float64, a Accessor) Field {
	return tableField(name, steps, "%gkHz", 0.005, a)
}

// CtcssField maps raw values to CTCSS tones.
func CtcssField(name string, a Accessor) Field {
	return tableField(name, CtcssTones, "%.1fHz", 0.05, a)
}

// DcsField maps raw values to DCS codes.
func DcsField(name string, a Accessor) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			if v >= uint32(len(DcsCodes)) {
				return raw(v), false
			}
			return fmt.Sprintf("%03d", DcsCodes[v]), true
		},
		Set: func(ch int, text string) bool {
			n, rest := ParseUint(text)
			if rest != "" {
				return false
			}
			for i, c := range DcsCodes {
				if uint64(c) == n {
					return a.Set(ch, uint32(i))
				}
			}
			return false
		},
	}
}

// UintField prints a raw number and accepts min..max.
func UintField(name, format string, min, max uint32, a Accessor) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			return fmt.Sprintf(format, v), v >= min && v <= max
		},
		Set: func(ch int, text string) bool {
			n, rest := ParseUint(text)
			if rest != "" || n < uint64(min) || n > uint64(max) {
				return false
			}
			return a.Set(ch, uint32(n))
		},
	}
}

// DvCsqlField is the two digit D-STAR digital code squelch.
func DvCsqlField(name string, a Accessor) Field {
	return UintField(name, "%02d", 0, 99, a)
}

// NameField prints a channel name quoted and escaped. The setter stores the
// cell as given; the CSV reader has already removed quotes and escapes, so
// names holding quotes or backslashes survive a round trip.
func NameField(name string, t Text) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			return Escape(t.Get(ch)), true
		},
		Set: t.Set,
	}
}

// SkipAccessor combines the skip and permanent-skip flags into one value:
// 0 off, 1 skip, 2 permanent skip.
func SkipAccessor(skip, pskip Flag) Accessor {
	return Accessor{
		Get: func(ch int) uint32 {
			switch {
			case pskip.Get(ch):
				return 2
			case skip.Get(ch):
				return 1
			}
			return 0
		},
		Set: func(ch int, v uint32) bool {
			switch v {
			case 0:
				skip.Set(ch, false)
				pskip.Set(ch, false)
			case 1:
				skip.Set(ch, true)
				pskip.Set(ch, false)
			case 2:
				skip.Set(ch, true)
				pskip.Set(ch, true)
			default:
				return false
			}
			return true
		},
	}
}

// BankGroupField prints bank groups as letters. Values at or above
// unassigned print as a space; blank input stores unassigned.
func BankGroupField(name string, unassigned uint32, a Accessor) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			if v > 'Z'-'A' || v >= unassigned {
				return " ", true
			}
			return string(rune('A' + v)), true
		},
		Set: func(ch int, text string) bool {
			text = strings.TrimSpace(text)
			if text == "" {
				return a.Set(ch, unassigned)
			}
			c := text[0]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			if c < 'A' || c > 'Z' {
				return false
			}
			v := uint32(c - 'A')
			if v > unassigned {
				v = unassigned
			}
			return a.Set(ch, v)
		},
	}
}

// BankChannelField is the two digit position within a bank.
func BankChannelField(name string, a Accessor) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			if v > 99 {
				v = 0
			}
			return fmt.Sprintf("%02d", v), true
		},
		Set: func(ch int, text string) bool {
			n, rest := ParseUint(text)
			if rest != "" || n > 99 {
				return false
			}
			return a.Set(ch, uint32(n))
		},
	}
}

// RoutingField prints a call sign quoted and stores it space padded.
func RoutingField(name string, c Call) Field {
	return Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			r := c.Get(ch)
			return Escape(r[:]), true
		},
		Set: func(ch int, text string) bool {
			return c.Set(ch, routing.New(text))
		},
	}
}

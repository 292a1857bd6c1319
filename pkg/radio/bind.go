package radio

import "github.com/dougsko/radio2csv/pkg/codec"

// BindField binds a codec field inside each channel record to an Accessor.
// Values that do not fit the field are rejected.
func BindField(rec func(ch int) []byte, f codec.Field) Accessor {
	return Accessor{
		Get: func(ch int) uint32 { return f.Get(rec(ch)) },
		Set: func(ch int, v uint32) bool {
			if v > f.Max() {
				return false
			}
			f.Set(rec(ch), v)
			return true
		},
	}
}

// BindScaled binds a frequency whose step is picked by a selector field.
func BindScaled(rec func(ch int) []byte, value codec.Uint, sel codec.Field) Accessor {
	f := codec.ScaledFrequency{Value: value, Selector: sel}
	return Accessor{
		Get: func(ch int) uint32 { return f.Hz(rec(ch)) },
		Set: func(ch int, hz uint32) bool { return f.SetHz(rec(ch), hz) },
	}
}

// BindFlags binds a per-channel bitset.
func BindFlags(data []byte, f codec.Flags) Flag {
	return Flag{
		Get: func(ch int) bool { return f.Get(data, ch) },
		Set: func(ch int, v bool) { f.Set(data, ch, v) },
	}
}

// BindText binds a fixed width, space padded name inside each record.
func BindText(rec func(ch int) []byte, offset, width int) Text {
	return Text{
		Get: func(ch int) []byte { return rec(ch)[offset : offset+width] },
		Set: func(ch int, s string) bool {
			codec.Pad(rec(ch)[offset:offset+width], s, ' ')
			return true
		},
	}
}

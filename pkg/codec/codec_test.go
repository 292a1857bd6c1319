package codec

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBits(t *testing.T) {
	b := []byte{0xFF, 0x00}

	t.Run("Set Preserves Neighbours", func(t *testing.T) {
		f := Bits{Offset: 0, Shift: 2, Width: 3}
		f.Set(b, 0)
		assert.Equal(t, byte(0xE3), b[0])
		f.Set(b, 5)
		assert.Equal(t, uint32(5), f.Get(b))
		assert.Equal(t, byte(0xF7), b[0])
	})

	t.Run("Set Truncates", func(t *testing.T) {
		f := Bits{Offset: 1, Shift: 4, Width: 4}
		f.Set(b, 0x1A)
		assert.Equal(t, byte(0xA0), b[1])
		assert.Equal(t, uint32(15), f.Max())
	})

	t.Run("Split", func(t *testing.T) {
		s := Split{Hi: Bits{0, 0, 2}, Lo: Bits{1, 4, 4}}
		buf := []byte{0xFC, 0x0F}
		s.Set(buf, 0x2B)
		assert.Equal(t, uint32(0x2B), s.Get(buf))
		assert.Equal(t, byte(0xFE), buf[0])
		assert.Equal(t, byte(0xBF), buf[1])
		assert.Equal(t, uint32(63), s.Max())
	})
}

func TestUint(t *testing.T) {
	t.Run("Big Endian", func(t *testing.T) {
		b := make([]byte, 4)
		BE24(1).Set(b, 0x123456)
		assert.Equal(t, []byte{0, 0x12, 0x34, 0x56}, b)
		assert.Equal(t, uint32(0x123456), BE24(1).Get(b))
	})

	t.Run("Little Endian", func(t *testing.T) {
		b := make([]byte, 4)
		LE32(0).Set(b, 0x01020304)
		assert.Equal(t, []byte{4, 3, 2, 1}, b)
		assert.Equal(t, uint32(0x01020304), LE32(0).Get(b))
	})

	t.Run("Narrow Keeps Top Bits", func(t *testing.T) {
		b := []byte{0xFC, 0, 0}
		u := Uint{Offset: 0, Bits: 18, Order: BigEndian}
		u.Set(b, 0x3FFFF)
		assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, b)
		u.Set(b, 1)
		assert.Equal(t, []byte{0xFC, 0, 1}, b)
		assert.Equal(t, uint32(1), u.Get(b))
	})
}

func TestFrequency(t *testing.T) {
	b := make([]byte, 4)
	f := Frequency{BE16(0)}
	require.True(t, f.SetHz(b, 600000, 5000))
	assert.Equal(t, uint32(600000), f.Hz(b, 5000))
	assert.False(t, f.SetHz(b, 5000*70000, 5000))
}

func TestFrequencyRoundTrip(t *testing.T) {
	const fill = 0xA5
	for _, order := range []Order{BigEndian, LittleEndian} {
		for width := uint(1); width <= 32; width++ {
			for _, div := range []uint32{1, 5000} {
				f := Frequency{Uint{Offset: 1, Bits: width, Order: order}}
				name := fmt.Sprintf("order %d width %d div %d", order, width, div)
				t.Run(name, func(t *testing.T) {
					top := uint64(f.Max())
					if limit := uint64(math.MaxUint32) / uint64(div); top > limit {
						top = limit
					}
					// bits of the leading byte that lie outside the field
					keep := ^byte(uint32(1)<<f.topBits() - 1)
					for _, q := range []uint64{0, 1, top / 2, top} {
						hz := uint32(q) * div
						b := bytes.Repeat([]byte{fill}, f.Size()+2)
						require.True(t, f.SetHz(b, hz, div), "set %d", hz)
						assert.Equal(t, hz, f.Hz(b, div))
						assert.Equal(t, byte(fill), b[0])
						assert.Equal(t, byte(fill), b[len(b)-1])
						assert.Equal(t, byte(fill)&keep, b[f.index(0)]&keep)
					}

					if uint64(f.Max()) < top+1 && (top+1)*uint64(div) <= math.MaxUint32 {
						b := bytes.Repeat([]byte{fill}, f.Size()+2)
						assert.False(t, f.SetHz(b, uint32(top+1)*div, div))
					}
				})
			}
		}
	}
}

func TestFindDivisor(t *testing.T) {
	tests := []struct {
		hz    uint32
		index uint32
		ok    bool
	}{
		{146520000, 0, true},
		{145006250, 1, true},
		{118008330, 2, false},
		{0, 0, true},
	}
	for _, tt := range tests {
		idx, ok := FindDivisor(tt.hz, len(DivisorsX3))
		assert.Equal(t, tt.index, idx, "hz %d", tt.hz)
		assert.Equal(t, tt.ok, ok, "hz %d", tt.hz)
	}

	t.Run("Limited Search", func(t *testing.T) {
		idx, ok := FindDivisor(9000, 2)
		assert.False(t, ok)
		assert.Equal(t, uint32(FallbackDivisor), idx)
	})
}

func TestFrequencySet18(t *testing.T) {
	b := make([]byte, 5)
	f := FrequencySet18{Offset: 0}

	t.Run("Receive", func(t *testing.T) {
		require.True(t, f.SetRx(b, 446006250))
		assert.Equal(t, uint32(446006250), f.Rx(b))
		assert.Equal(t, uint32(1), uint32(b[0]>>5))
	})

	t.Run("Offset Keeps Receive", func(t *testing.T) {
		require.True(t, f.SetTxOffset(b, 600000))
		assert.Equal(t, uint32(600000), f.TxOffset(b))
		assert.Equal(t, uint32(446006250), f.Rx(b))
	})

	t.Run("Out Of Range Index Decodes With Fallback", func(t *testing.T) {
		buf := []byte{0xE0, 0, 3, 0, 0}
		assert.Equal(t, uint32(3*DivisorsX3[FallbackDivisor]/3), f.Rx(buf))
	})

	t.Run("Unrepresentable", func(t *testing.T) {
		buf := make([]byte, 5)
		assert.False(t, f.SetRx(buf, 146520001))
		assert.Equal(t, uint32(FallbackDivisor), uint32(buf[0]>>5))
	})
}

func TestScaledFrequencyTooWide(t *testing.T) {
	f := FrequencySet18{Offset: 0}
	b := make([]byte, 5)
	require.True(t, f.SetRx(b, 446000000))
	require.True(t, f.SetTxOffset(b, 600000))
	before := append([]byte(nil), b...)

	assert.False(t, f.SetTxOffset(b, 400000000))
	assert.False(t, f.SetRx(b, 2000000000))
	assert.Equal(t, before, b)
	assert.Equal(t, uint32(446000000), f.Rx(b))
	assert.Equal(t, uint32(600000), f.TxOffset(b))
}

func TestScaledFrequencyOneBit(t *testing.T) {
	b := make([]byte, 4)
	f := ScaledFrequency{Value: BE24(0), Selector: Bit(3, 7)}
	require.True(t, f.SetHz(b, 145006250))
	assert.Equal(t, uint32(145006250), f.Hz(b))
	assert.Equal(t, byte(0x80), b[3])

	assert.False(t, f.SetHz(b, 9000))
	assert.Equal(t, byte(0x00), b[3])
}

func TestPackedString(t *testing.T) {
	t.Run("Six Bit Name", func(t *testing.T) {
		p := PackedString{Offset: 0, Chars: 6, Bits: 6, Base: ' '}
		b := []byte{0xA0, 0, 0, 0, 0}
		assert.Equal(t, 5, p.Size())
		p.Pack(b, "HOME")
		assert.Equal(t, "HOME  ", p.Unpack(b))
		assert.Equal(t, byte(0xA0), b[0]&0xF0)
	})

	t.Run("Seven Bit Call", func(t *testing.T) {
		p := PackedString{Offset: 1, Chars: 8, Bits: 7, Base: 0}
		b := make([]byte, 8)
		assert.Equal(t, 7, p.Size())
		p.Pack(b, "W1AW   B")
		assert.Equal(t, "W1AW   B", p.Unpack(b))
		assert.Equal(t, byte(0), b[0])
	})

	t.Run("Unpack Is Unsigned", func(t *testing.T) {
		p := PackedString{Offset: 0, Chars: 6, Bits: 6, Base: ' '}
		b := []byte{0x0F, 0xFF, 0xFF, 0xFF, 0xFF}
		assert.Equal(t, "______", p.Unpack(b))
	})
}

func TestFlags(t *testing.T) {
	b := make([]byte, 2)
	f := Flags{Offset: 0}
	f.Set(b, 0, true)
	f.Set(b, 9, true)
	assert.Equal(t, []byte{0x01, 0x02}, b)
	assert.True(t, f.Get(b, 9))
	f.Set(b, 9, false)
	assert.False(t, f.Get(b, 9))
}

func TestPad(t *testing.T) {
	b := make([]byte, 6)
	Pad(b, "AB", ' ')
	assert.Equal(t, "AB    ", string(b))
	Pad(b, "ABCDEFGH", ' ')
	assert.Equal(t, "ABCDEF", string(b))
	assert.Equal(t, "AB", CString([]byte{'A', 'B', 0xFF, 'C'}, 0, 0xFF))
}

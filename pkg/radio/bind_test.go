package radio

import (
	"testing"

	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinders(t *testing.T) {
	data := make([]byte, 8)
	rec := func(ch int) []byte { return data[4*ch : 4*ch+4] }

	t.Run("Field", func(t *testing.T) {
		a := BindField(rec, codec.Bits{Offset: 1, Shift: 4, Width: 3})
		require.True(t, a.Set(1, 5))
		assert.Equal(t, uint32(5), a.Get(1))
		assert.Equal(t, byte(0x50), data[5])
		assert.False(t, a.Set(1, 8), "Expected value wider than the field to fail")
		assert.Equal(t, uint32(5), a.Get(1))
	})

	t.Run("Scaled", func(t *testing.T) {
		a := BindScaled(rec, codec.BE16(0), codec.Bit(2, 0))
		require.True(t, a.Set(0, 5000*125))
		assert.Equal(t, uint32(625000), a.Get(0))
		assert.False(t, a.Set(0, 5000*70000))
		assert.Equal(t, uint32(625000), a.Get(0))
	})

	t.Run("Flags", func(t *testing.T) {
		flags := make([]byte, 2)
		f := BindFlags(flags, codec.Flags{Offset: 0})
		f.Set(10, true)
		assert.True(t, f.Get(10))
		assert.Equal(t, []byte{0, 0x04}, flags)
	})

	t.Run("Text", func(t *testing.T) {
		txt := BindText(rec, 1, 3)
		require.True(t, txt.Set(1, "ABCD"))
		assert.Equal(t, []byte("ABC"), txt.Get(1))
		require.True(t, txt.Set(1, "A"))
		assert.Equal(t, []byte("A  "), txt.Get(1))
	})
}

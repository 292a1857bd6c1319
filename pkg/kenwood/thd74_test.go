package kenwood

import (
	"testing"

	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func erased() []byte {
	data := make([]byte, imageSize)
	for i := range data {
		data[i] = 0xFF
	}
	return data
}

func bind(t *testing.T) radio.Radio {
	t.Helper()
	r, err := BindTHD74("", erased())
	require.NoError(t, err)
	return r
}

func set(t *testing.T, r radio.Radio, name string, ch int, text string) {
	t.Helper()
	f, ok := radio.Lookup(r.Fields(), name)
	require.True(t, ok, "field %s", name)
	require.True(t, f.Set(ch, text), "set %s to %q", name, text)
}

func get(t *testing.T, r radio.Radio, name string, ch int) string {
	t.Helper()
	f, ok := radio.Lookup(r.Fields(), name)
	require.True(t, ok, "field %s", name)
	v, _ := f.Get(ch)
	return v
}

func TestBindTHD74(t *testing.T) {
	r := bind(t)
	assert.Equal(t, "Kenwood TH-D74", r.Model())
	assert.Equal(t, 1000, r.Count())
	assert.Len(t, r.Fields(), 23)
	assert.Equal(t, "Channel Number", r.Fields()[0].Name)

	_, err := BindTHD74("", make([]byte, imageSize-1))
	assert.ErrorIs(t, err, radio.ErrNoMatch)
}

func TestCheckTHD74(t *testing.T) {
	require.NoError(t, CheckTHD74())
	assert.LessOrEqual(t, perBlock*channelSize, blockSize)

	// The last block ends before the name table.
	last := blockBase + ((channels-1)/perBlock)*blockSize + ((channels-1)%perBlock+1)*channelSize
	assert.LessOrEqual(t, last, nameBase)
}

func TestChannelLayout(t *testing.T) {
	r := bind(t).(*THD74)
	img := r.Data()

	set(t, r, "Channel Number", 7, "x")
	_, ok := r.Fields()[0].Get(7)
	assert.True(t, ok)
	assert.Equal(t, byte(len(bandLimits)), img[setBase+4*7])
	assert.Equal(t, `"                "`, get(t, r, "Name", 7))

	// Channel 7 is the second record of the second block.
	set(t, r, "Receive Frequency", 7, "446.000000")
	assert.Equal(t, byte(2), img[setBase+4*7], "Expected UHF band index")
	start := blockBase + blockSize + channelSize
	assert.Equal(t, []byte{0x80, 0x6B, 0x95, 0x1A}, img[start:start+4])
	assert.Equal(t, "446.000000", get(t, r, "Transmit Frequency", 7))

	set(t, r, "Channel Number", 7, "")
	_, ok = r.Fields()[0].Get(7)
	assert.False(t, ok)
	assert.Equal(t, byte(noBand), img[setBase+4*7])
}

func TestModesAndSquelch(t *testing.T) {
	r := bind(t)
	set(t, r, "Channel Number", 0, "x")

	for _, mode := range modulations {
		set(t, r, "Operating Mode", 0, mode)
		assert.Equal(t, mode, get(t, r, "Operating Mode", 0))
	}

	for _, sq := range fmSquelches {
		set(t, r, "T/CT/DCS", 0, sq)
		assert.Equal(t, sq, get(t, r, "T/CT/DCS", 0))
	}

	set(t, r, "Receive Step", 0, "12.5kHz")
	assert.Equal(t, "12.5kHz", get(t, r, "Receive Step", 0))
	assert.Equal(t, "12.5kHz", get(t, r, "Transmit Step", 0))
}

func TestKenwoodFields(t *testing.T) {
	r := bind(t)
	set(t, r, "Channel Number", 2, "x")

	t.Run("Reverse", func(t *testing.T) {
		assert.Equal(t, "----", get(t, r, "Reverse", 2))
		f, _ := radio.Lookup(r.Fields(), "Reverse")
		assert.False(t, f.Set(2, "On"))
	})

	t.Run("Lockout", func(t *testing.T) {
		set(t, r, "Lockout", 2, "on")
		assert.Equal(t, "On", get(t, r, "Lockout", 2))
		f, _ := radio.Lookup(r.Fields(), "Lockout")
		assert.False(t, f.Set(2, "maybe"))
		assert.Equal(t, "Off", get(t, r, "Lockout", 2))
	})

	t.Run("Fine Step", func(t *testing.T) {
		set(t, r, "Fine Step", 2, "500")
		assert.Equal(t, "500", get(t, r, "Fine Step", 2))
		f, _ := radio.Lookup(r.Fields(), "Fine Step")
		assert.False(t, f.Set(2, "250"))
	})

	t.Run("Group", func(t *testing.T) {
		set(t, r, "Group", 2, "7")
		assert.Equal(t, "07", get(t, r, "Group", 2))
		f, _ := radio.Lookup(r.Fields(), "Group")
		assert.False(t, f.Set(2, "30"))
	})

	t.Run("Repeater Calls", func(t *testing.T) {
		set(t, r, "Rpt-1 Callsign", 2, "")
		assert.Equal(t, `"        "`, get(t, r, "Rpt-1 Callsign", 2))
		rec := r.(*THD74).channel(2)
		assert.Equal(t, "DIRECT  ", string(rec[rpt1Call:rpt1Call+8]))

		set(t, r, "Your Callsign", 2, "CQCQCQ")
		assert.Equal(t, `"CQCQCQ  "`, get(t, r, "Your Callsign", 2))
	})
}

func TestComment(t *testing.T) {
	r := bind(t).(*THD74)
	c, err := r.Comment()
	require.NoError(t, err)
	assert.Equal(t, "", c)

	require.NoError(t, r.SetComment("field day"))
	c, err = r.Comment()
	require.NoError(t, err)
	assert.Equal(t, "field day", c)
	img := r.Data()
	assert.Equal(t, "field day", string(img[comment2Base:comment2Base+9]))
	assert.Equal(t, byte(0xFF), img[comment2Base+9])
}

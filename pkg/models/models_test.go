package models

import (
	"errors"
	"testing"

	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func erased(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return data
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int
		binary bool
		model  string
	}{
		{"ID-880H", "31670001\r\n", 0xF600, false, "Icom ID-880H"},
		{"IC-80AD", "31550001\r\n#Comment=\r\n", 0xF600, false, "Icom IC-80AD"},
		{"ID-51+", "33900002\r\n", 0x1FB40, false, "Icom ID-51+"},
		{"TH-D74", "", 0x7A400, true, "Kenwood TH-D74"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Detect(radio.NewImage(tt.header, erased(tt.size)), tt.binary)
			require.NoError(t, err)
			assert.Equal(t, tt.model, r.Model())

			for _, m := range All() {
				if m.Name == tt.model {
					assert.Equal(t, m.Channels, r.Count())
				}
			}
		})
	}
}

func TestDetectNoMatch(t *testing.T) {
	_, err := Detect(radio.NewImage("99999999\r\n", erased(0xF600)), false)
	assert.ErrorIs(t, err, radio.ErrNoMatch)

	// ICF images are never offered to the binary models.
	_, err = Detect(radio.NewImage("", erased(0x7A400)), false)
	assert.ErrorIs(t, err, radio.ErrNoMatch)
}

func TestDetectCorrupt(t *testing.T) {
	data := make([]byte, 0x1A84)
	data[0x10], data[0x11] = 0x84, 0x1A
	data[0x20] = 1

	_, err := Detect(radio.NewImage("", data), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, radio.ErrCorrupt)

	var cerr *radio.ChecksumError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "Icom IC-7300", cerr.Model)
}

func TestRegistries(t *testing.T) {
	assert.Len(t, ICF, 12)
	assert.Len(t, Binary, 2)
	assert.Len(t, All(), 14)
	assert.Equal(t, "Icom ID-1", All()[0].Name)
	for _, m := range Binary {
		assert.True(t, m.Binary, m.Name)
	}
}

func TestLayouts(t *testing.T) {
	require.Len(t, All(), 14)
	for _, m := range All() {
		t.Run(m.Name, func(t *testing.T) {
			require.NotNil(t, m.Layout)
			assert.NoError(t, m.Layout())
		})
	}
}

package icf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeros(n int) string {
	return strings.Repeat("00", n)
}

func TestIsICF(t *testing.T) {
	assert.True(t, IsICF("memories.icf"))
	assert.True(t, IsICF("MEMORIES.ICF"))
	assert.False(t, IsICF("memories.dat"))
	assert.False(t, IsICF("icf"))
}

func TestRead(t *testing.T) {
	input := "31670001\r\n" +
		"#CloneComment=test\r\n" +
		"#Map=1\r\n" +
		"000010000102030405060708090A0B0C0D0E0F\r\n" +
		"001005101112131415\r\n"

	img, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "31670001\r\n#CloneComment=test\r\n#Map=1\r\n", img.Header)
	require.Equal(t, 21, img.Size())
	assert.Equal(t, byte(0x0F), img.Data[15])
	assert.Equal(t, []byte{0x10, 0x11, 0x12, 0x13, 0x14}, img.Data[16:])
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", ErrFormat},
		{"gap", "31670001\n000010" + zeros(16) + "\n002010" + zeros(16) + "\n", ErrFormat},
		{"short payload", "31670001\n000010" + zeros(15) + "\n", ErrFormat},
		{"bad hex", "31670001\n000010ZZ" + zeros(15) + "\n", ErrFormat},
		{"too large", "31670001\n" + "FFFFFFF010" + zeros(16) + "\n", ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	t.Run("small image", func(t *testing.T) {
		data := make([]byte, 40)
		for i := range data {
			data[i] = byte(i * 7)
		}
		img := &radio.Image{Header: "25060000\r\n#Comment=x\r\n", Data: data}

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, img))
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "00001000070E15", lines[2][:14])
		assert.Equal(t, "002008", lines[4][:6])

		back, err := Read(&buf)
		require.NoError(t, err)
		assert.Equal(t, img.Header, back.Header)
		assert.Equal(t, img.Data, back.Data)
	})

	t.Run("large image", func(t *testing.T) {
		img := &radio.Image{Header: "33900001\n", Data: make([]byte, 0x10040)}
		img.Data[0x10030] = 0xAB

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, img))
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 1+0x10040/0x20)
		assert.Len(t, lines[1], 8+2+64)
		assert.Equal(t, "0001002020", lines[len(lines)-1][:10])

		back, err := Read(&buf)
		require.NoError(t, err)
		assert.Equal(t, img.Data, back.Data)
	})
}

func TestBinary(t *testing.T) {
	img, err := ReadBinary(bytes.NewReader([]byte{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, "", img.Header)
	assert.Equal(t, []byte{1, 2, 3}, img.Data)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, img))
	assert.Equal(t, []byte{1, 2, 3}, buf.Bytes())

	_, err = ReadBinary(bytes.NewReader(make([]byte, MaxSize+1)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

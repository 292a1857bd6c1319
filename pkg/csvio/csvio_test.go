package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dougsko/radio2csv/pkg/icom"
	"github.com/dougsko/radio2csv/pkg/logging"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const id880Header = "31670001\r\n"

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.SetGlobalLogger(logging.New(&buf, logging.LevelInfo))
	t.Cleanup(func() { logging.SetGlobalLogger(logging.New(&bytes.Buffer{}, logging.LevelInfo)) })
	return &buf
}

func erased() []byte {
	data := make([]byte, 0xF600)
	for i := range data {
		data[i] = 0xFF
	}
	return data
}

// twoChannels builds an ID-880H image with a simplex channel and a
// repeater channel, setting fields in column order.
func twoChannels(t *testing.T) radio.Radio {
	t.Helper()
	r, err := icom.BindID880(id880Header, erased())
	require.NoError(t, err)

	rows := []map[string]string{
		{
			"CH No":          "x",
			"Frequency":      "146.520000",
			"Dup":            "OFF",
			"Offset":         "0.000000",
			"Name":           "SIMPLEX",
			"Your Call Sign": "CQCQCQ",
			"RPT1 Call Sign": "",
			"RPT2 Call Sign": "",
		},
		{
			"CH No":          "x",
			"Frequency":      "446.000000",
			"Dup":            "DUP+",
			"Offset":         "0.600000",
			"Name":           "UHF RPT",
			"Your Call Sign": "CQCQCQ",
			"RPT1 Call Sign": "W1AW  B",
			"RPT2 Call Sign": "W1AW  G",
		},
	}
	for ch, row := range rows {
		for _, f := range r.Fields() {
			if v, ok := row[f.Name]; ok {
				require.True(t, f.Set(ch, v), "set %s to %q", f.Name, v)
			}
		}
	}
	return r
}

func TestRoundTrip(t *testing.T) {
	captureLog(t)
	r := twoChannels(t)
	original := append([]byte(nil), r.Image().Data...)

	var out bytes.Buffer
	require.NoError(t, Dump(&out, r))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "CH No,Frequency,Dup,Offset,TS,Mode,Name"))
	assert.True(t, strings.HasPrefix(lines[1], "0,146.520000,OFF,0.000000,"))
	assert.True(t, strings.HasPrefix(lines[2], "1,446.000000,DUP+,0.600000,"))
	assert.Contains(t, lines[2], `"UHF RPT "`)

	back, err := icom.BindID880(id880Header, original)
	require.NoError(t, err)
	n, err := Load(strings.NewReader(out.String()), back)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, original, back.Image().Data, "Expected byte identical image")
}

func TestNameWithQuotesRoundTrip(t *testing.T) {
	captureLog(t)
	r, err := icom.BindID880(id880Header, erased())
	require.NoError(t, err)
	for _, set := range [][2]string{{"CH No", "x"}, {"Frequency", "146.520000"}, {"Name", `a"b\c`}} {
		f, ok := radio.Lookup(r.Fields(), set[0])
		require.True(t, ok)
		require.True(t, f.Set(0, set[1]), "set %s", set[0])
	}

	var out bytes.Buffer
	require.NoError(t, Dump(&out, r))
	assert.Contains(t, out.String(), `"a\"b\\c   "`)

	back, err := icom.BindID880(id880Header, erased())
	require.NoError(t, err)
	n, err := Load(strings.NewReader(out.String()), back)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	name, _ := radio.Lookup(back.Fields(), "Name")
	got, _ := name.Get(0)
	assert.Equal(t, `"a\"b\\c   "`, got)
}

func TestLoadSkipsBadRows(t *testing.T) {
	log := captureLog(t)
	r := twoChannels(t)

	input := "CH No,Frequency\r\n" +
		"abc,146.520000\r\n" +
		"\r\n" +
		"3,147.000000\r\n" +
		"4,not a frequency\r\n" +
		"5000,146.520000\r\n"
	n, err := Load(strings.NewReader(input), r)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	valid := r.Fields()[0]
	for ch, want := range map[int]bool{0: true, 1: true, 3: true, 4: false} {
		_, ok := valid.Get(ch)
		assert.Equal(t, want, ok, "channel %d", ch)
	}
	freq, _ := radio.Lookup(r.Fields(), "Frequency")
	v, _ := freq.Get(0)
	assert.Equal(t, "146.520000", v, "Expected other channels untouched")

	assert.Contains(t, log.String(), "Channel abc: Invalid number; line skipped")
	assert.Contains(t, log.String(), "Channel 4, field 'Frequency': Invalid field contents 'not a frequency'; line skipped")
	assert.Contains(t, log.String(), "Channel 5000: Invalid number; line skipped")
	assert.Contains(t, log.String(), "Lines loaded: 1")
}

func TestLoadDeletesNumberOnlyRow(t *testing.T) {
	captureLog(t)
	r := twoChannels(t)

	n, err := Load(strings.NewReader("ch no,FREQUENCY\n1\n"), r)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, ok := r.Fields()[0].Get(1)
	assert.False(t, ok)
	_, ok = r.Fields()[0].Get(0)
	assert.True(t, ok)
}

func TestLoadHeaderErrors(t *testing.T) {
	r := twoChannels(t)

	tests := []struct {
		name   string
		header string
		err    error
	}{
		{"empty input", "", ErrMissingHeader},
		{"blank header", "\n0,146.520000\n", ErrMissingHeader},
		{"unknown field", "CH No,Bogus\n", ErrUnknownField},
		{"wrong first field", "Frequency,CH No\n", ErrFirstField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.header), r)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDumpUnknownValue(t *testing.T) {
	log := captureLog(t)
	r, err := icom.BindID880(id880Header, erased())
	require.NoError(t, err)
	require.True(t, r.Fields()[0].Set(0, "x"))

	// Squelch mode 13 has no label.
	img := r.Image().Data
	img[10] = img[10]&0x0F | 0xD0

	var out bytes.Buffer
	require.NoError(t, Dump(&out, r))
	assert.Contains(t, out.String(), ",13,")
	assert.Contains(t, log.String(), "Channel 0, field 'TONE': Unknown field value '13'")
}

func TestNextCell(t *testing.T) {
	tests := []struct {
		in, cell, rest string
	}{
		{`plain`, "plain", ""},
		{`a,b,c`, "a", "b,c"},
		{`,x`, "", "x"},
		{`,`, "", ""},
		{`"quoted, cell",next`, "quoted, cell", "next"},
		{`"a\"b",c`, `a"b`, "c"},
		{`"ab" trailing,y`, "ab", "y"},
		{`"open`, "open", ""},
		{` spaced ,x`, " spaced ", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cell, rest := nextCell(tt.in)
			assert.Equal(t, tt.cell, cell)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

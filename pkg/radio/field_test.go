package radio

import (
	"testing"

	"github.com/dougsko/radio2csv/pkg/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cells backs accessors with a plain slice.
type cells []uint32

func (c cells) accessor(max uint32) Accessor {
	return Accessor{
		Get: func(ch int) uint32 { return c[ch] },
		Set: func(ch int, v uint32) bool {
			if v > max {
				return false
			}
			c[ch] = v
			return true
		},
	}
}

func TestParseNumbers(t *testing.T) {
	t.Run("Uint", func(t *testing.T) {
		n, rest := ParseUint(" 42")
		assert.Equal(t, uint64(42), n)
		assert.Equal(t, "", rest)

		n, rest = ParseUint("12abc")
		assert.Equal(t, uint64(12), n)
		assert.Equal(t, "abc", rest)

		_, rest = ParseUint("abc")
		assert.Equal(t, "abc", rest)

		n, _ = ParseUint("-1")
		assert.Equal(t, ^uint64(0), n)
	})

	t.Run("Float", func(t *testing.T) {
		f, rest := ParseFloat("88.5Hz")
		assert.InDelta(t, 88.5, f, 1e-9)
		assert.Equal(t, "Hz", rest)

		f, rest = ParseFloat("1e3")
		assert.InDelta(t, 1000.0, f, 1e-9)
		assert.Equal(t, "", rest)

		_, rest = ParseFloat("kHz")
		assert.Equal(t, "kHz", rest)

		f, rest = ParseFloat("")
		assert.Equal(t, 0.0, f)
		assert.Equal(t, "", rest)
	})
}

func TestFrequencyField(t *testing.T) {
	c := make(cells, 1)
	f := FrequencyField("Frequency", c.accessor(^uint32(0)))

	require.True(t, f.Set(0, "146.52"))
	assert.Equal(t, uint32(146520000), c[0])
	text, ok := f.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "146.520000", text)

	assert.False(t, f.Set(0, "146.52MHz"))
	assert.False(t, f.Set(0, "-1"))
}

func TestEnumField(t *testing.T) {
	c := make(cells, 1)
	f := EnumField("Dup", Splits, c.accessor(3))

	require.True(t, f.Set(0, "dup+"))
	assert.Equal(t, uint32(2), c[0])
	assert.False(t, f.Set(0, "DUP"))

	c[0] = 7
	text, ok := f.Get(0)
	assert.False(t, ok)
	assert.Equal(t, "7", text)
}

func TestTableFields(t *testing.T) {
	c := make(cells, 3)

	step := StepField("TS", TuneSteps, c.accessor(15))
	require.True(t, step.Set(0, "12.5kHz"))
	text, _ := step.Get(0)
	assert.Equal(t, "12.5kHz", text)
	assert.False(t, step.Set(0, "7kHz"))

	tone := CtcssField("TONE", c.accessor(63))
	require.True(t, tone.Set(1, "88.5Hz"))
	assert.Equal(t, uint32(8), c[1])
	text, _ = tone.Get(1)
	assert.Equal(t, "88.5Hz", text)

	dcs := DcsField("DTCS Code", c.accessor(127))
	require.True(t, dcs.Set(2, "023"))
	assert.Equal(t, uint32(0), c[2])
	text, _ = dcs.Get(2)
	assert.Equal(t, "023", text)
	assert.False(t, dcs.Set(2, "024"))
	assert.False(t, dcs.Set(2, "23x"))
}

func TestNameField(t *testing.T) {
	var stored string
	f := NameField("Name", Text{
		Get: func(int) []byte { return []byte("A\"B\\C\x00junk") },
		Set: func(_ int, s string) bool { stored = s; return true },
	})

	text, ok := f.Get(0)
	assert.True(t, ok)
	assert.Equal(t, `"A\"B\\C"`, text)

	require.True(t, f.Set(0, `a"b\c`))
	assert.Equal(t, `a"b\c`, stored)
}

func TestSkipAccessor(t *testing.T) {
	flags := map[string]bool{}
	flag := func(name string) Flag {
		return Flag{
			Get: func(int) bool { return flags[name] },
			Set: func(_ int, v bool) { flags[name] = v },
		}
	}
	a := SkipAccessor(flag("skip"), flag("pskip"))

	for _, mode := range []uint32{0, 1, 2} {
		require.True(t, a.Set(0, mode))
		assert.Equal(t, mode, a.Get(0))
	}
	assert.False(t, a.Set(0, 3))
}

func TestBankGroupField(t *testing.T) {
	c := make(cells, 1)
	f := BankGroupField("Bank Group", 26, c.accessor(31))

	require.True(t, f.Set(0, "c"))
	assert.Equal(t, uint32(2), c[0])
	text, _ := f.Get(0)
	assert.Equal(t, "C", text)

	require.True(t, f.Set(0, " "))
	assert.Equal(t, uint32(26), c[0])
	text, ok := f.Get(0)
	assert.True(t, ok)
	assert.Equal(t, " ", text)

	assert.False(t, f.Set(0, "1"))

	t.Run("Clamped To Unassigned", func(t *testing.T) {
		small := BankGroupField("Bank Group", 10, c.accessor(31))
		require.True(t, small.Set(0, "Z"))
		assert.Equal(t, uint32(10), c[0])
		text, _ := small.Get(0)
		assert.Equal(t, " ", text)
	})
}

func TestUintFields(t *testing.T) {
	c := make(cells, 1)
	csql := DvCsqlField("DV CSQL Code", c.accessor(127))
	require.True(t, csql.Set(0, "7"))
	text, ok := csql.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "07", text)
	assert.False(t, csql.Set(0, "100"))

	c[0] = 120
	_, ok = csql.Get(0)
	assert.False(t, ok)

	bank := BankChannelField("Bank Channel", c.accessor(255))
	text, _ = bank.Get(0)
	assert.Equal(t, "00", text)
	require.True(t, bank.Set(0, "42"))
	text, _ = bank.Get(0)
	assert.Equal(t, "42", text)
}

func TestRoutingField(t *testing.T) {
	var r routing.Routing
	f := RoutingField("Your Call Sign", Call{
		Get: func(int) routing.Routing { return r },
		Set: func(_ int, v routing.Routing) bool { r = v; return true },
	})
	require.True(t, f.Set(0, "W1AW"))
	text, _ := f.Get(0)
	assert.Equal(t, `"W1AW    "`, text)
}

func TestBoundedAndValid(t *testing.T) {
	valid := make([]bool, 2)
	fields := Bounded(2, ValidField("CH No", 1,
		func(ch int) bool { return valid[ch] },
		func(ch int, v bool) { valid[ch] = v },
	))

	require.True(t, fields[0].Set(1, "146.52"))
	text, ok := fields[0].Get(1)
	assert.True(t, ok)
	assert.Equal(t, "2", text)

	require.True(t, fields[0].Set(1, ""))
	assert.False(t, valid[1])

	assert.False(t, fields[0].Set(2, "x"))
	_, ok = fields[0].Get(-1)
	assert.False(t, ok)

	f, found := Lookup(fields, "ch no")
	assert.True(t, found)
	assert.Equal(t, "CH No", f.Name)
}

func TestChecksumError(t *testing.T) {
	var err error = &ChecksumError{Model: "Icom IC-7300", Stored: 0x1234, Computed: 0x4321}
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "stored 1234")
}

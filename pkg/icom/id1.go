package icom

import (
	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/radio"
)

var (
	id1Modulations = []string{"?0?", "FM", "DV", "DD"}
	id1FmSquelches = []string{"OFF", "TONE", "?2?", "TSQL"}
)

const (
	id1Size        = 0x13AF
	id1Channels    = 100
	id1ChannelSize = 48
)

var (
	id1RxFreq      = codec.LE32(0)
	id1TxOffset    = codec.LE32(4)
	id1Direction   = codec.Bits{Offset: 8, Shift: 2, Width: 2}
	id1FmSquelch   = codec.Bits{Offset: 8, Shift: 4, Width: 2}
	id1Modulation  = codec.Bits{Offset: 8, Shift: 6, Width: 2}
	id1DvSquelch   = codec.Bits{Offset: 9, Shift: 1, Width: 2}
	id1Skip        = codec.Bit(9, 7)
	id1CtcssEncode = codec.Bits{Offset: 10, Shift: 0, Width: 6}
	id1CtcssDecode = codec.Bits{Offset: 11, Shift: 0, Width: 6}
	id1DvCsql      = codec.Bits{Offset: 36, Shift: 0, Width: 7}
)

const (
	id1Rpt2Call = 12
	id1Rpt1Call = 20
	id1YourCall = 28
	id1Name     = 38
	id1NameSize = 10
)

// ID1 is the Icom ID-1 1.2GHz transceiver. Its channel record is stored
// little endian, with inline routing calls and no banks.
type ID1 struct {
	radio.Base
	channels records
}

// BindID1 binds ID-1 images.
func BindID1(header string, data []byte) (radio.Radio, error) {
	if !matches(header, data, "25060000", id1Size) {
		return nil, radio.ErrNoMatch
	}
	r := &ID1{Base: radio.NewBase("Icom ID-1", header, data, id1Channels, 0)}
	r.channels = records{data: r.Data(), offset: 0, size: id1ChannelSize}
	ch := r.channels.at

	// The skip mode is a single bit, so permanent skip is rejected.
	skip := radio.BindField(ch, id1Skip)

	r.SetFields(
		radio.ValidField("CH No", 0, r.valid, r.setValid),
		radio.FrequencyField("Frequency", radio.BindField(ch, id1RxFreq)),
		radio.EnumField("Dup", radio.Splits, radio.BindField(ch, id1Direction)),
		radio.FrequencyField("Offset", radio.BindField(ch, id1TxOffset)),
		radio.EnumField("Mode", id1Modulations, radio.BindField(ch, id1Modulation)),
		radio.NameField("Name", radio.BindText(ch, id1Name, id1NameSize)),
		radio.EnumField("SKIP", radio.SkipModes, skip),
		radio.EnumField("TONE", id1FmSquelches, radio.BindField(ch, id1FmSquelch)),
		radio.CtcssField("Repeater Tone", radio.BindField(ch, id1CtcssEncode)),
		radio.CtcssField("TSQL Frequency", radio.BindField(ch, id1CtcssDecode)),
		radio.EnumField("DV SQL", radio.DvSquelches, radio.BindField(ch, id1DvSquelch)),
		radio.DvCsqlField("DV CSQL Code", radio.BindField(ch, id1DvCsql)),
		radio.RoutingField("Your Call Sign", inlineCall(ch, id1YourCall)),
		radio.RoutingField("RPT1 Call Sign", inlineCall(ch, id1Rpt1Call)),
		radio.RoutingField("RPT2 Call Sign", inlineCall(ch, id1Rpt2Call)),
	)
	return r, nil
}

// An erased channel reads as all ones.
func (r *ID1) valid(ch int) bool {
	hz := id1RxFreq.Get(r.channels.at(ch))
	return hz != 0 && hz != 0xFFFFFFFF
}

func (r *ID1) setValid(ch int, v bool) {
	fill := byte(0xFF)
	if v {
		fill = 0
	}
	rec := r.channels.at(ch)
	codec.Fill(rec, fill)
	codec.Pad(rec[id1Name:id1Name+id1NameSize], "", ' ')
}

// CheckID1 verifies the ID-1 channel record and table layout.
func CheckID1() error {
	const model = "Icom ID-1"
	if err := radio.CheckRecord(model, "channel", id1ChannelSize, 48,
		id1RxFreq, id1TxOffset, id1Direction, id1FmSquelch, id1Modulation,
		id1DvSquelch, id1Skip, id1CtcssEncode, id1CtcssDecode,
		region("rpt2 call", id1Rpt2Call, 8),
		region("rpt1 call", id1Rpt1Call, 8),
		region("your call", id1YourCall, 8),
		id1DvCsql, region("name", id1Name, id1NameSize),
	); err != nil {
		return err
	}
	return radio.CheckLayout(model, id1Size, region("channels", 0, id1Channels*id1ChannelSize))
}

package icom

import (
	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/routing"
)

var (
	ic2820Modulations = []string{"FM", "FM-N", "AM", "AM-N", "DV", "?5?", "?6?", "?7?"}
	ic2820FmSquelches = []string{"OFF", "TONE", "TSQL(*)", "TSQL", "TSQL-R", "DTCS(*)", "DTCS", "DTCS-R"}
	ic2820TuneSteps   = []float64{
		5.0, 6.25, 10.0, 12.5, 15.0, 20.0, 25.0, 30.0,
		50.0, -9.0, -10.0, -11.0, -12.0, -13.0, -14.0, -15.0,
	}
)

const (
	ic2820Size        = 0xACC0
	ic2820Channels    = 500
	ic2820Banks       = 26
	ic2820ChannelSize = 48
	ic2820Ignore      = 0x61E0
	ic2820Skip        = 0x6222
	ic2820Skipp       = 0x6263
	ic2820BankMap     = 0x62A4
	ic2820Comment     = 0x6960
	ic2820UrCall      = 0x69B8
	ic2820RpCall      = 0x6B98
	ic2820Calls       = 60

	ic2820YourCall = 8
	ic2820Rpt1Call = 16
	ic2820Rpt2Call = 24
	ic2820Name     = 40
	ic2820NameSize = 8
)

var (
	ic2820RxFreq      = codec.Frequency{Uint: codec.BE32(0)}
	ic2820TxOffset    = codec.Frequency{Uint: codec.BE32(4)}
	ic2820Unknown1    = codec.Byte(32)
	ic2820Direction   = codec.Bits{Offset: 33, Shift: 5, Width: 2}
	ic2820FmSquelch   = codec.Bits{Offset: 33, Shift: 2, Width: 3}
	ic2820CtcssDecode = codec.Bits{Offset: 34, Shift: 2, Width: 6}
	ic2820CtcssEncode = codec.Split{
		Hi: codec.Bits{Offset: 34, Shift: 0, Width: 2},
		Lo: codec.Bits{Offset: 35, Shift: 4, Width: 4},
	}
	ic2820Step       = codec.Bits{Offset: 35, Shift: 0, Width: 4}
	ic2820Dcs        = codec.Bits{Offset: 36, Shift: 1, Width: 7}
	ic2820Modulation = codec.Split{
		Hi: codec.Bit(36, 0),
		Lo: codec.Bits{Offset: 37, Shift: 6, Width: 2},
	}
	ic2820DvCsql     = codec.Bits{Offset: 38, Shift: 1, Width: 7}
	ic2820DvSquelch  = codec.Split{Hi: codec.Bit(38, 0), Lo: codec.Bit(39, 7)}
	ic2820DcsReverse = codec.Bits{Offset: 39, Shift: 4, Width: 2}
)

// IC2820 is the IC-2820H dual band mobile. Frequencies are stored in Hz
// and routing calls are kept in the channel record.
type IC2820 struct {
	radio.Base
	channels records
	ignore   radio.Flag
	skip     radio.Accessor
	urCall   *routing.Table
	rpCall   *routing.Table
	comment  comment
}

// BindIC2820 binds IC-2820H images.
func BindIC2820(header string, data []byte) (radio.Radio, error) {
	if !matches(header, data, "29700001", ic2820Size) {
		return nil, radio.ErrNoMatch
	}
	r := &IC2820{Base: radio.NewBase("Icom IC-2820H", header, data, ic2820Channels, 0)}
	img := r.Data()
	r.channels = records{data: img, offset: 0, size: ic2820ChannelSize}
	r.ignore = radio.BindFlags(img, codec.Flags{Offset: ic2820Ignore})
	r.skip = radio.SkipAccessor(
		radio.BindFlags(img, codec.Flags{Offset: ic2820Skip}),
		radio.BindFlags(img, codec.Flags{Offset: ic2820Skipp}),
	)
	r.urCall = routing.NewTable(img, ic2820UrCall, ic2820Calls)
	r.rpCall = routing.NewTable(img, ic2820RpCall, ic2820Calls)
	r.comment = comment{data: img, offset: ic2820Comment, size: commentSize}
	banks := bankMap{data: img, offset: ic2820BankMap}

	ch := r.channels.at
	layout := dstarLayout{
		valid:       func(ch int) bool { return !r.ignore.Get(ch) },
		setValid:    r.setValid,
		rxFreq:      hertz(ch, ic2820RxFreq),
		split:       radio.BindField(ch, ic2820Direction),
		txOffset:    hertz(ch, ic2820TxOffset),
		step:        radio.BindField(ch, ic2820Step),
		modulation:  radio.BindField(ch, ic2820Modulation),
		name:        radio.BindText(ch, ic2820Name, ic2820NameSize),
		skip:        r.skip,
		fmSquelch:   radio.BindField(ch, ic2820FmSquelch),
		ctcssEncode: radio.BindField(ch, ic2820CtcssEncode),
		ctcssDecode: radio.BindField(ch, ic2820CtcssDecode),
		dcs:         radio.BindField(ch, ic2820Dcs),
		dcsReverse:  radio.BindField(ch, ic2820DcsReverse),
		dvSquelch:   radio.BindField(ch, ic2820DvSquelch),
		dvCsql:      radio.BindField(ch, ic2820DvCsql),
		yourCall:    r.call(ic2820YourCall, r.urCall, routing.CQCQCQ, "UR"),
		rpt1Call:    r.call(ic2820Rpt1Call, r.rpCall, routing.NotUse, "RPT"),
		rpt2Call:    r.call(ic2820Rpt2Call, r.rpCall, routing.NotUse, "RPT"),
		bankGroup:   banks.group(),
		bankChannel: banks.index(),
		steps:       ic2820TuneSteps,
		modulations: ic2820Modulations,
		fmSquelches: ic2820FmSquelches,
		unassigned:  ic2820Banks,
	}
	r.SetFields(layout.fields(0)...)
	return r, nil
}

// hertz binds a frequency stored as a whole number of Hz.
func hertz(r func(int) []byte, f codec.Frequency) radio.Accessor {
	return radio.Accessor{
		Get: func(ch int) uint32 { return f.Hz(r(ch), 1) },
		Set: func(ch int, hz uint32) bool { return f.SetHz(r(ch), hz, 1) },
	}
}

func (r *IC2820) call(offset int, t *routing.Table, def routing.Routing, table string) radio.Call {
	c := inlineCall(r.channels.at, offset)
	return radio.Call{
		Get: c.Get,
		Set: func(ch int, v routing.Routing) bool {
			c.Set(ch, v)
			internCall(r.Model(), t, v, def, ch, table)
			return true
		},
	}
}

func (r *IC2820) setValid(ch int, v bool) {
	fill := byte(0xFF)
	if v {
		fill = 0
	}
	rec := r.channels.at(ch)
	codec.Fill(rec, fill)
	ic2820RxFreq.SetHz(rec, 5000, 1)
	ic2820TxOffset.SetHz(rec, 5000, 1)
	codec.Pad(rec[ic2820Name:ic2820Name+ic2820NameSize], "", ' ')
	r.skip.Set(ch, 0)
	ic2820Unknown1.Set(rec, 0xFF)
	ic2820Direction.Set(rec, 0)
	r.ignore.Set(ch, !v)
}

// Comment returns the image comment.
func (r *IC2820) Comment() (string, error) {
	return r.comment.get(), nil
}

// SetComment stores the image comment, space padded.
func (r *IC2820) SetComment(s string) error {
	r.comment.set(s)
	return nil
}

// CheckIC2820 verifies the IC-2820H channel record and table layout.
func CheckIC2820() error {
	const model = "Icom IC-2820H"
	if err := radio.CheckRecord(model, "channel", ic2820ChannelSize, 48,
		ic2820RxFreq, ic2820TxOffset,
		region("your call", ic2820YourCall, routing.Size),
		region("rpt1 call", ic2820Rpt1Call, routing.Size),
		region("rpt2 call", ic2820Rpt2Call, routing.Size),
		ic2820Unknown1, ic2820Direction, ic2820FmSquelch, ic2820CtcssDecode,
		ic2820CtcssEncode, ic2820Step, ic2820Dcs, ic2820Modulation, ic2820DvCsql,
		ic2820DvSquelch, ic2820DcsReverse,
		region("name", ic2820Name, ic2820NameSize),
	); err != nil {
		return err
	}
	return radio.CheckLayout(model, ic2820Size,
		region("channels", 0, ic2820Channels*ic2820ChannelSize),
		flagRegion("ignore flags", ic2820Ignore, ic2820Channels),
		flagRegion("skip flags", ic2820Skip, ic2820Channels),
		flagRegion("permanent skip flags", ic2820Skipp, ic2820Channels),
		region("bank map", ic2820BankMap, 2*ic2820Channels),
		region("comment", ic2820Comment, commentSize),
		region("your calls", ic2820UrCall, ic2820Calls*routing.Size),
		region("repeater calls", ic2820RpCall, ic2820Calls*routing.Size),
	)
}

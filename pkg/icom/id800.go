package icom

import (
	"strings"

	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/logging"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/routing"
)

var (
	id800PowerLevels = []string{"High", "Low", "Mid"}
	id800Modulations = []string{"FM", "FM-N", "AM", "AM-N", "DV"}
	id800FmSquelches = []string{"OFF", "TONE", "TSQL", "DTCS"}
	id800TuneSteps   = []float64{5.0, 10.0, 12.5, 15.0, 20.0, 25.0, 30.0, 50.0, 100.0, 200.0, 6.25}
)

const (
	id800Size        = 0x4000
	id800Channels    = 500
	id800Banks       = 10
	id800ChannelBase = 0x20
	id800ChannelSize = 22
	id800SuffixBase  = 0x2BF4
	id800UrCallBase  = 0x3250
	id800UrCalls     = 99 // the 100th slot is never used
	id800RpCallBase  = 0x3570
	id800RpCalls     = 54
	id800Comment     = 0x38A8
)

var (
	id800RxFreq      = codec.BE24(0)
	id800TxOffset    = codec.BE16(3)
	id800Power       = codec.Bits{Offset: 5, Shift: 6, Width: 2}
	id800CtcssEncode = codec.Bits{Offset: 5, Shift: 0, Width: 6}
	id800Direction   = codec.Bits{Offset: 6, Shift: 6, Width: 2}
	id800CtcssDecode = codec.Bits{Offset: 6, Shift: 0, Width: 6}
	id800Dcs         = codec.Bits{Offset: 7, Shift: 0, Width: 7}
	id800Step        = codec.Bits{Offset: 8, Shift: 4, Width: 4}
	id800Unknown1    = codec.Byte(9)
	id800RxRes       = codec.Bit(10, 7)
	id800TxRes       = codec.Bit(10, 6)
	id800Unknown2    = codec.Bits{Offset: 10, Shift: 2, Width: 4}
	id800FmSquelch   = codec.Bits{Offset: 10, Shift: 0, Width: 2}
	id800DcsReverse  = codec.Bits{Offset: 11, Shift: 6, Width: 2}
	id800Name        = codec.PackedString{Offset: 11, Chars: 6, Bits: 6, Base: ' '}
	id800DvCsql      = codec.Bits{Offset: 16, Shift: 0, Width: 7}
	id800DvSquelch   = codec.Bits{Offset: 17, Shift: 5, Width: 2}
	id800UseRpt      = codec.Bit(17, 0)
	id800YourCall    = codec.Bits{Offset: 18, Shift: 0, Width: 7}
	id800Rpt1Call    = codec.Bits{Offset: 19, Shift: 0, Width: 6}
	id800Rpt2Call    = codec.Bits{Offset: 20, Shift: 0, Width: 6}
	id800Modulation  = codec.Bits{Offset: 21, Shift: 4, Width: 4}

	// One suffix byte per channel.
	id800Ignore = codec.Bit(0, 6)
	id800Skipp  = codec.Bit(0, 5)
	id800Skip   = codec.Bit(0, 4)
	id800Bank   = codec.Bits{Offset: 0, Shift: 0, Width: 4}
)

// ID800 is the Icom ID-800H dual band mobile. Names are packed six bit
// characters and routing calls are indexes into shared call tables.
type ID800 struct {
	radio.Base
	channels records
	suffix   records
	urCall   *routing.Table
	rpCall   *routing.Table
	comment  comment
}

// BindID800 binds ID-800H images.
func BindID800(header string, data []byte) (radio.Radio, error) {
	if !matches(header, data, "27880200", id800Size) {
		return nil, radio.ErrNoMatch
	}
	r := &ID800{Base: radio.NewBase("Icom ID-800H", header, data, id800Channels, 0)}
	img := r.Data()
	r.channels = records{data: img, offset: id800ChannelBase, size: id800ChannelSize}
	r.suffix = records{data: img, offset: id800SuffixBase, size: 1}
	r.urCall = routing.NewTable(img, id800UrCallBase, id800UrCalls)
	r.rpCall = routing.NewTable(img, id800RpCallBase, id800RpCalls)
	r.comment = comment{data: img, offset: id800Comment, size: commentSize}

	ch, sfx := r.channels.at, r.suffix.at
	skip := radio.SkipAccessor(bitFlag(sfx, id800Skip), bitFlag(sfx, id800Skipp))

	r.SetFields(
		radio.ValidField("CH No", 0, r.valid, r.setValid),
		radio.FrequencyField("Frequency", radio.BindScaled(ch, id800RxFreq, id800RxRes)),
		radio.EnumField("Dup", radio.Splits, r.split()),
		radio.FrequencyField("Offset", radio.BindScaled(ch, id800TxOffset, id800TxRes)),
		radio.StepField("TS", id800TuneSteps, radio.BindField(ch, id800Step)),
		radio.EnumField("Power", id800PowerLevels, radio.BindField(ch, id800Power)),
		radio.EnumField("Mode", id800Modulations, radio.BindField(ch, id800Modulation)),
		radio.NameField("Name", radio.Text{Get: r.name, Set: r.setName}),
		radio.EnumField("SKIP", radio.SkipModes, skip),
		radio.EnumField("TONE", id800FmSquelches, radio.BindField(ch, id800FmSquelch)),
		radio.CtcssField("Repeater Tone", radio.BindField(ch, id800CtcssEncode)),
		radio.CtcssField("TSQL Frequency", radio.BindField(ch, id800CtcssDecode)),
		radio.DcsField("DTCS Code", radio.BindField(ch, id800Dcs)),
		radio.EnumField("DTCS Polarity", radio.DcsReverses, radio.BindField(ch, id800DcsReverse)),
		radio.EnumField("DV SQL", radio.DvSquelches, radio.BindField(ch, id800DvSquelch)),
		radio.DvCsqlField("DV CSQL Code", radio.BindField(ch, id800DvCsql)),
		radio.RoutingField("Your Call Sign", radio.Call{Get: r.yourCall, Set: r.setYourCall}),
		radio.RoutingField("RPT1 Call Sign", r.rptCall(id800Rpt1Call)),
		radio.RoutingField("RPT2 Call Sign", r.rptCall(id800Rpt2Call)),
		radio.BankGroupField("Bank Group", id800Banks, radio.BindField(sfx, id800Bank)),
	)
	return r, nil
}

func bitFlag(r func(int) []byte, b codec.Bits) radio.Flag {
	return radio.Flag{
		Get: func(ch int) bool { return b.Get(r(ch)) != 0 },
		Set: func(ch int, v bool) {
			if v {
				b.Set(r(ch), 1)
			} else {
				b.Set(r(ch), 0)
			}
		},
	}
}

// The direction field stores 0 for simplex and 2, 3 for DUP-, DUP+.
func (r *ID800) split() radio.Accessor {
	return radio.Accessor{
		Get: func(ch int) uint32 {
			v := id800Direction.Get(r.channels.at(ch))
			if v == 0 {
				return 0
			}
			return v - 1
		},
		Set: func(ch int, v uint32) bool {
			if v > 2 {
				return false
			}
			if v != 0 {
				v++
			}
			id800Direction.Set(r.channels.at(ch), v)
			return true
		},
	}
}

func (r *ID800) valid(ch int) bool {
	return id800Ignore.Get(r.suffix.at(ch)) == 0
}

func (r *ID800) setValid(ch int, v bool) {
	fill := byte(0xFF)
	if v {
		fill = 0
	}
	rec := r.channels.at(ch)
	codec.Fill(rec, fill)
	sfx := r.suffix.at(ch)
	sfx[0] = 0
	id800Unknown1.Set(rec, channelMarker)
	id800Unknown2.Set(rec, 0xC)
	id800Name.Pack(rec, "")
	if !v {
		id800Ignore.Set(sfx, 1)
	}
}

func (r *ID800) name(ch int) []byte {
	return []byte(id800Name.Unpack(r.channels.at(ch)))
}

// Names hold six bit characters, which have no lower case.
func (r *ID800) setName(ch int, s string) bool {
	id800Name.Pack(r.channels.at(ch), strings.ToUpper(s))
	return true
}

// yourCall shows repeater routed calls as "/" followed by the repeater
// call with its module letter.
func (r *ID800) yourCall(ch int) routing.Routing {
	rec := r.channels.at(ch)
	idx := int(id800YourCall.Get(rec))
	if idx == 0 {
		return routing.CQCQCQ
	}
	if id800UseRpt.Get(rec) == 0 {
		return r.urCall.Resolve(idx, routing.CQCQCQ)
	}
	rpt := r.rpCall.Resolve(idx, routing.NotUse)
	var out routing.Routing
	out[0] = '/'
	copy(out[1:7], rpt[0:6])
	out[7] = rpt[7]
	return out
}

func (r *ID800) setYourCall(ch int, v routing.Routing) bool {
	rec := r.channels.at(ch)
	if v[0] == '/' {
		var rpt routing.Routing
		copy(rpt[0:6], v[1:7])
		rpt[6] = ' '
		rpt[7] = v[7]
		idx := internCall(r.Model(), r.rpCall, rpt, routing.NotUse, ch, "RPT")
		id800YourCall.Set(rec, uint32(idx))
		id800UseRpt.Set(rec, 1)
		return true
	}
	idx := internCall(r.Model(), r.urCall, v, routing.CQCQCQ, ch, "UR")
	id800YourCall.Set(rec, uint32(idx))
	id800UseRpt.Set(rec, 0)
	return true
}

func (r *ID800) rptCall(f codec.Bits) radio.Call {
	return radio.Call{
		Get: func(ch int) routing.Routing {
			return r.rpCall.Resolve(int(f.Get(r.channels.at(ch))), routing.NotUse)
		},
		Set: func(ch int, v routing.Routing) bool {
			idx := internCall(r.Model(), r.rpCall, v, routing.NotUse, ch, "RPT")
			f.Set(r.channels.at(ch), uint32(idx))
			return true
		},
	}
}

// internCall looks v up in a call table, warning when the table is full.
// A full table leaves the channel on the default call.
func internCall(model string, t *routing.Table, v, def routing.Routing, ch int, table string) int {
	idx, ok := t.Lookup(v, def)
	if !ok {
		logging.Warn("radio", "Call sign table full; using default call", map[string]interface{}{
			"model":   model,
			"channel": ch,
			"table":   table,
			"call":    v.Trimmed(),
		})
	}
	return idx
}

// Comment returns the image comment.
func (r *ID800) Comment() (string, error) {
	return r.comment.get(), nil
}

// SetComment stores the image comment, space padded.
func (r *ID800) SetComment(s string) error {
	r.comment.set(s)
	return nil
}

// CheckID800 verifies the ID-800H channel record and table layout.
func CheckID800() error {
	const model = "Icom ID-800H"
	if err := radio.CheckRecord(model, "channel", id800ChannelSize, 22,
		id800RxFreq, id800TxOffset, id800Power, id800CtcssEncode, id800Direction,
		id800CtcssDecode, id800Dcs, id800Step, id800Unknown1, id800RxRes, id800TxRes,
		id800Unknown2, id800FmSquelch, id800DcsReverse, id800Name, id800DvCsql,
		id800DvSquelch, id800UseRpt, id800YourCall, id800Rpt1Call, id800Rpt2Call,
		id800Modulation,
	); err != nil {
		return err
	}
	if err := radio.CheckRecord(model, "suffix", 1, 1, id800Ignore, id800Skipp, id800Skip, id800Bank); err != nil {
		return err
	}
	return radio.CheckLayout(model, id800Size,
		region("channels", id800ChannelBase, id800Channels*id800ChannelSize),
		region("suffixes", id800SuffixBase, id800Channels),
		region("your calls", id800UrCallBase, id800UrCalls*routing.Size),
		region("repeater calls", id800RpCallBase, id800RpCalls*routing.Size),
		region("comment", id800Comment, commentSize),
	)
}

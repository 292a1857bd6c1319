package icom

import (
	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/routing"
)

// Unknown constant written into byte 9 of every in-use D-STAR channel.
const channelMarker = 0xE4

// idChannel is the channel record shared by the ID-880H family and the
// ID-31/ID-51/ID-5100 family. Only the name width differs.
type idChannel struct {
	nameSize int
}

func (c idChannel) size() int { return 33 + c.nameSize }

var (
	idFreq        = codec.FrequencySet18{Offset: 0}
	idCtcssEncode = codec.Bits{Offset: 5, Shift: 2, Width: 6}
	idCtcssDecode = codec.Split{
		Hi: codec.Bits{Offset: 5, Shift: 0, Width: 2},
		Lo: codec.Bits{Offset: 6, Shift: 4, Width: 4},
	}
	idModulation = codec.Bits{Offset: 6, Shift: 0, Width: 3}
	idDcs        = codec.Bits{Offset: 7, Shift: 0, Width: 7}
	idStep       = codec.Bits{Offset: 8, Shift: 4, Width: 4}
	idDvSquelch  = codec.Bits{Offset: 8, Shift: 2, Width: 2}
	idMarker     = codec.Byte(9)
	idFmSquelch  = codec.Bits{Offset: 10, Shift: 4, Width: 4}
	idDirection  = codec.Bits{Offset: 10, Shift: 2, Width: 2}
	idDcsReverse = codec.Bits{Offset: 10, Shift: 0, Width: 2}
)

const nameOffset = 11

func (c idChannel) dvCsql() codec.Bits { return codec.Byte(nameOffset + c.nameSize) }

// call returns the n-th packed routing call: your, rpt1, rpt2.
func (c idChannel) call(n int) codec.PackedString {
	return codec.PackedString{Offset: nameOffset + c.nameSize + 1 + 7*n, Chars: routing.Size, Bits: 7, Base: 0}
}

// packedCall binds a seven bit packed call sign.
func packedCall(r func(int) []byte, p codec.PackedString) radio.Call {
	return radio.Call{
		Get: func(ch int) routing.Routing { return routing.New(p.Unpack(r(ch))) },
		Set: func(ch int, v routing.Routing) bool {
			p.Pack(r(ch), v.String())
			return true
		},
	}
}

// bankMap is the two byte per channel bank assignment: a five bit group
// and a position within the group.
type bankMap struct {
	data   []byte
	offset int
}

func (b bankMap) entry(ch int) []byte {
	start := b.offset + 2*ch
	return b.data[start : start+2]
}

var (
	bankGroupBits = codec.Bits{Offset: 0, Shift: 0, Width: 5}
	bankIndexBits = codec.Byte(1)
)

func (b bankMap) group() radio.Accessor { return radio.BindField(b.entry, bankGroupBits) }
func (b bankMap) index() radio.Accessor { return radio.BindField(b.entry, bankIndexBits) }

// idMemory describes where an ID-family image keeps its channel tables.
type idMemory struct {
	channel  idChannel
	count    int
	ignore   int
	skip     int
	pskip    int
	bankMap  int
	comment  int
	resetMap bool
}

// idRadio is a bound image of the shared channel record.
type idRadio struct {
	radio.Base
	mem      idMemory
	channels records
	ignore   radio.Flag
	banks    bankMap
	comment  comment
}

func newIDRadio(model, header string, data []byte, mem idMemory, modulations, fmSquelches []string, unassigned uint32) *idRadio {
	r := &idRadio{Base: radio.NewBase(model, header, data, mem.count, 0), mem: mem}
	img := r.Data()
	r.channels = records{data: img, offset: 0, size: mem.channel.size()}
	r.ignore = radio.BindFlags(img, codec.Flags{Offset: mem.ignore})
	r.banks = bankMap{data: img, offset: mem.bankMap}
	r.comment = comment{data: img, offset: mem.comment, size: commentSize}

	ch := r.channels.at
	layout := dstarLayout{
		valid:       r.valid,
		setValid:    r.setValid,
		rxFreq:      radio.Accessor{Get: r.rxFreq, Set: r.setRxFreq},
		split:       radio.BindField(ch, idDirection),
		txOffset:    radio.Accessor{Get: r.txOffset, Set: r.setTxOffset},
		step:        radio.BindField(ch, idStep),
		modulation:  radio.BindField(ch, idModulation),
		name:        radio.BindText(ch, nameOffset, mem.channel.nameSize),
		skip:        r.skipMode(),
		fmSquelch:   radio.BindField(ch, idFmSquelch),
		ctcssEncode: radio.BindField(ch, idCtcssEncode),
		ctcssDecode: radio.BindField(ch, idCtcssDecode),
		dcs:         radio.BindField(ch, idDcs),
		dcsReverse:  radio.BindField(ch, idDcsReverse),
		dvSquelch:   radio.BindField(ch, idDvSquelch),
		dvCsql:      radio.BindField(ch, mem.channel.dvCsql()),
		yourCall:    packedCall(ch, mem.channel.call(0)),
		rpt1Call:    packedCall(ch, mem.channel.call(1)),
		rpt2Call:    packedCall(ch, mem.channel.call(2)),
		bankGroup:   r.banks.group(),
		bankChannel: r.banks.index(),
		steps:       radio.TuneSteps,
		modulations: modulations,
		fmSquelches: fmSquelches,
		unassigned:  unassigned,
	}
	r.SetFields(layout.fields(r.Offset())...)
	return r
}

func (r *idRadio) skipMode() radio.Accessor {
	img := r.Data()
	return radio.SkipAccessor(
		radio.BindFlags(img, codec.Flags{Offset: r.mem.skip}),
		radio.BindFlags(img, codec.Flags{Offset: r.mem.pskip}),
	)
}

func (r *idRadio) valid(ch int) bool {
	return !r.ignore.Get(ch)
}

// setValid resets a channel to its factory state.
func (r *idRadio) setValid(ch int, v bool) {
	fill := byte(0xFF)
	if v {
		fill = 0
	}
	rec := r.channels.at(ch)
	codec.Fill(rec, fill)
	if r.mem.resetMap {
		codec.Fill(r.banks.entry(ch), fill)
	}
	idMarker.Set(rec, channelMarker)
	codec.Pad(rec[nameOffset:nameOffset+r.mem.channel.nameSize], "", ' ')
	r.skipMode().Set(ch, 0)
	r.ignore.Set(ch, !v)
}

func (r *idRadio) rxFreq(ch int) uint32 {
	return idFreq.Rx(r.channels.at(ch))
}

func (r *idRadio) setRxFreq(ch int, hz uint32) bool {
	return idFreq.SetRx(r.channels.at(ch), hz)
}

func (r *idRadio) txOffset(ch int) uint32 {
	return idFreq.TxOffset(r.channels.at(ch))
}

func (r *idRadio) setTxOffset(ch int, hz uint32) bool {
	return idFreq.SetTxOffset(r.channels.at(ch), hz)
}

// Comment returns the image comment.
func (r *idRadio) Comment() (string, error) {
	return r.comment.get(), nil
}

// SetComment stores the image comment, space padded.
func (r *idRadio) SetComment(s string) error {
	r.comment.set(s)
	return nil
}

// check verifies that the channel record has the fixed size record and
// that every table fits an image of size bytes.
func (m idMemory) check(model string, size, record int) error {
	c := m.channel
	if err := radio.CheckRecord(model, "channel", c.size(), record,
		idFreq, idCtcssEncode, idCtcssDecode, idModulation, idDcs, idStep,
		idDvSquelch, idMarker, idFmSquelch, idDirection, idDcsReverse,
		region("name", nameOffset, c.nameSize), c.dvCsql(),
		c.call(0), c.call(1), c.call(2),
	); err != nil {
		return err
	}
	if err := radio.CheckRecord(model, "bank", 2, 2, bankGroupBits, bankIndexBits); err != nil {
		return err
	}
	return radio.CheckLayout(model, size,
		region("channels", 0, m.count*c.size()),
		flagRegion("ignore flags", m.ignore, m.count),
		flagRegion("skip flags", m.skip, m.count),
		flagRegion("permanent skip flags", m.pskip, m.count),
		region("bank map", m.bankMap, 2*m.count),
		region("comment", m.comment, commentSize),
	)
}

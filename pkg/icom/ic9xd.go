package icom

import (
	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/routing"
)

var ic9xdModulations = []string{"FM", "FM-N", "WFM", "AM", "DV"}

const (
	ic9xdAChannels = 800
	ic9xdBChannels = 400
	ic9xdBanks     = 26

	ic9xdASize = 20
	ic9xdBSize = 45

	ic9xdChannelA = 0x0000
	ic9xdChannelB = 0x4268
	ic9xdIgnoreA  = 0x93EE
	ic9xdSkipA    = 0x9459
	ic9xdSkippA   = 0x94C4
	ic9xdIgnoreB  = 0x952F
	ic9xdSkipB    = 0x9568
	ic9xdSkippB   = 0x95A1
	ic9xdBankMapA = 0x95EC
	ic9xdBankMapB = 0x9C90
	ic9xdUrCall   = 0xA42C
	ic9xdRpCall   = 0xA60C
	ic9xdCalls    = 60

	ic91Size = 0xAF90
	ic92Size = 0xB9F0
)

var (
	ic9xdRxFreq      = codec.BE24(0)
	ic9xdTxOffset    = codec.BE16(3)
	ic9xdCtcssEncode = codec.Bits{Offset: 5, Shift: 2, Width: 6}
	ic9xdCtcssDecode = codec.Split{
		Hi: codec.Bits{Offset: 5, Shift: 0, Width: 2},
		Lo: codec.Bits{Offset: 6, Shift: 4, Width: 4},
	}
	ic9xdModulation = codec.Bits{Offset: 6, Shift: 0, Width: 3}
	ic9xdDcs        = codec.Bits{Offset: 7, Shift: 0, Width: 7}
	ic9xdStep       = codec.Bits{Offset: 8, Shift: 4, Width: 4}
	ic9xdDvSquelch  = codec.Bits{Offset: 8, Shift: 2, Width: 2}
	ic9xdMarker     = codec.Byte(9)
	ic9xdRxRes      = codec.Bit(10, 4)
	ic9xdTxRes      = codec.Bit(10, 0)
	ic9xdFmSquelch  = codec.Bits{Offset: 11, Shift: 4, Width: 4}
	ic9xdDirection  = codec.Bits{Offset: 11, Shift: 2, Width: 2}
	ic9xdDcsReverse = codec.Bits{Offset: 11, Shift: 0, Width: 2}
	ic9xdDvCsql     = codec.Byte(20)
)

const (
	ic9xdName     = 12
	ic9xdNameSize = 8
	ic9xdYourCall = 21
	ic9xdRpt1Call = 29
	ic9xdRpt2Call = 37
)

// IC9XD is the IC-91A/D and IC-92AD handheld. Band A holds analog channels
// only; the 400 band B channels carry D-STAR settings and are numbered
// after band A.
type IC9XD struct {
	radio.Base
	a, b   records
	ignore radio.Flag
	banksA bankMap
	banksB bankMap
	urCall *routing.Table
	rpCall *routing.Table
}

func bindIC9XD(model, code string, size int) radio.Binder {
	return func(header string, data []byte) (radio.Radio, error) {
		if !matches(header, data, code, size) {
			return nil, radio.ErrNoMatch
		}
		return newIC9XD(model, header, data), nil
	}
}

var (
	// BindIC91 binds IC-91A/D images.
	BindIC91 = bindIC9XD("Icom IC-91A/D", "28880000", ic91Size)
	// BindIC92 binds IC-92AD images.
	BindIC92 = bindIC9XD("Icom IC-92AD", "30660000", ic92Size)
)

func newIC9XD(model, header string, data []byte) *IC9XD {
	r := &IC9XD{Base: radio.NewBase(model, header, data, ic9xdAChannels+ic9xdBChannels, 0)}
	img := r.Data()
	r.a = records{data: img, offset: ic9xdChannelA, size: ic9xdASize}
	r.b = records{data: img, offset: ic9xdChannelB, size: ic9xdBSize}
	r.banksA = bankMap{data: img, offset: ic9xdBankMapA}
	r.banksB = bankMap{data: img, offset: ic9xdBankMapB}
	r.urCall = routing.NewTable(img, ic9xdUrCall, ic9xdCalls)
	r.rpCall = routing.NewTable(img, ic9xdRpCall, ic9xdCalls)
	r.ignore = r.bandFlags(ic9xdIgnoreA, ic9xdIgnoreB)

	ch := r.channel
	layout := dstarLayout{
		valid:       func(ch int) bool { return !r.ignore.Get(ch) },
		setValid:    r.setValid,
		rxFreq:      radio.BindScaled(ch, ic9xdRxFreq, ic9xdRxRes),
		split:       radio.BindField(ch, ic9xdDirection),
		txOffset:    radio.BindScaled(ch, ic9xdTxOffset, ic9xdTxRes),
		step:        radio.BindField(ch, ic9xdStep),
		modulation:  radio.BindField(ch, ic9xdModulation),
		name:        radio.BindText(ch, ic9xdName, ic9xdNameSize),
		skip:        r.skipMode(),
		fmSquelch:   radio.BindField(ch, ic9xdFmSquelch),
		ctcssEncode: radio.BindField(ch, ic9xdCtcssEncode),
		ctcssDecode: radio.BindField(ch, ic9xdCtcssDecode),
		dcs:         radio.BindField(ch, ic9xdDcs),
		dcsReverse:  radio.BindField(ch, ic9xdDcsReverse),
		dvSquelch:   r.digital(ic9xdDvSquelch),
		dvCsql:      r.digital(ic9xdDvCsql),
		yourCall:    r.call(ic9xdYourCall, r.urCall, routing.CQCQCQ, "UR"),
		rpt1Call:    r.call(ic9xdRpt1Call, r.rpCall, routing.NotUse, "RPT"),
		rpt2Call:    r.call(ic9xdRpt2Call, r.rpCall, routing.NotUse, "RPT"),
		bankGroup:   r.bank(bankGroupBits),
		bankChannel: r.bank(bankIndexBits),
		steps:       radio.TuneSteps,
		modulations: ic9xdModulations,
		fmSquelches: radio.FmSquelches,
		unassigned:  ic9xdBanks,
	}
	r.SetFields(layout.fields(0)...)
	return r
}

func isBandB(ch int) bool { return ch >= ic9xdAChannels }

// channel returns the common part of either band's record.
func (r *IC9XD) channel(ch int) []byte {
	if isBandB(ch) {
		return r.b.at(ch - ic9xdAChannels)
	}
	return r.a.at(ch)
}

func (r *IC9XD) bankEntry(ch int) []byte {
	if isBandB(ch) {
		return r.banksB.entry(ch - ic9xdAChannels)
	}
	return r.banksA.entry(ch)
}

func (r *IC9XD) bandFlags(a, b int) radio.Flag {
	img := r.Data()
	fa, fb := codec.Flags{Offset: a}, codec.Flags{Offset: b}
	return radio.Flag{
		Get: func(ch int) bool {
			if isBandB(ch) {
				return fb.Get(img, ch-ic9xdAChannels)
			}
			return fa.Get(img, ch)
		},
		Set: func(ch int, v bool) {
			if isBandB(ch) {
				fb.Set(img, ch-ic9xdAChannels, v)
				return
			}
			fa.Set(img, ch, v)
		},
	}
}

func (r *IC9XD) skipMode() radio.Accessor {
	return radio.SkipAccessor(r.bandFlags(ic9xdSkipA, ic9xdSkipB), r.bandFlags(ic9xdSkippA, ic9xdSkippB))
}

// bank binds one half of the bank map entry of either band.
func (r *IC9XD) bank(f codec.Bits) radio.Accessor {
	return radio.BindField(r.bankEntry, f)
}

// digital binds a D-STAR setting of band B. Band A channels read zero and
// silently accept any value.
func (r *IC9XD) digital(f codec.Bits) radio.Accessor {
	b := radio.BindField(r.channel, f)
	return radio.Accessor{
		Get: func(ch int) uint32 {
			if !isBandB(ch) {
				return 0
			}
			return b.Get(ch)
		},
		Set: func(ch int, v uint32) bool {
			if !isBandB(ch) {
				return true
			}
			return b.Set(ch, v)
		},
	}
}

// call binds a band B routing call. The call is stored in the channel and
// also recorded in the radio's call sign history table.
func (r *IC9XD) call(offset int, t *routing.Table, def routing.Routing, table string) radio.Call {
	c := inlineCall(r.channel, offset)
	return radio.Call{
		Get: func(ch int) routing.Routing {
			if !isBandB(ch) {
				return def
			}
			return c.Get(ch)
		},
		Set: func(ch int, v routing.Routing) bool {
			if !isBandB(ch) {
				return true
			}
			c.Set(ch, v)
			internCall(r.Model(), t, v, def, ch, table)
			return true
		},
	}
}

func (r *IC9XD) setValid(ch int, v bool) {
	fill := byte(0xFF)
	if v {
		fill = 0
	}
	codec.Fill(r.channel(ch), fill)
	codec.Fill(r.bankEntry(ch), fill)
	rec := r.channel(ch)
	codec.Pad(rec[ic9xdName:ic9xdName+ic9xdNameSize], "", ' ')
	r.skipMode().Set(ch, 0)
	ic9xdMarker.Set(rec, channelMarker)
	r.ignore.Set(ch, !v)
}

// CheckIC91 verifies the IC-91A/D layout.
func CheckIC91() error { return checkIC9XD("Icom IC-91A/D", ic91Size) }

// CheckIC92 verifies the IC-92AD layout.
func CheckIC92() error { return checkIC9XD("Icom IC-92AD", ic92Size) }

// checkIC9XD verifies both band records and the tables after them. Band B
// records extend the band A record with the D-STAR settings.
func checkIC9XD(model string, size int) error {
	analog := []radio.Extent{
		ic9xdRxFreq, ic9xdTxOffset, ic9xdCtcssEncode, ic9xdCtcssDecode,
		ic9xdModulation, ic9xdDcs, ic9xdStep, ic9xdDvSquelch, ic9xdMarker,
		ic9xdRxRes, ic9xdTxRes, ic9xdFmSquelch, ic9xdDirection, ic9xdDcsReverse,
		region("name", ic9xdName, ic9xdNameSize),
	}
	if err := radio.CheckRecord(model, "band A channel", ic9xdASize, 20, analog...); err != nil {
		return err
	}
	dstar := append(analog[:len(analog):len(analog)], ic9xdDvCsql,
		region("your call", ic9xdYourCall, routing.Size),
		region("rpt1 call", ic9xdRpt1Call, routing.Size),
		region("rpt2 call", ic9xdRpt2Call, routing.Size),
	)
	if err := radio.CheckRecord(model, "band B channel", ic9xdBSize, 45, dstar...); err != nil {
		return err
	}
	return radio.CheckLayout(model, size,
		region("band A channels", ic9xdChannelA, ic9xdAChannels*ic9xdASize),
		region("band B channels", ic9xdChannelB, ic9xdBChannels*ic9xdBSize),
		flagRegion("band A ignore flags", ic9xdIgnoreA, ic9xdAChannels),
		flagRegion("band A skip flags", ic9xdSkipA, ic9xdAChannels),
		flagRegion("band A permanent skip flags", ic9xdSkippA, ic9xdAChannels),
		flagRegion("band B ignore flags", ic9xdIgnoreB, ic9xdBChannels),
		flagRegion("band B skip flags", ic9xdSkipB, ic9xdBChannels),
		flagRegion("band B permanent skip flags", ic9xdSkippB, ic9xdBChannels),
		region("band A bank map", ic9xdBankMapA, 2*ic9xdAChannels),
		region("band B bank map", ic9xdBankMapB, 2*ic9xdBChannels),
		region("your calls", ic9xdUrCall, ic9xdCalls*routing.Size),
		region("repeater calls", ic9xdRpCall, ic9xdCalls*routing.Size),
	)
}

package icom

import (
	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/radio"
)

var (
	ic7300Modulations = []string{
		"LSB", "LSB-D", "USB", "USB-D", "CW", "?2?", "CW-R", "?3",
		"RTTY", "?4?", "RTTY-R", "?5?", "AM", "AM-D", "FM", "FM-D",
	}
	ic7300FmSquelches = []string{"OFF", "TONE", "TSQL"}
)

const (
	ic7300Size          = 0x1A84
	ic7300Channels      = 99
	ic7300Length        = 0x10
	ic7300ChannelBase   = 0x12
	ic7300ChannelSize   = 32
	ic7300LowerScanEdge = 0xC72
	ic7300IsValid       = 0xCB4
	ic7300Scan          = 0xCC1
	ic7300Checksum      = 0x1A80

	ic7300Rx       = 6
	ic7300Tx       = 14
	ic7300Name     = 22
	ic7300NameSize = 10
)

var (
	ic7300Split      = codec.Bit(2, 1)
	ic7300LengthLE   = codec.LE16(ic7300Length)
	ic7300ChecksumLE = codec.LE16(ic7300Checksum)
)

// ic7300Setting is the eight byte frequency and mode block used for both
// the receive and transmit side of a channel.
type ic7300Setting int

func (s ic7300Setting) freq() codec.Frequency {
	return codec.Frequency{Uint: codec.LE32(int(s))}
}

func (s ic7300Setting) filter() codec.Bits      { return codec.Bits{Offset: int(s) + 4, Shift: 0, Width: 4} }
func (s ic7300Setting) modulation() codec.Bits  { return codec.Bits{Offset: int(s) + 4, Shift: 4, Width: 4} }
func (s ic7300Setting) data() codec.Bits        { return codec.Bits{Offset: int(s) + 5, Shift: 0, Width: 2} }
func (s ic7300Setting) fmSquelch() codec.Bits   { return codec.Bits{Offset: int(s) + 5, Shift: 2, Width: 2} }
func (s ic7300Setting) ctcssEncode() codec.Bits { return codec.Byte(int(s) + 6) }
func (s ic7300Setting) ctcssDecode() codec.Bits { return codec.Byte(int(s) + 7) }

const (
	ic7300RxSetting ic7300Setting = ic7300Rx
	ic7300TxSetting ic7300Setting = ic7300Tx
)

// IC7300 is the IC-7300 HF transceiver settings file. Channels are numbered
// from 1 and the file carries a 16 bit checksum.
type IC7300 struct {
	radio.Base
	channels records
	invalid  radio.Flag
}

// BindIC7300 binds IC-7300 settings files. The embedded length must agree
// with the file size, and a checksum mismatch is reported as a
// *radio.ChecksumError.
func BindIC7300(header string, data []byte) (radio.Radio, error) {
	if len(data) != ic7300Size || ic7300LengthLE.Get(data) != ic7300Size {
		return nil, radio.ErrNoMatch
	}
	if sum := ic7300Sum(data); uint16(sum+ic7300ChecksumLE.Get(data)) != 0 {
		return nil, &radio.ChecksumError{
			Model:    "Icom IC-7300",
			Stored:   uint16(ic7300ChecksumLE.Get(data)),
			Computed: uint16(-sum),
		}
	}

	r := &IC7300{Base: radio.NewBase("Icom IC-7300", header, data, ic7300Channels, 1)}
	img := r.Data()
	r.channels = records{data: img, offset: ic7300ChannelBase, size: ic7300ChannelSize}
	r.invalid = radio.BindFlags(img, codec.Flags{Offset: ic7300IsValid})

	ch := r.channels.at
	r.SetFields(
		radio.ValidField("CH No", r.Offset(), r.valid, r.setValid),
		radio.NameField("Name", radio.BindText(ch, ic7300Name, ic7300NameSize)),
		radio.UintField("Scan", "%d", 0, 3, r.scan()),
		radio.FrequencyField("Rx Freq", hertz(ch, ic7300RxSetting.freq())),
		radio.EnumField("Modulation", ic7300Modulations, r.modulation()),
		radio.UintField("Filter", "%d", 1, 3, r.filter()),
		radio.EnumField("CTCSS Mode", ic7300FmSquelches, r.both(ic7300Setting.fmSquelch)),
		radio.CtcssField("Tone Encode", r.both(ic7300Setting.ctcssEncode)),
		radio.CtcssField("TSQL Decode", r.both(ic7300Setting.ctcssDecode)),
		radio.FrequencyField("Tx Freq", r.txFreq()),
	)
	return r, nil
}

// ic7300Sum adds the checksummed bytes between the length and the
// checksum itself.
func ic7300Sum(data []byte) uint32 {
	var sum uint16
	for _, b := range data[ic7300ChannelBase:ic7300Checksum] {
		sum += uint16(b)
	}
	return uint32(sum)
}

// Finalize recomputes the checksum.
func (r *IC7300) Finalize() {
	img := r.Data()
	ic7300ChecksumLE.Set(img, uint32(uint16(-ic7300Sum(img))))
}

func (r *IC7300) valid(ch int) bool {
	return !r.invalid.Get(ch)
}

// setValid copies the lower scan edge into the channel as its template.
func (r *IC7300) setValid(ch int, v bool) {
	r.invalid.Set(ch, !v)
	img := r.Data()
	rec := r.channels.at(ch)
	copy(rec, img[ic7300LowerScanEdge:ic7300LowerScanEdge+ic7300ChannelSize])
	codec.Pad(rec[ic7300Name:ic7300Name+ic7300NameSize], "", ' ')
}

// both reads a setting from the receive side and writes it to both sides.
func (r *IC7300) both(f func(ic7300Setting) codec.Bits) radio.Accessor {
	rx, tx := radio.BindField(r.channels.at, f(ic7300RxSetting)), radio.BindField(r.channels.at, f(ic7300TxSetting))
	return radio.Accessor{
		Get: rx.Get,
		Set: func(ch int, v uint32) bool {
			return rx.Set(ch, v) && tx.Set(ch, v)
		},
	}
}

// modulation combines the mode with the data mode bit.
func (r *IC7300) modulation() radio.Accessor {
	mod, data := r.both(ic7300Setting.modulation), r.both(ic7300Setting.data)
	return radio.Accessor{
		Get: func(ch int) uint32 { return mod.Get(ch)<<1 | data.Get(ch) },
		Set: func(ch int, v uint32) bool {
			if v >= uint32(len(ic7300Modulations)) {
				return false
			}
			return mod.Set(ch, v>>1) && data.Set(ch, v&1)
		},
	}
}

// filter is stored 0..2 and shown 1..3.
func (r *IC7300) filter() radio.Accessor {
	f := r.both(ic7300Setting.filter)
	return radio.Accessor{
		Get: func(ch int) uint32 { return f.Get(ch) + 1 },
		Set: func(ch int, v uint32) bool { return f.Set(ch, v-1) },
	}
}

// scan holds two bits per channel.
func (r *IC7300) scan() radio.Accessor {
	img := r.Data()
	bits := func(ch int) codec.Bits {
		return codec.Bits{Offset: ic7300Scan + 2*ch/8, Shift: uint(2 * ch % 8), Width: 2}
	}
	return radio.Accessor{
		Get: func(ch int) uint32 { return bits(ch).Get(img) },
		Set: func(ch int, v uint32) bool {
			if v > 3 {
				return false
			}
			bits(ch).Set(img, v)
			return true
		},
	}
}

// txFreq reads zero for simplex channels. Storing zero makes the channel
// simplex and keeps the stored transmit frequency.
func (r *IC7300) txFreq() radio.Accessor {
	ch := r.channels.at
	tx := hertz(ch, ic7300TxSetting.freq())
	return radio.Accessor{
		Get: func(c int) uint32 {
			if ic7300Split.Get(ch(c)) == 0 {
				return 0
			}
			return tx.Get(c)
		},
		Set: func(c int, hz uint32) bool {
			if hz == 0 {
				ic7300Split.Set(ch(c), 0)
				return true
			}
			ic7300Split.Set(ch(c), 1)
			return tx.Set(c, hz)
		},
	}
}

// CheckIC7300 verifies the IC-7300 channel record and file layout.
func CheckIC7300() error {
	const model = "Icom IC-7300"
	fields := []radio.Extent{ic7300Split, region("name", ic7300Name, ic7300NameSize)}
	for _, s := range []ic7300Setting{ic7300RxSetting, ic7300TxSetting} {
		fields = append(fields, s.freq(), s.filter(), s.modulation(), s.data(),
			s.fmSquelch(), s.ctcssEncode(), s.ctcssDecode())
	}
	if err := radio.CheckRecord(model, "channel", ic7300ChannelSize, 32, fields...); err != nil {
		return err
	}
	return radio.CheckLayout(model, ic7300Size,
		region("length", ic7300Length, ic7300LengthLE.Size()),
		region("channels", ic7300ChannelBase, ic7300Channels*ic7300ChannelSize),
		region("lower scan edge", ic7300LowerScanEdge, ic7300ChannelSize),
		flagRegion("valid flags", ic7300IsValid, ic7300Channels),
		region("scan modes", ic7300Scan, (2*ic7300Channels+7)/8),
		region("checksum", ic7300Checksum, ic7300ChecksumLE.Size()),
	)
}

// Package kenwood implements the memory layout of the Kenwood TH-D74
// handheld, read from its binary .d74 memory files.
package kenwood

import (
	"fmt"

	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/routing"
)

var (
	booleans    = []string{"Off", "On"}
	splits      = []string{" ", "+", "-", "S", ""}
	modulations = []string{"FM", "DV", "AM", "LSB", "USB", "CW", "NFM", "DR", "WFM"}
	fmSquelches = []string{"Off", "T", "CT", "DCS", "D_O", "T_D", "D_C", "T_C"}
	tuneSteps   = []float64{5.0, 6.25, -2.0, -3.0, 10.0, 12.5, 15.0, 20.0, 25.0, 30.0, 50.0, 100.0}
	fineSteps   = []uint32{20, 100, 500, 1000}
)

// bandLimits are the receive ranges, lower bound inclusive, indexed by the
// band number the radio stores with each channel. Bands 8 and 11 are unused.
var bandLimits = [...]struct{ lower, upper uint32 }{
	{136000000, 174000000},
	{216000000, 260000000},
	{410000000, 470000000},
	{100000, 1710000},
	{1710000, 29700000},
	{29700000, 76000000},
	{76000000, 108000000},
	{108000000, 136000000},
	{0, 0},
	{174000000, 216000000},
	{260000000, 410000000},
	{0, 0},
	{470000000, 524000000},
}

const (
	model       = "Kenwood TH-D74"
	imageSize   = 0x7A400
	channels    = 1000
	channelSize = 40
	blockSize   = 256
	perBlock    = 6

	comment2Base = 0x40
	setBase      = 0x2100
	blockBase    = 0x4100
	nameBase     = 0x10100
	nameSize     = 16
	comment1Base = 0x4E900
	commentSize  = 32

	// A channel whose band index is noBand is empty.
	noBand = 0xFF
)

var (
	rxFreq        = codec.Frequency{Uint: codec.LE32(0)}
	txOffset      = codec.Frequency{Uint: codec.LE32(4)}
	txStep        = codec.Bits{Offset: 8, Shift: 0, Width: 4}
	rxStep        = codec.Bits{Offset: 8, Shift: 4, Width: 4}
	fineStepValue = codec.Bits{Offset: 9, Shift: 0, Width: 2}
	fineStepOn    = codec.Bit(9, 2)
	modulation    = codec.Bits{Offset: 9, Shift: 3, Width: 5}
	split         = codec.Bits{Offset: 10, Shift: 0, Width: 2}
	fmSquelch     = codec.Bits{Offset: 10, Shift: 4, Width: 4}
	ctcssEncode   = codec.Byte(11)
	ctcssDecode   = codec.Byte(12)
	dcsCode       = codec.Byte(13)
	dvSquelch     = codec.Bits{Offset: 14, Shift: 0, Width: 2}
	dvMode        = codec.Bits{Offset: 14, Shift: 2, Width: 2}
	crossSquelch  = codec.Bits{Offset: 14, Shift: 4, Width: 2}
	dvCsql        = codec.Byte(39)

	bandIndex = codec.Byte(0)
	lockout   = codec.Byte(1)
	group     = codec.Byte(2)
	setMarker = codec.Byte(3)
)

const (
	yourCall = 15
	rpt1Call = 23
	rpt2Call = 31
)

func init() {
	if err := CheckTHD74(); err != nil {
		panic(err)
	}
}

// CheckTHD74 verifies the channel record, its packing into blocks and the
// tables of the memory file.
func CheckTHD74() error {
	if err := radio.CheckRecord(model, "channel", channelSize, 40,
		rxFreq, txOffset, txStep, rxStep, fineStepValue, fineStepOn, modulation,
		split, fmSquelch, ctcssEncode, ctcssDecode, dcsCode, dvSquelch, dvMode,
		crossSquelch, dvCsql,
		radio.Region{Name: "your call", Offset: yourCall, Size: routing.Size},
		radio.Region{Name: "rpt1 call", Offset: rpt1Call, Size: routing.Size},
		radio.Region{Name: "rpt2 call", Offset: rpt2Call, Size: routing.Size},
	); err != nil {
		return err
	}
	if perBlock*channelSize > blockSize {
		return fmt.Errorf("%w: %s packs %d channels past a %d byte block", radio.ErrLayout, model, perBlock, blockSize)
	}
	if err := radio.CheckRecord(model, "set", 4, 4, bandIndex, lockout, group, setMarker); err != nil {
		return err
	}
	blocks := (channels + perBlock - 1) / perBlock
	return radio.CheckLayout(model, imageSize,
		radio.Region{Name: "second comment", Offset: comment2Base, Size: commentSize},
		radio.Region{Name: "channel sets", Offset: setBase, Size: 4 * channels},
		radio.Region{Name: "channel blocks", Offset: blockBase, Size: blocks * blockSize},
		radio.Region{Name: "names", Offset: nameBase, Size: nameSize * channels},
		radio.Region{Name: "comment", Offset: comment1Base, Size: commentSize},
	)
}

// THD74 is a bound TH-D74 memory image.
type THD74 struct {
	radio.Base
}

// BindTHD74 binds TH-D74 memory files, recognized by size alone.
func BindTHD74(header string, data []byte) (radio.Radio, error) {
	if len(data) != imageSize {
		return nil, radio.ErrNoMatch
	}
	r := &THD74{Base: radio.NewBase(model, header, data, channels, 0)}
	ch := r.channel

	r.SetFields(
		radio.ValidField("Channel Number", 0, r.valid, r.setValid),
		radio.FrequencyField("Receive Frequency", radio.Accessor{Get: r.rxFreq, Set: r.setRxFreq}),
		radio.StepField("Receive Step", tuneSteps, r.rxStep()),
		radio.FrequencyField("Offset Frequency", radio.Accessor{
			Get: func(c int) uint32 { return txOffset.Hz(ch(c), 1) },
			Set: func(c int, hz uint32) bool { return txOffset.SetHz(ch(c), hz, 1) },
		}),
		radio.EnumField("T/CT/DCS", fmSquelches, r.fmSquelch()),
		radio.CtcssField("Tone", radio.BindField(ch, ctcssEncode)),
		radio.CtcssField("CTCSS", radio.BindField(ch, ctcssDecode)),
		radio.DcsField("DCS", radio.BindField(ch, dcsCode)),
		radio.EnumField("Shift/Split", splits, radio.BindField(ch, split)),
		reverseField("Reverse"),
		booleanField("Lockout", radio.BindField(r.set, lockout)),
		radio.EnumField("Operating Mode", modulations, r.modulation()),
		radio.FrequencyField("Transmit Frequency", radio.Accessor{
			Get: r.rxFreq,
			Set: func(int, uint32) bool { return true },
		}),
		radio.StepField("Transmit Step", tuneSteps, radio.Accessor{
			Get: radio.BindField(ch, txStep).Get,
			Set: func(int, uint32) bool { return true },
		}),
		radio.NameField("Name", radio.Text{Get: r.name, Set: r.setName}),
		booleanField("Fine Step Enable", radio.BindField(ch, fineStepOn)),
		fineStepField("Fine Step", radio.BindField(ch, fineStepValue)),
		radio.UintField("Group", "%02d", 0, 29, radio.BindField(r.set, group)),
		radio.EnumField("Digital Squelch", radio.DvSquelches, radio.BindField(ch, dvSquelch)),
		radio.DvCsqlField("Digital Code", radio.BindField(ch, dvCsql)),
		radio.RoutingField("Your Callsign", r.call(yourCall, false)),
		radio.RoutingField("Rpt-1 Callsign", r.call(rpt1Call, true)),
		radio.RoutingField("Rpt-2 Callsign", r.call(rpt2Call, true)),
	)
	return r, nil
}

// channel returns the record of channel i. Records are packed six to a
// 256 byte block.
func (r *THD74) channel(i int) []byte {
	start := blockBase + (i/perBlock)*blockSize + (i%perBlock)*channelSize
	return r.Data()[start : start+channelSize]
}

// set returns the four byte channel set entry: band index, lockout, group
// and a marker byte.
func (r *THD74) set(i int) []byte {
	start := setBase + 4*i
	return r.Data()[start : start+4]
}

func (r *THD74) nameBytes(i int) []byte {
	start := nameBase + nameSize*i
	return r.Data()[start : start+nameSize]
}

func (r *THD74) valid(ch int) bool {
	return bandIndex.Get(r.set(ch)) != noBand
}

func (r *THD74) setValid(ch int, v bool) {
	s := r.set(ch)
	if v {
		codec.Fill(r.channel(ch), 0)
		codec.Fill(r.nameBytes(ch), ' ')
		bandIndex.Set(s, uint32(len(bandLimits)))
	} else {
		codec.Fill(r.channel(ch), 0xFF)
		codec.Fill(r.nameBytes(ch), 0)
		bandIndex.Set(s, noBand)
	}
	lockout.Set(s, 0)
	group.Set(s, 0)
	setMarker.Set(s, 0xFF)
}

func (r *THD74) rxFreq(ch int) uint32 {
	return rxFreq.Hz(r.channel(ch), 1)
}

// setRxFreq also records the band the frequency falls in.
func (r *THD74) setRxFreq(ch int, hz uint32) bool {
	for i, b := range bandLimits {
		if b.lower <= hz && hz < b.upper {
			bandIndex.Set(r.set(ch), uint32(i))
			break
		}
	}
	return rxFreq.SetHz(r.channel(ch), hz, 1)
}

// rxStep sets the transmit step along with the receive step.
func (r *THD74) rxStep() radio.Accessor {
	rx, tx := radio.BindField(r.channel, rxStep), radio.BindField(r.channel, txStep)
	return radio.Accessor{
		Get: rx.Get,
		Set: func(ch int, v uint32) bool { return rx.Set(ch, v) && tx.Set(ch, v) },
	}
}

// modulation keeps the digital mode and the narrow FM bit in step with the
// operating mode.
func (r *THD74) modulation() radio.Accessor {
	return radio.Accessor{
		Get: func(ch int) uint32 { return modulation.Get(r.channel(ch)) >> 1 },
		Set: func(ch int, v uint32) bool {
			if v >= uint32(len(modulations)) {
				return false
			}
			rec := r.channel(ch)
			m, mode := v<<1, uint32(3)
			switch modulations[v] {
			case "DV":
				mode = 0
			case "NFM":
				m |= 1
			case "DR":
				mode = 1
			}
			modulation.Set(rec, m)
			dvMode.Set(rec, mode)
			return true
		},
	}
}

// fmSquelch decodes the one-hot tone mode. Cross modes store 1 and select
// the combination in the cross squelch bits.
func (r *THD74) fmSquelch() radio.Accessor {
	return radio.Accessor{
		Get: func(ch int) uint32 {
			rec := r.channel(ch)
			switch fmSquelch.Get(rec) {
			case 0x0:
				return 0
			case 0x8:
				return 1
			case 0x4:
				return 2
			case 0x2:
				return 3
			}
			return 4 + crossSquelch.Get(rec)
		},
		Set: func(ch int, v uint32) bool {
			rec := r.channel(ch)
			if v < 4 {
				fmSquelch.Set(rec, 0x10>>v&0xF)
				crossSquelch.Set(rec, 0)
				return true
			}
			if v-4 > crossSquelch.Max() {
				return false
			}
			fmSquelch.Set(rec, 1)
			crossSquelch.Set(rec, v-4)
			return true
		},
	}
}

func (r *THD74) name(ch int) []byte {
	return r.nameBytes(ch)
}

func (r *THD74) setName(ch int, s string) bool {
	codec.Pad(r.nameBytes(ch), s, ' ')
	return true
}

// call binds a routing call. Repeater calls show DIRECT as an empty call.
func (r *THD74) call(offset int, repeater bool) radio.Call {
	return radio.Call{
		Get: func(ch int) routing.Routing {
			v := routing.FromBytes(r.channel(ch)[offset:])
			if repeater && v == routing.Direct {
				return routing.NotUse
			}
			return v
		},
		Set: func(ch int, v routing.Routing) bool {
			if repeater && v == routing.NotUse {
				v = routing.Direct
			}
			v.Put(r.channel(ch)[offset:])
			return true
		},
	}
}

// reverseField is a placeholder column the radio does not store.
func reverseField(name string) radio.Field {
	return radio.Field{
		Name: name,
		Get:  func(int) (string, bool) { return "----", true },
		Set:  func(_ int, text string) bool { return text == "----" },
	}
}

// booleanField maps Off/On. Unknown text stores Off and fails.
func booleanField(name string, a radio.Accessor) radio.Field {
	return radio.Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			if v >= uint32(len(booleans)) {
				return fmt.Sprintf("%d", v), false
			}
			return booleans[v], true
		},
		Set: func(ch int, text string) bool {
			i := radio.SearchLabel(text, booleans)
			if i < 0 {
				a.Set(ch, 0)
				return false
			}
			return a.Set(ch, uint32(i))
		},
	}
}

// fineStepField prints the fine tuning step in Hz.
func fineStepField(name string, a radio.Accessor) radio.Field {
	return radio.Field{
		Name: name,
		Get: func(ch int) (string, bool) {
			v := a.Get(ch)
			if v >= uint32(len(fineSteps)) {
				return fmt.Sprintf("%d", v), false
			}
			return fmt.Sprintf("%d", fineSteps[v]), true
		},
		Set: func(ch int, text string) bool {
			n, rest := radio.ParseUint(text)
			if rest != "" {
				return false
			}
			for i, s := range fineSteps {
				if uint64(s) == n {
					return a.Set(ch, uint32(i))
				}
			}
			return false
		},
	}
}

// Comment returns the image comment, which ends at the first erased byte.
func (r *THD74) Comment() (string, error) {
	img := r.Data()
	return codec.CString(img[comment1Base:comment1Base+commentSize], 0xFF, 0), nil
}

// SetComment stores the comment in both comment regions.
func (r *THD74) SetComment(s string) error {
	img := r.Data()
	codec.Pad(img[comment1Base:comment1Base+commentSize], s, 0xFF)
	codec.Pad(img[comment2Base:comment2Base+commentSize], s, 0xFF)
	return nil
}

package icom

import "github.com/dougsko/radio2csv/pkg/radio"

var idDrModulations = []string{"FM", "FM-N", "?2?", "AM", "?4?", "DV", "?6?", "?7?"}

// The ID-31, ID-51 and ID-51+ only offer the first eight tone modes.
var idDrFmSquelches = radio.FmSquelches[:8]

// Bank groups are stored raw in five bits; 31 reads back as unassigned.
const (
	idDrUnassigned  = 31
	idDrChannelSize = 49

	id31Size   = 0x15500
	id51Size   = 0x1FB40
	id5100Size = 0x2A380
)

var (
	id31Memory = idMemory{
		channel: idChannel{nameSize: 16},
		count:   500,
		ignore:  0x69C0,
		skip:    0x6A06,
		pskip:   0x6A4B,
		bankMap: 0x6AC0,
		comment: 0x6F40,
	}
	id51Memory = idMemory{
		channel: idChannel{nameSize: 16},
		count:   500,
		ignore:  0x6A40,
		skip:    0x6A86,
		pskip:   0x6ACB,
		bankMap: 0x6B40,
		comment: 0x6FC0,
	}
	id5100Memory = idMemory{
		channel: idChannel{nameSize: 16},
		count:   1000,
		ignore:  0xC040,
		skip:    0xC0BE,
		pskip:   0xC13B,
		bankMap: 0xC1C0,
		comment: 0xC9C0,
	}
)

func bindIDDr(model, code string, size int, mem idMemory, fmSquelches []string) radio.Binder {
	return func(header string, data []byte) (radio.Radio, error) {
		if !matches(header, data, code, size) {
			return nil, radio.ErrNoMatch
		}
		return newIDRadio(model, header, data, mem, idDrModulations, fmSquelches, idDrUnassigned), nil
	}
}

var (
	// BindID31 binds ID-31 images.
	BindID31 = bindIDDr("Icom ID-31", "33220001", id31Size, id31Memory, idDrFmSquelches)
	// BindID51 binds ID-51 images.
	BindID51 = bindIDDr("Icom ID-51", "33900001", id51Size, id51Memory, idDrFmSquelches)
	// BindID51Plus binds ID-51 Plus images.
	BindID51Plus = bindIDDr("Icom ID-51+", "33900002", id51Size, id51Memory, idDrFmSquelches)
	// BindID51Plus2 binds ID-51 Plus2 images.
	BindID51Plus2 = bindIDDr("Icom ID-51++", "33900003", id51Size, id51Memory, radio.FmSquelches)
	// BindID5100 binds ID-5100 images.
	BindID5100 = bindIDDr("Icom ID-5100", "34840001", id5100Size, id5100Memory, radio.FmSquelches)
)

// CheckID31 verifies the ID-31 layout.
func CheckID31() error {
	return id31Memory.check("Icom ID-31", id31Size, idDrChannelSize)
}

// CheckID51 verifies the layout shared by the ID-51, ID-51+ and ID-51++.
func CheckID51() error {
	return id51Memory.check("Icom ID-51", id51Size, idDrChannelSize)
}

// CheckID5100 verifies the ID-5100 layout.
func CheckID5100() error {
	return id5100Memory.check("Icom ID-5100", id5100Size, idDrChannelSize)
}

package icom

import "github.com/dougsko/radio2csv/pkg/radio"

var id880Modulations = []string{"FM", "FM-N", "?2?", "AM", "AM-N", "DV", "?6?", "?7?"}

const (
	id880Size        = 0xF600
	id880Banks       = 26
	id880ChannelSize = 41
)

var id880Memory = idMemory{
	channel:  idChannel{nameSize: 8},
	count:    1000,
	ignore:   0xAA80,
	skip:     0xAB04,
	pskip:    0xAB88,
	bankMap:  0xAD00,
	comment:  0xB540,
	resetMap: true,
}

func bindID8X0(model, code string) radio.Binder {
	return func(header string, data []byte) (radio.Radio, error) {
		if !matches(header, data, code, id880Size) {
			return nil, radio.ErrNoMatch
		}
		return newIDRadio(model, header, data, id880Memory, id880Modulations, radio.FmSquelches, id880Banks), nil
	}
}

// BindID880 binds ID-880H images.
var BindID880 = bindID8X0("Icom ID-880H", "31670001")

// BindIC80 binds IC-80AD images.
var BindIC80 = bindID8X0("Icom IC-80AD", "31550001")

// CheckID8X0 verifies the ID-880H and IC-80AD layout.
func CheckID8X0() error {
	return id880Memory.check("Icom ID-880H", id880Size, id880ChannelSize)
}

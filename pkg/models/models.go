// Package models holds the ordered model registries and picks the schema
// that binds a loaded image.
package models

import (
	"errors"
	"fmt"

	"github.com/dougsko/radio2csv/pkg/icom"
	"github.com/dougsko/radio2csv/pkg/kenwood"
	"github.com/dougsko/radio2csv/pkg/radio"
)

// Model describes one supported radio. Layout verifies the model's record
// sizes and table offsets.
type Model struct {
	Name     string
	Channels int
	Binary   bool
	Bind     radio.Binder
	Layout   func() error
}

// ICF lists the models read from ICF text files, in detection order.
var ICF = []Model{
	{Name: "Icom ID-1", Channels: 100, Bind: icom.BindID1, Layout: icom.CheckID1},
	{Name: "Icom ID-800H", Channels: 500, Bind: icom.BindID800, Layout: icom.CheckID800},
	{Name: "Icom IC-91A/D", Channels: 1200, Bind: icom.BindIC91, Layout: icom.CheckIC91},
	{Name: "Icom IC-92AD", Channels: 1200, Bind: icom.BindIC92, Layout: icom.CheckIC92},
	{Name: "Icom IC-80AD", Channels: 1000, Bind: icom.BindIC80, Layout: icom.CheckID8X0},
	{Name: "Icom ID-880H", Channels: 1000, Bind: icom.BindID880, Layout: icom.CheckID8X0},
	{Name: "Icom IC-2820H", Channels: 500, Bind: icom.BindIC2820, Layout: icom.CheckIC2820},
	{Name: "Icom ID-31", Channels: 500, Bind: icom.BindID31, Layout: icom.CheckID31},
	{Name: "Icom ID-51", Channels: 500, Bind: icom.BindID51, Layout: icom.CheckID51},
	{Name: "Icom ID-51+", Channels: 500, Bind: icom.BindID51Plus, Layout: icom.CheckID51},
	{Name: "Icom ID-51++", Channels: 500, Bind: icom.BindID51Plus2, Layout: icom.CheckID51},
	{Name: "Icom ID-5100", Channels: 1000, Bind: icom.BindID5100, Layout: icom.CheckID5100},
}

// Binary lists the models read from raw binary files, in detection order.
var Binary = []Model{
	{Name: "Icom IC-7300", Channels: 99, Binary: true, Bind: icom.BindIC7300, Layout: icom.CheckIC7300},
	{Name: "Kenwood TH-D74", Channels: 1000, Binary: true, Bind: kenwood.BindTHD74, Layout: kenwood.CheckTHD74},
}

// All returns every supported model, ICF models first.
func All() []Model {
	all := make([]Model, 0, len(ICF)+len(Binary))
	all = append(all, ICF...)
	return append(all, Binary...)
}

// Detect binds img to the first matching model. Binary images are offered
// to the binary models and everything else to the ICF models. A model that
// matches but rejects the image, such as on a checksum mismatch, stops the
// search.
func Detect(img *radio.Image, binary bool) (radio.Radio, error) {
	candidates := ICF
	if binary {
		candidates = Binary
	}

	for _, m := range candidates {
		r, err := m.Bind(img.Header, img.Data)
		if errors.Is(err, radio.ErrNoMatch) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", m.Name, err)
		}
		return r, nil
	}
	return nil, radio.ErrNoMatch
}

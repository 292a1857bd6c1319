// Package icom implements the memory layouts of Icom D-STAR handhelds and
// mobiles, and of the IC-7300 HF transceiver.
package icom

import (
	"strings"

	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/routing"
)

// records addresses fixed-size records in an image.
type records struct {
	data   []byte
	offset int
	size   int
}

func (r records) at(i int) []byte {
	start := r.offset + i*r.size
	return r.data[start : start+r.size]
}

// inlineCall binds a routing call sign stored in the record itself.
func inlineCall(r func(int) []byte, offset int) radio.Call {
	return radio.Call{
		Get: func(ch int) routing.Routing { return routing.FromBytes(r(ch)[offset:]) },
		Set: func(ch int, v routing.Routing) bool {
			v.Put(r(ch)[offset:])
			return true
		},
	}
}

// commentSize is the width of the image comment on every Icom model that
// has one.
const commentSize = 16

// Each layout is checked once against its image size and record sizes.
func init() {
	for _, check := range []func() error{
		CheckID1, CheckID800, CheckIC91, CheckIC92, CheckID8X0,
		CheckIC2820, CheckID31, CheckID51, CheckID5100, CheckIC7300,
	} {
		if err := check(); err != nil {
			panic(err)
		}
	}
}

// region is shorthand for a named span of an image or record.
func region(name string, offset, size int) radio.Region {
	return radio.Region{Name: name, Offset: offset, Size: size}
}

// flagRegion is the span of a bitset of count channel flags.
func flagRegion(name string, offset, count int) radio.Region {
	return region(name, offset, codec.Flags{Offset: offset}.Size(count))
}

// comment reads and writes an image comment region.
type comment struct {
	data   []byte
	offset int
	size   int
}

func (c comment) get() string {
	return strings.TrimRight(codec.CString(c.data[c.offset:c.offset+c.size], 0), " ")
}

func (c comment) set(s string) {
	codec.Pad(c.data[c.offset:c.offset+c.size], s, ' ')
}

// matches reports whether an image has the expected size and header model code.
func matches(header string, data []byte, code string, size int) bool {
	return len(data) == size && strings.HasPrefix(header, code)
}

package radio

import (
	"testing"

	"github.com/dougsko/radio2csv/pkg/codec"
	"github.com/stretchr/testify/assert"
)

func TestCheckLayout(t *testing.T) {
	tests := []struct {
		name    string
		regions []Region
		wantErr string
	}{
		{"Adjacent", []Region{{"b", 8, 8}, {"a", 0, 8}}, ""},
		{"Overlap", []Region{{"a", 0, 9}, {"b", 8, 8}}, "a ends at 0x9 past b at 0x8"},
		{"Past End", []Region{{"a", 0, 8}, {"b", 12, 8}}, "b at 0xC+8 outside 0x10 byte image"},
		{"Empty", []Region{{"a", 4, 0}}, "a at 0x4+0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLayout("Test Radio", 16, tt.regions...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrLayout)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCheckRecord(t *testing.T) {
	fields := []Extent{codec.BE24(0), codec.Bits{Offset: 3, Shift: 4, Width: 4}, Region{"name", 4, 6}}
	assert.NoError(t, CheckRecord("Test Radio", "channel", 10, 10, fields...))

	err := CheckRecord("Test Radio", "channel", 11, 10, fields...)
	assert.ErrorIs(t, err, ErrLayout)
	assert.ErrorContains(t, err, "channel record is 11 bytes, want 10")

	err = CheckRecord("Test Radio", "channel", 8, 8, fields...)
	assert.ErrorIs(t, err, ErrLayout)
	assert.ErrorContains(t, err, "field 2 ends at 10")
}

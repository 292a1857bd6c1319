// Package radio defines the model-independent view of a radio memory image:
// an ordered table of named channel fields with text getters and setters.
package radio

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is returned by a Binder when the image belongs to another model.
	ErrNoMatch = errors.New("file does not match any known radio")
	// ErrCorrupt is returned when an image matches a model but fails its integrity check.
	ErrCorrupt = errors.New("corrupt radio image")
	// ErrNoField is returned when a model does not carry the requested field.
	ErrNoField = errors.New("field not supported by this radio")
)

// ChecksumError reports a checksum mismatch.
type ChecksumError struct {
	Model    string
	Stored   uint16
	Computed uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: checksum mismatch (stored %04X, computed %04X)", e.Model, e.Stored, e.Computed)
}

func (e *ChecksumError) Unwrap() error {
	return ErrCorrupt
}

// Image is an owned copy of a radio memory image and the text header it was
// read with. Binary images have an empty header.
type Image struct {
	Header string
	Data   []byte
}

// NewImage copies data into a new Image.
func NewImage(header string, data []byte) *Image {
	return &Image{Header: header, Data: append([]byte(nil), data...)}
}

// Size returns the image length in bytes.
func (img *Image) Size() int {
	return len(img.Data)
}

// Radio is a bound model schema over an image.
type Radio interface {
	// Model returns the display label, such as "Icom ID-51".
	Model() string
	// Fields returns the channel fields in CSV column order. The first
	// field is always the channel number.
	Fields() []Field
	// Count returns the number of channels.
	Count() int
	// Offset is added to a channel index to get its display number.
	Offset() int
	// Comment returns the image comment, or ErrNoField.
	Comment() (string, error)
	// SetComment stores an image comment, or returns ErrNoField.
	SetComment(comment string) error
	// Image returns the underlying image.
	Image() *Image
}

// Binder binds an image to a model schema. It returns ErrNoMatch when the
// image belongs to another model.
type Binder func(header string, data []byte) (Radio, error)

// Base carries the parts of a Radio common to every model. Models embed it
// and add their field table with SetFields.
type Base struct {
	model  string
	count  int
	offset int
	image  *Image
	fields []Field
}

// NewBase copies the image and returns a Base for a model with count channels.
func NewBase(model, header string, data []byte, count, offset int) Base {
	return Base{
		model:  model,
		count:  count,
		offset: offset,
		image:  NewImage(header, data),
	}
}

func (b *Base) Model() string   { return b.model }
func (b *Base) Count() int      { return b.count }
func (b *Base) Offset() int     { return b.offset }
func (b *Base) Image() *Image   { return b.image }
func (b *Base) Fields() []Field { return b.fields }

// Data returns the image bytes.
func (b *Base) Data() []byte { return b.image.Data }

// SetFields installs the field table, wrapping every accessor with a channel
// bounds check.
func (b *Base) SetFields(fields ...Field) {
	b.fields = Bounded(b.count, fields...)
}

// Comment reports that the model has no comment region.
func (b *Base) Comment() (string, error) {
	return "", ErrNoField
}

// SetComment reports that the model has no comment region.
func (b *Base) SetComment(string) error {
	return ErrNoField
}

// Finalizer is implemented by models that must update derived image data,
// such as a checksum, before the image is written.
type Finalizer interface {
	Finalize()
}

// Finalize prepares r's image for writing.
func Finalize(r Radio) {
	if f, ok := r.(Finalizer); ok {
		f.Finalize()
	}
}

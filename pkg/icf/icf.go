// Package icf reads and writes radio images in the ICF text container and
// as raw binary files.
//
// An ICF file starts with a header: the model code line followed by any
// number of '#' lines. Each data line that follows holds a hex address, a
// two digit byte count and the bytes themselves in hex.
package icf

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dougsko/radio2csv/pkg/radio"
)

// MaxSize is the largest image accepted.
const MaxSize = 1 << 20

var (
	// ErrFormat is returned for a malformed header or data line.
	ErrFormat = errors.New("invalid file format")
	// ErrTooLarge is returned when an image exceeds MaxSize.
	ErrTooLarge = errors.New("input file too large")
)

// IsICF reports whether a file name names an ICF text file.
func IsICF(name string) bool {
	return strings.HasSuffix(strings.ToUpper(name), ".ICF")
}

// Read parses an ICF file. The header lines are kept verbatim, including
// their line endings, so that Write reproduces them.
func Read(r io.Reader) (*radio.Image, error) {
	br := bufio.NewReader(r)

	var header strings.Builder
	line, err := br.ReadString('\n')
	if line == "" {
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}
	header.WriteString(line)

	data := make([]byte, 0, 0x10000)
	inHeader := true
	for n := 2; err == nil; n++ {
		line, err = br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read line %d: %w", n, err)
		}
		if strings.HasPrefix(line, "#") {
			if inHeader {
				header.WriteString(line)
			}
			continue
		}
		inHeader = false

		text := strings.TrimRightFunc(line, func(c rune) bool { return c < ' ' })
		if text == "" {
			continue
		}
		if data, err = appendLine(data, text); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}

	return &radio.Image{Header: header.String(), Data: data}, nil
}

// appendLine decodes one data line onto data. The address width follows
// from the line length: four digits for 16 byte lines, eight for 32 byte
// lines, and six is the minimum for a short final line.
func appendLine(data []byte, line string) ([]byte, error) {
	index := len(line) % 0x10
	if index < 6 {
		index = 6
	}
	if len(line) < index {
		return nil, fmt.Errorf("%w: short data line %q", ErrFormat, line)
	}

	count, err := strconv.ParseUint(line[index-2:index], 16, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: bad byte count in %q", ErrFormat, line)
	}
	address, err := strconv.ParseUint(line[:index-2], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad address in %q", ErrFormat, line)
	}
	if address+count >= MaxSize {
		return nil, ErrTooLarge
	}
	if len(line) != index+int(count)*2 || address != uint64(len(data)) {
		return nil, fmt.Errorf("%w: invalid data line %q", ErrFormat, line)
	}

	payload, err := hex.DecodeString(line[index:])
	if err != nil {
		return nil, fmt.Errorf("%w: bad data in %q", ErrFormat, line)
	}
	return append(data, payload...), nil
}

// Write encodes img as ICF text. Images over 64KiB use eight digit
// addresses and 32 bytes per line. Data lines end the way the header's
// first line does.
func Write(w io.Writer, img *radio.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(img.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	eol := "\n"
	if first, _, ok := strings.Cut(img.Header, "\n"); ok && strings.HasSuffix(first, "\r") {
		eol = "\r\n"
	}

	format, perLine := "%04X%02X", 0x10
	if img.Size() > 0x10000 {
		format, perLine = "%08X%02X", 0x20
	}

	for address := 0; address < img.Size(); address += perLine {
		end := address + perLine
		if end > img.Size() {
			end = img.Size()
		}
		chunk := img.Data[address:end]
		if _, err := fmt.Fprintf(bw, format+"%s%s", address, len(chunk), strings.ToUpper(hex.EncodeToString(chunk)), eol); err != nil {
			return fmt.Errorf("failed to write data: %w", err)
		}
	}
	return bw.Flush()
}

// ReadBinary reads a raw binary image.
func ReadBinary(r io.Reader) (*radio.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return &radio.Image{Data: data}, nil
}

// WriteBinary writes the image bytes.
func WriteBinary(w io.Writer, img *radio.Image) error {
	if _, err := w.Write(img.Data); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

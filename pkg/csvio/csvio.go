// Package csvio exports a radio's channels as CSV and imports them back.
//
// Cells are separated by commas. A cell starting with a double quote runs to
// the closing quote and a backslash escapes the next character; anything
// after the closing quote up to the next comma is ignored. Cells are not
// trimmed.
package csvio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dougsko/radio2csv/pkg/logging"
	"github.com/dougsko/radio2csv/pkg/radio"
)

var (
	// ErrMissingHeader is returned when the input has no header line.
	ErrMissingHeader = errors.New("missing CSV data")
	// ErrUnknownField is returned for a header name the model does not have.
	ErrUnknownField = errors.New("unknown CSV header field name")
	// ErrFirstField is returned when the first header column is not the
	// channel number.
	ErrFirstField = errors.New("first CSV header field name is not the channel number")
)

const component = "csv"

// Dump writes a header line and one row per channel in use.
func Dump(w io.Writer, r radio.Radio) error {
	fields := r.Fields()
	bw := bufio.NewWriter(w)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	if _, err := fmt.Fprintf(bw, "%s\n", strings.Join(names, ",")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for ch := 0; ch < r.Count(); ch++ {
		number, ok := fields[0].Get(ch)
		if !ok {
			continue
		}
		row := make([]string, len(fields))
		row[0] = number
		for i, f := range fields[1:] {
			text, ok := f.Get(ch)
			if !ok {
				logging.Warn(component, fmt.Sprintf("Channel %s, field '%s': Unknown field value '%s'", number, f.Name, text),
					map[string]interface{}{"channel": number, "field": f.Name, "value": text})
			}
			row[i+1] = text
		}
		if _, err := fmt.Fprintf(bw, "%s\n", strings.Join(row, ",")); err != nil {
			return fmt.Errorf("failed to write channel %s: %w", number, err)
		}
	}
	return bw.Flush()
}

// Load applies CSV rows to r and returns the number of channels loaded.
// Header columns may come in any order after the channel number. A row
// holding only a channel number deletes that channel. A row with a bad
// cell is skipped and its channel left deleted.
func Load(in io.Reader, r radio.Radio) (int, error) {
	fields := r.Fields()
	br := bufio.NewReader(in)

	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	order, err := parseHeader(trimEOL(line), fields)
	if err != nil {
		return 0, err
	}

	count := 0
	for n := 2; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return count, fmt.Errorf("failed to read line %d: %w", n, err)
		}
		if text := trimEOL(line); text != "" && loadRow(text, r, order) {
			count++
		}
		if err == io.EOF {
			break
		}
	}

	logging.Info(component, fmt.Sprintf("Lines loaded: %d", count), map[string]interface{}{"lines": count})
	return count, nil
}

// parseHeader maps header columns to field indexes. Columns beyond the
// number of fields are ignored.
func parseHeader(line string, fields []radio.Field) ([]int, error) {
	if line == "" {
		return nil, ErrMissingHeader
	}

	var order []int
	for rest := line; rest != "" && len(order) < len(fields); {
		var name string
		name, rest = nextCell(rest)
		index := fieldIndex(fields, name)
		if index < 0 {
			return nil, fmt.Errorf("%w '%s'", ErrUnknownField, name)
		}
		order = append(order, index)
	}
	if len(order) == 0 {
		return nil, ErrMissingHeader
	}
	if order[0] != 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrFirstField, fields[order[0]].Name)
	}
	return order, nil
}

func fieldIndex(fields []radio.Field, name string) int {
	for i, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// loadRow applies one row and reports whether a channel was loaded.
func loadRow(line string, r radio.Radio, order []int) bool {
	fields := r.Fields()
	number, rest := nextCell(line)

	n, err := strconv.ParseUint(number, 10, 32)
	ch := int(n) - r.Offset()
	if err != nil || !fields[0].Set(ch, rest) {
		logging.Warn(component, fmt.Sprintf("Channel %s: Invalid number; line skipped", number),
			map[string]interface{}{"channel": number})
		return false
	}
	if rest == "" {
		return false
	}

	for _, index := range order[1:] {
		var cell string
		cell, rest = nextCell(rest)
		f := fields[index]
		if !f.Set(ch, cell) {
			logging.Warn(component, fmt.Sprintf("Channel %s, field '%s': Invalid field contents '%s'; line skipped", number, f.Name, cell),
				map[string]interface{}{"channel": number, "field": f.Name, "value": cell})
			fields[0].Set(ch, "")
			return false
		}
	}
	return true
}

// nextCell splits the first cell off s.
func nextCell(s string) (cell, rest string) {
	i := 0
	if strings.HasPrefix(s, `"`) {
		var b strings.Builder
	quoted:
		for i = 1; i < len(s); i++ {
			switch c := s[i]; c {
			case '"', '\r', '\n':
				i++
				break quoted
			case '\\':
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			default:
				b.WriteByte(c)
			}
		}
		cell = b.String()
	}

	end := strings.IndexAny(s[i:], ",\r\n")
	if end < 0 {
		if i == 0 {
			cell = s
		}
		return cell, ""
	}
	if i == 0 {
		cell = s[:end]
	}
	return cell, s[i+end+1:]
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

package protocol

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/dougsko/radio2csv/pkg/radio"
)

// Response is the JSON envelope of every daemon reply
type Response struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Snapshot describes one archived radio image
type Snapshot struct {
	ID         int64     `json:"id"`
	Model      string    `json:"model"`
	Comment    string    `json:"comment"`
	SourceName string    `json:"source_name"`
	Direction  string    `json:"direction"`
	Header     string    `json:"header"`
	Size       int       `json:"size"`
	Channels   int       `json:"channels"`
	CreatedAt  time.Time `json:"created_at"`

	// Image holds the raw bytes when storing; it is never sent as JSON
	Image []byte `json:"-"`
}

// ChannelRow is one exported channel: its display number and the text of
// every other field, keyed by field name
type ChannelRow struct {
	Number int               `json:"number"`
	Values map[string]string `json:"values"`
}

// Event is pushed to websocket subscribers when the archive changes
type Event struct {
	Type      string    `json:"type"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	ID        int64     `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ModelInfo describes a supported radio
type ModelInfo struct {
	Name     string `json:"name"`
	Channels int    `json:"channels"`
	Format   string `json:"format"`
}

// ArchiveStats summarizes the snapshot archive
type ArchiveStats struct {
	TotalSnapshots int       `json:"total_snapshots"`
	TotalChannels  int       `json:"total_channels"`
	TotalExports   int       `json:"total_exports"`
	TotalImports   int       `json:"total_imports"`
	LastCleanup    time.Time `json:"last_cleanup"`
}

// Status is the daemon status
type Status struct {
	Version   string        `json:"version"`
	StartTime time.Time     `json:"start_time"`
	Uptime    string        `json:"uptime"`
	Models    int           `json:"models"`
	Archive   *ArchiveStats `json:"archive,omitempty"`
}

// String converts a Response to JSON
func (r *Response) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}

// NewSuccessResponse creates a successful response
func NewSuccessResponse(data map[string]interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err string) *Response {
	return &Response{
		Success: false,
		Error:   err,
	}
}

// NewChannelRows collects the text of every channel in use. Values that
// have no text form are kept as the bare number the field printed.
func NewChannelRows(r radio.Radio) []ChannelRow {
	fields := r.Fields()
	var rows []ChannelRow
	for ch := 0; ch < r.Count(); ch++ {
		number, ok := fields[0].Get(ch)
		if !ok {
			continue
		}
		n, _ := strconv.Atoi(number)
		row := ChannelRow{Number: n, Values: make(map[string]string, len(fields)-1)}
		for _, f := range fields[1:] {
			row.Values[f.Name], _ = f.Get(ch)
		}
		rows = append(rows, row)
	}
	return rows
}

// Snapshot directions
const (
	DirectionExport = "export"
	DirectionImport = "import"
)

// Image formats
const (
	FormatICF    = "icf"
	FormatBinary = "binary"
)

// Event types
const (
	EventSnapshotStored  = "snapshot_stored"
	EventSnapshotDeleted = "snapshot_deleted"
)

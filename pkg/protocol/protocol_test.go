package protocol

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dougsko/radio2csv/pkg/radio"
)

type testRadio struct {
	radio.Base
}

// newTestRadio has three channels numbered from 1; a channel is in use
// when its byte is non-zero and the byte is its "Level" field.
func newTestRadio(data []byte) *testRadio {
	r := &testRadio{Base: radio.NewBase("Test Radio", "", data, len(data), 1)}
	img := r.Data()
	r.SetFields(
		radio.ValidField("CH No", 1,
			func(ch int) bool { return img[ch] != 0 },
			func(ch int, v bool) {
				img[ch] = 0
				if v {
					img[ch] = 1
				}
			}),
		radio.EnumField("Level", []string{"", "Low", "High"}, radio.Accessor{
			Get: func(ch int) uint32 { return uint32(img[ch]) },
			Set: func(ch int, v uint32) bool { img[ch] = byte(v); return true },
		}),
	)
	return r
}

func TestResponse(t *testing.T) {
	t.Run("Success Response JSON", func(t *testing.T) {
		resp := NewSuccessResponse(map[string]interface{}{
			"model":    "Icom ID-880H",
			"channels": 1000,
		})

		if !resp.Success {
			t.Error("Expected success to be true")
		}
		if resp.Error != "" {
			t.Errorf("Expected no error, got %s", resp.Error)
		}

		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(resp.String()), &parsed); err != nil {
			t.Fatalf("Failed to parse JSON: %v", err)
		}
		if parsed["success"] != true {
			t.Error("Expected success true in JSON")
		}
		data, ok := parsed["data"].(map[string]interface{})
		if !ok {
			t.Fatal("Expected data in JSON")
		}
		if data["model"] != "Icom ID-880H" {
			t.Errorf("Expected model in data, got %v", data["model"])
		}
	})

	t.Run("Error Response JSON", func(t *testing.T) {
		resp := NewErrorResponse("snapshot not found")

		if resp.Success {
			t.Error("Expected success to be false")
		}
		if resp.Data != nil {
			t.Errorf("Expected no data for error response, got %v", resp.Data)
		}
		if !strings.Contains(resp.String(), `"error":"snapshot not found"`) {
			t.Errorf("Expected error in JSON, got %s", resp.String())
		}
		if strings.Contains(resp.String(), `"data"`) {
			t.Errorf("Expected data to be omitted, got %s", resp.String())
		}
	})
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{
		ID:         7,
		Model:      "Kenwood TH-D74",
		Comment:    "field day",
		SourceName: "thd74.dat",
		Direction:  DirectionExport,
		Size:       3,
		Channels:   2,
		CreatedAt:  time.Date(2024, 6, 22, 18, 0, 0, 0, time.UTC),
		Image:      []byte{1, 2, 3},
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}
	if strings.Contains(string(data), "image") {
		t.Errorf("Expected image bytes to stay out of JSON, got %s", data)
	}

	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	if back.Model != snap.Model || back.SourceName != snap.SourceName || !back.CreatedAt.Equal(snap.CreatedAt) {
		t.Errorf("Expected %+v, got %+v", snap, back)
	}
	if back.Image != nil {
		t.Errorf("Expected no image after decoding, got %v", back.Image)
	}
}

func TestNewChannelRows(t *testing.T) {
	r := newTestRadio([]byte{2, 0, 5})
	rows := NewChannelRows(r)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Number != 1 || rows[0].Values["Level"] != "High" {
		t.Errorf("Unexpected first row %+v", rows[0])
	}
	// Unlabeled values keep their number.
	if rows[1].Number != 3 || rows[1].Values["Level"] != "5" {
		t.Errorf("Unexpected second row %+v", rows[1])
	}
	if _, ok := rows[0].Values["CH No"]; ok {
		t.Error("Expected the channel number to stay out of the values")
	}
}

func TestEvent(t *testing.T) {
	event := Event{Type: EventSnapshotDeleted, ID: 42, Timestamp: time.Now()}
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}
	if !strings.Contains(string(data), `"type":"snapshot_deleted"`) {
		t.Errorf("Expected event type in JSON, got %s", data)
	}
	if strings.Contains(string(data), `"snapshot"`) {
		t.Errorf("Expected snapshot to be omitted, got %s", data)
	}
}

package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dougsko/radio2csv/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, resp *protocol.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
			"status": protocol.Status{Version: "test", Models: 14},
		}))
	})
	mux.HandleFunc("/api/v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
			"models": []protocol.ModelInfo{{Name: "Icom ID-51", Channels: 500, Format: protocol.FormatICF}},
		}))
	})
	mux.HandleFunc("/api/v1/images", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost || len(body) == 0 {
			writeJSON(w, http.StatusBadRequest, protocol.NewErrorResponse("empty image"))
			return
		}
		writeJSON(w, http.StatusCreated, protocol.NewSuccessResponse(map[string]interface{}{
			"snapshot": protocol.Snapshot{ID: 3, SourceName: r.URL.Query().Get("name"), Size: len(body)},
		}))
	})
	mux.HandleFunc("/api/v1/snapshots", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "Icom ID-51", r.URL.Query().Get("model"))
		writeJSON(w, http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
			"snapshots": []protocol.Snapshot{{ID: 3}, {ID: 2}},
		}))
	})
	mux.HandleFunc("/api/v1/snapshots/3", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			writeJSON(w, http.StatusOK, protocol.NewSuccessResponse(nil))
			return
		}
		writeJSON(w, http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
			"snapshot": protocol.Snapshot{ID: 3, Model: "Icom ID-51"},
			"channels": []protocol.ChannelRow{{Number: 0, Values: map[string]string{"Frequency": "146.520000"}}},
		}))
	})
	mux.HandleFunc("/api/v1/snapshots/3/csv", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "CH No,Frequency\n0,146.520000\n")
	})
	mux.HandleFunc("/api/v1/snapshots/3/image", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xDE, 0xAD})
	})
	mux.HandleFunc("/api/v1/snapshots/9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, protocol.NewErrorResponse("snapshot not found"))
	})
	mux.HandleFunc("/api/v1/snapshots/9/csv", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, protocol.NewErrorResponse("snapshot not found"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newServer(t)
	c := NewClient(srv.URL, time.Second)

	t.Run("Status", func(t *testing.T) {
		require.NoError(t, c.Ping())
		assert.True(t, c.IsConnected())

		status, err := c.Status()
		require.NoError(t, err)
		assert.Equal(t, "test", status.Version)
		assert.Equal(t, 14, status.Models)
	})

	t.Run("Models", func(t *testing.T) {
		models, err := c.Models()
		require.NoError(t, err)
		require.Len(t, models, 1)
		assert.Equal(t, 500, models[0].Channels)
	})

	t.Run("Upload", func(t *testing.T) {
		snap, err := c.Upload("radio.icf", []byte("31670001\r\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), snap.ID)
		assert.Equal(t, "radio.icf", snap.SourceName)
		assert.Equal(t, 10, snap.Size)

		_, err = c.Upload("radio.icf", nil)
		assert.ErrorContains(t, err, "empty image")
	})

	t.Run("Snapshots", func(t *testing.T) {
		snaps, err := c.ListSnapshots(2, 0, "Icom ID-51")
		require.NoError(t, err)
		assert.Len(t, snaps, 2)

		snap, rows, err := c.GetSnapshot(3)
		require.NoError(t, err)
		assert.Equal(t, "Icom ID-51", snap.Model)
		require.Len(t, rows, 1)
		assert.Equal(t, "146.520000", rows[0].Values["Frequency"])

		csv, err := c.GetCSV(3)
		require.NoError(t, err)
		assert.Equal(t, "CH No,Frequency\n0,146.520000\n", csv)

		img, err := c.GetImage(3)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xDE, 0xAD}, img)

		require.NoError(t, c.Delete(3))
	})

	t.Run("Errors", func(t *testing.T) {
		_, _, err := c.GetSnapshot(9)
		assert.ErrorContains(t, err, "snapshot not found")

		_, err = c.GetCSV(9)
		assert.ErrorContains(t, err, "snapshot not found")
	})
}

func TestUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	assert.False(t, c.IsConnected())
}

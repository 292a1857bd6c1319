package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dougsko/radio2csv/pkg/csvio"
	"github.com/dougsko/radio2csv/pkg/icf"
	"github.com/dougsko/radio2csv/pkg/logging"
	"github.com/dougsko/radio2csv/pkg/models"
	"github.com/dougsko/radio2csv/pkg/protocol"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/storage"
)

// ICF text takes a little over two characters per image byte
const maxUpload = 3 * icf.MaxSize

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, protocol.NewErrorResponse(err.Error()))
}

// statusFor maps archive and codec errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, icf.ErrFormat), errors.Is(err, icf.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, radio.ErrNoMatch), errors.Is(err, radio.ErrCorrupt):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func snapshotID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid snapshot id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

// bindArchived loads an archived image and binds it again. Images without
// a header were uploaded as binary files.
func (d *ArchiveDaemon) bindArchived(id int64) (radio.Radio, error) {
	img, err := d.store.GetImage(id)
	if err != nil {
		return nil, err
	}
	return models.Detect(img, img.Header == "")
}

// handleGetStatus returns daemon status and archive statistics
func (d *ArchiveDaemon) handleGetStatus(c *gin.Context) {
	stats, err := d.store.GetStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
		"status": protocol.Status{
			Version:   Version,
			StartTime: d.startTime,
			Uptime:    time.Since(d.startTime).Round(time.Second).String(),
			Models:    len(models.All()),
			Archive:   stats,
		},
	}))
}

// handleGetModels lists the supported radios
func (d *ArchiveDaemon) handleGetModels(c *gin.Context) {
	var infos []protocol.ModelInfo
	for _, m := range models.All() {
		format := protocol.FormatICF
		if m.Binary {
			format = protocol.FormatBinary
		}
		infos = append(infos, protocol.ModelInfo{Name: m.Name, Channels: m.Channels, Format: format})
	}

	c.JSON(http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
		"models": infos,
		"count":  len(infos),
	}))
}

// handleUploadImage detects and archives an uploaded image file
func (d *ArchiveDaemon) handleUploadImage(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		respondError(c, http.StatusBadRequest, errors.New("file name required"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUpload+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if len(body) > maxUpload {
		respondError(c, http.StatusRequestEntityTooLarge, icf.ErrTooLarge)
		return
	}

	isICF := icf.IsICF(name)
	var img *radio.Image
	if isICF {
		img, err = icf.Read(bytes.NewReader(body))
	} else {
		img, err = icf.ReadBinary(bytes.NewReader(body))
	}
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	r, err := models.Detect(img, !isICF)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	comment, _ := r.Comment()
	rows := protocol.NewChannelRows(r)
	snap := protocol.Snapshot{
		Model:      r.Model(),
		Comment:    comment,
		SourceName: name,
		Direction:  protocol.DirectionExport,
		Header:     img.Header,
		Image:      img.Data,
		CreatedAt:  time.Now(),
	}

	id, err := d.store.StoreSnapshot(snap, rows)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	stored, err := d.store.GetSnapshot(id)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	logging.Info("archive", fmt.Sprintf("%s found", r.Model()), map[string]interface{}{
		"id":       id,
		"name":     name,
		"channels": len(rows),
	})
	d.emitEvent(protocol.Event{Type: protocol.EventSnapshotStored, Snapshot: stored, ID: id})

	c.JSON(http.StatusCreated, protocol.NewSuccessResponse(map[string]interface{}{
		"snapshot": stored,
	}))
}

// handleGetSnapshots lists archived snapshots
func (d *ArchiveDaemon) handleGetSnapshots(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	snapshots, err := d.store.GetSnapshots(storage.SnapshotQuery{
		Limit:     limit,
		Offset:    offset,
		Model:     c.Query("model"),
		Direction: c.Query("direction"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	}))
}

// handleGetSnapshot returns one snapshot and its channel rows
func (d *ArchiveDaemon) handleGetSnapshot(c *gin.Context) {
	id, ok := snapshotID(c)
	if !ok {
		return
	}

	snap, err := d.store.GetSnapshot(id)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	rows, err := d.store.GetChannels(id)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
		"snapshot": snap,
		"channels": rows,
	}))
}

// handleGetSnapshotCSV exports an archived image as CSV
func (d *ArchiveDaemon) handleGetSnapshotCSV(c *gin.Context) {
	id, ok := snapshotID(c)
	if !ok {
		return
	}

	r, err := d.bindArchived(id)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := csvio.Dump(&buf, r); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// handleGetSnapshotImage returns an archived image in the form it was
// uploaded
func (d *ArchiveDaemon) handleGetSnapshotImage(c *gin.Context) {
	id, ok := snapshotID(c)
	if !ok {
		return
	}

	snap, err := d.store.GetSnapshot(id)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	img, err := d.store.GetImage(id)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	contentType := "application/octet-stream"
	if img.Header == "" {
		err = icf.WriteBinary(&buf, img)
	} else {
		contentType = "text/plain; charset=utf-8"
		err = icf.Write(&buf, img)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snap.SourceName))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// handleDeleteSnapshot removes a snapshot
func (d *ArchiveDaemon) handleDeleteSnapshot(c *gin.Context) {
	id, ok := snapshotID(c)
	if !ok {
		return
	}

	if err := d.store.DeleteSnapshot(id); err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	logging.Info("archive", "Snapshot deleted", map[string]interface{}{"id": id})
	d.emitEvent(protocol.Event{Type: protocol.EventSnapshotDeleted, ID: id})

	c.JSON(http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
		"id": id,
	}))
}

// handleCleanup trims the archive to its configured size
func (d *ArchiveDaemon) handleCleanup(c *gin.Context) {
	if err := d.store.CleanupOldSnapshots(); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	count, err := d.store.GetSnapshotCount()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, protocol.NewSuccessResponse(map[string]interface{}{
		"snapshots": count,
	}))
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleEventsWebSocket pushes archive events to a websocket client. The
// subscription is made before the handshake completes so no event after
// a successful dial is missed.
func (d *ArchiveDaemon) handleEventsWebSocket(c *gin.Context) {
	events, unsubscribe := d.subscribeEvents()
	defer unsubscribe()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("web", fmt.Sprintf("WebSocket upgrade failed: %v", err))
		return
	}
	defer conn.Close()

	logging.Debug("web", "Event WebSocket client connected")

	// The client only ever closes the connection.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				logging.Debug("web", fmt.Sprintf("WebSocket write error: %v", err))
				return
			}

		case <-closed:
			logging.Debug("web", "Event WebSocket client disconnected")
			return

		case <-d.ctx.Done():
			return
		}
	}
}

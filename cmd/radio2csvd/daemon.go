package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dougsko/radio2csv/pkg/config"
	"github.com/dougsko/radio2csv/pkg/logging"
	"github.com/dougsko/radio2csv/pkg/protocol"
	"github.com/dougsko/radio2csv/pkg/storage"
)

// ArchiveDaemon serves the snapshot archive over HTTP
type ArchiveDaemon struct {
	config    *config.Config
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time

	store     *storage.ArchiveStore
	router    *gin.Engine
	webServer *http.Server

	// websocket subscribers
	eventMu      sync.RWMutex
	eventClients map[int]chan protocol.Event
	nextClientID int
}

// NewArchiveDaemon creates a new daemon instance
func NewArchiveDaemon(cfg *config.Config) (*ArchiveDaemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	store, err := storage.NewArchiveStore(cfg.Archive.DatabasePath, cfg.Archive.MaxSnapshots)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	daemon := &ArchiveDaemon{
		config:       cfg,
		ctx:          ctx,
		cancel:       cancel,
		startTime:    time.Now(),
		store:        store,
		eventClients: make(map[int]chan protocol.Event),
	}

	daemon.setupWebServer()
	return daemon, nil
}

// Start starts the web server
func (d *ArchiveDaemon) Start() error {
	logging.Info("daemon", "Starting radio2csvd...")

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		logging.Info("web", fmt.Sprintf("Starting web server on %s", d.webServer.Addr))
		if err := d.webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("web", fmt.Sprintf("Web server error: %v", err))
		}
	}()

	return nil
}

// Stop stops the daemon gracefully
func (d *ArchiveDaemon) Stop() error {
	logging.Info("daemon", "Stopping daemon...")

	d.cancel()

	if d.webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.webServer.Shutdown(ctx); err != nil {
			logging.Warn("web", fmt.Sprintf("Web server shutdown error: %v", err))
		}
	}

	d.wg.Wait()

	if err := d.store.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}

	logging.Info("daemon", "Daemon stopped")
	return nil
}

// setupWebServer initializes the router and routes
func (d *ArchiveDaemon) setupWebServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/status", d.handleGetStatus)
		api.GET("/models", d.handleGetModels)
		api.POST("/images", d.handleUploadImage)
		api.GET("/snapshots", d.handleGetSnapshots)
		api.GET("/snapshots/:id", d.handleGetSnapshot)
		api.GET("/snapshots/:id/csv", d.handleGetSnapshotCSV)
		api.GET("/snapshots/:id/image", d.handleGetSnapshotImage)
		api.DELETE("/snapshots/:id", d.handleDeleteSnapshot)
		api.POST("/cleanup", d.handleCleanup)
	}

	router.GET("/ws", d.handleEventsWebSocket)

	d.router = router
	d.webServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port),
		Handler: router,
	}
}

// requestLogger logs each request at debug level
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debug("web", fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path), map[string]interface{}{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
	}
}

// subscribeEvents returns a channel of archive events and an unsubscribe
// function. Slow subscribers miss events instead of blocking uploads.
func (d *ArchiveDaemon) subscribeEvents() (<-chan protocol.Event, func()) {
	d.eventMu.Lock()
	defer d.eventMu.Unlock()

	ch := make(chan protocol.Event, 32)
	id := d.nextClientID
	d.nextClientID++
	d.eventClients[id] = ch

	unsubscribe := func() {
		d.eventMu.Lock()
		defer d.eventMu.Unlock()
		delete(d.eventClients, id)
		close(ch)
	}

	return ch, unsubscribe
}

// emitEvent fans out an event to all subscribers
func (d *ArchiveDaemon) emitEvent(event protocol.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	d.eventMu.RLock()
	defer d.eventMu.RUnlock()

	for _, ch := range d.eventClients {
		select {
		case ch <- event:
		default:
		}
	}
}

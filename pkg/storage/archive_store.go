package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dougsko/radio2csv/pkg/logging"
	"github.com/dougsko/radio2csv/pkg/protocol"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a snapshot does not exist
var ErrNotFound = errors.New("snapshot not found")

// ArchiveStore keeps converted radio images and their channel rows
type ArchiveStore struct {
	db           *sql.DB
	dbPath       string
	maxSnapshots int
}

// NewArchiveStore creates a new archive store with SQLite backend
func NewArchiveStore(dbPath string, maxSnapshots int) (*ArchiveStore, error) {
	store := &ArchiveStore{
		dbPath:       dbPath,
		maxSnapshots: maxSnapshots,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize archive store: %w", err)
	}

	return store, nil
}

// initialize sets up the database connection and creates tables
func (as *ArchiveStore) initialize() error {
	if as.dbPath == "" {
		as.dbPath = "./radio2csv.db"
	}

	if err := os.MkdirAll(filepath.Dir(as.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	connectionString := as.dbPath + "?_busy_timeout=10000&_journal_mode=WAL&_foreign_keys=on"

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	as.db = db

	if err := as.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := as.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logging.Info("storage", "Archive store initialized", map[string]interface{}{
		"path":          as.dbPath,
		"max_snapshots": as.maxSnapshots,
	})
	return nil
}

// createTables creates the database schema
func (as *ArchiveStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		model TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		source_name TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL CHECK (direction IN ('export', 'import')),
		header TEXT NOT NULL DEFAULT '',
		image BLOB NOT NULL,
		size INTEGER NOT NULL,
		channel_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS channels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id INTEGER NOT NULL,
		number INTEGER NOT NULL,
		fields TEXT NOT NULL,
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS archive_stats (
		id INTEGER PRIMARY KEY,
		total_exports INTEGER NOT NULL DEFAULT 0,
		total_imports INTEGER NOT NULL DEFAULT 0,
		last_cleanup DATETIME,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO archive_stats (id, total_exports, total_imports)
	VALUES (1, 0, 0);
	`

	_, err := as.db.Exec(schema)
	return err
}

// createIndexes creates database indexes for performance
func (as *ArchiveStore) createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_snapshots_model ON snapshots(model)",
		"CREATE INDEX IF NOT EXISTS idx_snapshots_direction ON snapshots(direction)",
		"CREATE INDEX IF NOT EXISTS idx_channels_snapshot_id ON channels(snapshot_id, number)",
	}

	for _, indexSQL := range indexes {
		if _, err := as.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// StoreSnapshot stores an image and its channel rows and returns the new
// snapshot ID
func (as *ArchiveStore) StoreSnapshot(snap protocol.Snapshot, rows []protocol.ChannelRow) (int64, error) {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	if snap.Direction == "" {
		snap.Direction = protocol.DirectionExport
	}

	tx, err := as.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO snapshots (
			model, comment, source_name, direction, header,
			image, size, channel_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		snap.Model, snap.Comment, snap.SourceName, snap.Direction, snap.Header,
		snap.Image, len(snap.Image), len(rows), snap.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot ID: %w", err)
	}

	if err := as.storeChannels(tx, id, rows); err != nil {
		return 0, fmt.Errorf("failed to store channels: %w", err)
	}

	if err := as.updateStats(tx, snap.Direction); err != nil {
		return 0, fmt.Errorf("failed to update stats: %w", err)
	}

	if err := as.cleanupOldSnapshots(tx); err != nil {
		logging.Warn("storage", "Failed to cleanup old snapshots", map[string]interface{}{"error": err.Error()})
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}

// storeChannels inserts one row per channel, its values as a JSON object
func (as *ArchiveStore) storeChannels(tx *sql.Tx, id int64, rows []protocol.ChannelRow) error {
	stmt, err := tx.Prepare("INSERT INTO channels (snapshot_id, number, fields) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		fields, err := json.Marshal(row.Values)
		if err != nil {
			return fmt.Errorf("failed to encode channel %d: %w", row.Number, err)
		}
		if _, err := stmt.Exec(id, row.Number, string(fields)); err != nil {
			return fmt.Errorf("failed to insert channel %d: %w", row.Number, err)
		}
	}
	return nil
}

// updateStats counts the snapshot by direction
func (as *ArchiveStore) updateStats(tx *sql.Tx, direction string) error {
	query := `
		UPDATE archive_stats SET
			total_exports = CASE WHEN ? = 'export' THEN total_exports + 1 ELSE total_exports END,
			total_imports = CASE WHEN ? = 'import' THEN total_imports + 1 ELSE total_imports END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`

	_, err := tx.Exec(query, direction, direction)
	return err
}

// DeleteSnapshot removes a snapshot and its channels
func (as *ArchiveStore) DeleteSnapshot(id int64) error {
	result, err := as.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CleanupOldSnapshots removes snapshots beyond the maximum limit
func (as *ArchiveStore) CleanupOldSnapshots() error {
	tx, err := as.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := as.cleanupOldSnapshots(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// cleanupOldSnapshots removes the oldest snapshots beyond the limit
func (as *ArchiveStore) cleanupOldSnapshots(tx *sql.Tx) error {
	if as.maxSnapshots <= 0 {
		return nil
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		return err
	}

	if count <= as.maxSnapshots {
		return nil
	}

	query := `
		DELETE FROM snapshots
		WHERE id IN (
			SELECT id FROM snapshots
			ORDER BY created_at ASC, id ASC
			LIMIT ?
		)
	`

	if _, err := tx.Exec(query, count-as.maxSnapshots); err != nil {
		return err
	}

	_, err := tx.Exec("UPDATE archive_stats SET last_cleanup = CURRENT_TIMESTAMP WHERE id = 1")
	return err
}

// Close closes the database connection
func (as *ArchiveStore) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dougsko/radio2csv/pkg/protocol"
	"github.com/dougsko/radio2csv/pkg/radio"
)

// SnapshotQuery represents query parameters for retrieving snapshots
type SnapshotQuery struct {
	Limit     int
	Offset    int
	Since     *time.Time
	Model     string
	Direction string // "export", "import", or "" for both
}

const snapshotColumns = `
	id, model, comment, source_name, direction, header,
	size, channel_count, created_at
`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(s scanner) (*protocol.Snapshot, error) {
	var snap protocol.Snapshot
	err := s.Scan(
		&snap.ID,
		&snap.Model,
		&snap.Comment,
		&snap.SourceName,
		&snap.Direction,
		&snap.Header,
		&snap.Size,
		&snap.Channels,
		&snap.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetSnapshots retrieves snapshots, newest first
func (as *ArchiveStore) GetSnapshots(query SnapshotQuery) ([]protocol.Snapshot, error) {
	var args []interface{}
	var conditions []string

	sqlQuery := "SELECT " + snapshotColumns + " FROM snapshots WHERE 1=1"

	if query.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, query.Since)
	}

	if query.Model != "" {
		conditions = append(conditions, "model = ?")
		args = append(args, query.Model)
	}

	if query.Direction != "" {
		conditions = append(conditions, "direction = ?")
		args = append(args, query.Direction)
	}

	for _, condition := range conditions {
		sqlQuery += " AND " + condition
	}

	sqlQuery += " ORDER BY created_at DESC, id DESC"

	if query.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, query.Limit)

		if query.Offset > 0 {
			sqlQuery += " OFFSET ?"
			args = append(args, query.Offset)
		}
	}

	rows, err := as.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []protocol.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}

	return snapshots, rows.Err()
}

// GetSnapshot retrieves one snapshot without its image
func (as *ArchiveStore) GetSnapshot(id int64) (*protocol.Snapshot, error) {
	row := as.db.QueryRow("SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snap, nil
}

// GetImage retrieves the archived image of a snapshot
func (as *ArchiveStore) GetImage(id int64) (*radio.Image, error) {
	var img radio.Image
	err := as.db.QueryRow("SELECT header, image FROM snapshots WHERE id = ?", id).Scan(&img.Header, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &img, nil
}

// GetChannels retrieves the channel rows of a snapshot in channel order
func (as *ArchiveStore) GetChannels(id int64) ([]protocol.ChannelRow, error) {
	if _, err := as.GetSnapshot(id); err != nil {
		return nil, err
	}

	rows, err := as.db.Query("SELECT number, fields FROM channels WHERE snapshot_id = ? ORDER BY number", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []protocol.ChannelRow
	for rows.Next() {
		var row protocol.ChannelRow
		var fields string
		if err := rows.Scan(&row.Number, &fields); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &row.Values); err != nil {
			return nil, fmt.Errorf("failed to decode channel %d: %w", row.Number, err)
		}
		channels = append(channels, row)
	}

	return channels, rows.Err()
}

// GetStats retrieves archive statistics
func (as *ArchiveStore) GetStats() (*protocol.ArchiveStats, error) {
	var stats protocol.ArchiveStats
	var lastCleanup sql.NullTime

	err := as.db.QueryRow(`
		SELECT total_exports, total_imports, last_cleanup,
			(SELECT COUNT(*) FROM snapshots),
			(SELECT COUNT(*) FROM channels)
		FROM archive_stats WHERE id = 1
	`).Scan(&stats.TotalExports, &stats.TotalImports, &lastCleanup, &stats.TotalSnapshots, &stats.TotalChannels)

	if err != nil {
		return nil, fmt.Errorf("failed to get archive stats: %w", err)
	}

	if lastCleanup.Valid {
		stats.LastCleanup = lastCleanup.Time
	}

	return &stats, nil
}

// GetSnapshotCount returns the number of archived snapshots
func (as *ArchiveStore) GetSnapshotCount() (int, error) {
	var count int
	err := as.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	return count, err
}

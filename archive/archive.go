// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/group-table/models"
)

// Archive persists terminal session records for later inspection. Works
// against SQLite (driver "sqlite") or PostgreSQL (driver "postgres"); the
// schema sticks to types both accept.
type Archive struct {
	db *sql.DB
}

func New(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// Open connects, verifies the connection, and ensures the schema.
func Open(driver, url string) (*Archive, error) {
	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("archive connection failed: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive ping failed: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

// CreateSchema creates the archive table. Safe to call multiple times -
// uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS session_archive (
    id TEXT PRIMARY KEY,
    host_id TEXT NOT NULL,
    group_size INTEGER NOT NULL,
    final_status TEXT NOT NULL,
    match_id TEXT,
    match_name TEXT,
    participant_count INTEGER NOT NULL,
    restaurant_count INTEGER NOT NULL,
    snapshot TEXT NOT NULL,
    created_at TIMESTAMP,
    archived_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_archive_status ON session_archive(final_status);
`

// ArchiveSession writes the final state of a session. Idempotent: a
// session id is archived once, later attempts are no-ops.
func (a *Archive) ArchiveSession(ctx context.Context, s *models.Session) error {
	snapshot, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}

	var matchID, matchName *string
	if s.MatchID != "" {
		matchID = &s.MatchID
		if match, ok := s.Restaurant(s.MatchID); ok {
			matchName = &match.Name
		}
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO session_archive
			(id, host_id, group_size, final_status, match_id, match_name,
			 participant_count, restaurant_count, snapshot, created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`, s.ID, s.HostID, s.GroupSize, s.Status, matchID, matchName,
		len(s.Participants), len(s.Restaurants), string(snapshot), s.CreatedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	return nil
}

// Record is one archived session row.
type Record struct {
	ID               string    `json:"id"`
	HostID           string    `json:"host_id"`
	GroupSize        int       `json:"group_size"`
	FinalStatus      string    `json:"final_status"`
	MatchID          *string   `json:"match_id,omitempty"`
	MatchName        *string   `json:"match_name,omitempty"`
	ParticipantCount int       `json:"participant_count"`
	RestaurantCount  int       `json:"restaurant_count"`
	ArchivedAt       time.Time `json:"archived_at"`
}

// Recent returns the most recently archived sessions, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, host_id, group_size, final_status, match_id, match_name,
		       participant_count, restaurant_count, archived_at
		FROM session_archive
		ORDER BY archived_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.HostID, &rec.GroupSize, &rec.FinalStatus,
			&rec.MatchID, &rec.MatchName, &rec.ParticipantCount, &rec.RestaurantCount,
			&rec.ArchivedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (a *Archive) Close() error {
	return a.db.Close()
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/invitecrawl"
)

// Compile-time interface verification.
var _ invitecrawl.StatusSink = (*StatusSink)(nil)

// StatusSink implements invitecrawl.StatusSink using SQLite so that other
// processes can poll the status of a running crawl.
type StatusSink struct {
	db *DB
}

// NewStatusSink creates a new StatusSink.
func NewStatusSink(db *DB) *StatusSink {
	return &StatusSink{db: db}
}

// Publish replaces the stored status.
func (s *StatusSink) Publish(ctx context.Context, status invitecrawl.CrawlStatus) error {
	value, err := json.Marshal(status)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO crawl_status (id, job_id, status, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			job_id = excluded.job_id,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, status.JobID, string(value), time.Now().UTC().Format(time.RFC3339))
	return err
}

// LastPublished returns the stored status.
func (s *StatusSink) LastPublished(ctx context.Context) (*invitecrawl.CrawlStatus, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM crawl_status WHERE id = 1`).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, invitecrawl.Errorf(invitecrawl.ENOTFOUND, "no crawl status published")
	}
	if err != nil {
		return nil, err
	}

	var status invitecrawl.CrawlStatus
	if err := json.Unmarshal([]byte(value), &status); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}
	return &status, nil
}

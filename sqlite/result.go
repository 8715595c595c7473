package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/invitecrawl"
)

// Compile-time interface verification.
var _ invitecrawl.ResultStore = (*ResultStore)(nil)

// ResultStore implements invitecrawl.ResultStore using SQLite.
// A (bucket, code) pair is stored at most once.
type ResultStore struct {
	db  *DB
	now func() time.Time
}

// NewResultStore creates a new ResultStore.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db, now: time.Now}
}

// AppendMatches inserts matches into bucket inside one transaction,
// skipping codes the bucket already holds.
func (s *ResultStore) AppendMatches(ctx context.Context, bucket string, matches []invitecrawl.TargetMatch) (int, error) {
	if bucket == "" {
		return 0, invitecrawl.Errorf(invitecrawl.EINVALID, "bucket name required")
	}
	if len(matches) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO matches (id, bucket, code, url, found_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	foundAt := s.now().UTC().Format(time.RFC3339)
	var added int
	for _, m := range matches {
		if m.Code == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, matchID(bucket, m.Code), bucket, m.Code, m.URL, foundAt)
		if err != nil {
			return 0, fmt.Errorf("insert match %s: %w", m.Code, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// ListBuckets returns buckets by name, each with matches in insertion order.
func (s *ResultStore) ListBuckets(ctx context.Context) ([]*invitecrawl.Bucket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bucket, code, url FROM matches ORDER BY bucket, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*invitecrawl.Bucket
	var current *invitecrawl.Bucket
	for rows.Next() {
		var name string
		var m invitecrawl.TargetMatch
		if err := rows.Scan(&name, &m.Code, &m.URL); err != nil {
			return nil, err
		}
		if current == nil || current.Name != name {
			current = &invitecrawl.Bucket{Name: name}
			buckets = append(buckets, current)
		}
		current.Matches = append(current.Matches, m)
	}
	return buckets, rows.Err()
}

// matchID derives a stable row ID from bucket and code.
func matchID(bucket, code string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(bucket+"\x00"+code))
}

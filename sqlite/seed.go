package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/invitecrawl"
)

// Compile-time interface verification.
var _ invitecrawl.SeedService = (*SeedService)(nil)

// SeedService implements invitecrawl.SeedService using SQLite.
// URLs are stored in canonical form with the fragment removed.
type SeedService struct {
	db *DB
}

// NewSeedService creates a new SeedService.
func NewSeedService(db *DB) *SeedService {
	return &SeedService{db: db}
}

// SeedURLs returns the stored URLs in insertion order.
func (s *SeedService) SeedURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM seed_urls ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// AddSeedURL stores url.
func (s *SeedService) AddSeedURL(ctx context.Context, url string) error {
	canonical, err := canonicalURL(url)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO seed_urls (url, created_at) VALUES (?, ?)
	`, canonical, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return invitecrawl.Errorf(invitecrawl.ECONFLICT, "URL already exists: %s", canonical)
	}
	return nil
}

// RemoveSeedURL deletes url.
func (s *SeedService) RemoveSeedURL(ctx context.Context, url string) error {
	canonical, err := canonicalURL(url)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM seed_urls WHERE url = ?`, canonical)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return invitecrawl.Errorf(invitecrawl.ENOTFOUND, "URL not found: %s", canonical)
	}
	return nil
}

func canonicalURL(raw string) (string, error) {
	u, err := invitecrawl.ParseHTTPURL(invitecrawl.NormalizeURL(raw))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/invitecrawl"
	"github.com/fwojciec/invitecrawl/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkAppendMatches measures match inserts as a crawl produces them:
// a few matches per page, one call per page.
func BenchmarkAppendMatches(b *testing.B) {
	b.Run("memory", func(b *testing.B) {
		benchmarkAppendMatches(b, ":memory:")
	})

	b.Run("wal_file", func(b *testing.B) {
		benchmarkAppendMatches(b, filepath.Join(b.TempDir(), "bench.db"))
	})
}

func benchmarkAppendMatches(b *testing.B, path string) {
	b.Helper()

	db := sqlite.NewDB(path)
	require.NoError(b, db.Open())
	defer db.Close()

	store := sqlite.NewResultStore(db)
	ctx := context.Background()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		matches := make([]invitecrawl.TargetMatch, 3)
		for j := range matches {
			code := fmt.Sprintf("code%018d", i*3+j)
			matches[j] = invitecrawl.TargetMatch{Code: code, URL: "https://chat.whatsapp.com/" + code}
		}
		if _, err := store.AppendMatches(ctx, fmt.Sprintf("bucket%d", i%10), matches); err != nil {
			b.Fatal(err)
		}
	}
}

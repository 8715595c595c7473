package sqlite_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/invitecrawl"
	"github.com/fwojciec/invitecrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(code string) invitecrawl.TargetMatch {
	return invitecrawl.TargetMatch{Code: code, URL: "https://chat.whatsapp.com/" + code}
}

func TestResultStore_AppendMatches(t *testing.T) {
	t.Parallel()

	t.Run("skips codes already in the bucket", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewResultStore(setupTestDB(t))
		ctx := context.Background()

		added, err := store.AppendMatches(ctx, "example", []invitecrawl.TargetMatch{match("AAAAAAAAAAAAAAAAAAAAAA"), match("BBBBBBBBBBBBBBBBBBBBBB")})
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		added, err = store.AppendMatches(ctx, "example", []invitecrawl.TargetMatch{match("BBBBBBBBBBBBBBBBBBBBBB"), match("CCCCCCCCCCCCCCCCCCCCCC")})
		require.NoError(t, err)
		assert.Equal(t, 1, added)

		buckets, err := store.ListBuckets(ctx)
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Equal(t, []invitecrawl.TargetMatch{
			match("AAAAAAAAAAAAAAAAAAAAAA"),
			match("BBBBBBBBBBBBBBBBBBBBBB"),
			match("CCCCCCCCCCCCCCCCCCCCCC"),
		}, buckets[0].Matches)
	})

	t.Run("same code may appear in different buckets", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewResultStore(setupTestDB(t))
		ctx := context.Background()

		_, err := store.AppendMatches(ctx, "beta", []invitecrawl.TargetMatch{match("AAAAAAAAAAAAAAAAAAAAAA")})
		require.NoError(t, err)
		_, err = store.AppendMatches(ctx, "alpha", []invitecrawl.TargetMatch{match("AAAAAAAAAAAAAAAAAAAAAA")})
		require.NoError(t, err)

		buckets, err := store.ListBuckets(ctx)
		require.NoError(t, err)
		require.Len(t, buckets, 2)
		assert.Equal(t, "alpha", buckets[0].Name)
		assert.Equal(t, "beta", buckets[1].Name)
	})

	t.Run("empty input adds nothing", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewResultStore(setupTestDB(t))

		added, err := store.AppendMatches(context.Background(), "example", nil)
		require.NoError(t, err)
		assert.Zero(t, added)
	})

	t.Run("returns EINVALID for empty bucket", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewResultStore(setupTestDB(t))

		_, err := store.AppendMatches(context.Background(), "", []invitecrawl.TargetMatch{match("AAAAAAAAAAAAAAAAAAAAAA")})
		require.Error(t, err)
		assert.Equal(t, invitecrawl.EINVALID, invitecrawl.ErrorCode(err))
	})

	t.Run("concurrent appends store each code once", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewResultStore(setupTestDB(t))
		ctx := context.Background()

		const workers = 8
		codes := make([]invitecrawl.TargetMatch, 20)
		for i := range codes {
			codes[i] = match(fmt.Sprintf("code%018d", i))
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		total := 0
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				added, err := store.AppendMatches(ctx, "example", codes)
				assert.NoError(t, err)
				mu.Lock()
				total += added
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, len(codes), total)
		buckets, err := store.ListBuckets(ctx)
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Len(t, buckets[0].Matches, len(codes))
	})
}

func TestResultStore_ListBuckets_empty(t *testing.T) {
	t.Parallel()

	store := sqlite.NewResultStore(setupTestDB(t))

	buckets, err := store.ListBuckets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

package fs

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/invitecrawl"
)

// Ensure ResultStore implements invitecrawl.ResultStore at compile time.
var _ invitecrawl.ResultStore = (*ResultStore)(nil)

// bucketPattern restricts bucket names to safe file names.
var bucketPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ResultStore implements invitecrawl.ResultStore with one JSON file per
// bucket. Appends to the same bucket are serialized by a per-bucket lock;
// different buckets are written independently.
type ResultStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewResultStore creates a ResultStore writing into dir.
// The directory is created on first write.
func NewResultStore(dir string) *ResultStore {
	return &ResultStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *ResultStore) bucketLock(bucket string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[bucket]
	if !ok {
		l = &sync.Mutex{}
		s.locks[bucket] = l
	}
	return l
}

func (s *ResultStore) path(bucket string) string {
	return filepath.Join(s.dir, bucket+".json")
}

// AppendMatches adds matches whose code is not yet in the bucket file and
// rewrites the file.
func (s *ResultStore) AppendMatches(ctx context.Context, bucket string, matches []invitecrawl.TargetMatch) (int, error) {
	if !bucketPattern.MatchString(bucket) {
		return 0, invitecrawl.Errorf(invitecrawl.EINVALID, "invalid bucket name %q", bucket)
	}
	if len(matches) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l := s.bucketLock(bucket)
	l.Lock()
	defer l.Unlock()

	var stored []invitecrawl.TargetMatch
	if _, err := readJSON(s.path(bucket), &stored); err != nil {
		return 0, err
	}

	var set invitecrawl.MatchSet
	for _, m := range stored {
		set.Add(m)
	}
	before := set.Len()
	for _, m := range matches {
		if m.Code != "" {
			set.Add(m)
		}
	}
	added := set.Len() - before
	if added == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return 0, err
	}
	if err := writeJSON(s.path(bucket), set.Matches()); err != nil {
		return 0, err
	}
	return added, nil
}

// ListBuckets reads every bucket file in the directory, sorted by name.
func (s *ResultStore) ListBuckets(ctx context.Context) ([]*invitecrawl.Bucket, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		bucket := strings.TrimSuffix(name, ".json")
		if bucketPattern.MatchString(bucket) {
			names = append(names, bucket)
		}
	}
	sort.Strings(names)

	buckets := make([]*invitecrawl.Bucket, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l := s.bucketLock(name)
		l.Lock()
		var matches []invitecrawl.TargetMatch
		_, err := readJSON(s.path(name), &matches)
		l.Unlock()
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, &invitecrawl.Bucket{Name: name, Matches: matches})
	}
	return buckets, nil
}

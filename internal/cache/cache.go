package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okatu-loli/leetcode-daily/internal/leetcode"
)

// Entry is the durable unit persisted across restarts. Question and
// LastUpdate are either both nil (never fetched) or both set, populated
// together by a successful daily-question fetch.
type Entry struct {
	Question   *leetcode.DailyQuestion `json:"question"`
	LastUpdate *time.Time              `json:"lastUpdate"`
}

// FreshAt reports whether the entry is still valid for the calendar day of
// now. The comparison is by local date components (year, month, day), not an
// elapsed-duration window, so a record fetched at 23:59 goes stale one minute
// later. The remote service resolves "today" on its own clock; around
// midnight the two notions can disagree by a day.
func (e Entry) FreshAt(now time.Time) bool {
	if e.Question == nil || e.LastUpdate == nil {
		return false
	}
	y1, m1, d1 := e.LastUpdate.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CorruptError reports a cache file that exists but cannot be parsed.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("cache file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store persists a single Entry as one JSON document at a fixed path.
// Concurrent invocations share the file with last-write-wins semantics; the
// record is idempotent per calendar day, so a duplicate write is harmless.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the cache file. A missing file is not an error and yields the
// empty entry. A corrupt file also yields the empty entry, alongside a
// *CorruptError so the caller can log it; proceeding as if no cache existed
// is the intended recovery.
func (s *Store) Load() (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{}, nil
		}
		return Entry{}, fmt.Errorf("reading cache: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, &CorruptError{Path: s.path, Err: err}
	}
	return e, nil
}

// Save overwrites the cache file with the given entry, creating the parent
// directory on first use.
func (s *Store) Save(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

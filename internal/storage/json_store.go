// ABOUTME: JSON file-backed review store.
// ABOUTME: Every operation reloads the whole file; mutations rewrite it atomically.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/2389-research/tastelog/internal/logging"
	"github.com/2389-research/tastelog/internal/models"
	"github.com/2389-research/tastelog/internal/validation"
)

// DefaultPath is the store file used when none is configured, relative to
// the working directory.
const DefaultPath = "app.json"

// JSONStore persists entries as a single JSON array.
type JSONStore struct {
	path          string
	strictRatings bool
	log           zerolog.Logger

	// mu serializes load-mutate-save cycles within this process. There is no
	// protection against other processes writing the same file.
	mu sync.Mutex
}

// StoreOption configures optional JSONStore behavior.
type StoreOption func(*JSONStore)

// WithStrictRatings rejects ratings outside 1..5 on append and replace.
func WithStrictRatings(strict bool) StoreOption {
	return func(s *JSONStore) {
		s.strictRatings = strict
	}
}

// WithLogger replaces the store's logger.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *JSONStore) {
		s.log = l
	}
}

// NewJSONStore creates a store backed by the file at path. The file does not
// need to exist.
func NewJSONStore(path string, opts ...StoreOption) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	s := &JSONStore{
		path: path,
		log:  logging.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the store file location.
func (s *JSONStore) Path() string {
	return s.path
}

// StrictRatings reports whether the 1..5 range is enforced.
func (s *JSONStore) StrictRatings() bool {
	return s.strictRatings
}

// Close releases any resources held by the store.
func (s *JSONStore) Close() error {
	return nil
}

// Load returns the full collection.
func (s *JSONStore) Load() ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, done := s.begin("load")
	defer done()

	entries, err := s.load(l)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Save replaces the persisted collection with entries.
func (s *JSONStore) Save(entries []models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, done := s.begin("save")
	defer done()

	return s.save(l, entries)
}

// Append validates in, then adds it to the end of the collection.
func (s *JSONStore) Append(in models.EntryInput) ([]models.Entry, error) {
	entry, err := s.buildEntry(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, done := s.begin("append")
	defer done()

	entries, err := s.load(l)
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	if err := s.save(l, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByKey returns the position of the first entry whose restaurant,
// location and food match. Query values must already be lowercase.
func (s *JSONStore) FindByKey(restaurant, location, food string) (int, bool, error) {
	entries, err := s.Load()
	if err != nil {
		return -1, false, err
	}
	for i, e := range entries {
		if e.MatchesKey(restaurant, location, food) {
			return i, true, nil
		}
	}
	return -1, false, nil
}

// ReplaceAt validates in and replaces the entry at index.
func (s *JSONStore) ReplaceAt(index int, in models.EntryInput) ([]models.Entry, error) {
	entry, err := s.buildEntry(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, done := s.begin("replace")
	defer done()

	entries, err := s.load(l)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entries) {
		return nil, &InvalidIndexError{Index: index, Len: len(entries)}
	}
	entries[index] = entry
	if err := s.save(l, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FilterByFoodAndLocation returns entries whose food and location match.
func (s *JSONStore) FilterByFoodAndLocation(food, location string) ([]models.Entry, error) {
	return s.filter(func(e models.Entry) bool {
		return models.NormalizeKey(e.Food) == food && models.NormalizeKey(e.Location) == location
	})
}

// FilterByFood returns entries whose food matches.
func (s *JSONStore) FilterByFood(food string) ([]models.Entry, error) {
	return s.filter(func(e models.Entry) bool {
		return models.NormalizeKey(e.Food) == food
	})
}

// FilterByFoodAndRestaurant returns entries whose food and restaurant match.
func (s *JSONStore) FilterByFoodAndRestaurant(food, restaurant string) ([]models.Entry, error) {
	return s.filter(func(e models.Entry) bool {
		return models.NormalizeKey(e.Food) == food && models.NormalizeKey(e.Restaurant) == restaurant
	})
}

// RemoveByEquality removes the first entry equal to e. When several entries
// are identical only the earliest goes; they cannot be told apart.
func (s *JSONStore) RemoveByEquality(e models.Entry) ([]models.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, done := s.begin("remove")
	defer done()

	entries, err := s.load(l)
	if err != nil {
		return nil, false, err
	}
	for i := range entries {
		if entries[i] != e {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		if err := s.save(l, entries); err != nil {
			return nil, false, err
		}
		return entries, true, nil
	}
	l.Debug().Msg("no equal entry, nothing written")
	return entries, false, nil
}

func (s *JSONStore) filter(match func(models.Entry) bool) ([]models.Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	matches := []models.Entry{}
	for _, e := range entries {
		if match(e) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// buildEntry converts raw input into a normalized entry.
func (s *JSONStore) buildEntry(in models.EntryInput) (models.Entry, error) {
	rating, err := validation.ParseRating(in.Rating, s.strictRatings)
	if err != nil {
		return models.Entry{}, &InvalidFieldError{Field: "rating", Value: in.Rating, Err: err}
	}
	entry := models.Entry{
		Date:       in.Date,
		Restaurant: in.Restaurant,
		Location:   in.Location,
		Food:       in.Food,
		Review:     in.Review,
		Rating:     rating,
	}
	return entry.Normalized(), nil
}

// begin returns a logger tagged with the operation and an id, plus a func
// that logs completion.
func (s *JSONStore) begin(op string) (zerolog.Logger, func()) {
	l := s.log.With().Str("op", op).Str("op_id", uuid.NewString()).Logger()
	start := time.Now()
	return l, func() {
		l.Debug().Dur("took", time.Since(start)).Msg("store operation finished")
	}
}

// load must be called with mu held.
func (s *JSONStore) load(l zerolog.Logger) ([]models.Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Debug().Str("path", s.path).Msg("store file absent, using empty collection")
			return []models.Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	entries, err := decodeEntries(data)
	if err != nil {
		l.Error().Err(err).Str("path", s.path).Msg("store file is corrupt")
		return nil, &CorruptStoreError{Path: s.path, Err: err}
	}
	l.Debug().Int("entries", len(entries)).Msg("store loaded")
	return entries, nil
}

// save must be called with mu held.
func (s *JSONStore) save(l zerolog.Logger, entries []models.Entry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	if err := renameio.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	l.Debug().Int("entries", len(entries)).Int("bytes", len(data)).Msg("store saved")
	return nil
}

// decodeEntries parses the store file. Missing keys decode as zero values;
// anything other than an array of entry objects is rejected.
func decodeEntries(data []byte) ([]models.Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("file is empty")
	}
	if trimmed[0] != '[' {
		return nil, errors.New("top-level value is not an array")
	}

	var entries []models.Entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// encodeEntries renders the collection with two-space indentation and a
// trailing newline. All six keys are always written.
func encodeEntries(entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

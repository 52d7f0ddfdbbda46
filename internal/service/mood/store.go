package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/serenity/backend/internal/model/mood"
)

var ErrEntryNotFound = errors.New("mood entry not found")

const keyPrefix = "mood:"

// Store persists mood entries in pebble, one key per timestamp.
// Keys are zero padded so lexical order is chronological.
type Store struct {
	db     *pebble.DB
	logger zerolog.Logger

	// mu serializes writers so UpdateNote's read-modify-write cannot
	// interleave with a Sync of the same timestamp.
	mu sync.Mutex
}

// Open opens (or creates) the store at path. opts may be nil.
func Open(path string, opts *pebble.Options, logger zerolog.Logger) (*Store, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open mood store %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("mood store opened")
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func entryKey(timestamp int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, timestamp))
}

// Sync validates every entry, then writes them all as synced in one batch.
// Nothing is written when any entry is invalid. It returns the stored
// timestamps in input order.
func (s *Store) Sync(_ context.Context, entries []mood.Entry) ([]int64, error) {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewBatch()
	defer batch.Close()

	synced := make([]int64, 0, len(entries))
	for _, e := range entries {
		e.SyncStatus = mood.StatusSynced
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshal entry %d: %w", e.Timestamp, err)
		}
		if err := batch.Set(entryKey(e.Timestamp), data, nil); err != nil {
			return nil, fmt.Errorf("stage entry %d: %w", e.Timestamp, err)
		}
		synced = append(synced, e.Timestamp)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("commit mood batch: %w", err)
	}
	s.logger.Debug().Int("count", len(synced)).Msg("mood entries synced")
	return synced, nil
}

// Get returns the entry stored under timestamp.
func (s *Store) Get(_ context.Context, timestamp int64) (mood.Entry, error) {
	val, closer, err := s.db.Get(entryKey(timestamp))
	if errors.Is(err, pebble.ErrNotFound) {
		return mood.Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return mood.Entry{}, fmt.Errorf("get mood entry %d: %w", timestamp, err)
	}
	defer closer.Close()

	var e mood.Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return mood.Entry{}, fmt.Errorf("decode mood entry %d: %w", timestamp, err)
	}
	return e, nil
}

// List returns every entry, newest first.
func (s *Store) List(_ context.Context) ([]mood.Entry, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte("mood;"),
	})
	if err != nil {
		return nil, fmt.Errorf("open mood iterator: %w", err)
	}
	defer iter.Close()

	out := make([]mood.Entry, 0)
	for valid := iter.Last(); valid; valid = iter.Prev() {
		var e mood.Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			s.logger.Warn().Err(err).Bytes("key", iter.Key()).Msg("skipping undecodable mood entry")
			continue
		}
		out = append(out, e)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate mood entries: %w", err)
	}
	return out, nil
}

// UpdateNote attaches or replaces the note on an existing entry.
func (s *Store) UpdateNote(ctx context.Context, timestamp int64, note string) (mood.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.Get(ctx, timestamp)
	if err != nil {
		return mood.Entry{}, err
	}

	e.Note = note
	e.SyncStatus = mood.StatusSynced
	data, err := json.Marshal(e)
	if err != nil {
		return mood.Entry{}, fmt.Errorf("marshal entry %d: %w", timestamp, err)
	}
	if err := s.db.Set(entryKey(timestamp), data, pebble.Sync); err != nil {
		return mood.Entry{}, fmt.Errorf("update mood entry %d: %w", timestamp, err)
	}
	return e, nil
}

// ParseTimestamp parses a path parameter into an entry key.
func ParseTimestamp(raw string) (int64, error) {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ts <= 0 {
		return 0, fmt.Errorf("%w: bad timestamp %q", mood.ErrInvalidEntry, raw)
	}
	return ts, nil
}

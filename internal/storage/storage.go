package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/engine"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store is a single-table key-value store backed by SQLite.
// The entry collection lives under one fixed key as a JSON array.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// record is the persisted shape of an entry.
type record struct {
	ID        string  `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
}

// Open creates or opens the database at path and prepares the kv table.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermUserRWX); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreSchema, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", config.ErrStoreRead, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return nil
}

// Load returns the persisted entries. Any failure is logged and treated as an
// empty history; it is never surfaced to the caller.
func (s *Store) Load(ctx context.Context) []engine.PeriodEntry {
	log := slog.With(config.LogKeyComponent, config.CompStorage)

	raw, ok, err := s.Get(ctx, config.StorageKey)
	if err != nil {
		log.Error(config.MsgLoadFailed, config.LogKeyError, err)
		return []engine.PeriodEntry{}
	}
	if !ok {
		return []engine.PeriodEntry{}
	}

	entries, err := DecodeEntries([]byte(raw))
	if err != nil {
		log.Error(config.MsgLoadFailed, config.LogKeyError, err)
		return []engine.PeriodEntry{}
	}

	log.Debug(config.MsgEntriesLoaded, config.LogKeyCount, len(entries))
	return entries
}

// Save persists entries. A failure is logged and reported as false.
func (s *Store) Save(ctx context.Context, entries []engine.PeriodEntry) bool {
	log := slog.With(config.LogKeyComponent, config.CompStorage)

	data, err := EncodeEntries(entries)
	if err != nil {
		log.Error(config.MsgSaveFailed, config.LogKeyError, err)
		return false
	}
	if err := s.Set(ctx, config.StorageKey, string(data)); err != nil {
		log.Error(config.MsgSaveFailed, config.LogKeyError, err)
		return false
	}

	log.Debug(config.MsgEntriesSaved, config.LogKeyCount, len(entries))
	return true
}

// EncodeEntries serializes entries to the persisted JSON form.
func EncodeEntries(entries []engine.PeriodEntry) ([]byte, error) {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		r := record{ID: e.ID, StartDate: engine.FormatDate(e.StartDate)}
		if e.EndDate != nil {
			end := engine.FormatDate(*e.EndDate)
			r.EndDate = &end
		}
		records = append(records, r)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreEncode, err)
	}
	return data, nil
}

// DecodeEntries parses the persisted JSON form.
func DecodeEntries(data []byte) ([]engine.PeriodEntry, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
	}

	entries := make([]engine.PeriodEntry, 0, len(records))
	for _, r := range records {
		start, err := engine.ParseDate(r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
		}
		entry := engine.PeriodEntry{ID: r.ID, StartDate: start}
		if r.EndDate != nil && *r.EndDate != "" {
			end, err := engine.ParseDate(*r.EndDate)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
			}
			entry.EndDate = &end
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

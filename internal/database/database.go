// Package database implements the Freecord record store: a set of named
// tables held in memory and persisted as a single zlib-compressed JSON
// snapshot. Every mutating operation rewrites the whole snapshot through a
// temp-file-and-rename sequence, so the on-disk file is never observed
// half-written. The full rewrite is the store's throughput ceiling and is
// acceptable only for small datasets.
package database

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// FileSuffix is appended to store paths that do not already carry it.
const FileSuffix = ".fcdb"

var (
	// ErrNoTable is returned when an operation names a table that was
	// never created.
	ErrNoTable = errors.New("no such table")
	// ErrTableExists is returned by CreateTable for a duplicate name.
	ErrTableExists = errors.New("table already exists")
	// ErrCorrupt is returned by Open when an existing store file cannot
	// be read back. There is no partial-recovery path.
	ErrCorrupt = errors.New("corrupt store file")
)

// Row is a single record: field name to string, int64 or bool value.
// Every stored row carries an "id" field assigned at insertion.
type Row map[string]any

// Filter is a conjunction of field-equality constraints. A nil Filter
// matches every row.
type Filter map[string]any

// Store is an in-memory table collection backed by one snapshot file.
// All exported methods are safe for concurrent use: the table map is
// guarded by a reader/writer lock and snapshot writes are serialized
// separately.
type Store struct {
	path string

	mu     sync.RWMutex
	tables map[string][]Row

	saveMu sync.Mutex
}

// Open loads the store at path, appending the .fcdb suffix when missing.
// If the file does not exist an empty store is created and persisted
// immediately. Any failure to read an existing file is fatal and wraps
// ErrCorrupt.
func Open(path string) (*Store, error) {
	if !strings.HasSuffix(path, FileSuffix) {
		path += FileSuffix
	}

	s := &Store{
		path:   path,
		tables: make(map[string][]Row),
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat store file: %w", err)
	} else if err := s.save(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the resolved snapshot file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	dec := json.NewDecoder(bytes.NewReader(decompressed))
	dec.UseNumber()

	tables := make(map[string][]Row)
	if err := dec.Decode(&tables); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	for name, rows := range tables {
		for i, row := range rows {
			for k, v := range row {
				row[k] = normalizeValue(v)
			}
			rows[i] = row
		}
		if rows == nil {
			rows = []Row{}
		}
		tables[name] = rows
	}

	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()

	return nil
}

// save snapshots the full table map to the store file atomically. The
// snapshot is marshalled while holding the save lock so concurrent savers
// cannot overwrite a newer file with an older state.
func (s *Store) save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	data, err := json.MarshalIndent(s.tables, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal tables: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return fmt.Errorf("create compressor: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("compress tables: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress tables: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace store file: %w", err)
	}

	return nil
}

// Close forces a final snapshot. Calling Close more than once is safe.
func (s *Store) Close() error {
	return s.save()
}

// Info describes the store file and its tables.
type Info struct {
	File      string         `json:"file"`
	Tables    int            `json:"tables"`
	TableInfo map[string]int `json:"table_info"`
	FileSize  int64          `json:"file_size"`
}

// GetInfo reports the snapshot path, per-table row counts and the current
// file size.
func (s *Store) GetInfo() Info {
	s.mu.RLock()
	info := Info{
		File:      s.path,
		Tables:    len(s.tables),
		TableInfo: make(map[string]int, len(s.tables)),
	}
	for name, rows := range s.tables {
		info.TableInfo[name] = len(rows)
	}
	s.mu.RUnlock()

	if fi, err := os.Stat(s.path); err == nil {
		info.FileSize = fi.Size()
	}

	return info
}

// normalizeValue maps decoded JSON values onto the store's value types so
// a save/load round trip reproduces the exact table map. Integral numbers
// become int64, everything else keeps its decoded form.
func normalizeValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, _ := n.Float64()
	return f
}

// normalizeField coerces caller-supplied integer kinds to int64 on the
// way in, for the same round-trip reason.
func normalizeField(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return v
	}
}

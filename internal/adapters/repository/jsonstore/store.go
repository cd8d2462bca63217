// Package jsonstore implements a small document store that persists one
// JSON array per collection. Every mutation rewrites the whole file
// through a temp-file rename, so a crash mid-write never corrupts the
// on-disk array. A per-collection RWMutex serializes writers in-process
// and an optimistic version token turns concurrent lost updates into
// detectable conflicts.
package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("jsonstore: record not found")
	ErrDuplicateID     = errors.New("jsonstore: duplicate id")
	ErrMissingID       = errors.New("jsonstore: record has no id")
	ErrVersionConflict = errors.New("jsonstore: version conflict")
)

// Collection is a file-backed set of records of one type. The zero
// value is not usable; construct with New or NewVersioned.
type Collection[T any] struct {
	path string
	id   func(*T) uuid.UUID

	// nil for unversioned collections (records like likes and refresh
	// tokens that clients never edit concurrently)
	version    func(*T) int
	setVersion func(*T, int)

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// New creates a collection without optimistic concurrency checking.
func New[T any](path string, id func(*T) uuid.UUID) *Collection[T] {
	return &Collection[T]{path: path, id: id}
}

// NewVersioned creates a collection whose Update enforces that the
// incoming record carries the currently stored version, then bumps it.
func NewVersioned[T any](path string, id func(*T) uuid.UUID, version func(*T) int, setVersion func(*T, int)) *Collection[T] {
	return &Collection[T]{path: path, id: id, version: version, setVersion: setVersion}
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string {
	return c.path
}

// load reads and caches the backing file. Caller must hold the write
// lock. A missing file is an empty collection; malformed JSON is an
// error, never silent data loss.
func (c *Collection[T]) load() error {
	if c.loaded {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.items = []T{}
			c.loaded = true
			return nil
		}
		return fmt.Errorf("read %s: %w", c.path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parse %s: %w", c.path, err)
	}

	c.items = items
	c.loaded = true
	return nil
}

// persist rewrites the whole backing file atomically. Caller must hold
// the write lock.
func (c *Collection[T]) persist() error {
	data, err := json.MarshalIndent(c.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", c.path, err)
	}

	return nil
}

// All returns a copy of every record in the collection.
func (c *Collection[T]) All() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return nil, err
	}

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id uuid.UUID) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return nil, err
	}

	for i := range c.items {
		if c.id(&c.items[i]) == id {
			rec := c.items[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// Insert appends a record and persists the collection. The record must
// already carry an id; a duplicate id fails without mutating anything.
func (c *Collection[T]) Insert(rec *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return err
	}

	id := c.id(rec)
	if id == uuid.Nil {
		return ErrMissingID
	}
	for i := range c.items {
		if c.id(&c.items[i]) == id {
			return ErrDuplicateID
		}
	}

	if c.setVersion != nil && c.version(rec) == 0 {
		c.setVersion(rec, 1)
	}

	c.items = append(c.items, *rec)
	if err := c.persist(); err != nil {
		c.items = c.items[:len(c.items)-1]
		return err
	}
	return nil
}

// Update replaces the record with the same id. For versioned
// collections the incoming record must carry the stored version; the
// stored copy is replaced with the version bumped by one and the bumped
// version is written back into rec.
func (c *Collection[T]) Update(rec *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return err
	}

	id := c.id(rec)
	for i := range c.items {
		if c.id(&c.items[i]) != id {
			continue
		}

		if c.version != nil {
			stored := c.version(&c.items[i])
			if c.version(rec) != stored {
				return ErrVersionConflict
			}
			c.setVersion(rec, stored+1)
		}

		prev := c.items[i]
		c.items[i] = *rec
		if err := c.persist(); err != nil {
			c.items[i] = prev
			return err
		}
		return nil
	}
	return ErrNotFound
}

// Delete removes the record with the given id. The collection is left
// unchanged when the id is absent or the write fails.
func (c *Collection[T]) Delete(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return err
	}

	for i := range c.items {
		if c.id(&c.items[i]) != id {
			continue
		}

		prev := c.items[i]
		c.items = append(c.items[:i], c.items[i+1:]...)
		if err := c.persist(); err != nil {
			c.items = append(c.items[:i], append([]T{prev}, c.items[i:]...)...)
			return err
		}
		return nil
	}
	return ErrNotFound
}

// DeleteWhere removes every record matching pred and reports how many
// were removed.
func (c *Collection[T]) DeleteWhere(pred func(*T) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return 0, err
	}

	kept := c.items[:0:0]
	removed := 0
	for i := range c.items {
		if pred(&c.items[i]) {
			removed++
			continue
		}
		kept = append(kept, c.items[i])
	}
	if removed == 0 {
		return 0, nil
	}

	prev := c.items
	c.items = kept
	if err := c.persist(); err != nil {
		c.items = prev
		return 0, err
	}
	return removed, nil
}

// Find returns every record matching pred.
func (c *Collection[T]) Find(pred func(*T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return nil, err
	}

	var out []T
	for i := range c.items {
		if pred(&c.items[i]) {
			out = append(out, c.items[i])
		}
	}
	return out, nil
}

// Count returns the number of records matching pred; a nil pred counts
// everything.
func (c *Collection[T]) Count(pred func(*T) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return 0, err
	}

	if pred == nil {
		return len(c.items), nil
	}
	n := 0
	for i := range c.items {
		if pred(&c.items[i]) {
			n++
		}
	}
	return n, nil
}

// Page is one page of a paginated query.
type Page[T any] struct {
	Data      []T  `json:"data"`
	Total     int  `json:"total"`
	Page      int  `json:"page"`
	Limit     int  `json:"limit"`
	PageCount int  `json:"page_count"`
	HasMore   bool `json:"has_more"`
}

// Paginate filters with pred (nil keeps everything), stable-sorts with
// less, and returns the 1-based page of at most limit records.
func (c *Collection[T]) Paginate(pred func(*T) bool, less func(a, b *T) bool, page, limit int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	matched, err := c.Find(pred)
	if err != nil {
		return nil, err
	}
	if matched == nil {
		matched = []T{}
	}

	if less != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(&matched[i], &matched[j])
		})
	}

	total := len(matched)
	pageCount := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &Page[T]{
		Data:      matched[start:end],
		Total:     total,
		Page:      page,
		Limit:     limit,
		PageCount: pageCount,
		HasMore:   end < total,
	}, nil
}

// Backup copies every *.json collection file from dataDir into a
// timestamped subdirectory of backupDir and returns that directory.
func Backup(dataDir, backupDir, stamp string) (string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return "", fmt.Errorf("read data dir: %w", err)
	}

	dest := filepath.Join(backupDir, stamp)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dataDir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dest, entry.Name()), data, 0o644); err != nil {
			return "", fmt.Errorf("write backup %s: %w", entry.Name(), err)
		}
	}

	return dest, nil
}

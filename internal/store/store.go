// Package store maps typed records onto a flat key-value namespace and keeps
// a derived ordered index of live ids per entity type.
//
// The record write and the index write of a single create (or delete) are not
// atomic: the backend offers no cross-key transactions, so a crash between the
// two leaves either an untracked record or an orphaned index entry. That drift
// is an accepted trade-off. Listing skips over it and CleanupIndex repairs it
// on demand; callers never see it as an error.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bistro/internal/kv"

	"github.com/rs/zerolog"
)

var (
	// ErrNotFound indicates no record exists for the requested id.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict indicates a create targeted an id that already has a record.
	ErrConflict = errors.New("entity already exists")
)

// Entity is any record with a unique string identifier.
type Entity interface {
	EntityID() string
}

// Definition names one entity type and its index.
type Definition struct {
	// Name is the entity type name used in record keys.
	Name string

	// IndexName is the name of the ordered id index for this type.
	IndexName string
}

// Page is one page of a listing.
type Page[T Entity] struct {
	Items []T `json:"items"`

	// NextCursor is an opaque position to resume from; empty means the
	// listing is exhausted.
	NextCursor string `json:"nextCursor,omitempty"`
}

// Audit reports index/record drift without mutating anything.
type Audit struct {
	// Orphans are ids present in the index with no backing record.
	Orphans []string

	// Untracked are record ids missing from the index.
	Untracked []string
}

// Store provides CRUD with automatic indexing for one entity type.
type Store[T Entity] struct {
	def     Definition
	backend kv.Store
	logger  zerolog.Logger
}

// New creates a store for one entity type over the given backend.
func New[T Entity](def Definition, backend kv.Store, logger zerolog.Logger) *Store[T] {
	return &Store[T]{
		def:     def,
		backend: backend,
		logger:  logger.With().Str("store", def.Name).Logger(),
	}
}

func (s *Store[T]) recordKey(id string) string { return s.recordPrefix() + id }
func (s *Store[T]) recordPrefix() string       { return "ent." + s.def.Name + "." }
func (s *Store[T]) indexKey() string           { return "idx." + s.def.IndexName }

// Exists reports whether a record is present for id. It never fails for a
// missing id.
func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.backend.Get(ctx, s.recordKey(id))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existence of %s: %w", id, err)
	}
	return true, nil
}

// Get returns the stored record for id, or ErrNotFound.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var item T

	data, err := s.backend.Get(ctx, s.recordKey(id))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return item, ErrNotFound
		}
		return item, fmt.Errorf("failed to read %s %s: %w", s.def.Name, id, err)
	}

	if err := json.Unmarshal(data, &item); err != nil {
		return item, fmt.Errorf("failed to decode %s %s: %w", s.def.Name, id, err)
	}

	return item, nil
}

// Create writes a new record and adds its id to the index. It fails with
// ErrConflict if a record already exists for the id. The index write happens
// after the record write; if it fails the record is still considered created
// and stays untracked until repair.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	id := item.EntityID()

	exists, err := s.Exists(ctx, id)
	if err != nil {
		return item, err
	}
	if exists {
		return item, ErrConflict
	}

	if err := s.putRecord(ctx, item); err != nil {
		return item, err
	}

	if err := s.indexAdd(ctx, id); err != nil {
		// Record write already succeeded; report success and leave the
		// untracked record for the repair operation.
		s.logger.Warn().
			Err(err).
			Str("id", id).
			Msg("index update failed after record write; record is untracked")
	}

	return item, nil
}

// Save unconditionally replaces the record for id. It does not touch the
// index; callers use it for updates where the index entry already exists.
func (s *Store[T]) Save(ctx context.Context, id string, item T) (T, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return item, fmt.Errorf("failed to encode %s %s: %w", s.def.Name, id, err)
	}

	if err := s.backend.Put(ctx, s.recordKey(id), data); err != nil {
		return item, fmt.Errorf("failed to save %s %s: %w", s.def.Name, id, err)
	}

	return item, nil
}

// Delete removes the record and its index entry. It returns false, without
// error, if no record existed.
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := s.backend.Delete(ctx, s.recordKey(id)); err != nil {
		return false, fmt.Errorf("failed to delete %s %s: %w", s.def.Name, id, err)
	}

	if err := s.indexRemove(ctx, id); err != nil {
		// Record is gone; the dangling index entry becomes an orphan that
		// listing skips and CleanupIndex removes.
		s.logger.Warn().
			Err(err).
			Str("id", id).
			Msg("index update failed after record delete; entry is orphaned")
	}

	return true, nil
}

// DeleteMany removes each record in ids, best effort. It returns the number
// of records actually removed; missing ids and per-id failures are logged,
// not raised.
func (s *Store[T]) DeleteMany(ctx context.Context, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		removed, err := s.Delete(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("id", id).Msg("failed to delete entity in bulk delete")
			continue
		}
		if removed {
			count++
		}
	}

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("deleted", count).
		Msg("bulk delete completed")

	return count, nil
}

// List reads up to limit ids from the index starting after cursor and fetches
// each record. Ids whose backing record is missing are skipped silently; an
// unknown cursor restarts from the beginning. The empty cursor means start.
func (s *Store[T]) List(ctx context.Context, cursor string, limit int) (Page[T], error) {
	if limit <= 0 {
		limit = 100
	}

	ids, err := s.readIndex(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	start := 0
	if cursor != "" {
		for i, id := range ids {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	window := ids[start:end]

	items := make([]T, 0, len(window))
	for _, id := range window {
		item, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.logger.Debug().Str("id", id).Msg("skipping orphaned index entry in listing")
			} else {
				s.logger.Warn().Err(err).Str("id", id).Msg("skipping unreadable record in listing")
			}
			continue
		}
		items = append(items, item)
	}

	page := Page[T]{Items: items}
	if end < len(ids) && len(window) > 0 {
		page.NextCursor = window[len(window)-1]
	}

	return page, nil
}

// EnsureSeed bulk-creates the seed set if the index is empty. It is safe to
// call on every cold start. Emptiness of the index, not per-item existence,
// decides whether to seed: a partially seeded index from a prior crash counts
// as already seeded.
func (s *Store[T]) EnsureSeed(ctx context.Context, seed []T) error {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		s.logger.Debug().Int("indexed", len(ids)).Msg("index not empty, skipping seed")
		return nil
	}

	created := 0
	for _, item := range seed {
		if _, err := s.Create(ctx, item); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return fmt.Errorf("failed to seed %s %s: %w", s.def.Name, item.EntityID(), err)
		}
		created++
	}

	s.logger.Info().
		Int("created", created).
		Int("seed_size", len(seed)).
		Msg("seed data loaded")

	return nil
}

// CleanupIndex removes index entries whose backing record is missing and
// returns the number removed. It is an administrative operation: a concurrent
// create in flight looks identical to a genuine orphan, so it is never run
// automatically.
func (s *Store[T]) CleanupIndex(ctx context.Context) (int, error) {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return 0, err
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		exists, err := s.Exists(ctx, id)
		if err != nil {
			// Keep the entry on a transient read failure rather than
			// dropping a possibly live id.
			s.logger.Warn().Err(err).Str("id", id).Msg("existence check failed during cleanup, keeping entry")
			live = append(live, id)
			continue
		}
		if exists {
			live = append(live, id)
		}
	}

	removed := len(ids) - len(live)
	if removed > 0 {
		if err := s.writeIndex(ctx, live); err != nil {
			return 0, err
		}
		s.logger.Info().Int("removed", removed).Msg("orphaned index entries removed")
	}

	return removed, nil
}

// AuditIndex reports drift in both directions without mutating the index:
// orphaned index entries and untracked records. Both are expected transient
// states after partial failures.
func (s *Store[T]) AuditIndex(ctx context.Context) (Audit, error) {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return Audit{}, err
	}

	keys, err := s.backend.Keys(ctx, s.recordPrefix())
	if err != nil {
		return Audit{}, err
	}

	recorded := make(map[string]bool, len(keys))
	for _, key := range keys {
		recorded[strings.TrimPrefix(key, s.recordPrefix())] = true
	}

	indexed := make(map[string]bool, len(ids))
	var audit Audit
	for _, id := range ids {
		indexed[id] = true
		if !recorded[id] {
			audit.Orphans = append(audit.Orphans, id)
		}
	}
	for _, key := range keys {
		id := strings.TrimPrefix(key, s.recordPrefix())
		if !indexed[id] {
			audit.Untracked = append(audit.Untracked, id)
		}
	}

	return audit, nil
}

func (s *Store[T]) putRecord(ctx context.Context, item T) error {
	id := item.EntityID()

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", s.def.Name, id, err)
	}

	if err := s.backend.Put(ctx, s.recordKey(id), data); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", s.def.Name, id, err)
	}

	return nil
}

// readIndex returns the ordered id list, or an empty list when the index
// record does not exist yet.
func (s *Store[T]) readIndex(ctx context.Context) ([]string, error) {
	data, err := s.backend.Get(ctx, s.indexKey())
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read index %s: %w", s.def.IndexName, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode index %s: %w", s.def.IndexName, err)
	}

	return ids, nil
}

func (s *Store[T]) writeIndex(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode index %s: %w", s.def.IndexName, err)
	}

	if err := s.backend.Put(ctx, s.indexKey(), data); err != nil {
		return fmt.Errorf("failed to write index %s: %w", s.def.IndexName, err)
	}

	return nil
}

// indexAdd appends id to the index if absent. Read-modify-write on a single
// key: concurrent writers race with last-write-wins semantics.
func (s *Store[T]) indexAdd(ctx context.Context, id string) error {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return err
	}

	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}

	return s.writeIndex(ctx, append(ids, id))
}

// indexRemove deletes id from the index if present.
func (s *Store[T]) indexRemove(ctx context.Context, id string) error {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return err
	}

	filtered := ids[:0]
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}

	if len(filtered) == len(ids) {
		return nil
	}

	return s.writeIndex(ctx, filtered)
}

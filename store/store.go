// Package store implements a persisted vector store with exact top-K cosine
// search. A Store binds a named collection with a fixed dimension to a
// storage engine; every vector is padded or truncated to that dimension
// before it is written. Each operation runs in its own engine transaction,
// and search performs one full cancellable scan, keeping a bounded buffer of
// the best k candidates.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/vecdex/vecdex/engine"
	"github.com/vecdex/vecdex/engine/sqlitevec"
	"github.com/vecdex/vecdex/vector"
)

// Opener produces the engine for a collection. It runs at most once per
// Store, on the first operation.
type Opener func() (engine.Engine, error)

// Store is a dimension-typed vector collection. All methods are safe for
// concurrent use; isolation between racing operations is whatever the
// underlying engine's transactions guarantee.
type Store struct {
	collection string
	dimension  int
	log        logr.Logger
	open       Opener

	// The shared engine handle is initialized once and its outcome, success
	// or failure, is replayed to every later caller.
	mu      sync.Mutex
	started bool
	eng     engine.Engine
	openErr error
}

// Option configures a Store.
type Option func(*Store)

// WithEngine supplies a custom engine opener, replacing the default SQLite
// file engine.
func WithEngine(open Opener) Option {
	return func(s *Store) { s.open = open }
}

// WithPath sets the SQLite database path for the default engine.
func WithPath(path string) Option {
	return func(s *Store) {
		collection := s.collection
		s.open = func() (engine.Engine, error) {
			return sqlitevec.Open(path, collection)
		}
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(log logr.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store for the named collection. dimension is the fixed
// vector length of the collection and must be positive. The engine is not
// opened here; the first operation opens it lazily and caches the result.
//
// Without options the collection lives in a SQLite file named
// "<collection>-<dimension>.sqlite" in the working directory, so the same
// (name, dimension) pair deterministically maps to the same database.
func New(collection string, dimension int, opts ...Option) (*Store, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension}
	}
	s := &Store{
		collection: collection,
		dimension:  dimension,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.open == nil {
		path := fmt.Sprintf("%s-%d.sqlite", collection, dimension)
		s.open = func() (engine.Engine, error) {
			return sqlitevec.Open(path, collection)
		}
	}
	return s, nil
}

// Collection returns the collection name.
func (s *Store) Collection() string { return s.collection }

// Dimension returns the fixed vector length of the collection.
func (s *Store) Dimension() int { return s.dimension }

// conn returns the shared engine handle, opening it on the first call. The
// open runs at most once per Store; its outcome is cached and replayed to
// every caller, so a failed open fails all current and future operations
// without being retried.
func (s *Store) conn() (engine.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.started = true
		eng, err := s.open()
		if err != nil {
			s.openErr = &OpenError{Collection: s.collection, cause: err}
		} else {
			s.eng = eng
			s.log.V(1).Info("engine opened", "collection", s.collection, "dimension", s.dimension)
		}
	}
	return s.eng, s.openErr
}

// Close releases the engine if it was opened. A Store must not be used after
// Close.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return nil
	}
	return s.eng.Close()
}

// AddVectors normalizes every record's vector to the collection dimension and
// upserts all records inside a single read-write transaction. Writing an
// existing id overwrites its prior vector. Records with an empty ID are
// assigned a generated one; the ids of all written records are returned in
// input order. Engine rejection (e.g. storage quota) aborts the whole batch.
func (s *Store) AddVectors(ctx context.Context, records []vector.Record) ([]string, error) {
	eng, err := s.conn()
	if err != nil {
		return nil, err
	}
	tx, err := eng.Begin(ctx, engine.ReadWrite)
	if err != nil {
		return nil, &TransactionError{Op: "add", cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, 0, len(records))
	for _, r := range records {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		blob := vector.Encode(vector.Normalize(r.Vector, s.dimension))
		if err := tx.Put(ctx, id, blob); err != nil {
			return nil, &TransactionError{Op: "add", cause: err}
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, &TransactionError{Op: "add", cause: err}
	}
	s.log.V(1).Info("vectors upserted", "collection", s.collection, "count", len(ids))
	return ids, nil
}

// UpdateVectors is AddVectors under another name: there is no update-only
// validation, and writing an id that does not exist silently creates it.
func (s *Store) UpdateVectors(ctx context.Context, records []vector.Record) ([]string, error) {
	return s.AddVectors(ctx, records)
}

// RemoveVectors deletes the given ids inside a single read-write transaction.
// Deleting an absent id is a no-op.
func (s *Store) RemoveVectors(ctx context.Context, ids []string) error {
	eng, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := eng.Begin(ctx, engine.ReadWrite)
	if err != nil {
		return &TransactionError{Op: "remove", cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if err := tx.Delete(ctx, id); err != nil {
			return &TransactionError{Op: "remove", cause: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &TransactionError{Op: "remove", cause: err}
	}
	s.log.V(1).Info("vectors removed", "collection", s.collection, "count", len(ids))
	return nil
}

// Clear empties the collection inside one read-write transaction.
func (s *Store) Clear(ctx context.Context) error {
	eng, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := eng.Begin(ctx, engine.ReadWrite)
	if err != nil {
		return &TransactionError{Op: "clear", cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.Clear(ctx); err != nil {
		return &TransactionError{Op: "clear", cause: err}
	}
	if err := tx.Commit(); err != nil {
		return &TransactionError{Op: "clear", cause: err}
	}
	s.log.V(1).Info("collection cleared", "collection", s.collection)
	return nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	eng, err := s.conn()
	if err != nil {
		return 0, err
	}
	tx, err := eng.Begin(ctx, engine.ReadOnly)
	if err != nil {
		return 0, &TransactionError{Op: "count", cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	n := 0
	for _, err := range tx.Cursor(ctx) {
		if err != nil {
			return 0, &CursorError{cause: err}
		}
		n++
	}
	return n, nil
}

// Search returns up to k records most similar to query by cosine similarity,
// from one full scan of the collection in engine-defined order.
//
// The result holds min(k, stored records) entries and is NOT sorted by
// similarity: the order reflects how the bounded buffer filled and replaced
// entries during the scan. A candidate with undefined similarity (either
// vector of zero magnitude) can only appear while the buffer is still
// filling; it never displaces a buffered entry.
//
// Cancellation is cooperative: ctx is checked before each scan step, and a
// cancelled search discards its partial buffer and returns the context error.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]vector.Match, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	eng, err := s.conn()
	if err != nil {
		return nil, err
	}
	q := vector.Normalize(query, s.dimension)

	tx, err := eng.Begin(ctx, engine.ReadOnly)
	if err != nil {
		return nil, &TransactionError{Op: "search", cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	collector := vector.NewCollector(k)
	for entry, err := range tx.Cursor(ctx) {
		if err != nil {
			return nil, &CursorError{cause: err}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := vector.Decode(entry.Value)
		if err != nil {
			return nil, &CursorError{cause: err}
		}
		collector.Offer(vector.Match{
			ID:         entry.ID,
			Vector:     vec,
			Similarity: vector.CosineSimilarity(q, vec),
		})
	}

	matches := collector.Matches()
	s.log.V(1).Info("search finished", "collection", s.collection, "k", k, "matches", len(matches))
	return matches, nil
}

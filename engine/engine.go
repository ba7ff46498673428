// Package engine defines the persistent-store capability the vector store is
// built on: a named collection of (id, blob) records with transactional
// put/delete/clear and full-collection cursor iteration.
//
// Implementations live in the sqlitevec and badgerkv subpackages. Iteration
// order over a collection is engine-defined; callers must not rely on it.
package engine

import (
	"context"
	"iter"
)

// Mode selects the access mode of a transaction.
type Mode int

const (
	// ReadOnly transactions may only open cursors.
	ReadOnly Mode = iota
	// ReadWrite transactions may put, delete, and clear records.
	ReadWrite
)

// Entry is a raw stored record: a collection-unique id and an opaque value.
type Entry struct {
	ID    string
	Value []byte
}

// Engine is an opened persistent collection. Implementations create the
// collection on open if it does not exist yet; the data outlives the process.
type Engine interface {
	// Begin starts a transaction bound to the collection. Every store
	// operation runs inside exactly one transaction; transactions never span
	// calls.
	Begin(ctx context.Context, mode Mode) (Tx, error)

	// Close releases the underlying database handle.
	Close() error
}

// Tx is a single transaction. A transaction is finished by exactly one call
// to Commit or Rollback; Rollback after Commit is a no-op, so callers may
// defer it unconditionally.
type Tx interface {
	// Put upserts a record. Writing an existing id overwrites its value.
	Put(ctx context.Context, id string, value []byte) error

	// Delete removes a record. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Clear removes every record in the collection.
	Clear(ctx context.Context) error

	// Cursor iterates over all records in engine-defined order. A non-nil
	// error entry ends the iteration.
	Cursor(ctx context.Context) iter.Seq2[Entry, error]

	Commit() error
	Rollback() error
}

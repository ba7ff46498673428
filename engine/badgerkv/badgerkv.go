// Package badgerkv implements the engine capability on BadgerDB v4. Records
// are stored under "<collection>:<id>" keys, so several collections can share
// one Badger directory.
package badgerkv

import (
	"context"
	"errors"
	"iter"
	"log"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/vecdex/vecdex/engine"
)

// Options configures the Badger-backed engine.
type Options struct {
	// Dir is the directory for Badger data files. Required unless InMemory.
	Dir string

	// Collection names the key prefix records are stored under.
	Collection string

	// InMemory runs Badger without disk persistence. Useful for tests that
	// want a real engine.
	InMemory bool

	// Logger sets the badger logger. If nil, a quiet logger that only
	// forwards warnings and errors is used.
	Logger badger.Logger
}

// Engine is a Badger-backed collection.
type Engine struct {
	db     *badger.DB
	prefix []byte
}

var _ engine.Engine = (*Engine)(nil)

// Open opens (or creates) the Badger database and binds the collection
// prefix. The collection needs no schema setup beyond the prefix convention.
func Open(opts Options) (*Engine, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badgerkv: Options.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	if opts.Logger != nil {
		dbOpts = dbOpts.WithLogger(opts.Logger)
	} else {
		dbOpts = dbOpts.WithLogger(quietLogger{})
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Engine{db: db, prefix: append([]byte(opts.Collection), ':')}, nil
}

// Begin starts a Badger transaction; ReadWrite maps to an update transaction.
func (e *Engine) Begin(_ context.Context, mode engine.Mode) (engine.Tx, error) {
	return &tx{
		txn:    e.db.NewTransaction(mode == engine.ReadWrite),
		prefix: e.prefix,
	}, nil
}

// Close closes the Badger database.
func (e *Engine) Close() error { return e.db.Close() }

type tx struct {
	txn    *badger.Txn
	prefix []byte
}

func (t *tx) key(id string) []byte {
	return append(append([]byte(nil), t.prefix...), id...)
}

func (t *tx) Put(_ context.Context, id string, value []byte) error {
	return t.txn.Set(t.key(id), value)
}

func (t *tx) Delete(_ context.Context, id string) error {
	err := t.txn.Delete(t.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (t *tx) Clear(_ context.Context) error {
	// Badger has no range delete; collect the keys first since deleting
	// while iterating invalidates the iterator.
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.Prefix = t.prefix
	iterOpts.PrefetchValues = false

	var keys [][]byte
	it := t.txn.NewIterator(iterOpts)
	for it.Seek(t.prefix); it.ValidForPrefix(t.prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := t.txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) Cursor(_ context.Context) iter.Seq2[engine.Entry, error] {
	return func(yield func(engine.Entry, error) bool) {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = t.prefix
		it := t.txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(t.prefix); it.ValidForPrefix(t.prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				yield(engine.Entry{}, err)
				return
			}
			entry := engine.Entry{
				ID:    string(item.Key()[len(t.prefix):]),
				Value: val,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func (t *tx) Commit() error { return t.txn.Commit() }

func (t *tx) Rollback() error {
	t.txn.Discard()
	return nil
}

// quietLogger forwards badger warnings and errors to the standard logger and
// drops info/debug chatter.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}

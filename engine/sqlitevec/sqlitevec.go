// Package sqlitevec implements the engine capability on SQLite using the
// pure-Go modernc.org/sqlite driver. Each collection maps to one table with
// an id primary key and a BLOB value column.
package sqlitevec

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"github.com/vecdex/vecdex/engine"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %s (
    id     TEXT PRIMARY KEY,
    vector BLOB NOT NULL
);
`

// Engine is a SQLite-backed collection.
type Engine struct {
	db    *sql.DB
	table string
}

var _ engine.Engine = (*Engine)(nil)

// Open opens (or creates) the database at dsn and ensures the collection
// table exists. For file-based databases pass a path like "./db.sqlite"; for
// in-memory databases pass ":memory:".
func Open(dsn, collection string) (*Engine, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer, and an in-memory database exists per
	// connection; a one-connection pool keeps schema setup and every
	// transaction on the same handle.
	db.SetMaxOpenConns(1)
	table := tableName(collection)
	if _, err := db.Exec(fmt.Sprintf(schemaTemplate, table)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitevec: create collection %q: %w", collection, err)
	}
	return &Engine{db: db, table: table}, nil
}

// Begin starts a transaction. SQLite serializes writers internally; read
// cursors run on the same transaction machinery, so the mode only documents
// intent here.
func (e *Engine) Begin(ctx context.Context, _ engine.Mode) (engine.Tx, error) {
	sqlTx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &tx{tx: sqlTx, table: e.table}, nil
}

// Close closes the database handle.
func (e *Engine) Close() error { return e.db.Close() }

type tx struct {
	tx    *sql.Tx
	table string
}

func (t *tx) Put(ctx context.Context, id string, value []byte) error {
	stmt := fmt.Sprintf(
		"INSERT INTO %s(id, vector) VALUES(?, ?) ON CONFLICT(id) DO UPDATE SET vector = excluded.vector",
		t.table)
	_, err := t.tx.ExecContext(ctx, stmt, id, value)
	return err
}

func (t *tx) Delete(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.table), id)
	return err
}

func (t *tx) Clear(ctx context.Context) error {
	_, err := t.tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", t.table))
	return err
}

func (t *tx) Cursor(ctx context.Context) iter.Seq2[engine.Entry, error] {
	return func(yield func(engine.Entry, error) bool) {
		rows, err := t.tx.QueryContext(ctx, fmt.Sprintf("SELECT id, vector FROM %s", t.table))
		if err != nil {
			yield(engine.Entry{}, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			var e engine.Entry
			if err := rows.Scan(&e.ID, &e.Value); err != nil {
				yield(engine.Entry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(engine.Entry{}, err)
		}
	}
}

func (t *tx) Commit() error   { return t.tx.Commit() }
func (t *tx) Rollback() error { return t.tx.Rollback() }

// tableName derives a safe table identifier from a collection name: any rune
// outside [A-Za-z0-9_] is replaced with '_', and the result is prefixed so it
// never collides with SQLite reserved names.
func tableName(collection string) string {
	var b strings.Builder
	b.WriteString("vec_")
	for _, r := range collection {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

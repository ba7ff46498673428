package sqlitevec

import (
	"context"
	"testing"

	"github.com/vecdex/vecdex/engine"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(":memory:", "test")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func scan(t *testing.T, e *Engine) map[string][]byte {
	t.Helper()
	ctx := context.Background()
	tx, err := e.Begin(ctx, engine.ReadOnly)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := map[string][]byte{}
	for entry, err := range tx.Cursor(ctx) {
		if err != nil {
			t.Fatalf("Cursor: %v", err)
		}
		out[entry.ID] = entry.Value
	}
	return out
}

func TestPutCursorRoundtrip(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	tx, err := e.Begin(ctx, engine.ReadWrite)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.Put(ctx, "a", []byte{1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := tx.Put(ctx, "b", []byte{2}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got := scan(t, e)
	if len(got) != 2 || got["a"][0] != 1 || got["b"][0] != 2 {
		t.Fatalf("scan = %v, want a:[1] b:[2]", got)
	}
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	for _, v := range []byte{1, 2} {
		tx, err := e.Begin(ctx, engine.ReadWrite)
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		if err := tx.Put(ctx, "a", []byte{v}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}

	got := scan(t, e)
	if len(got) != 1 {
		t.Fatalf("scan has %d entries, want 1", len(got))
	}
	if got["a"][0] != 2 {
		t.Fatalf("a = %v, want [2]", got["a"])
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	tx, _ := e.Begin(ctx, engine.ReadWrite)
	_ = tx.Put(ctx, "a", []byte{1})
	_ = tx.Put(ctx, "b", []byte{2})
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Deleting an absent id is a no-op.
	tx, _ = e.Begin(ctx, engine.ReadWrite)
	if err := tx.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete(missing): %v", err)
	}
	if err := tx.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete(a): %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := scan(t, e); len(got) != 1 {
		t.Fatalf("scan after delete = %v, want only b", got)
	}

	tx, _ = e.Begin(ctx, engine.ReadWrite)
	if err := tx.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := scan(t, e); len(got) != 0 {
		t.Fatalf("scan after clear = %v, want empty", got)
	}
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	tx, _ := e.Begin(ctx, engine.ReadWrite)
	_ = tx.Put(ctx, "a", []byte{1})
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if got := scan(t, e); len(got) != 0 {
		t.Fatalf("scan after rollback = %v, want empty", got)
	}
}

func TestTableName(t *testing.T) {
	if got := tableName("my-embeddings.v2"); got != "vec_my_embeddings_v2" {
		t.Fatalf("tableName = %q", got)
	}
}

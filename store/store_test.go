package store_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecdex/vecdex/engine"
	"github.com/vecdex/vecdex/engine/badgerkv"
	"github.com/vecdex/vecdex/engine/sqlitevec"
	"github.com/vecdex/vecdex/store"
	"github.com/vecdex/vecdex/vector"
)

// engines lists the storage backends the store contract is verified against.
var engines = map[string]store.Opener{
	"sqlite": func() (engine.Engine, error) {
		return sqlitevec.Open(":memory:", "test")
	},
	"badger": func() (engine.Engine, error) {
		return badgerkv.Open(badgerkv.Options{Collection: "test", InMemory: true})
	},
}

func forEachEngine(t *testing.T, dimension int, fn func(t *testing.T, s *store.Store)) {
	for name, opener := range engines {
		t.Run(name, func(t *testing.T) {
			s, err := store.New("test", dimension, store.WithEngine(opener))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

func byID(ms []vector.Match) map[string]vector.Match {
	out := make(map[string]vector.Match, len(ms))
	for _, m := range ms {
		out[m.ID] = m
	}
	return out
}

func TestNewRejectsInvalidDimension(t *testing.T) {
	_, err := store.New("test", 0)
	var dimErr *store.ErrInvalidDimension
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 0, dimErr.Dimension)

	_, err = store.New("test", -3)
	require.ErrorAs(t, err, &dimErr)
}

func TestSearchScenario(t *testing.T) {
	// D=4: v1=[1,0,0,0], v2=[0,1,0,0], v3=[0.9,0.1,0,0]; search([1,0,0,0], 2)
	// keeps v1 (sim 1.0) and v3 (sim ≈0.994) and drops v2 (sim 0).
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		_, err := s.AddVectors(ctx, []vector.Record{
			{ID: "v1", Vector: []float32{1, 0, 0, 0}},
			{ID: "v2", Vector: []float32{0, 1, 0, 0}},
			{ID: "v3", Vector: []float32{0.9, 0.1, 0, 0}},
		})
		require.NoError(t, err)

		matches, err := s.Search(ctx, []float32{1, 0, 0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, matches, 2)

		got := byID(matches)
		require.Contains(t, got, "v1")
		require.Contains(t, got, "v3")
		assert.Equal(t, 1.0, got["v1"].Similarity)
		assert.InDelta(t, 0.9939, got["v3"].Similarity, 1e-3)
	})
}

func TestNormalizationOnWrite(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		_, err := s.AddVectors(ctx, []vector.Record{
			{ID: "short", Vector: []float32{1, 2}},
			{ID: "long", Vector: []float32{1, 2, 3, 4, 5, 6}},
		})
		require.NoError(t, err)

		matches, err := s.Search(ctx, []float32{1, 2, 0, 0}, 10)
		require.NoError(t, err)
		got := byID(matches)

		assert.Equal(t, []float32{1, 2, 0, 0}, got["short"].Vector, "length-2 input stored right-padded")
		assert.Equal(t, []float32{1, 2, 3, 4}, got["long"].Vector, "length-6 input stored truncated")
	})
}

func TestUpsertKeepsOneRecordPerID(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		_, err := s.AddVectors(ctx, []vector.Record{{ID: "a", Vector: []float32{1, 0, 0, 0}}})
		require.NoError(t, err)

		// UpdateVectors is the same upsert; the later vector wins.
		_, err = s.UpdateVectors(ctx, []vector.Record{{ID: "a", Vector: []float32{0, 1, 0, 0}}})
		require.NoError(t, err)

		matches, err := s.Search(ctx, []float32{0, 1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "a", matches[0].ID)
		assert.Equal(t, []float32{0, 1, 0, 0}, matches[0].Vector)
	})
}

func TestUpdateCreatesMissingID(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		_, err := s.UpdateVectors(ctx, []vector.Record{{ID: "never-added", Vector: []float32{1, 0, 0, 0}}})
		require.NoError(t, err)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestAddVectorsGeneratesIDs(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		ids, err := s.AddVectors(ctx, []vector.Record{
			{Vector: []float32{1, 0, 0, 0}},
			{ID: "fixed", Vector: []float32{0, 1, 0, 0}},
		})
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.NotEmpty(t, ids[0])
		assert.Equal(t, "fixed", ids[1])
	})
}

func TestRemoveVectors(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		_, err := s.AddVectors(ctx, []vector.Record{
			{ID: "keep", Vector: []float32{1, 0, 0, 0}},
			{ID: "drop", Vector: []float32{0, 1, 0, 0}},
		})
		require.NoError(t, err)

		require.NoError(t, s.RemoveVectors(ctx, []string{"drop", "not-there"}))

		matches, err := s.Search(ctx, []float32{1, 1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "keep", matches[0].ID)
	})
}

func TestClear(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		_, err := s.AddVectors(ctx, []vector.Record{
			{ID: "a", Vector: []float32{1, 0, 0, 0}},
			{ID: "b", Vector: []float32{0, 1, 0, 0}},
		})
		require.NoError(t, err)

		require.NoError(t, s.Clear(ctx))

		matches, err := s.Search(ctx, []float32{1, 0, 0, 0}, 5)
		require.NoError(t, err)
		assert.Empty(t, matches)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestSearchResultLength(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		records := []vector.Record{
			{ID: "a", Vector: []float32{1, 0, 0, 0}},
			{ID: "b", Vector: []float32{0, 1, 0, 0}},
			{ID: "c", Vector: []float32{0, 0, 1, 0}},
		}
		_, err := s.AddVectors(ctx, records)
		require.NoError(t, err)

		// Always min(k, stored records).
		for _, k := range []int{1, 2, 3, 5, 100} {
			matches, err := s.Search(ctx, []float32{1, 1, 1, 1}, k)
			require.NoError(t, err)
			want := k
			if want > len(records) {
				want = len(records)
			}
			assert.Len(t, matches, want, "k=%d", k)
		}

		_, err = s.Search(ctx, []float32{1, 0, 0, 0}, 0)
		assert.ErrorIs(t, err, store.ErrInvalidK)
	})
}

func TestZeroVectorNeverWinsReplacement(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		// "zzz" sorts and inserts last, so with k=3 the real vectors fill the
		// buffer first under both engines' iteration orders; the zero vector
		// has NaN similarity and must not displace any of them.
		_, err := s.AddVectors(ctx, []vector.Record{
			{ID: "a", Vector: []float32{1, 0, 0, 0}},
			{ID: "b", Vector: []float32{0.5, 0.5, 0, 0}},
			{ID: "c", Vector: []float32{0, 0, 1, 0}},
			{ID: "zzz", Vector: []float32{0, 0, 0, 0}},
		})
		require.NoError(t, err)

		matches, err := s.Search(ctx, []float32{1, 0, 0, 0}, 3)
		require.NoError(t, err)
		got := byID(matches)
		require.NotContains(t, got, "zzz")
		for _, m := range matches {
			assert.False(t, math.IsNaN(m.Similarity))
		}
	})
}

func TestSearchCancellation(t *testing.T) {
	forEachEngine(t, 4, func(t *testing.T, s *store.Store) {
		ctx := context.Background()
		_, err := s.AddVectors(ctx, []vector.Record{
			{ID: "a", Vector: []float32{1, 0, 0, 0}},
			{ID: "b", Vector: []float32{0, 1, 0, 0}},
		})
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = s.Search(cancelled, []float32{1, 0, 0, 0}, 2)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOpenFailureIsCachedAndReplayed(t *testing.T) {
	opened := 0
	boom := errors.New("disk on fire")
	s, err := store.New("test", 4, store.WithEngine(func() (engine.Engine, error) {
		opened++
		return nil, boom
	}))
	require.NoError(t, err)

	ctx := context.Background()
	var openErr *store.OpenError

	_, err = s.AddVectors(ctx, []vector.Record{{ID: "a", Vector: []float32{1, 0, 0, 0}}})
	require.ErrorAs(t, err, &openErr)
	assert.ErrorIs(t, err, boom)

	_, err = s.Search(ctx, []float32{1, 0, 0, 0}, 1)
	require.ErrorAs(t, err, &openErr)

	assert.Equal(t, 1, opened, "initialization must run once and be replayed")
}

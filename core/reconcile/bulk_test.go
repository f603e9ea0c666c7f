package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkConfig(chunk int) Config {
	cfg := testConfig()
	cfg.MaxChunkSize = chunk
	return cfg
}

func TestBulk_ImportChunks(t *testing.T) {
	store := newMemStore()
	b, err := NewBulk(bulkConfig(2), store)
	require.NoError(t, err)

	created, err := b.Import(context.Background(), NewSliceSource(
		Row{"1", "a"}, Row{"2", "b"}, Row{"3", "c"}, Row{"4", "d"}, Row{"5", "e"},
	))

	require.NoError(t, err)
	assert.Equal(t, 5, created)
	require.Len(t, store.bulkChunks, 3)
	assert.Len(t, store.bulkChunks[0], 2)
	assert.Len(t, store.bulkChunks[1], 2)
	assert.Len(t, store.bulkChunks[2], 1)
	assert.Equal(t, []any{"1", "a"}, store.bulkChunks[0][0])
}

func TestBulk_DeduplicatesOnUniqueAttributes(t *testing.T) {
	store := newMemStore()
	b, err := NewBulk(bulkConfig(10), store)
	require.NoError(t, err)

	created, err := b.ImportNew(context.Background(), []Row{{"1", "a"}, {"2", "b"}, {"1", "z"}})

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, [][]any{{"1", "z"}, {"2", "b"}}, store.bulkChunks[0])
}

func TestBulk_RejectCollisions(t *testing.T) {
	cfg := bulkConfig(10)
	cfg.Collisions = RejectCollisions
	store := newMemStore()
	b, err := NewBulk(cfg, store)
	require.NoError(t, err)

	_, err = b.ImportNew(context.Background(), []Row{{"1", "a"}, {"1", "b"}})

	require.ErrorIs(t, err, ErrKeyCollision)
	assert.Empty(t, store.bulkChunks)
}

func TestBulk_PartialFailure(t *testing.T) {
	store := newMemStore()
	store.failBulkAt = 2
	b, err := NewBulk(bulkConfig(2), store)
	require.NoError(t, err)

	created, err := b.ImportNew(context.Background(), []Row{{"1", "a"}, {"2", "b"}, {"3", "c"}, {"4", "d"}, {"5", "e"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert chunk 2 of 3")
	assert.Equal(t, 2, created)
	assert.Len(t, store.bulkChunks, 2)
	assert.Len(t, store.rows(testTable), 2)
}

func TestBulk_SkipsAndIgnoresRequired(t *testing.T) {
	cfg := bulkConfig(0)
	cfg.Fields[1].RequiredNonEmpty = true
	cfg.Skip = func(r Row) bool { return r.Get(0) == "" }

	store := newMemStore()
	b, err := NewBulk(cfg, store)
	require.NoError(t, err)

	created, err := b.ImportNew(context.Background(), []Row{{"", "skip"}, {"1", ""}})

	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestBulk_DryRun(t *testing.T) {
	cfg := bulkConfig(1)
	cfg.DryRun = true
	store := newMemStore()
	b, err := NewBulk(cfg, store)
	require.NoError(t, err)

	created, err := b.ImportNew(context.Background(), []Row{{"1", "a"}, {"1", "b"}, {"2", "c"}})

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Empty(t, store.bulkChunks)
}

func TestBulk_AsReconcilerImporter(t *testing.T) {
	store := newMemStore()
	store.seed(testTable, PersistedRow{"id": "1", "name": "X"})

	cfg := bulkConfig(10)
	b, err := NewBulk(cfg, store)
	require.NoError(t, err)
	r, err := NewReconciler(cfg, store, b)
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), NewSliceSource(Row{"1", "Y"}, Row{"2", "Z"}, Row{"3", "W"}))

	require.NoError(t, err)
	assert.Equal(t, Result{New: 2, Updated: 1}, result)
	require.Len(t, store.bulkChunks, 1)
}

func TestBulk_ReadError(t *testing.T) {
	b, err := NewBulk(bulkConfig(10), newMemStore())
	require.NoError(t, err)

	_, err = b.Import(context.Background(), failingSource{err: errors.New("bad quote")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input row 1")
}

type failingSource struct{ err error }

func (f failingSource) Next() (Row, error) { return nil, f.err }

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

func rec(text string, emb ...float32) domain.VectorRecord {
	return domain.VectorRecord{
		Embedding: emb,
		Text:      text,
		Metadata:  map[string]any{domain.MetadataSource: "s", domain.MetadataPageNumber: 0},
	}
}

func TestVectorStore_AddAndIDs(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []string{"a", "b"}, []domain.VectorRecord{rec("x", 1), rec("y", 2)}))

	ids, err := store.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, ids)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestVectorStore_AddSkipsExisting(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []string{"a"}, []domain.VectorRecord{rec("original", 1)}))
	require.NoError(t, store.Add(ctx, []string{"a"}, []domain.VectorRecord{rec("changed", 9)}))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
	assert.Equal(t, []float32{1}, got.Embedding)
}

func TestVectorStore_AddValidatesBatch(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	err := store.Add(ctx, []string{"a"}, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = store.Add(ctx, []string{"a", ""}, []domain.VectorRecord{rec("x"), rec("y")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "an invalid batch must not be partially written")
}

func TestVectorStore_RecordsAreCopied(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	r := rec("x", 1, 2)
	require.NoError(t, store.Add(ctx, []string{"a"}, []domain.VectorRecord{r}))
	r.Embedding[0] = 100
	r.Metadata[domain.MetadataSource] = "mutated"

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, got.Embedding)
	assert.Equal(t, "s", got.Metadata[domain.MetadataSource])
}

func TestVectorStore_GetNotFound(t *testing.T) {
	_, err := NewVectorStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorStore_ClosedHandle(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()
	require.NoError(t, store.Close())

	_, err := store.IDs(ctx)
	assert.ErrorIs(t, err, domain.ErrStore)

	err = store.Add(ctx, []string{"a"}, []domain.VectorRecord{rec("x")})
	assert.ErrorIs(t, err, domain.ErrStore)

	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestFactory_SharesContentsAcrossHandles(t *testing.T) {
	factory := NewFactory()
	ctx := context.Background()

	first, err := factory.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, []string{"a"}, []domain.VectorRecord{rec("x", 1)}))
	require.NoError(t, first.Close())

	second, err := factory.Open(ctx)
	require.NoError(t, err)
	defer second.Close()

	ids, err := second.IDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "a")
	assert.Equal(t, 2, factory.Opens())
}

func TestFactory_OpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store, err := NewFactory().Open(ctx)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, context.Canceled)
}

package userdata

import (
	"context"
	"testing"

	"github.com/lepinkainen/tmdbstash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	env := testutil.NewTestEnv(t)
	store, err := NewSQLiteStore(env.Path("userdata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ptr[T any](v T) *T { return &v }

func TestScene_MissingReturnsZero(t *testing.T) {
	store := newTestStore(t)

	data, err := store.Scene(context.Background(), "scene-1399-abc")
	require.NoError(t, err)
	assert.Equal(t, SceneData{}, data)
}

func TestUpdateScene_PartialUpdatesKeepOtherFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data, err := store.UpdateScene(ctx, "scene-1399-abc", SceneUpdate{Rating100: ptr(80)})
	require.NoError(t, err)
	assert.Equal(t, SceneData{Rating100: ptr(80)}, data)

	data, err = store.UpdateScene(ctx, "scene-1399-abc", SceneUpdate{Organized: ptr(true), OCounter: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, SceneData{Rating100: ptr(80), Organized: true, OCounter: 3}, data)

	data, err = store.UpdateScene(ctx, "scene-1399-abc", SceneUpdate{Organized: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, SceneData{Rating100: ptr(80), Organized: false, OCounter: 3}, data)

	other, err := store.Scene(ctx, "scene-1399-def")
	require.NoError(t, err)
	assert.Equal(t, SceneData{}, other)
}

func TestUpdateScene_Validation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpdateScene(ctx, "scene-1-a", SceneUpdate{Rating100: ptr(101)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating100")

	_, err = store.UpdateScene(ctx, "scene-1-a", SceneUpdate{OCounter: ptr(-1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "o_counter")

	data, err := store.Scene(ctx, "scene-1-a")
	require.NoError(t, err)
	assert.Equal(t, SceneData{}, data, "rejected updates must not write")
}

func TestUpdatePerformer_AndFavorites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	favorites, err := store.FavoritePerformers(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	data, err := store.UpdatePerformer(ctx, "1000", PerformerUpdate{Favorite: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, PerformerData{Favorite: true}, data)

	data, err = store.UpdatePerformer(ctx, "1000", PerformerUpdate{Rating100: ptr(60)})
	require.NoError(t, err)
	assert.Equal(t, PerformerData{Favorite: true, Rating100: ptr(60)}, data)

	_, err = store.UpdatePerformer(ctx, "2000", PerformerUpdate{Rating100: ptr(20)})
	require.NoError(t, err)

	favorites, err = store.FavoritePerformers(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"1000": true}, favorites)

	_, err = store.UpdatePerformer(ctx, "1000", PerformerUpdate{Favorite: ptr(false)})
	require.NoError(t, err)
	favorites, err = store.FavoritePerformers(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("persist.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = store.UpdateScene(ctx, "scene-42-x", SceneUpdate{OCounter: ptr(2)})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	data, err := store.Scene(ctx, "scene-42-x")
	require.NoError(t, err)
	assert.Equal(t, 2, data.OCounter)
	assert.Equal(t, path, store.Path())
}

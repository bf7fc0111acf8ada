package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/serlyo/pkg/adapters/sqlite"
	"github.com/aretw0/serlyo/pkg/core"
)

func openStore(t *testing.T, cfg sqlite.Config) *sqlite.Store {
	t.Helper()
	s := sqlite.New(cfg)
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := openStore(t, sqlite.Config{Path: dir})
	assert.Equal(t, filepath.Join(dir, sqlite.DefaultFile), s.Path())

	_, err := s.Get(ctx, "posts")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.Put(ctx, "posts", []byte(`[]`)))
	require.NoError(t, s.Put(ctx, "posts", []byte(`[{"id":"a"}]`)))
	require.NoError(t, s.Put(ctx, "theme", []byte(`"GOLD"`)))

	data, err := s.Get(ctx, "posts")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(data))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts", "theme"}, keys)

	require.NoError(t, s.Delete(ctx, "theme"))
	require.NoError(t, s.Delete(ctx, "theme"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts"}, keys)

	state := s.State().(sqlite.StoreState)
	assert.True(t, state.Open)
	assert.Equal(t, 5, state.Writes)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "planner.db")

	first := sqlite.New(sqlite.Config{Path: path})
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.Put(ctx, "strategy", []byte(`{}`)))
	require.NoError(t, first.Close())

	second := openStore(t, sqlite.Config{Path: path, ReadOnly: true})
	data, err := second.Get(ctx, "strategy")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	assert.ErrorIs(t, second.Put(ctx, "strategy", nil), core.ErrReadOnly)
	assert.ErrorIs(t, second.Delete(ctx, "strategy"), core.ErrReadOnly)
}

func TestStore_Uninitialized(t *testing.T) {
	s := sqlite.New(sqlite.Config{Path: filepath.Join(t.TempDir(), "x.db")})
	_, err := s.Get(context.Background(), "posts")
	assert.Error(t, err)
	assert.NoError(t, s.Close())
}

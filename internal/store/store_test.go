package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RakanBA/AYAN/internal/store"
)

func exerciseStore(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := st.Get(ctx, "ayan_points")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, "ayan_points", "10"))
	value, ok, err := st.Get(ctx, "ayan_points")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10", value)

	require.NoError(t, st.Set(ctx, "ayan_points", "20"))
	value, _, err = st.Get(ctx, "ayan_points")
	require.NoError(t, err)
	assert.Equal(t, "20", value)
}

func TestSQLiteStoreBasicFlow(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "ayan.db")
	st, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	exerciseStore(t, st)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "ayan.db")
	st, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "ayan_language", "ar"))
	require.NoError(t, st.Close())

	reopened, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	value, ok, err := reopened.Get(ctx, "ayan_language")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ar", value)
}

func TestJSONStoreBasicFlowAndReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	st, err := store.NewJSONStore(path)
	require.NoError(t, err)
	exerciseStore(t, st)

	reloaded, err := store.NewJSONStore(path)
	require.NoError(t, err)
	value, ok, err := reloaded.Get(ctx, "ayan_points")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "20", value)
}

func TestJSONStoreRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := store.NewJSONStore(path)
	assert.Error(t, err)
}

func TestRedisStoreBasicFlow(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	st, err := store.NewRedisStore(srv.Addr(), "test:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	exerciseStore(t, st)
	raw, err := srv.Get("test:ayan_points")
	require.NoError(t, err)
	assert.Equal(t, "20", raw)
}

func TestMemoryStoreBasicFlow(t *testing.T) {
	t.Parallel()
	exerciseStore(t, store.NewMemoryStore())
}

func TestJSONHelpersRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemoryStore()

	type record struct {
		ID   string `json:"id"`
		Seen int    `json:"seen"`
	}
	want := []record{{ID: "a", Seen: 1}, {ID: "b", Seen: 2}}
	require.NoError(t, store.SetJSON(ctx, st, "records", want))

	var got []record
	ok, err := store.GetJSON(ctx, st, "records", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, st.Set(ctx, "broken", "[{"))
	ok, err = store.GetJSON(ctx, st, "broken", &got)
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestNewByEngine(t *testing.T) {
	t.Parallel()

	st, err := store.NewByEngine("memory", store.Options{})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)

	st, err = store.NewByEngine("JSON", store.Options{Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &store.JSONStore{}, st)

	_, err = store.NewByEngine("etcd", store.Options{})
	assert.Error(t, err)
}

package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)

	sq, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		DriverFile:   fs,
		DriverSQLite: sq,
		DriverMemory: NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "settings")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "settings", []byte(`{"theme":"dark"}`)))
			got, err := s.Get(ctx, "settings")
			require.NoError(t, err)
			assert.JSONEq(t, `{"theme":"dark"}`, string(got))

			require.NoError(t, s.Set(ctx, "settings", []byte(`{"theme":"light"}`)))
			got, err = s.Get(ctx, "settings")
			require.NoError(t, err)
			assert.JSONEq(t, `{"theme":"light"}`, string(got))

			require.NoError(t, s.Delete(ctx, "settings"))
			_, err = s.Get(ctx, "settings")
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting a missing key is not an error
			assert.NoError(t, s.Delete(ctx, "settings"))
		})
	}
}

func TestStore_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Set(ctx, "", []byte("x")))
			assert.Error(t, s.Set(ctx, "../escape", []byte("x")))
			_, err := s.Get(ctx, "a/b")
			assert.Error(t, err)
			assert.Error(t, s.Delete(ctx, ""))
			assert.Error(t, s.Delete(ctx, "../escape"))
		})
	}
}

func TestFileStore_WritesJSONFilePerKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "tokens.custom", []byte(`[]`)))

	b, err := os.ReadFile(filepath.Join(dir, "tokens.custom.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "settings", []byte(`{"language":"fr"}`)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"language":"fr"}`, string(got))
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, "FILE", filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, "redis", "")
	assert.Error(t, err)
}

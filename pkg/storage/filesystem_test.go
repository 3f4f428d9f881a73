package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("dept_CMSC_202508", []byte(`{"sections":[]}`)))

	data, err := store.Read("dept_CMSC_202508")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":[]}`, string(data))

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"dept_CMSC_202508"}, keys)

	require.NoError(t, store.Delete("dept_CMSC_202508"))
	_, err = store.Read("dept_CMSC_202508")
	require.Error(t, err)
}

func TestLocalStorageSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("../escape/attempt", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), string(filepath.Separator))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("old", []byte("x")))
	require.NoError(t, store.Save("fresh", []byte("y")))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.json"), stale, stale))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, deleted)

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, keys)
}

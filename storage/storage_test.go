package storage

import (
	"os"
	"path/filepath"
	"testing"

	// needed to use sqlite in tests
	_ "github.com/mattn/go-sqlite3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withStore(t *testing.T, testFunc func(store *Store)) {
	store, err := Open(filepath.Join(t.TempDir(), "root"))
	require.NoError(t, err)
	defer store.Close()
	testFunc(store)
}

func TestShouldRoundTripBlob(t *testing.T) {
	withStore(t, func(store *Store) {
		data := []byte("Some data")
		require.NoError(t, store.Put("greeting", data))

		got, err := store.Get("greeting")
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})
}

func TestShouldOverwriteExistingKey(t *testing.T) {
	withStore(t, func(store *Store) {
		require.NoError(t, store.Put("k", []byte("first")))
		require.NoError(t, store.Put("k", []byte("second, longer value")))

		got, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, []byte("second, longer value"), got)

		info, err := store.Stat("k")
		require.NoError(t, err)
		assert.Equal(t, int64(len("second, longer value")), info.Size)
	})
}

func TestShouldFailWithUnknownKey(t *testing.T) {
	withStore(t, func(store *Store) {
		_, err := store.Get("nope")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		_, err = store.Stat("nope")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		present, err := store.Exists("nope")
		require.NoError(t, err)
		assert.False(t, present)
	})
}

func TestShouldStoreEmptyBlob(t *testing.T) {
	withStore(t, func(store *Store) {
		require.NoError(t, store.Put("empty", []byte{}))

		got, err := store.Get("empty")
		require.NoError(t, err)
		assert.Empty(t, got)

		info, err := store.Stat("empty")
		require.NoError(t, err)
		assert.Equal(t, int64(0), info.Size)
	})
}

func TestShouldRemoveKey(t *testing.T) {
	withStore(t, func(store *Store) {
		require.NoError(t, store.Put("doomed", []byte("bytes")))

		removed, err := store.Remove("doomed")
		require.NoError(t, err)
		assert.True(t, removed)

		present, err := store.Exists("doomed")
		require.NoError(t, err)
		assert.False(t, present)

		removed, err = store.Remove("doomed")
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestShouldListKeysSorted(t *testing.T) {
	withStore(t, func(store *Store) {
		for _, k := range []string{"charlie", "alpha", "bravo"} {
			require.NoError(t, store.Put(k, []byte(k)))
		}
		keys, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "bravo", "charlie"}, keys)
	})
}

func TestShouldAcceptHostileKeyNames(t *testing.T) {
	withStore(t, func(store *Store) {
		key := "../../../etc/passwd"
		require.NoError(t, store.Put(key, []byte("safe")))

		got, err := store.Get(key)
		require.NoError(t, err)
		assert.Equal(t, []byte("safe"), got)
	})
}

func TestShouldSurviveReopen(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")

	store, err := Open(root)
	require.NoError(t, err)
	require.NoError(t, store.Put("durable", []byte("still here")))
	require.NoError(t, store.Close())

	store, err = Open(root)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get("durable")
	require.NoError(t, err)
	assert.Equal(t, []byte("still here"), got)

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"durable"}, keys)
}

func TestShouldCopyBlobThroughFiles(t *testing.T) {
	withStore(t, func(store *Store) {
		dir := t.TempDir()
		in := filepath.Join(dir, "in.bin")
		out := filepath.Join(dir, "out.bin")

		require.NoError(t, os.WriteFile(in, []byte("file payload"), 0644))
		require.NoError(t, store.PutFromFile("filekey", in))
		require.NoError(t, store.GetToFile("filekey", out))

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, []byte("file payload"), got)
	})
}

package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func testStorages(t *testing.T) map[string]Storage {
	t.Helper()
	fsStorage, err := NewFilesystemStorage("/var/lib/docsite", FilesystemStorageWithFs(afero.NewMemMapFs()))
	require.NoError(t, err)

	osStorage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	bucket, err := blob.OpenBucket(t.Context(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bucket.Close() })

	prefixedBucket, err := blob.OpenBucket(t.Context(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = prefixedBucket.Close() })

	return map[string]Storage{
		"memfs":         fsStorage,
		"osfs":          osStorage,
		"blob":          NewBlobStorageFromBucket(bucket, ""),
		"blob-prefixed": NewBlobStorageFromBucket(prefixedBucket, "site/neton"),
	}
}

func TestStorage(t *testing.T) {
	for name, storage := range testStorages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			t.Run("write and overwrite", func(t *testing.T) {
				require.NoError(t, storage.Write(ctx, "write-key", []byte("original")))
				require.NoError(t, storage.Write(ctx, "write-key", []byte("updated")))
				data, err := storage.Read(ctx, "write-key")
				require.NoError(t, err)
				assert.Equal(t, "updated", string(data))
			})

			t.Run("read missing", func(t *testing.T) {
				_, err := storage.Read(ctx, "missing-key")
				assert.ErrorIs(t, err, os.ErrNotExist)
			})

			t.Run("list newest first", func(t *testing.T) {
				for _, key := range []string{
					HistoryKeyPrefix + "20250101T000000.000000000Z.json",
					HistoryKeyPrefix + "20250103T000000.000000000Z.json",
					HistoryKeyPrefix + "20250102T000000.000000000Z.json",
					"other.json",
				} {
					require.NoError(t, storage.Write(ctx, key, []byte(key)))
				}
				keys, err := storage.List(ctx, HistoryKeyPrefix)
				require.NoError(t, err)
				assert.Equal(t, []string{
					HistoryKeyPrefix + "20250103T000000.000000000Z.json",
					HistoryKeyPrefix + "20250102T000000.000000000Z.json",
					HistoryKeyPrefix + "20250101T000000.000000000Z.json",
				}, keys)
			})

			t.Run("list empty", func(t *testing.T) {
				keys, err := storage.List(ctx, "nothing-")
				require.NoError(t, err)
				assert.Empty(t, keys)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, storage.Write(ctx, "delete-key", []byte("data")))
				require.NoError(t, storage.Delete(ctx, "delete-key"))
				_, err := storage.Read(ctx, "delete-key")
				assert.ErrorIs(t, err, os.ErrNotExist)
				// deleting twice is fine
				assert.NoError(t, storage.Delete(ctx, "delete-key"))
			})

			t.Run("concurrent", func(t *testing.T) {
				var wg sync.WaitGroup
				for i := 0; i < 10; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						key := fmt.Sprintf("concurrent-%d", i)
						assert.NoError(t, storage.Write(ctx, key, []byte(key)))
						data, err := storage.Read(ctx, key)
						assert.NoError(t, err)
						assert.Equal(t, key, string(data))
					}(i)
				}
				wg.Wait()
				keys, err := storage.List(ctx, "concurrent-")
				require.NoError(t, err)
				assert.Len(t, keys, 10)
			})

			assert.NoError(t, storage.Close())
		})
	}
}

func TestBlobStoragePrefix(t *testing.T) {
	ctx := t.Context()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	defer bucket.Close()

	storage := NewBlobStorageFromBucket(bucket, "site")
	require.NoError(t, storage.Write(ctx, CurrentKey, []byte("{}")))

	exists, err := bucket.Exists(ctx, "site/"+CurrentKey)
	require.NoError(t, err)
	assert.True(t, exists)

	// slashes around the prefix are normalized
	nested := NewBlobStorageFromBucket(bucket, "/site/")
	keys, err := nested.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{CurrentKey}, keys)

	_, err = nested.Read(ctx, "missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, nested.Delete(ctx, "missing.json"))
}

func TestOpenStorage(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()

	_, err := OpenStorage(ctx, "", "")
	require.Error(t, err)

	storage, err := OpenStorage(ctx, "file://"+dir, "history")
	require.NoError(t, err)
	assert.IsType(t, &FilesystemStorage{}, storage)
	require.NoError(t, storage.Write(ctx, CurrentKey, []byte("{}")))
	_, err = os.Stat(filepath.Join(dir, "history", CurrentKey))
	require.NoError(t, err)

	storage, err = OpenStorage(ctx, dir, "")
	require.NoError(t, err)
	assert.IsType(t, &FilesystemStorage{}, storage)

	storage, err = OpenStorage(ctx, "mem://", "history")
	require.NoError(t, err)
	assert.IsType(t, &BlobStorage{}, storage)
	require.NoError(t, storage.Close())
}

package repo

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func TestHistoryCurrent(t *testing.T) {
	ctx := t.Context()
	h := testHistory(t)
	snapshot := []byte(`{"title":"Neton Framework"}`)

	require.NoError(t, h.Add(ctx, snapshot))

	var buf bytes.Buffer
	require.NoError(t, h.GetCurrent(ctx, &buf))
	assert.Equal(t, snapshot, buf.Bytes())
}

func TestHistoryKeepsLimit(t *testing.T) {
	storages := map[string]func(t *testing.T) Storage{
		"filesystem": func(t *testing.T) Storage {
			t.Helper()
			s, err := NewFilesystemStorage(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"blob": func(t *testing.T) Storage {
			t.Helper()
			bucket, err := blob.OpenBucket(t.Context(), "mem://")
			require.NoError(t, err)
			return NewBlobStorageFromBucket(bucket, "docsite")
		},
	}
	for name, newStorage := range storages {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			storage := newStorage(t)
			h, err := NewHistory(zaptest.NewLogger(t), HistoryWithStorage(storage), HistoryWithHistoryLimit(2))
			require.NoError(t, err)
			t.Cleanup(func() { _ = h.Close() })

			for i := 0; i < 6; i++ {
				require.NoError(t, h.Add(ctx, fmt.Appendf(nil, `{"title":"rev %d"}`, i)))
				time.Sleep(5 * time.Millisecond)
			}

			backups, err := h.Backups(ctx)
			require.NoError(t, err)
			assert.Len(t, backups, 2)

			current, err := storage.Read(ctx, CurrentKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"title":"rev 5"}`, string(current))
		})
	}
}

func TestHistoryOrder(t *testing.T) {
	h := testHistoryWithTestdata(t)

	files, err := h.getHistory(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"docsite-config-20171023T120000.000000000Z.json",
		"docsite-config-20171022T120000.000000000Z.json",
		"docsite-config-20171021T120000.000000000Z.json",
	}, files)
}

func TestGetFilesForCleanup(t *testing.T) {
	h := testHistoryWithTestdata(t)

	files, err := h.getFilesForCleanup(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"docsite-config-20171021T120000.000000000Z.json"}, files)

	files, err = h.getFilesForCleanup(t.Context(), 5)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestHistoryBackups(t *testing.T) {
	ctx := t.Context()
	h := testHistory(t)
	for _, v := range []string{"first", "second"} {
		require.NoError(t, h.Add(ctx, []byte(v)))
		time.Sleep(time.Millisecond * 5)
	}
	backups, err := h.Backups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)

	data, err := h.storage.Read(ctx, backups[0])
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Regexp(t, `^docsite-config-\d{8}T\d{6}\.\d{9}Z\.json$`, backups[1])
}

func TestHistoryCurrentMissing(t *testing.T) {
	h := testHistory(t)
	var buf bytes.Buffer
	assert.ErrorIs(t, h.GetCurrent(t.Context(), &buf), os.ErrNotExist)
}

func TestHistoryClose(t *testing.T) {
	require.NoError(t, testHistory(t).Close())
}

func testHistory(t *testing.T) *History {
	t.Helper()
	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithHistoryLimit(2), HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	return h
}

// testHistoryWithTestdata reads the fixed backups in testdata/order
func testHistoryWithTestdata(t *testing.T) *History {
	t.Helper()
	storage, err := NewFilesystemStorage("testdata/order")
	require.NoError(t, err)
	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithStorage(storage), HistoryWithHistoryLimit(2))
	require.NoError(t, err)
	return h
}

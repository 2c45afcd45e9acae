package repo

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

type (
	// FilesystemStorage stores snapshots as files below a base dir
	FilesystemStorage struct {
		fs      afero.Fs
		baseDir string
		mu      sync.RWMutex
	}
	FilesystemStorageOption func(*FilesystemStorage)
)

// NewFilesystemStorage creates the base dir and returns a storage on top of it
func NewFilesystemStorage(baseDir string, opts ...FilesystemStorageOption) (*FilesystemStorage, error) {
	inst := &FilesystemStorage{
		fs:      afero.NewOsFs(),
		baseDir: baseDir,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if err := inst.fs.MkdirAll(baseDir, 0o700); err != nil {
		return nil, err
	}
	return inst, nil
}

// FilesystemStorageWithFs replaces the os filesystem
func FilesystemStorageWithFs(v afero.Fs) FilesystemStorageOption {
	return func(o *FilesystemStorage) {
		o.fs = v
	}
}

func (f *FilesystemStorage) Write(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.baseDir, key)
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return afero.WriteFile(f.fs, path, data, 0o600)
}

func (f *FilesystemStorage) Read(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return afero.ReadFile(f.fs, filepath.Join(f.baseDir, key))
}

// List returns keys matching the prefix.
// Only files directly in the base dir are listed, keys must not contain path separators.
func (f *FilesystemStorage) List(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := afero.ReadDir(f.fs, f.baseDir)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			keys = append(keys, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

func (f *FilesystemStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.fs.Remove(filepath.Join(f.baseDir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *FilesystemStorage) Close() error {
	return nil
}

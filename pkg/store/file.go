package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked Lock polls the file lock.
const lockRetryDelay = 25 * time.Millisecond

// FileBackend stores one JSON file per key. Files are spread over
// subdirectories named after the first two hex digits of the key hash.
type FileBackend struct {
	dir string
}

// fileEntry is the on-disk document. The key is kept alongside the data
// because the file name is a hash.
type fileEntry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewFileBackend creates a file backend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Name returns "file".
func (f *FileBackend) Name() string { return "file" }

// Dir returns the root directory.
func (f *FileBackend) Dir() string { return f.dir }

// Get reads the document for key. Unreadable entries are treated as missing
// and removed.
func (f *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := f.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes the document for key through a temporary file and a rename, so
// readers never observe a partial write.
func (f *FileBackend) Set(ctx context.Context, key string, data []byte) error {
	entry, err := json.Marshal(fileEntry{Key: key, Data: data, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create entry dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(entry); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename entry: %w", err)
	}
	return nil
}

// Delete removes the document and its lock file.
func (f *FileBackend) Delete(ctx context.Context, key string) error {
	path := f.path(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	_ = os.Remove(path + ".lock")
	return nil
}

// List walks the directory and returns the keys of all readable entries.
func (f *FileBackend) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(f.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var entry fileEntry
		if json.Unmarshal(data, &entry) == nil && entry.Key != "" {
			keys = append(keys, entry.Key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", f.dir, err)
	}
	slices.Sort(keys)
	return keys, nil
}

// Lock takes an exclusive OS lock on key's lock file, polling until it is
// acquired or ctx is done.
func (f *FileBackend) Lock(ctx context.Context, key string) (func(), error) {
	path := f.path(key) + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: not acquired", path)
	}
	return func() { _ = fl.Unlock() }, nil
}

// Close does nothing.
func (f *FileBackend) Close() error { return nil }

func (f *FileBackend) path(key string) string {
	hash := hashKey(key)
	return filepath.Join(f.dir, hash[:2], hash[2:]+".json")
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Locker  = (*FileBackend)(nil)
)

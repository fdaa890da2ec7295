package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// fileItem is the on-disk envelope. The original key is kept alongside the
// payload because filenames are hashed.
type fileItem struct {
	Key      string          `json:"key"`
	Data     json.RawMessage `json:"data"`
	ExpireAt time.Time       `json:"expire_at"`
}

func (it *fileItem) isExpired() bool {
	return !it.ExpireAt.IsZero() && time.Now().After(it.ExpireAt)
}

// FileCache implements Service on the local filesystem, one JSON document per
// key. It is the durable backend for session tokens and forecast state, so
// entries survive process restarts. Expiration <= 0 means the entry never
// expires.
type FileCache struct {
	dir   string
	mutex sync.Mutex
}

// NewFileCache creates a file-backed cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("file cache: dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file cache: create dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the storage directory.
func (fc *FileCache) Dir() string { return fc.dir }

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, HashKey(key)+".json")
}

func (fc *FileCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := Marshal(value)
	if err != nil {
		return err
	}

	item := fileItem{Key: key, Data: data}
	if expiration > 0 {
		item.ExpireAt = time.Now().Add(expiration)
	}

	b, err := json.Marshal(&item)
	if err != nil {
		return err
	}

	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	// Write-then-rename so a crash never leaves a truncated entry behind.
	tmp := fc.path(key) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("file cache: write: %w", err)
	}
	if err := os.Rename(tmp, fc.path(key)); err != nil {
		return fmt.Errorf("file cache: rename: %w", err)
	}
	return nil
}

func (fc *FileCache) Get(_ context.Context, key string, dest interface{}) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	item, err := fc.read(fc.path(key))
	if err != nil {
		return err
	}
	if item.isExpired() {
		_ = os.Remove(fc.path(key))
		return ErrCacheMiss
	}
	return Unmarshal(item.Data, dest)
}

func (fc *FileCache) Delete(_ context.Context, keys ...string) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	for _, key := range keys {
		if err := os.Remove(fc.path(key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("file cache: delete %s: %w", key, err)
		}
	}
	return nil
}

func (fc *FileCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")

	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		return fmt.Errorf("file cache: scan: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		p := filepath.Join(fc.dir, entry.Name())
		item, err := fc.read(p)
		if err != nil {
			continue
		}
		if strings.HasPrefix(item.Key, prefix) {
			_ = os.Remove(p)
		}
	}
	return nil
}

func (fc *FileCache) Exists(_ context.Context, keys ...string) (bool, error) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	for _, key := range keys {
		item, err := fc.read(fc.path(key))
		if err == nil && !item.isExpired() {
			return true, nil
		}
	}
	return false, nil
}

// Close is a no-op; there is nothing to release.
func (fc *FileCache) Close() error { return nil }

func (fc *FileCache) read(path string) (*fileItem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("file cache: read: %w", err)
	}
	var item fileItem
	if err := json.Unmarshal(b, &item); err != nil {
		// Corrupted entry; drop it and report a miss.
		_ = os.Remove(path)
		return nil, ErrCacheMiss
	}
	return &item, nil
}

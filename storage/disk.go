package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore writes files under a root directory that is also served as
// static content under /media/.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{Root: root}
}

func (d *DiskStore) path(key string) string {
	return filepath.Join(d.Root, filepath.FromSlash(key))
}

func (d *DiskStore) Save(_ context.Context, key string, data []byte, _ string) error {
	p := d.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (d *DiskStore) Delete(_ context.Context, key string) error {
	return os.Remove(d.path(key))
}

func (d *DiskStore) URL(_ context.Context, key string) string {
	return "/media/" + key
}

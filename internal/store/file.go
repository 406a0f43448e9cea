package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// FileStore persists the record document as a single JSON file. Writes go
// through a temp file and rename so a crash mid-save never truncates the
// document. A lock sentinel next to the data file keeps concurrent processes
// from interleaving their read-modify-write cycles.
type FileStore struct {
	path   string
	logger *logrus.Entry
}

// NewFileStore creates a file-backed asset store at the given path.
func NewFileStore(path string, logger *logrus.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileStore{
		path:   path,
		logger: logger.WithField("component", "file-store"),
	}, nil
}

// LoadAll reads the record document. A missing file yields an empty map so
// the first run seeds the store.
func (fs *FileStore) LoadAll(ctx context.Context) (map[string]*models.AssetRecord, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		fs.logger.WithField("path", fs.path).Info("No existing store file, starting empty")
		return make(map[string]*models.AssetRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if len(data) == 0 {
		return make(map[string]*models.AssetRecord), nil
	}

	var records map[string]*models.AssetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode store file: %w", err)
	}
	if records == nil {
		records = make(map[string]*models.AssetRecord)
	}
	return records, nil
}

// SaveAll writes the whole record document atomically while holding the
// lock sentinel.
func (fs *FileStore) SaveAll(ctx context.Context, records map[string]*models.AssetRecord) error {
	unlock, err := fs.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp store file: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	fs.logger.WithFields(logrus.Fields{
		"path":  fs.path,
		"count": len(records),
	}).Debug("Store file written")
	return nil
}

// Health reports whether the store directory is usable.
func (fs *FileStore) Health(ctx context.Context) error {
	dir := filepath.Dir(fs.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("store directory unavailable: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error { return nil }

// acquireLock creates the lock sentinel with O_EXCL. A sentinel left behind
// by a crashed process must be removed by the operator; refusing to write is
// safer than clobbering another writer's cycle.
func (fs *FileStore) acquireLock() (func(), error) {
	lockPath := fs.path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("store is locked by another process (%s)", lockPath)
		}
		return nil, fmt.Errorf("failed to acquire store lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() {
		if err := os.Remove(lockPath); err != nil {
			fs.logger.WithError(err).Warn("Failed to release store lock")
		}
	}, nil
}

package storage

import (
	"context"
	"io"
	"os"

	"github.com/yairfalse/driftcatch/internal/errors"
	"github.com/yairfalse/driftcatch/pkg/types"
)

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	writer *AtomicWriter
}

// NewLocalStorage creates a local store. Backups are kept when backupDir is set.
func NewLocalStorage(backupDir string) *LocalStorage {
	return &LocalStorage{
		writer: NewAtomicWriter(backupDir),
	}
}

// Save writes the snapshot, creating intermediate directories
func (s *LocalStorage) Save(ctx context.Context, snapshot *types.Snapshot, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(snapshot)
	if err != nil {
		return err
	}

	if err := s.writer.WriteFile(path, data, 0o644); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}

// Load reads and decodes the snapshot at path
func (s *LocalStorage) Load(ctx context.Context, path string) (*types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError(path, err)
		}
		return nil, errors.IOError(path, err)
	}

	snapshot, err := Decode(data)
	if err != nil {
		return nil, errors.CorruptSnapshotError(path, err)
	}
	return snapshot, nil
}

// Exists reports whether a file is present at path
func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.IOError(path, err)
}

// Open opens a local file for streaming
func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceNotFoundError(path, err)
		}
		return nil, errors.IOError(path, err)
	}
	return f, nil
}

// Backups lists the backups kept for path, newest first
func (s *LocalStorage) Backups(path string) ([]string, error) {
	return s.writer.Backups(path)
}

package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fdg312/fitbot/internal/storage"
)

// FileStorage keeps one JSON file per slot inside dir.
type FileStorage struct {
	mu  sync.Mutex
	dir string
}

// New creates dir if needed.
func New(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Dir() string { return s.dir }

func (s *FileStorage) path(slot storage.Slot) string {
	return filepath.Join(s.dir, string(slot)+".json")
}

func (s *FileStorage) Load(ctx context.Context, slot storage.Slot) ([]byte, bool, error) {
	if err := storage.CheckSlot(slot); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, storage.Failure("load", slot, err)
	}
	return data, true, nil
}

// Save writes to a temp file in the same dir and renames it over the slot file,
// so a crash never leaves a half-written slot behind.
func (s *FileStorage) Save(ctx context.Context, slot storage.Slot, payload []byte) error {
	if err := storage.CheckSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storage.Failure("save", slot, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+string(slot)+"-*.tmp")
	if err != nil {
		return storage.Failure("save", slot, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		cleanup()
		return storage.Failure("save", slot, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return storage.Failure("save", slot, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return storage.Failure("save", slot, err)
	}
	if err := os.Rename(tmpName, s.path(slot)); err != nil {
		cleanup()
		return storage.Failure("save", slot, err)
	}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}

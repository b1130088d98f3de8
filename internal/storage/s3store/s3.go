package s3store

import (
	"context"
	"errors"
	"path"

	"github.com/fdg312/fitbot/internal/blob"
	"github.com/fdg312/fitbot/internal/storage"
)

// S3Storage keeps each slot as one JSON object under prefix.
type S3Storage struct {
	store  blob.Store
	prefix string
}

func New(store blob.Store, prefix string) *S3Storage {
	return &S3Storage{store: store, prefix: prefix}
}

// Key returns the object key for slot, e.g. "fitbot/slots/meals.json".
func (s *S3Storage) Key(slot storage.Slot) string {
	return path.Join(s.prefix, "slots", string(slot)+".json")
}

func (s *S3Storage) Load(ctx context.Context, slot storage.Slot) ([]byte, bool, error) {
	if err := storage.CheckSlot(slot); err != nil {
		return nil, false, err
	}

	data, err := s.store.GetObject(ctx, s.Key(slot))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, storage.Failure("load", slot, err)
	}
	return data, true, nil
}

func (s *S3Storage) Save(ctx context.Context, slot storage.Slot, payload []byte) error {
	if err := storage.CheckSlot(slot); err != nil {
		return err
	}

	if _, err := s.store.PutObject(ctx, s.Key(slot), payload, "application/json"); err != nil {
		return storage.Failure("save", slot, err)
	}
	return nil
}

func (s *S3Storage) Close() error {
	return nil
}

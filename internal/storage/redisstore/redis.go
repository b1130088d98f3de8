package redisstore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fdg312/fitbot/internal/storage"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "fitbot:"

// RedisStorage persists slots as plain string keys without TTL.
type RedisStorage struct {
	client *redis.Client
	prefix string
	log    *slog.Logger
}

// New wraps an existing client. An empty prefix falls back to DefaultKeyPrefix.
func New(client *redis.Client, prefix string, log *slog.Logger) *RedisStorage {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisStorage{client: client, prefix: prefix, log: log}
}

// Dial connects to addr and pings it before returning.
func Dial(ctx context.Context, addr, password string, db int, prefix string, log *slog.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return New(client, prefix, log), nil
}

func (s *RedisStorage) key(slot storage.Slot) string {
	return s.prefix + "slot:" + string(slot)
}

func (s *RedisStorage) Load(ctx context.Context, slot storage.Slot) ([]byte, bool, error) {
	if err := storage.CheckSlot(slot); err != nil {
		return nil, false, err
	}

	data, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		s.log.Error("failed to load slot from redis", "slot", slot, "error", err)
		return nil, false, storage.Failure("load", slot, err)
	}
	return data, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, slot storage.Slot, payload []byte) error {
	if err := storage.CheckSlot(slot); err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(slot), payload, 0).Err(); err != nil {
		s.log.Error("failed to save slot in redis", "slot", slot, "error", err)
		return storage.Failure("save", slot, err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

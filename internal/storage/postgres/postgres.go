package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/fitbot/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool used here.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStorage - Postgres реализация SlotStore (таблица app_slots)
type PostgresStorage struct {
	pool *pgxpool.Pool
	db   querier
}

// New подключается к базе и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{pool: pool, db: pool}, nil
}

func newWithQuerier(db querier) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const loadQuery = `
	SELECT payload
	FROM app_slots
	WHERE slot = $1
`

func (s *PostgresStorage) Load(ctx context.Context, slot storage.Slot) ([]byte, bool, error) {
	if err := storage.CheckSlot(slot); err != nil {
		return nil, false, err
	}

	var payload []byte
	err := s.db.QueryRow(ctx, loadQuery, string(slot)).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, storage.Failure("load", slot, err)
	}
	return payload, true, nil
}

const saveQuery = `
	INSERT INTO app_slots (slot, payload, updated_at)
	VALUES ($1, $2::jsonb, NOW())
	ON CONFLICT (slot) DO UPDATE SET
		payload = EXCLUDED.payload,
		updated_at = NOW()
`

func (s *PostgresStorage) Save(ctx context.Context, slot storage.Slot, payload []byte) error {
	if err := storage.CheckSlot(slot); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, saveQuery, string(slot), string(payload)); err != nil {
		return storage.Failure("save", slot, err)
	}
	return nil
}

// Close закрывает пул соединений
func (s *PostgresStorage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

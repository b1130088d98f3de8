package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/fdg312/fitbot/internal/storage"
)

// MemoryStorage - in-memory реализация SlotStore. Данные живут до перезапуска.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[storage.Slot][]byte

	failSaves bool
	saves     int
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{slots: make(map[storage.Slot][]byte)}
}

func (m *MemoryStorage) Load(ctx context.Context, slot storage.Slot) ([]byte, bool, error) {
	if err := storage.CheckSlot(slot); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.slots[slot]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (m *MemoryStorage) Save(ctx context.Context, slot storage.Slot, payload []byte) error {
	if err := storage.CheckSlot(slot); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.failSaves {
		return storage.Failure("save", slot, errInjected)
	}
	m.slots[slot] = append([]byte(nil), payload...)
	return nil
}

// SetRaw stores payload without any encoding, e.g. to seed legacy values in tests.
func (m *MemoryStorage) SetRaw(slot storage.Slot, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), payload...)
}

// Saves returns the number of Save calls, failed ones included.
func (m *MemoryStorage) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// SetFailSaves makes every following Save fail; used by rollback tests.
func (m *MemoryStorage) SetFailSaves(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSaves = fail
}

func (m *MemoryStorage) Close() error {
	return nil
}

var errInjected = errors.New("injected save failure")

package storage

import (
	"context"
	"errors"
	"fmt"
)

// Slot - именованная ячейка постоянного хранилища
type Slot string

const (
	SlotProfile  Slot = "profile"
	SlotMeals    Slot = "meals"
	SlotWorkouts Slot = "workouts"
	SlotWater    Slot = "water"
	SlotLanguage Slot = "language"
	SlotTheme    Slot = "theme"
)

// AllSlots lists every slot in the order they are written during onboarding.
var AllSlots = []Slot{SlotProfile, SlotMeals, SlotWorkouts, SlotWater, SlotLanguage, SlotTheme}

func (s Slot) Valid() bool {
	for _, known := range AllSlots {
		if s == known {
			return true
		}
	}
	return false
}

func (s Slot) String() string { return string(s) }

var (
	// ErrStorageFailure wraps every backend error so callers can match it with errors.Is.
	ErrStorageFailure = errors.New("storage failure")
	ErrUnknownSlot    = errors.New("unknown slot")
)

// SlotStore - интерфейс для слотового хранилища (memory, file, postgres, redis, s3)
type SlotStore interface {
	// Load returns found=false and a nil error when the slot was never written.
	Load(ctx context.Context, slot Slot) (payload []byte, found bool, err error)

	// Save durably replaces the slot contents.
	Save(ctx context.Context, slot Slot, payload []byte) error

	// Close releases connections (for postgres and redis)
	Close() error
}

// Failure wraps err with ErrStorageFailure and the operation context.
func Failure(op string, slot Slot, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStorageFailure, op, slot, err)
}

// CheckSlot is a guard shared by all backends.
func CheckSlot(slot Slot) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %w %q", ErrStorageFailure, ErrUnknownSlot, string(slot))
	}
	return nil
}

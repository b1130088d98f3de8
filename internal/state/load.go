package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/storage"
	"github.com/fdg312/fitbot/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// Load reads all six slots concurrently and replaces the in-memory state.
// Absent slots keep their defaults. A slot that cannot be decoded gets its default and a warning.
// List slots drop only the records that fail validation; each dropped record is logged in full.
// Only backend failures are returned.
func (m *Manager) Load(ctx context.Context) error {
	var (
		profile  *domain.UserProfile
		meals    []domain.Meal
		workouts []domain.WorkoutSession
		water    []domain.WaterLog
		language = domain.DefaultLanguage
		theme    = domain.DefaultTheme
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loadSlot(gctx, m, storage.SlotProfile, &profile, whole(func(p *domain.UserProfile) error {
			if p == nil {
				return nil
			}
			return domain.Validate(p)
		}))
	})
	g.Go(func() error {
		return loadSlot(gctx, m, storage.SlotMeals, &meals, keepValid[domain.Meal](m, storage.SlotMeals))
	})
	g.Go(func() error {
		return loadSlot(gctx, m, storage.SlotWorkouts, &workouts, keepValid[domain.WorkoutSession](m, storage.SlotWorkouts))
	})
	g.Go(func() error {
		return loadSlot(gctx, m, storage.SlotWater, &water, m.keepWater)
	})
	g.Go(func() error {
		return loadSlot(gctx, m, storage.SlotLanguage, &language, whole(func(l domain.Language) error {
			if _, ok := domain.ParseLanguage(string(l)); !ok {
				return fmt.Errorf("%w: language %q", domain.ErrInvalid, l)
			}
			return nil
		}))
	})
	g.Go(func() error {
		return loadSlot(gctx, m, storage.SlotTheme, &theme, whole(func(t domain.Theme) error {
			if _, ok := domain.ParseTheme(string(t)); !ok {
				return fmt.Errorf("%w: theme %q", domain.ErrInvalid, t)
			}
			return nil
		}))
	})
	if err := g.Wait(); err != nil {
		return err
	}

	language, _ = domain.ParseLanguage(string(language))
	theme, _ = domain.ParseTheme(string(theme))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = profile
	m.meals = cloneSlice(meals)
	m.workouts = cloneSessions(workouts)
	m.water = cloneSlice(water)
	m.language = language
	m.theme = theme

	m.log.Info("state loaded",
		"onboarded", profile != nil && profile.IsOnboarded,
		"meals", len(meals),
		"workouts", len(workouts),
		"water_days", len(water),
		"language", language,
		"theme", theme,
	)
	return nil
}

// loadSlot decodes one slot into dst. check may clean the decoded value; if it fails,
// dst keeps its default.
func loadSlot[T any](ctx context.Context, m *Manager, slot storage.Slot, dst *T, check func(T) (T, error)) error {
	payload, found, err := m.store.Load(ctx, slot)
	if err != nil {
		telemetry.ObserveSlotLoad(string(slot), telemetry.LoadError)
		return fmt.Errorf("load %s: %w", slot, err)
	}
	if !found {
		telemetry.ObserveSlotLoad(string(slot), telemetry.LoadAbsent)
		return nil
	}

	var v T
	version, err := storage.Decode(slot, payload, &v)
	if err == nil {
		v, err = check(v)
	}
	if err != nil {
		telemetry.ObserveSlotLoad(string(slot), telemetry.LoadFallback)
		m.log.Warn("slot payload rejected, using default", "slot", slot, "version", version, "error", err)
		return nil
	}

	if version != storage.CurrentVersion {
		m.log.Info("legacy slot payload accepted", "slot", slot, "version", version)
	}
	telemetry.ObserveSlotLoad(string(slot), telemetry.LoadFound)
	*dst = v
	return nil
}

// whole accepts or rejects the decoded value as a unit.
func whole[T any](validate func(T) error) func(T) (T, error) {
	return func(v T) (T, error) {
		return v, validate(v)
	}
}

// keepValid drops the records that fail validation and keeps the rest in order.
func keepValid[T any](m *Manager, slot storage.Slot) func([]T) ([]T, error) {
	return func(items []T) ([]T, error) {
		out := make([]T, 0, len(items))
		for i, item := range items {
			if err := domain.Validate(item); err != nil {
				m.dropRecord(slot, i, item, err)
				continue
			}
			out = append(out, item)
		}
		return out, nil
	}
}

// keepWater drops invalid entries and keeps the first entry of a date seen twice.
func (m *Manager) keepWater(logs []domain.WaterLog) ([]domain.WaterLog, error) {
	valid, _ := keepValid[domain.WaterLog](m, storage.SlotWater)(logs)
	out := make([]domain.WaterLog, 0, len(valid))
	seen := make(map[string]struct{}, len(valid))
	for i, l := range valid {
		if _, dup := seen[l.Date]; dup {
			m.dropRecord(storage.SlotWater, i, l, fmt.Errorf("%w: duplicate water entry for %s", domain.ErrInvalid, l.Date))
			continue
		}
		seen[l.Date] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

// dropRecord logs the rejected record as JSON so it can be restored by hand.
func (m *Manager) dropRecord(slot storage.Slot, index int, record any, err error) {
	raw, _ := json.Marshal(record)
	telemetry.ObserveSlotRecordDropped(string(slot))
	m.log.Warn("slot record dropped", "slot", slot, "index", index, "error", err, "record", string(raw))
}

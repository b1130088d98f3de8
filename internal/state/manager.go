package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/stats"
	"github.com/fdg312/fitbot/internal/storage"
	"github.com/fdg312/fitbot/internal/telemetry"
)

// Manager owns the canonical profile, meals, workouts, water logs and settings.
// Mutations are serialised; every mutation writes its slot before returning and
// restores the previous in-memory value if the write fails.
type Manager struct {
	mu      sync.RWMutex
	store   storage.SlotStore
	log     *slog.Logger
	retries int
	backoff time.Duration

	profile  *domain.UserProfile
	meals    []domain.Meal
	workouts []domain.WorkoutSession
	water    []domain.WaterLog
	language domain.Language
	theme    domain.Theme
}

type Option func(*Manager)

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithRetries sets how many times a failed slot write is retried.
func WithRetries(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.retries = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(m *Manager) { m.backoff = d }
}

// New returns a manager holding defaults. Call Load to read persisted slots.
func New(store storage.SlotStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		log:      slog.Default(),
		retries:  DefaultRetries,
		backoff:  InitialBackoff,
		language: domain.DefaultLanguage,
		theme:    domain.DefaultTheme,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// persist encodes value into slot and writes it, retrying transient failures.
// Caller holds m.mu.
func (m *Manager) persist(ctx context.Context, slot storage.Slot, value any) error {
	payload, err := storage.Encode(slot, value)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrStorageFailure, err)
	}

	started := time.Now()
	err = withRetry(ctx, m.retries+1, m.backoff, func() error {
		return m.store.Save(ctx, slot, payload)
	})
	telemetry.ObserveSlotSave(string(slot), started, err)
	if err != nil {
		if !errors.Is(err, storage.ErrStorageFailure) {
			err = storage.Failure("save", slot, err)
		}
		m.log.Error("slot write failed, state rolled back", "slot", slot, "error", err)
		return err
	}
	m.log.Debug("slot written", "slot", slot, "bytes", len(payload))
	return nil
}

// ---- profile & settings ----

// CompleteOnboarding stores the profile with IsOnboarded set, then language, then theme.
// Each slot is written on its own; a failure stops the sequence and keeps the slots already written.
func (m *Manager) CompleteOnboarding(ctx context.Context, profile domain.UserProfile, lang domain.Language, theme domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := profile.Clone()
	p.IsOnboarded = true
	if err := m.setProfileLocked(ctx, &p); err != nil {
		return err
	}
	if err := m.setLanguageLocked(ctx, lang); err != nil {
		return err
	}
	return m.setThemeLocked(ctx, theme)
}

// UpdateProfile replaces the whole profile.
func (m *Manager) UpdateProfile(ctx context.Context, profile domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := profile.Clone()
	return m.setProfileLocked(ctx, &p)
}

func (m *Manager) setProfileLocked(ctx context.Context, p *domain.UserProfile) error {
	prev := m.profile
	m.profile = p
	if err := m.persist(ctx, storage.SlotProfile, m.profile); err != nil {
		m.profile = prev
		return err
	}
	return nil
}

// SetNutritionGoal is a no-op when no profile exists.
func (m *Manager) SetNutritionGoal(ctx context.Context, goal domain.NutritionGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profile == nil {
		return nil
	}
	if err := checkTransition(m.nutritionGoalStatusLocked(), GoalSet); err != nil {
		return err
	}
	next := m.profile.Clone()
	next.NutritionGoal = &goal
	return m.setProfileLocked(ctx, &next)
}

// SetWorkoutGoal is a no-op when no profile exists.
func (m *Manager) SetWorkoutGoal(ctx context.Context, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.profile == nil {
		return nil
	}
	if err := checkTransition(m.workoutGoalStatusLocked(), GoalSet); err != nil {
		return err
	}
	next := m.profile.Clone()
	next.MonthlyWorkoutGoal = &count
	return m.setProfileLocked(ctx, &next)
}

func (m *Manager) SetLanguage(ctx context.Context, lang domain.Language) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLanguageLocked(ctx, lang)
}

func (m *Manager) SetTheme(ctx context.Context, theme domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setThemeLocked(ctx, theme)
}

// UpdateSettings sets language then theme.
func (m *Manager) UpdateSettings(ctx context.Context, lang domain.Language, theme domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setLanguageLocked(ctx, lang); err != nil {
		return err
	}
	return m.setThemeLocked(ctx, theme)
}

func (m *Manager) setLanguageLocked(ctx context.Context, lang domain.Language) error {
	prev := m.language
	m.language = lang
	if err := m.persist(ctx, storage.SlotLanguage, lang); err != nil {
		m.language = prev
		return err
	}
	return nil
}

func (m *Manager) setThemeLocked(ctx context.Context, theme domain.Theme) error {
	prev := m.theme
	m.theme = theme
	if err := m.persist(ctx, storage.SlotTheme, theme); err != nil {
		m.theme = prev
		return err
	}
	return nil
}

// ---- meals ----

// AddMeal appends meal. An empty ID is replaced with a fresh one.
func (m *Manager) AddMeal(ctx context.Context, meal domain.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if meal.ID == "" {
		meal.ID = domain.NewID()
	}
	next := append(cloneSlice(m.meals), meal)
	return m.setMealsLocked(ctx, next)
}

// UpdateMeal replaces the meal with the same ID. Unknown IDs are ignored and report false.
func (m *Manager) UpdateMeal(ctx context.Context, meal domain.Meal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := indexOf(m.meals, func(x domain.Meal) bool { return x.ID == meal.ID })
	if idx < 0 {
		return false, nil
	}
	next := cloneSlice(m.meals)
	next[idx] = meal
	return true, m.setMealsLocked(ctx, next)
}

// DeleteMeal removes the meal with id. Deleting an absent ID is a no-op.
func (m *Manager) DeleteMeal(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := indexOf(m.meals, func(x domain.Meal) bool { return x.ID == id })
	if idx < 0 {
		return false, nil
	}
	next := removeAt(m.meals, idx)
	return true, m.setMealsLocked(ctx, next)
}

func (m *Manager) setMealsLocked(ctx context.Context, next []domain.Meal) error {
	prev := m.meals
	m.meals = next
	if err := m.persist(ctx, storage.SlotMeals, next); err != nil {
		m.meals = prev
		return err
	}
	return nil
}

// ---- workouts ----

func (m *Manager) AddWorkout(ctx context.Context, session domain.WorkoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session.ID == "" {
		session.ID = domain.NewID()
	}
	next := append(cloneSessions(m.workouts), session.Clone())
	return m.setWorkoutsLocked(ctx, next)
}

// UpdateWorkout replaces the session with the same ID. Unknown IDs are ignored and report false.
func (m *Manager) UpdateWorkout(ctx context.Context, session domain.WorkoutSession) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := indexOf(m.workouts, func(x domain.WorkoutSession) bool { return x.ID == session.ID })
	if idx < 0 {
		return false, nil
	}
	next := cloneSessions(m.workouts)
	next[idx] = session.Clone()
	return true, m.setWorkoutsLocked(ctx, next)
}

func (m *Manager) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := indexOf(m.workouts, func(x domain.WorkoutSession) bool { return x.ID == id })
	if idx < 0 {
		return false, nil
	}
	next := removeAt(m.workouts, idx)
	return true, m.setWorkoutsLocked(ctx, next)
}

func (m *Manager) setWorkoutsLocked(ctx context.Context, next []domain.WorkoutSession) error {
	prev := m.workouts
	m.workouts = next
	if err := m.persist(ctx, storage.SlotWorkouts, next); err != nil {
		m.workouts = prev
		return err
	}
	return nil
}

// ---- water ----

// SetWaterAmount replaces the entry for date or appends a new one.
func (m *Manager) SetWaterAmount(ctx context.Context, date string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.setWaterLocked(ctx, date, amount)
}

// StepWater adds delta to the amount for date, clamped at zero, and returns the stored amount.
// Read and write happen under one lock so concurrent steps are not lost.
func (m *Manager) StepWater(ctx context.Context, date string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := stats.StepWater(stats.WaterAmount(m.water, date), delta)
	if err := m.setWaterLocked(ctx, date, next); err != nil {
		return stats.WaterAmount(m.water, date), err
	}
	return next, nil
}

func (m *Manager) setWaterLocked(ctx context.Context, date string, amount int) error {
	next := cloneSlice(m.water)
	idx := indexOf(next, func(x domain.WaterLog) bool { return x.Date == date })
	if idx >= 0 {
		next[idx].Amount = amount
	} else {
		next = append(next, domain.WaterLog{Date: date, Amount: amount})
	}

	prev := m.water
	m.water = next
	if err := m.persist(ctx, storage.SlotWater, next); err != nil {
		m.water = prev
		return err
	}
	return nil
}

// ---- reads ----

// Profile returns a copy of the profile and whether one exists.
func (m *Manager) Profile() (domain.UserProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.profile == nil {
		return domain.UserProfile{}, false
	}
	return m.profile.Clone(), true
}

func (m *Manager) IsOnboarded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile != nil && m.profile.IsOnboarded
}

func (m *Manager) Meals() []domain.Meal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSlice(m.meals)
}

func (m *Manager) Workouts() []domain.WorkoutSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSessions(m.workouts)
}

func (m *Manager) WaterLogs() []domain.WaterLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSlice(m.water)
}

func (m *Manager) Language() domain.Language {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.language
}

func (m *Manager) Theme() domain.Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

func (m *Manager) NutritionGoalStatus() GoalStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nutritionGoalStatusLocked()
}

func (m *Manager) WorkoutGoalStatus() GoalStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.workoutGoalStatusLocked()
}

func (m *Manager) nutritionGoalStatusLocked() GoalStatus {
	if m.profile == nil || m.profile.NutritionGoal == nil {
		return GoalUnset
	}
	return GoalSet
}

func (m *Manager) workoutGoalStatusLocked() GoalStatus {
	if m.profile == nil || m.profile.MonthlyWorkoutGoal == nil {
		return GoalUnset
	}
	return GoalSet
}

// Snapshot is a consistent copy of the whole state.
type Snapshot struct {
	Profile  *domain.UserProfile
	Meals    []domain.Meal
	Workouts []domain.WorkoutSession
	Water    []domain.WaterLog
	Language domain.Language
	Theme    domain.Theme
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Meals:    cloneSlice(m.meals),
		Workouts: cloneSessions(m.workouts),
		Water:    cloneSlice(m.water),
		Language: m.language,
		Theme:    m.theme,
	}
	if m.profile != nil {
		p := m.profile.Clone()
		snap.Profile = &p
	}
	return snap
}

// ---- helpers ----

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return append(make([]T, 0, len(in)), in...)
}

func cloneSessions(in []domain.WorkoutSession) []domain.WorkoutSession {
	out := make([]domain.WorkoutSession, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, idx int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/state"
	"github.com/fdg312/fitbot/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *state.Manager, *memory.MemoryStorage) {
	t.Helper()
	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := state.New(store, state.WithLogger(log), state.WithBackoff(0))
	return NewHandler(NewService(mgr), log), mgr, store
}

func doJSON(t *testing.T, h http.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error.Code
}

func alexForm() OnboardingRequest {
	return OnboardingRequest{Name: "Alex", Age: 30, Height: 180, Weight: 80, Goal: "maintain", Language: "en", Theme: "light"}
}

func TestHandleOnboarding(t *testing.T) {
	h, mgr, _ := newTestHandler(t)

	w := doJSON(t, h.HandleOnboarding, http.MethodPost, "/v1/onboarding", alexForm())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp StateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Onboarded)
	assert.Equal(t, domain.LanguageEN, resp.Language)
	assert.Equal(t, domain.ThemeLight, resp.Theme)
	assert.Equal(t, "unset", resp.NutritionGoalStatus)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Alex", resp.Profile.Name)

	assert.True(t, mgr.IsOnboarded())
}

func TestHandleOnboardingIncompleteForm(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OnboardingRequest)
	}{
		{"no name", func(r *OnboardingRequest) { r.Name = "" }},
		{"no age", func(r *OnboardingRequest) { r.Age = 0 }},
		{"no height", func(r *OnboardingRequest) { r.Height = 0 }},
		{"no weight", func(r *OnboardingRequest) { r.Weight = 0 }},
		{"unknown goal", func(r *OnboardingRequest) { r.Goal = "fly" }},
		{"unknown language", func(r *OnboardingRequest) { r.Language = "de" }},
		{"unknown theme", func(r *OnboardingRequest) { r.Theme = "blue" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mgr, store := newTestHandler(t)
			form := alexForm()
			tt.mutate(&form)

			w := doJSON(t, h.HandleOnboarding, http.MethodPost, "/v1/onboarding", form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_request", errorCode(t, w))
			assert.False(t, mgr.IsOnboarded())
			assert.Zero(t, store.Saves())
		})
	}
}

func TestHandleOnboardingTwice(t *testing.T) {
	h, _, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h.HandleOnboarding, http.MethodPost, "/v1/onboarding", alexForm()).Code)

	w := doJSON(t, h.HandleOnboarding, http.MethodPost, "/v1/onboarding", alexForm())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_onboarded", errorCode(t, w))
}

func TestHandleOnboardingStorageFailure(t *testing.T) {
	h, mgr, store := newTestHandler(t)
	store.SetFailSaves(true)

	w := doJSON(t, h.HandleOnboarding, http.MethodPost, "/v1/onboarding", alexForm())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage_unavailable", errorCode(t, w))
	assert.False(t, mgr.IsOnboarded())
}

func TestHandleInvalidJSON(t *testing.T) {
	h, _, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/onboarding", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	h.HandleOnboarding(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_json", errorCode(t, w))
}

func TestHandleProfileBeforeOnboarding(t *testing.T) {
	h, _, _ := newTestHandler(t)

	w := doJSON(t, h.HandleGetProfile, http.MethodGet, "/v1/profile", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "onboarding_required", errorCode(t, w))
}

func TestHandleUpdateProfileKeepsGoals(t *testing.T) {
	h, mgr, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h.HandleOnboarding, http.MethodPost, "/v1/onboarding", alexForm()).Code)
	require.NoError(t, mgr.SetWorkoutGoal(context.Background(), 12))

	w := doJSON(t, h.HandleUpdateProfile, http.MethodPut, "/v1/profile",
		ProfileRequest{Name: "Alex", Age: 31, Height: 180, Weight: 78, Goal: "lose_weight", ActivityLevel: "high"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProfileResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 31, resp.Profile.Age)
	assert.Equal(t, domain.GoalLoseWeight, resp.Profile.Goal)
	assert.True(t, resp.Profile.IsOnboarded)
	require.NotNil(t, resp.Profile.MonthlyWorkoutGoal)
	assert.Equal(t, 12, *resp.Profile.MonthlyWorkoutGoal)
}

func TestHandleGoals(t *testing.T) {
	h, mgr, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h.HandleOnboarding, http.MethodPost, "/v1/onboarding", alexForm()).Code)

	w := doJSON(t, h.HandleNutritionGoal, http.MethodPut, "/v1/profile/nutrition-goal",
		NutritionGoalRequest{Calories: 2000, Protein: 150, Fats: 60, Carbs: 250})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.GoalSet, mgr.NutritionGoalStatus())

	w = doJSON(t, h.HandleWorkoutGoal, http.MethodPut, "/v1/profile/workout-goal", WorkoutGoalRequest{MonthlyWorkoutGoal: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, state.GoalUnset, mgr.WorkoutGoalStatus())

	w = doJSON(t, h.HandleWorkoutGoal, http.MethodPut, "/v1/profile/workout-goal", WorkoutGoalRequest{MonthlyWorkoutGoal: 10})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.GoalSet, mgr.WorkoutGoalStatus())
}

func TestHandleSettings(t *testing.T) {
	h, mgr, _ := newTestHandler(t)

	w := doJSON(t, h.HandleGetSettings, http.MethodGet, "/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got SettingsDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, SettingsDTO{Language: "RU", Theme: "dark"}, got)

	w = doJSON(t, h.HandlePutSettings, http.MethodPut, "/v1/settings", SettingsDTO{Language: "EN"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, SettingsDTO{Language: "EN", Theme: "dark"}, got)
	assert.Equal(t, domain.LanguageEN, mgr.Language())

	w = doJSON(t, h.HandlePutSettings, http.MethodPut, "/v1/settings", SettingsDTO{Theme: "sepia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleState(t *testing.T) {
	h, _, _ := newTestHandler(t)

	w := doJSON(t, h.HandleState, http.MethodGet, "/v1/state", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Onboarded)
	assert.Nil(t, resp.Profile)
	assert.Equal(t, "unset", resp.WorkoutGoalStatus)
}

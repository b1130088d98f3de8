package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/fitbot/internal/ai"
	"github.com/fdg312/fitbot/internal/config"
	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/state"
	"github.com/fdg312/fitbot/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAnalyzer struct {
	got ai.SummaryInput
}

func (a *recordingAnalyzer) Analyze(ctx context.Context, in ai.SummaryInput) string {
	a.got = in
	return "advice"
}

func newManager(t *testing.T) (*state.Manager, *memory.MemoryStorage) {
	t.Helper()
	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return state.New(store, state.WithLogger(log), state.WithBackoff(0)), store
}

func onboard(t *testing.T, mgr *state.Manager, lang domain.Language) {
	t.Helper()
	require.NoError(t, mgr.CompleteOnboarding(context.Background(),
		domain.UserProfile{Name: "Alex", Age: 30, Height: 180, Weight: 80, Goal: domain.GoalMaintain},
		lang, domain.ThemeDark))
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/summary", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.HandleSummary(w, req)
	return w
}

func TestSummaryBuildsSnapshot(t *testing.T) {
	mgr, _ := newManager(t)
	onboard(t, mgr, domain.LanguageEN)
	ctx := context.Background()
	require.NoError(t, mgr.AddMeal(ctx, domain.Meal{ID: "m1", Date: "2024-05-01", Name: "Oats", Calories: 500, Protein: 30, Fats: 10, Carbs: 50}))
	require.NoError(t, mgr.AddMeal(ctx, domain.Meal{ID: "m2", Date: "2024-04-30", Name: "Old", Calories: 900}))
	require.NoError(t, mgr.AddWorkout(ctx, domain.WorkoutSession{
		ID: "w1", Date: "2024-05-01", Name: "Run",
		Exercises: []domain.Exercise{{ID: "e1", Name: "Sprint", Sets: []domain.ExerciseSet{{Reps: 1}}}},
	}))

	rec := &recordingAnalyzer{}
	svc := NewService(mgr, rec)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC) }

	w := post(NewHandler(svc), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SummaryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "advice", resp.Text)
	assert.Equal(t, domain.LanguageEN, resp.Language)

	assert.Equal(t, "2024-05-01", rec.got.Date)
	assert.Equal(t, 500.0, rec.got.Totals.Calories)
	assert.Equal(t, 30.0, rec.got.Totals.Protein)
	assert.Equal(t, 1, rec.got.WorkoutsToday)
	assert.Equal(t, "Alex", rec.got.Profile.Name)
}

func TestSummaryWithoutCredentialFallsBack(t *testing.T) {
	mgr, store := newManager(t)
	onboard(t, mgr, domain.LanguageRU)
	before := mgr.Snapshot()
	saves := store.Saves()

	cfg := &config.Config{AIMode: config.AIModeGemini, AIMaxOutputTokens: 100, AITimeoutSeconds: 1}
	summarizer := ai.NewSummarizer(ai.NewProvider(cfg), time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := post(NewHandler(NewService(mgr, summarizer)), `{"date":"2024-05-01"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SummaryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Ошибка соединения с AI. Проверьте API ключ.", resp.Text)
	assert.Equal(t, before, mgr.Snapshot())
	assert.Equal(t, saves, store.Saves())
}

func TestSummaryRequiresOnboarding(t *testing.T) {
	mgr, _ := newManager(t)
	w := post(NewHandler(NewService(mgr, &recordingAnalyzer{})), "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSummaryBadDate(t *testing.T) {
	mgr, _ := newManager(t)
	onboard(t, mgr, domain.LanguageEN)
	w := post(NewHandler(NewService(mgr, &recordingAnalyzer{})), `{"date":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

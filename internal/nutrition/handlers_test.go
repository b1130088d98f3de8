package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/state"
	"github.com/fdg312/fitbot/internal/stats"
	"github.com/fdg312/fitbot/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2024-05-01"

type fixture struct {
	handler *Handler
	service *Service
	state   *state.Manager
	store   *memory.MemoryStorage
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := state.New(store, state.WithLogger(log), state.WithBackoff(0))
	require.NoError(t, mgr.CompleteOnboarding(context.Background(),
		domain.UserProfile{Name: "Alex", Age: 30, Height: 180, Weight: 80, Goal: domain.GoalMaintain},
		domain.LanguageEN, domain.ThemeDark))

	svc := NewService(mgr, 0)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return fixture{handler: NewHandler(svc, log), service: svc, state: mgr, store: store}
}

func call(t *testing.T, h http.HandlerFunc, method, target string, body any, pathID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestAlexDayFlow(t *testing.T) {
	f := newFixture(t)

	w := call(t, f.handler.HandleAddMeal, http.MethodPost, "/v1/meals",
		MealRequest{Name: "Oats", Calories: 500, Protein: 30, Fats: 10, Carbs: 50}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	meal := decode[domain.Meal](t, w)
	assert.NotEmpty(t, meal.ID)
	assert.Equal(t, today, meal.Date)

	w = call(t, f.handler.HandleDay, http.MethodGet, "/v1/nutrition/day", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[stats.NutritionDayView](t, w)
	assert.Equal(t, domain.Macros{Calories: 500, Protein: 30, Fats: 10, Carbs: 50}, day.Totals)
	assert.True(t, day.GoalRequired)
	assert.Equal(t, 2000.0, day.GoalDefaults.Calories)

	require.NoError(t, f.state.SetNutritionGoal(context.Background(), domain.NutritionGoal{Calories: 2000, Protein: 150, Fats: 60, Carbs: 250}))

	w = call(t, f.handler.HandleDay, http.MethodGet, "/v1/nutrition/day?date="+today, nil, "")
	day = decode[stats.NutritionDayView](t, w)
	assert.False(t, day.GoalRequired)
	require.NotNil(t, day.Percent)
	assert.Equal(t, 25.0, day.Percent.Calories)
	assert.Equal(t, 20.0, day.Percent.Protein)
}

func TestAddMealIncompleteForm(t *testing.T) {
	f := newFixture(t)
	saves := f.store.Saves()

	for _, req := range []MealRequest{
		{Name: "", Calories: 100},
		{Name: "Tea", Calories: 0},
		{Name: "Tea", Calories: 10, Protein: -1},
		{Name: "Tea", Calories: 10, Date: "01.05.2024"},
	} {
		w := call(t, f.handler.HandleAddMeal, http.MethodPost, "/v1/meals", req, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "%+v", req)
	}
	assert.Equal(t, saves, f.store.Saves())
	assert.Empty(t, f.state.Meals())
}

func TestUpdateUnknownMealIsNoop(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.AddMeal(context.Background(), MealRequest{Name: "Soup", Calories: 300})
	require.NoError(t, err)
	before := f.state.Meals()
	saves := f.store.Saves()

	w := call(t, f.handler.HandleUpdateMeal, http.MethodPut, "/v1/meals/missing",
		MealRequest{Name: "Ghost", Calories: 999}, "missing")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MealMutationResponse](t, w)
	assert.False(t, resp.Updated)
	assert.Equal(t, before, f.state.Meals())
	assert.Equal(t, saves, f.store.Saves())
}

func TestUpdateAndDeleteMeal(t *testing.T) {
	f := newFixture(t)
	meal, err := f.service.AddMeal(context.Background(), MealRequest{Name: "Soup", Calories: 300})
	require.NoError(t, err)

	w := call(t, f.handler.HandleUpdateMeal, http.MethodPut, "/v1/meals/"+meal.ID,
		MealRequest{Name: "Big soup", Calories: 450}, meal.ID)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MealMutationResponse](t, w)
	assert.True(t, resp.Updated)
	assert.Equal(t, 450.0, resp.Totals.Calories)

	w = call(t, f.handler.HandleDeleteMeal, http.MethodDelete, "/v1/meals/"+meal.ID, nil, meal.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[MealMutationResponse](t, w).Updated)

	w = call(t, f.handler.HandleDeleteMeal, http.MethodDelete, "/v1/meals/"+meal.ID, nil, meal.ID)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[MealMutationResponse](t, w)
	assert.False(t, resp.Updated)
	assert.Empty(t, resp.Meals)
}

func TestUpdateMealWithoutDateKeepsDay(t *testing.T) {
	f := newFixture(t)
	meal, err := f.service.AddMeal(context.Background(), MealRequest{Date: "2024-04-28", Name: "Soup", Calories: 300})
	require.NoError(t, err)

	w := call(t, f.handler.HandleUpdateMeal, http.MethodPut, "/v1/meals/"+meal.ID,
		MealRequest{Name: "Big soup", Calories: 450}, meal.ID)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MealMutationResponse](t, w)
	assert.True(t, resp.Updated)
	assert.Equal(t, "2024-04-28", resp.Date)
	assert.Equal(t, 450.0, resp.Totals.Calories)
	assert.Equal(t, domain.Macros{}, stats.DailyTotals(f.state.Meals(), today))
}

func TestConcurrentWaterIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.service.StepWater(ctx, today, 1)
		}()
	}
	wg.Wait()

	resp, err := f.service.Water(today)
	require.NoError(t, err)
	assert.Equal(t, 20*stats.WaterStepML, resp.Amount)
}

func TestListMeals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.AddMeal(ctx, MealRequest{Name: "A", Calories: 100, Date: today})
	require.NoError(t, err)
	_, err = f.service.AddMeal(ctx, MealRequest{Name: "B", Calories: 200, Date: "2024-04-30"})
	require.NoError(t, err)

	w := call(t, f.handler.HandleListMeals, http.MethodGet, "/v1/meals?date="+today, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MealsResponse](t, w)
	require.Len(t, resp.Meals, 1)
	assert.Equal(t, "A", resp.Meals[0].Name)

	w = call(t, f.handler.HandleListMeals, http.MethodGet, "/v1/meals?date=bad", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarClassification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.state.SetNutritionGoal(ctx, domain.NutritionGoal{Calories: 2000}))
	_, err := f.service.AddMeal(ctx, MealRequest{Name: "Feast", Calories: 1800, Date: "2024-04-20"})
	require.NoError(t, err)
	_, err = f.service.AddMeal(ctx, MealRequest{Name: "Almost", Calories: 1799, Date: "2024-04-21"})
	require.NoError(t, err)
	_, err = f.service.AddMeal(ctx, MealRequest{Name: "Old", Calories: 2500, Date: "2023-01-01"})
	require.NoError(t, err)

	w := call(t, f.handler.HandleCalendar, http.MethodGet, "/v1/nutrition/calendar", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[CalendarResponse](t, w)
	assert.Equal(t, "2024-04-01", resp.From)
	assert.Equal(t, "2024-05-15", resp.To)
	assert.Equal(t, map[string]stats.Status{
		"2024-04-20": stats.StatusSuccess,
		"2024-04-21": stats.StatusWarning,
	}, resp.Indicators)

	w = call(t, f.handler.HandleCalendar, http.MethodGet, "/v1/nutrition/calendar?from=2023-01-01&to=2023-01-31", nil, "")
	resp = decode[CalendarResponse](t, w)
	assert.Equal(t, map[string]stats.Status{"2023-01-01": stats.StatusSuccess}, resp.Indicators)

	w = call(t, f.handler.HandleCalendar, http.MethodGet, "/v1/nutrition/calendar?from=2024-05-02&to=2024-05-01", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWaterSteps(t *testing.T) {
	f := newFixture(t)

	w := call(t, f.handler.HandleWaterIncrement, http.MethodPost, "/v1/water/increment", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 250, decode[WaterResponse](t, w).Amount)

	w = call(t, f.handler.HandleWaterIncrement, http.MethodPost, "/v1/water/increment", nil, "")
	assert.Equal(t, 500, decode[WaterResponse](t, w).Amount)

	for range 3 {
		w = call(t, f.handler.HandleWaterDecrement, http.MethodPost, "/v1/water/decrement", nil, "")
	}
	resp := decode[WaterResponse](t, w)
	assert.Equal(t, 0, resp.Amount)
	assert.Equal(t, 250, resp.StepML)

	require.Len(t, f.state.WaterLogs(), 1)
}

func TestPutWater(t *testing.T) {
	f := newFixture(t)

	w := call(t, f.handler.HandlePutWater, http.MethodPut, "/v1/water", WaterRequest{Date: "2024-04-30", Amount: 1200}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, f.handler.HandleGetWater, http.MethodGet, "/v1/water?date=2024-04-30", nil, "")
	assert.Equal(t, 1200, decode[WaterResponse](t, w).Amount)

	w = call(t, f.handler.HandlePutWater, http.MethodPut, "/v1/water", WaterRequest{Amount: -5}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorageFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.store.SetFailSaves(true)

	w := call(t, f.handler.HandleAddMeal, http.MethodPost, "/v1/meals", MealRequest{Name: "Oats", Calories: 500}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage_unavailable", decode[ErrorResponse](t, w).Error.Code)
	assert.Empty(t, f.state.Meals())
}

func TestCustomWaterStep(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.state, 300)
	svc.now = f.service.now

	resp, err := svc.StepWater(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Equal(t, 300, resp.Amount)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase  string
	client   = &http.Client{Timeout: 30 * time.Second}
	testDate string
	mealID   string
)

func main() {
	fmt.Println("=== FitBot E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	testDate = getEnv("SMOKE_DATE", time.Now().Format("2006-01-02"))

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Date: %s\n", testDate)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Get State", testGetState},
		{"Onboarding", testOnboarding},
		{"Add Meal", testAddMeal},
		{"Set Nutrition Goal", testNutritionGoal},
		{"Nutrition Day", testNutritionDay},
		{"Water Increment", testWaterIncrement},
		{"Create Workout", testCreateWorkout},
		{"Workout Month", testWorkoutMonth},
		{"Summary", testSummary},
		{"Delete Meal", testDeleteMeal},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	_, err := call(http.MethodGet, "/healthz", nil, http.StatusOK, nil)
	return err
}

func testGetState() error {
	var result struct {
		Onboarded bool   `json:"onboarded"`
		Language  string `json:"language"`
		Theme     string `json:"theme"`
	}
	if _, err := call(http.MethodGet, "/v1/state", nil, http.StatusOK, &result); err != nil {
		return err
	}
	fmt.Printf("(onboarded=%v language=%s theme=%s) ", result.Onboarded, result.Language, result.Theme)
	return nil
}

func testOnboarding() error {
	body := map[string]any{
		"name":           "Alex",
		"age":            30,
		"height":         180,
		"weight":         80,
		"goal":           "maintain",
		"activity_level": "moderate",
		"language":       "en",
		"theme":          "dark",
	}
	status, err := call(http.MethodPost, "/v1/onboarding", body, 0, nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		// профиль уже создан предыдущим прогоном
		fmt.Print("(already onboarded) ")
		return nil
	}
	return fmt.Errorf("unexpected status=%d", status)
}

func testAddMeal() error {
	body := map[string]any{
		"date":     testDate,
		"name":     "Smoke oats",
		"calories": 500,
		"protein":  30,
		"fats":     10,
		"carbs":    50,
	}
	var meal struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if _, err := call(http.MethodPost, "/v1/meals", body, http.StatusCreated, &meal); err != nil {
		return err
	}
	if meal.ID == "" {
		return fmt.Errorf("created meal has no id")
	}
	mealID = meal.ID
	return nil
}

func testNutritionGoal() error {
	body := map[string]any{"calories": 2000, "protein": 150, "fats": 60, "carbs": 250}
	_, err := call(http.MethodPut, "/v1/profile/nutrition-goal", body, http.StatusOK, nil)
	return err
}

func testNutritionDay() error {
	var result struct {
		Totals struct {
			Calories float64 `json:"calories"`
		} `json:"totals"`
		Percent *struct {
			Calories float64 `json:"calories"`
		} `json:"percent"`
	}
	if _, err := call(http.MethodGet, "/v1/nutrition/day?date="+testDate, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Percent == nil {
		return fmt.Errorf("percent missing after goal was set")
	}
	// на повторном прогоне за тот же день калорий больше
	want := math.Min(result.Totals.Calories/2000*100, 100)
	if math.Abs(result.Percent.Calories-want) > 0.01 {
		return fmt.Errorf("calories percent=%.2f want %.2f", result.Percent.Calories, want)
	}
	fmt.Printf("(%.0f kcal, %.1f%%) ", result.Totals.Calories, result.Percent.Calories)
	return nil
}

func testWaterIncrement() error {
	var before, after struct {
		Amount int `json:"amount"`
		StepML int `json:"step_ml"`
	}
	if _, err := call(http.MethodGet, "/v1/water?date="+testDate, nil, http.StatusOK, &before); err != nil {
		return err
	}
	if _, err := call(http.MethodPost, "/v1/water/increment?date="+testDate, nil, http.StatusOK, &after); err != nil {
		return err
	}
	if after.Amount != before.Amount+after.StepML {
		return fmt.Errorf("water %d -> %d, step %d", before.Amount, after.Amount, after.StepML)
	}
	return nil
}

func testCreateWorkout() error {
	body := map[string]any{
		"date": testDate,
		"name": "Smoke session",
		"exercises": []map[string]any{
			{"name": "Squat", "sets_count": 3, "reps": 5, "weight": 100},
		},
	}
	_, err := call(http.MethodPost, "/v1/workouts", body, http.StatusCreated, nil)
	return err
}

func testWorkoutMonth() error {
	var result struct {
		Count int `json:"count"`
	}
	if _, err := call(http.MethodGet, "/v1/workouts/month?month="+testDate[:7], nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Count < 1 {
		return fmt.Errorf("count=%d after creating a workout", result.Count)
	}
	return nil
}

func testSummary() error {
	var result struct {
		Text string `json:"text"`
	}
	if _, err := call(http.MethodPost, "/v1/summary", map[string]any{"date": testDate}, http.StatusOK, &result); err != nil {
		return err
	}
	if strings.TrimSpace(result.Text) == "" {
		return fmt.Errorf("empty summary text")
	}
	fmt.Printf("(%s) ", truncate(result.Text, 60))
	return nil
}

func testDeleteMeal() error {
	if mealID == "" {
		return fmt.Errorf("no meal to delete")
	}
	_, err := call(http.MethodDelete, "/v1/meals/"+mealID, nil, http.StatusOK, nil)
	return err
}

// call sends a JSON request. want=0 accepts any status; out may be nil.
func call(method, path string, body any, want int, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if want != 0 && resp.StatusCode != want {
		return resp.StatusCode, fmt.Errorf("status=%d body=%s", resp.StatusCode, truncate(string(raw), 512))
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode failed: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

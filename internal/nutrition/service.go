package nutrition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/state"
	"github.com/fdg312/fitbot/internal/stats"
)

var ErrInvalidRequest = errors.New("invalid request")

// Service handles meals, water and the nutrition views.
type Service struct {
	state     *state.Manager
	waterStep int
	now       func() time.Time
}

// NewService creates a nutrition service. A non-positive waterStep uses stats.WaterStepML.
func NewService(st *state.Manager, waterStep int) *Service {
	if waterStep <= 0 {
		waterStep = stats.WaterStepML
	}
	return &Service{state: st, waterStep: waterStep, now: time.Now}
}

func (s *Service) today() string {
	return domain.FormatDate(s.now())
}

// resolveDate returns today for an empty value and rejects malformed dates.
func (s *Service) resolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.today(), nil
	}
	if !domain.IsDate(raw) {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return raw, nil
}

func (s *Service) ListMeals(rawDate string) (*MealsResponse, error) {
	date, err := s.resolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	resp := s.mealsView(date)
	return &resp, nil
}

func (s *Service) mealsView(date string) MealsResponse {
	meals := s.state.Meals()
	return MealsResponse{
		Date:   date,
		Meals:  stats.MealsOn(meals, date),
		Totals: stats.DailyTotals(meals, date),
	}
}

func (s *Service) buildMeal(id string, req MealRequest) (domain.Meal, error) {
	if err := domain.Validate(req); err != nil {
		return domain.Meal{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return domain.Meal{}, err
	}
	return domain.Meal{
		ID:       id,
		Date:     date,
		Name:     strings.TrimSpace(req.Name),
		Calories: req.Calories,
		Protein:  req.Protein,
		Fats:     req.Fats,
		Carbs:    req.Carbs,
	}, nil
}

// AddMeal validates the form and appends a meal with a fresh id.
func (s *Service) AddMeal(ctx context.Context, req MealRequest) (*domain.Meal, error) {
	meal, err := s.buildMeal(domain.NewID(), req)
	if err != nil {
		return nil, err
	}
	if err := s.state.AddMeal(ctx, meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

// UpdateMeal replaces the meal with id. Unknown ids leave the list unchanged.
// Without a date the meal stays on its current day.
func (s *Service) UpdateMeal(ctx context.Context, id string, req MealRequest) (*MealMutationResponse, error) {
	if strings.TrimSpace(req.Date) == "" {
		for _, m := range s.state.Meals() {
			if m.ID == id {
				req.Date = m.Date
				break
			}
		}
	}
	meal, err := s.buildMeal(id, req)
	if err != nil {
		return nil, err
	}
	updated, err := s.state.UpdateMeal(ctx, meal)
	if err != nil {
		return nil, err
	}
	return &MealMutationResponse{Updated: updated, MealsResponse: s.mealsView(meal.Date)}, nil
}

// DeleteMeal removes the meal with id and returns the remaining meals of its day.
func (s *Service) DeleteMeal(ctx context.Context, id string) (*MealMutationResponse, error) {
	date := s.today()
	for _, m := range s.state.Meals() {
		if m.ID == id {
			date = m.Date
			break
		}
	}

	deleted, err := s.state.DeleteMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MealMutationResponse{Updated: deleted, MealsResponse: s.mealsView(date)}, nil
}

// Day builds the nutrition screen: totals, goal percentages and water.
func (s *Service) Day(rawDate string) (*stats.NutritionDayView, error) {
	date, err := s.resolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	var goal *domain.NutritionGoal
	if p, ok := s.state.Profile(); ok {
		goal = p.NutritionGoal
	}
	view := stats.NutritionDay(s.state.Meals(), s.state.WaterLogs(), goal, date)
	return &view, nil
}

// Calendar classifies the days in [from, to]. Empty bounds default to the calendar window around today.
func (s *Service) Calendar(from, to string) (*CalendarResponse, error) {
	from, to, err := calendarRange(s.now(), from, to)
	if err != nil {
		return nil, err
	}
	var goal *domain.NutritionGoal
	if p, ok := s.state.Profile(); ok {
		goal = p.NutritionGoal
	}
	marks := stats.NutritionIndicators(s.state.Meals(), goal)
	return &CalendarResponse{From: from, To: to, Indicators: stats.FilterIndicators(marks, from, to)}, nil
}

func calendarRange(now time.Time, from, to string) (string, string, error) {
	window := stats.CalendarWindow(now)
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" {
		from = window[0]
	}
	if to == "" {
		to = window[len(window)-1]
	}
	if !domain.IsDate(from) || !domain.IsDate(to) {
		return "", "", fmt.Errorf("%w: from and to must be YYYY-MM-DD", ErrInvalidRequest)
	}
	if from > to {
		return "", "", fmt.Errorf("%w: from is after to", ErrInvalidRequest)
	}
	return from, to, nil
}

func (s *Service) Water(rawDate string) (*WaterResponse, error) {
	date, err := s.resolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	return s.waterView(date), nil
}

func (s *Service) waterView(date string) *WaterResponse {
	return &WaterResponse{Date: date, Amount: stats.WaterAmount(s.state.WaterLogs(), date), StepML: s.waterStep}
}

// SetWater stores the amount for a day as given.
func (s *Service) SetWater(ctx context.Context, req WaterRequest) (*WaterResponse, error) {
	if err := domain.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.state.SetWaterAmount(ctx, date, req.Amount); err != nil {
		return nil, err
	}
	return s.waterView(date), nil
}

// StepWater adds (direction > 0) or removes one step, never going below zero.
func (s *Service) StepWater(ctx context.Context, rawDate string, direction int) (*WaterResponse, error) {
	date, err := s.resolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	delta := s.waterStep
	if direction < 0 {
		delta = -delta
	}
	amount, err := s.state.StepWater(ctx, date, delta)
	if err != nil {
		return nil, err
	}
	return &WaterResponse{Date: date, Amount: amount, StepML: s.waterStep}, nil
}

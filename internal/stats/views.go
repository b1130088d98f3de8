package stats

import "github.com/fdg312/fitbot/internal/domain"

// Defaults offered by the goal forms before the user saves anything.
var (
	DefaultNutritionGoal      = domain.NutritionGoal{Calories: 2000, Protein: 150, Fats: 60, Carbs: 250}
	DefaultMonthlyWorkoutGoal = 12
)

// Percentages of each macro against the goal.
type Percentages struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
}

type NutritionDayView struct {
	Date         string                `json:"date"`
	Totals       domain.Macros         `json:"totals"`
	Goal         *domain.NutritionGoal `json:"goal,omitempty"`
	Percent      *Percentages          `json:"percent,omitempty"`
	Meals        []domain.Meal         `json:"meals"`
	WaterML      int                   `json:"water_ml"`
	GoalRequired bool                  `json:"goal_required"`
	GoalDefaults domain.NutritionGoal  `json:"goal_defaults"`
}

// NutritionDay builds the nutrition screen for date. Percent is nil until a goal exists.
func NutritionDay(meals []domain.Meal, water []domain.WaterLog, goal *domain.NutritionGoal, date string) NutritionDayView {
	totals := DailyTotals(meals, date)
	view := NutritionDayView{
		Date:         date,
		Totals:       totals,
		Meals:        MealsOn(meals, date),
		WaterML:      WaterAmount(water, date),
		GoalRequired: goal == nil,
		GoalDefaults: DefaultNutritionGoal,
	}
	if goal != nil {
		g := *goal
		view.Goal = &g
		view.Percent = &Percentages{
			Calories: ProgressPercent(totals.Calories, g.Calories),
			Protein:  ProgressPercent(totals.Protein, g.Protein),
			Fats:     ProgressPercent(totals.Fats, g.Fats),
			Carbs:    ProgressPercent(totals.Carbs, g.Carbs),
		}
	}
	return view
}

type WorkoutMonthView struct {
	Month        string   `json:"month"`
	Count        int      `json:"count"`
	Goal         *int     `json:"goal,omitempty"`
	Percent      *float64 `json:"percent,omitempty"`
	GoalRequired bool     `json:"goal_required"`
	GoalDefault  int      `json:"goal_default"`
}

func WorkoutMonth(sessions []domain.WorkoutSession, goal *int, month string) WorkoutMonthView {
	count := MonthlyWorkoutCount(sessions, month)
	view := WorkoutMonthView{
		Month:        month,
		Count:        count,
		GoalRequired: goal == nil,
		GoalDefault:  DefaultMonthlyWorkoutGoal,
	}
	if goal != nil {
		g := *goal
		p := ProgressPercent(float64(count), float64(g))
		view.Goal = &g
		view.Percent = &p
	}
	return view
}

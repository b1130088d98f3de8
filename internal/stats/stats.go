// Package stats derives totals, progress and calendar marks from the domain collections.
// Every function is pure; nothing is cached.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/fdg312/fitbot/internal/domain"
)

const (
	// WaterStepML is the increment of the water tracker buttons.
	WaterStepML = 250

	// SuccessRatio is the share of the calorie goal that marks a day green.
	SuccessRatio = 0.9

	WindowDaysBack  = 30
	WindowDaysAhead = 14
)

// Status is a calendar mark.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
)

// DailyTotals sums the macros of all meals on date.
func DailyTotals(meals []domain.Meal, date string) domain.Macros {
	var total domain.Macros
	for _, m := range meals {
		if m.Date != date {
			continue
		}
		total.Calories += m.Calories
		total.Protein += m.Protein
		total.Fats += m.Fats
		total.Carbs += m.Carbs
	}
	return total
}

// ProgressPercent returns current/target as a percentage in [0, 100].
// The denominator is never below 1.
func ProgressPercent(current, target float64) float64 {
	if math.IsNaN(target) || target < 1 {
		target = 1
	}
	if math.IsNaN(current) || current <= 0 {
		return 0
	}
	p := current / target * 100
	if p > 100 || math.IsInf(p, 1) {
		return 100
	}
	return p
}

// NutritionIndicators marks every date that has meals. A date is a success when a goal exists
// and the day's calories reach SuccessRatio of it; otherwise a day with calories is a warning.
func NutritionIndicators(meals []domain.Meal, goal *domain.NutritionGoal) map[string]Status {
	calories := make(map[string]float64)
	for _, m := range meals {
		calories[m.Date] += m.Calories
	}

	out := make(map[string]Status, len(calories))
	for date, kcal := range calories {
		switch {
		case goal != nil && kcal >= goal.Calories*SuccessRatio:
			out[date] = StatusSuccess
		case kcal > 0:
			out[date] = StatusWarning
		}
	}
	return out
}

// WorkoutIndicators marks every date with at least one session.
func WorkoutIndicators(sessions []domain.WorkoutSession) map[string]Status {
	out := make(map[string]Status)
	for _, s := range sessions {
		out[s.Date] = StatusSuccess
	}
	return out
}

// MonthlyWorkoutCount counts sessions whose date starts with month (YYYY-MM).
func MonthlyWorkoutCount(sessions []domain.WorkoutSession, month string) int {
	n := 0
	for _, s := range sessions {
		if strings.HasPrefix(s.Date, month) {
			n++
		}
	}
	return n
}

// SessionsOn returns sessions logged on date in their stored order.
func SessionsOn(sessions []domain.WorkoutSession, date string) []domain.WorkoutSession {
	out := make([]domain.WorkoutSession, 0)
	for _, s := range sessions {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

func MealsOn(meals []domain.Meal, date string) []domain.Meal {
	out := make([]domain.Meal, 0)
	for _, m := range meals {
		if m.Date == date {
			out = append(out, m)
		}
	}
	return out
}

// WaterAmount returns the logged amount for date, or 0.
func WaterAmount(logs []domain.WaterLog, date string) int {
	for _, l := range logs {
		if l.Date == date {
			return l.Amount
		}
	}
	return 0
}

func IncrementWater(amount int) int {
	return StepWater(amount, WaterStepML)
}

// DecrementWater subtracts one step and never goes below zero.
func DecrementWater(amount int) int {
	return StepWater(amount, -WaterStepML)
}

// StepWater adds delta to amount, clamped at zero.
func StepWater(amount, delta int) int {
	return max(0, amount+delta)
}

// CalendarWindow lists the dates from WindowDaysBack before today to WindowDaysAhead after it.
func CalendarWindow(today time.Time) []string {
	start := today.AddDate(0, 0, -WindowDaysBack)
	out := make([]string, 0, WindowDaysBack+WindowDaysAhead+1)
	for i := 0; i <= WindowDaysBack+WindowDaysAhead; i++ {
		out = append(out, domain.FormatDate(start.AddDate(0, 0, i)))
	}
	return out
}

// FilterIndicators keeps marks with from <= date <= to. Empty bounds are open.
func FilterIndicators(marks map[string]Status, from, to string) map[string]Status {
	out := make(map[string]Status, len(marks))
	for date, st := range marks {
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		out[date] = st
	}
	return out
}

// Volume is the work done in a session.
type Volume struct {
	Sets      int     `json:"sets"`
	Reps      int     `json:"reps"`
	Tonnage   float64 `json:"tonnage"` // sum of reps*weight, kg
	Exercises int     `json:"exercises"`
}

func SessionVolume(s domain.WorkoutSession) Volume {
	v := Volume{Exercises: len(s.Exercises)}
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			v.Sets++
			v.Reps += set.Reps
			v.Tonnage += float64(set.Reps) * set.Weight
		}
	}
	return v
}

package profiles

import "github.com/fdg312/fitbot/internal/domain"

// OnboardingRequest - запрос для POST /v1/onboarding
type OnboardingRequest struct {
	Name          string  `json:"name" validate:"required"`
	Age           int     `json:"age" validate:"gt=0,lt=150"`
	Height        float64 `json:"height" validate:"gt=0"`
	Weight        float64 `json:"weight" validate:"gt=0"`
	Goal          string  `json:"goal" validate:"oneof=lose_weight maintain gain_muscle"`
	ActivityLevel string  `json:"activity_level"`
	Language      string  `json:"language"`
	Theme         string  `json:"theme"`
}

// ProfileRequest - запрос для PUT /v1/profile
type ProfileRequest struct {
	Name          string  `json:"name" validate:"required"`
	Age           int     `json:"age" validate:"gt=0,lt=150"`
	Height        float64 `json:"height" validate:"gt=0"`
	Weight        float64 `json:"weight" validate:"gt=0"`
	Goal          string  `json:"goal" validate:"oneof=lose_weight maintain gain_muscle"`
	ActivityLevel string  `json:"activity_level"`
}

type NutritionGoalRequest struct {
	Calories float64 `json:"calories" validate:"gt=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Fats     float64 `json:"fats" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
}

type WorkoutGoalRequest struct {
	MonthlyWorkoutGoal int `json:"monthly_workout_goal" validate:"gt=0"`
}

// SettingsDTO is used for both GET and PUT /v1/settings. Empty fields in PUT keep the current value.
type SettingsDTO struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

type ProfileResponse struct {
	Profile domain.UserProfile `json:"profile"`
}

// StateResponse - ответ для GET /v1/state
type StateResponse struct {
	Onboarded           bool                `json:"onboarded"`
	Profile             *domain.UserProfile `json:"profile,omitempty"`
	Language            domain.Language     `json:"language"`
	Theme               domain.Theme        `json:"theme"`
	NutritionGoalStatus string              `json:"nutrition_goal_status"`
	WorkoutGoalStatus   string              `json:"workout_goal_status"`
	MealsCount          int                 `json:"meals_count"`
	WorkoutsCount       int                 `json:"workouts_count"`
}

// ErrorResponse - формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

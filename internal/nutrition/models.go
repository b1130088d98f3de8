package nutrition

import (
	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/stats"
)

// MealRequest is the body of POST /v1/meals and PUT /v1/meals/{id}. An empty date means today.
type MealRequest struct {
	Date     string  `json:"date"`
	Name     string  `json:"name" validate:"required"`
	Calories float64 `json:"calories" validate:"gt=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Fats     float64 `json:"fats" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
}

// MealsResponse is the meal list of one day.
type MealsResponse struct {
	Date   string        `json:"date"`
	Meals  []domain.Meal `json:"meals"`
	Totals domain.Macros `json:"totals"`
}

// MealMutationResponse answers update and delete. Updated is false when the id was unknown.
type MealMutationResponse struct {
	Updated bool `json:"updated"`
	MealsResponse
}

type WaterRequest struct {
	Date   string `json:"date"`
	Amount int    `json:"amount" validate:"gte=0"`
}

type WaterResponse struct {
	Date   string `json:"date"`
	Amount int    `json:"amount"`
	StepML int    `json:"step_ml"`
}

type CalendarResponse struct {
	From       string                  `json:"from"`
	To         string                  `json:"to"`
	Indicators map[string]stats.Status `json:"indicators"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

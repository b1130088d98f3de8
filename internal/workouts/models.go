package workouts

import (
	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/stats"
)

type SetRequest struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// ExerciseRequest carries explicit sets, or sets_count/reps/weight which expand
// into sets_count identical sets.
type ExerciseRequest struct {
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"name"`
	Sets      []SetRequest `json:"sets,omitempty"`
	SetsCount int          `json:"sets_count,omitempty"`
	Reps      int          `json:"reps,omitempty"`
	Weight    float64      `json:"weight,omitempty"`
}

// WorkoutRequest is the body of POST /v1/workouts and PUT /v1/workouts/{id}. An empty date means today.
type WorkoutRequest struct {
	Date      string            `json:"date"`
	Name      string            `json:"name"`
	Notes     string            `json:"notes,omitempty"`
	Exercises []ExerciseRequest `json:"exercises"`
}

// SessionView is a stored session with its computed volume.
type SessionView struct {
	domain.WorkoutSession
	Volume stats.Volume `json:"volume"`
}

type WorkoutsResponse struct {
	Date     string        `json:"date"`
	Sessions []SessionView `json:"sessions"`
}

// WorkoutMutationResponse answers update and delete. Updated is false when the id was unknown.
type WorkoutMutationResponse struct {
	Updated bool `json:"updated"`
	WorkoutsResponse
}

type CalendarResponse struct {
	From       string                  `json:"from"`
	To         string                  `json:"to"`
	Indicators map[string]stats.Status `json:"indicators"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

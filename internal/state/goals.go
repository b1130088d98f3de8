package state

import "fmt"

// GoalStatus tracks whether a goal was ever saved for a domain (nutrition or workouts).
type GoalStatus string

const (
	GoalUnset GoalStatus = "unset"
	GoalSet   GoalStatus = "set"
)

// A goal can be edited but never cleared.
var validGoalTransitions = map[GoalStatus][]GoalStatus{
	GoalUnset: {GoalSet},
	GoalSet:   {GoalSet},
}

func CanTransition(from, to GoalStatus) bool {
	for _, allowed := range validGoalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to GoalStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("goal transition %s -> %s is not allowed", from, to)
	}
	return nil
}

package workouts

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

// maxSetsCount bounds the sets_count expansion.
const maxSetsCount = 50

type Service struct {
	state *state.Manager
	now   func() time.Time
}

func NewService(st *state.Manager) *Service {
	return &Service{state: st, now: time.Now}
}

func (s *Service) resolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.FormatDate(s.now()), nil
	}
	if !domain.IsDate(raw) {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return raw, nil
}

func (s *Service) List(rawDate string) (*WorkoutsResponse, error) {
	date, err := s.resolveDate(rawDate)
	if err != nil {
		return nil, err
	}
	resp := s.dayView(date)
	return &resp, nil
}

func (s *Service) dayView(date string) WorkoutsResponse {
	sessions := stats.SessionsOn(s.state.Workouts(), date)
	views := make([]SessionView, 0, len(sessions))
	for _, ws := range sessions {
		views = append(views, SessionView{WorkoutSession: ws, Volume: stats.SessionVolume(ws)})
	}
	return WorkoutsResponse{Date: date, Sessions: views}
}

// buildSession turns the form into a session. Exercises without ids get fresh ones.
func (s *Service) buildSession(id string, req WorkoutRequest) (domain.WorkoutSession, error) {
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return domain.WorkoutSession{}, err
	}

	session := domain.WorkoutSession{
		ID:        id,
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Notes:     strings.TrimSpace(req.Notes),
		Exercises: make([]domain.Exercise, 0, len(req.Exercises)),
	}
	for i, ex := range req.Exercises {
		sets, err := expandSets(ex)
		if err != nil {
			return domain.WorkoutSession{}, fmt.Errorf("exercise %d: %w", i, err)
		}
		exID := strings.TrimSpace(ex.ID)
		if exID == "" {
			exID = domain.NewID()
		}
		session.Exercises = append(session.Exercises, domain.Exercise{
			ID:   exID,
			Name: strings.TrimSpace(ex.Name),
			Sets: sets,
		})
	}

	if err := domain.Validate(session); err != nil {
		return domain.WorkoutSession{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return session, nil
}

func expandSets(ex ExerciseRequest) ([]domain.ExerciseSet, error) {
	if len(ex.Sets) > 0 {
		sets := make([]domain.ExerciseSet, 0, len(ex.Sets))
		for _, set := range ex.Sets {
			sets = append(sets, domain.ExerciseSet{Reps: set.Reps, Weight: set.Weight})
		}
		return sets, nil
	}
	if ex.SetsCount > maxSetsCount {
		return nil, fmt.Errorf("%w: sets_count must be at most %d", ErrInvalidRequest, maxSetsCount)
	}
	sets := make([]domain.ExerciseSet, 0, max(ex.SetsCount, 0))
	for range ex.SetsCount {
		sets = append(sets, domain.ExerciseSet{Reps: ex.Reps, Weight: ex.Weight})
	}
	return sets, nil
}

func (s *Service) Add(ctx context.Context, req WorkoutRequest) (*SessionView, error) {
	session, err := s.buildSession(domain.NewID(), req)
	if err != nil {
		return nil, err
	}
	if err := s.state.AddWorkout(ctx, session); err != nil {
		return nil, err
	}
	return &SessionView{WorkoutSession: session, Volume: stats.SessionVolume(session)}, nil
}

// Update replaces the session with id. Unknown ids leave the list unchanged.
// Without a date the session stays on its current day.
func (s *Service) Update(ctx context.Context, id string, req WorkoutRequest) (*WorkoutMutationResponse, error) {
	if strings.TrimSpace(req.Date) == "" {
		for _, ws := range s.state.Workouts() {
			if ws.ID == id {
				req.Date = ws.Date
				break
			}
		}
	}
	session, err := s.buildSession(id, req)
	if err != nil {
		return nil, err
	}
	updated, err := s.state.UpdateWorkout(ctx, session)
	if err != nil {
		return nil, err
	}
	return &WorkoutMutationResponse{Updated: updated, WorkoutsResponse: s.dayView(session.Date)}, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*WorkoutMutationResponse, error) {
	date := domain.FormatDate(s.now())
	for _, ws := range s.state.Workouts() {
		if ws.ID == id {
			date = ws.Date
			break
		}
	}

	deleted, err := s.state.DeleteWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WorkoutMutationResponse{Updated: deleted, WorkoutsResponse: s.dayView(date)}, nil
}

// Month counts the sessions of month (YYYY-MM, default current) against the monthly goal.
func (s *Service) Month(rawMonth string) (*stats.WorkoutMonthView, error) {
	month := strings.TrimSpace(rawMonth)
	if month == "" {
		month = s.now().Format("2006-01")
	}
	if !domain.IsMonth(month) {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidRequest)
	}

	var goal *int
	if p, ok := s.state.Profile(); ok {
		goal = p.MonthlyWorkoutGoal
	}
	view := stats.WorkoutMonth(s.state.Workouts(), goal, month)
	return &view, nil
}

func (s *Service) Calendar(from, to string) (*CalendarResponse, error) {
	window := stats.CalendarWindow(s.now())
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" {
		from = window[0]
	}
	if to == "" {
		to = window[len(window)-1]
	}
	if !domain.IsDate(from) || !domain.IsDate(to) || from > to {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidRequest)
	}

	marks := stats.WorkoutIndicators(s.state.Workouts())
	return &CalendarResponse{From: from, To: to, Indicators: stats.FilterIndicators(marks, from, to)}, nil
}

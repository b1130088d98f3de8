package summary

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fdg312/fitbot/internal/ai"
	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/state"
	"github.com/fdg312/fitbot/internal/stats"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotOnboarded   = errors.New("onboarding required")
)

type analyzer interface {
	Analyze(ctx context.Context, in ai.SummaryInput) string
}

// Service собирает снимок дня и запрашивает совет у AI
type Service struct {
	state    *state.Manager
	analyzer analyzer
	now      func() time.Time
}

func NewService(st *state.Manager, a analyzer) *Service {
	return &Service{state: st, analyzer: a, now: time.Now}
}

// Summarize reads the state for date (default today) and returns the advice text.
// The state is never modified.
func (s *Service) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResponse, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = domain.FormatDate(s.now())
	}
	if !domain.IsDate(date) {
		return nil, ErrInvalidRequest
	}

	snap := s.state.Snapshot()
	if snap.Profile == nil || !snap.Profile.IsOnboarded {
		return nil, ErrNotOnboarded
	}

	in := ai.SummaryInput{
		Profile:       *snap.Profile,
		Date:          date,
		Totals:        stats.DailyTotals(snap.Meals, date),
		WorkoutsToday: len(stats.SessionsOn(snap.Workouts, date)),
		Language:      snap.Language,
	}
	return &SummaryResponse{
		Date:     date,
		Language: snap.Language,
		Text:     s.analyzer.Analyze(ctx, in),
	}, nil
}

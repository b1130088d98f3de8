package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/state"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNotOnboarded     = errors.New("onboarding required")
	ErrAlreadyOnboarded = errors.New("already onboarded")
)

// Service содержит бизнес-логику профиля и настроек
type Service struct {
	state *state.Manager
}

func NewService(st *state.Manager) *Service {
	return &Service{state: st}
}

func (s *Service) State() StateResponse {
	snap := s.state.Snapshot()
	return StateResponse{
		Onboarded:           snap.Profile != nil && snap.Profile.IsOnboarded,
		Profile:             snap.Profile,
		Language:            snap.Language,
		Theme:               snap.Theme,
		NutritionGoalStatus: string(s.state.NutritionGoalStatus()),
		WorkoutGoalStatus:   string(s.state.WorkoutGoalStatus()),
		MealsCount:          len(snap.Meals),
		WorkoutsCount:       len(snap.Workouts),
	}
}

// CompleteOnboarding validates the form and stores profile, language and theme.
// Empty language or theme keep the current values.
func (s *Service) CompleteOnboarding(ctx context.Context, req OnboardingRequest) (*StateResponse, error) {
	if s.state.IsOnboarded() {
		return nil, ErrAlreadyOnboarded
	}
	if err := domain.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	lang, theme, err := s.resolveSettings(req.Language, req.Theme)
	if err != nil {
		return nil, err
	}

	profile := domain.UserProfile{
		Name:          strings.TrimSpace(req.Name),
		Age:           req.Age,
		Height:        req.Height,
		Weight:        req.Weight,
		Goal:          domain.Goal(req.Goal),
		ActivityLevel: strings.TrimSpace(req.ActivityLevel),
	}
	if err := s.state.CompleteOnboarding(ctx, profile, lang, theme); err != nil {
		return nil, err
	}

	resp := s.State()
	return &resp, nil
}

func (s *Service) GetProfile() (*domain.UserProfile, error) {
	p, ok := s.state.Profile()
	if !ok {
		return nil, ErrNotOnboarded
	}
	return &p, nil
}

// UpdateProfile replaces the personal fields; goals and the onboarding flag are kept.
func (s *Service) UpdateProfile(ctx context.Context, req ProfileRequest) (*domain.UserProfile, error) {
	if err := domain.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	current, ok := s.state.Profile()
	if !ok {
		return nil, ErrNotOnboarded
	}

	next := current.Clone()
	next.Name = strings.TrimSpace(req.Name)
	next.Age = req.Age
	next.Height = req.Height
	next.Weight = req.Weight
	next.Goal = domain.Goal(req.Goal)
	next.ActivityLevel = strings.TrimSpace(req.ActivityLevel)

	if err := s.state.UpdateProfile(ctx, next); err != nil {
		return nil, err
	}
	return s.GetProfile()
}

func (s *Service) SetNutritionGoal(ctx context.Context, req NutritionGoalRequest) (*domain.UserProfile, error) {
	if err := domain.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !s.state.IsOnboarded() {
		return nil, ErrNotOnboarded
	}
	goal := domain.NutritionGoal{Calories: req.Calories, Protein: req.Protein, Fats: req.Fats, Carbs: req.Carbs}
	if err := s.state.SetNutritionGoal(ctx, goal); err != nil {
		return nil, err
	}
	return s.GetProfile()
}

func (s *Service) SetWorkoutGoal(ctx context.Context, req WorkoutGoalRequest) (*domain.UserProfile, error) {
	if err := domain.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !s.state.IsOnboarded() {
		return nil, ErrNotOnboarded
	}
	if err := s.state.SetWorkoutGoal(ctx, req.MonthlyWorkoutGoal); err != nil {
		return nil, err
	}
	return s.GetProfile()
}

func (s *Service) GetSettings() SettingsDTO {
	return SettingsDTO{Language: string(s.state.Language()), Theme: string(s.state.Theme())}
}

func (s *Service) UpdateSettings(ctx context.Context, req SettingsDTO) (SettingsDTO, error) {
	lang, theme, err := s.resolveSettings(req.Language, req.Theme)
	if err != nil {
		return SettingsDTO{}, err
	}
	if err := s.state.UpdateSettings(ctx, lang, theme); err != nil {
		return SettingsDTO{}, err
	}
	return s.GetSettings(), nil
}

// resolveSettings parses language and theme; empty values fall back to the current ones.
func (s *Service) resolveSettings(rawLang, rawTheme string) (domain.Language, domain.Theme, error) {
	lang := s.state.Language()
	if strings.TrimSpace(rawLang) != "" {
		l, ok := domain.ParseLanguage(rawLang)
		if !ok {
			return "", "", fmt.Errorf("%w: unknown language %q", ErrInvalidRequest, rawLang)
		}
		lang = l
	}

	theme := s.state.Theme()
	if strings.TrimSpace(rawTheme) != "" {
		t, ok := domain.ParseTheme(rawTheme)
		if !ok {
			return "", "", fmt.Errorf("%w: unknown theme %q", ErrInvalidRequest, rawTheme)
		}
		theme = t
	}
	return lang, theme, nil
}

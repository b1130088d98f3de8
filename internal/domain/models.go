package domain

import "strings"

// Goal - цель пользователя при онбординге
type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalMaintain   Goal = "maintain"
	GoalGainMuscle Goal = "gain_muscle"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalMaintain, GoalGainMuscle:
		return true
	}
	return false
}

type Language string

const (
	LanguageRU Language = "RU"
	LanguageEN Language = "EN"

	DefaultLanguage = LanguageRU
)

// ParseLanguage accepts any case ("ru", "En") and reports whether the value is known.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToUpper(strings.TrimSpace(s))) {
	case LanguageRU:
		return LanguageRU, true
	case LanguageEN:
		return LanguageEN, true
	}
	return DefaultLanguage, false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeDark
)

func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return DefaultTheme, false
}

// NutritionGoal - дневные цели по калориям и БЖУ
type NutritionGoal struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Fats     float64 `json:"fats" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
}

// UserProfile is the single profile of the installation. It is never deleted.
type UserProfile struct {
	Name               string         `json:"name" validate:"required"`
	Age                int            `json:"age" validate:"gt=0,lt=150"`
	Height             float64        `json:"height" validate:"gt=0"`
	Weight             float64        `json:"weight" validate:"gt=0"`
	Goal               Goal           `json:"goal" validate:"oneof=lose_weight maintain gain_muscle"`
	ActivityLevel      string         `json:"activityLevel,omitempty"`
	IsOnboarded        bool           `json:"isOnboarded"`
	NutritionGoal      *NutritionGoal `json:"nutritionGoal,omitempty" validate:"omitempty"`
	MonthlyWorkoutGoal *int           `json:"monthlyWorkoutGoal,omitempty" validate:"omitempty,gte=0"`
}

// Clone returns a deep copy so callers never share goal pointers with the state owner.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.NutritionGoal != nil {
		g := *p.NutritionGoal
		out.NutritionGoal = &g
	}
	if p.MonthlyWorkoutGoal != nil {
		n := *p.MonthlyWorkoutGoal
		out.MonthlyWorkoutGoal = &n
	}
	return out
}

// Macros - сумма калорий и БЖУ
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
}

type Meal struct {
	ID       string  `json:"id" validate:"required"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Name     string  `json:"name" validate:"required"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Fats     float64 `json:"fats" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
}

func (m Meal) Macros() Macros {
	return Macros{Calories: m.Calories, Protein: m.Protein, Fats: m.Fats, Carbs: m.Carbs}
}

type ExerciseSet struct {
	Reps   int     `json:"reps" validate:"gt=0"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type Exercise struct {
	ID   string        `json:"id" validate:"required"`
	Name string        `json:"name" validate:"required"`
	Sets []ExerciseSet `json:"sets" validate:"min=1,dive"`
}

type WorkoutSession struct {
	ID        string     `json:"id" validate:"required"`
	Date      string     `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string     `json:"name" validate:"required"`
	Exercises []Exercise `json:"exercises" validate:"min=1,dive"`
	Notes     string     `json:"notes,omitempty"`
}

func (w WorkoutSession) Clone() WorkoutSession {
	out := w
	out.Exercises = make([]Exercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		ex.Sets = append([]ExerciseSet(nil), ex.Sets...)
		out.Exercises[i] = ex
	}
	return out
}

// WaterLog is keyed by date; amount is in millilitres.
type WaterLog struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Amount int    `json:"amount" validate:"gte=0"`
}

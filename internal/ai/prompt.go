package ai

import (
	"fmt"
	"strings"

	"github.com/fdg312/fitbot/internal/domain"
)

var goalLabels = map[domain.Goal]string{
	domain.GoalLoseWeight: "lose weight",
	domain.GoalMaintain:   "maintain weight",
	domain.GoalGainMuscle: "gain muscle",
}

// BuildPrompt renders the coach prompt. The last line names the reply language.
func BuildPrompt(in SummaryInput) string {
	p := in.Profile

	goal, ok := goalLabels[p.Goal]
	if !ok {
		goal = string(p.Goal)
	}
	activity := strings.TrimSpace(p.ActivityLevel)
	if activity == "" {
		activity = "not specified"
	}

	var b strings.Builder
	b.WriteString("You are a friendly fitness coach. Analyze the user's day and give short, practical advice.\n")
	fmt.Fprintf(&b, "User: age %d, height %s cm, weight %s kg, goal: %s, activity level: %s.\n",
		p.Age, formatNumber(p.Height), formatNumber(p.Weight), goal, activity)
	fmt.Fprintf(&b, "Today (%s): %s kcal eaten, %s g protein, %d workout(s).\n",
		in.Date, formatNumber(in.Totals.Calories), formatNumber(in.Totals.Protein), in.WorkoutsToday)
	if g := p.NutritionGoal; g != nil {
		fmt.Fprintf(&b, "Daily goal: %s kcal, %s g protein.\n", formatNumber(g.Calories), formatNumber(g.Protein))
	}
	b.WriteString("Answer in max 3 sentences.\n")
	fmt.Fprintf(&b, "Reply in %s.", languageName(in.Language))
	return b.String()
}

func languageName(l domain.Language) string {
	if l == domain.LanguageEN {
		return "English"
	}
	return "Russian"
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}

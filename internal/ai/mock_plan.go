package ai

import (
	"fmt"
	"strings"

	"goalplan-backend/internal/goals"
)

const mockHeader = "MOCK PLAN (no Gemini credentials detected or call failed). Replace with real credentials to use Gemini."

// MockPlan is the deterministic plan served when the provider is unavailable.
// The same goals always produce the same text.
func MockPlan(list []goals.Goal) string {
	lines := []string{mockHeader, ""}

	for i, g := range list {
		lines = append(lines,
			fmt.Sprintf("%d. Goal: %s", i+1, g.Text),
			fmt.Sprintf("   Starting progress: %s", progressOrDefault(g.Progress)),
			"   Objective: Make steady weekly improvements toward the target.",
			"   Weekly milestones: Week 1 - baseline & technique; Week 2 - +10% workload; Week 3 - consolidate; Week 4 - test/progress measure.",
			"   Recommended workouts/practices: 3 focused sessions per week, 1 light recovery session, daily mobility/technique work.",
			"   How to track: Use a simple log (date, workout, reps/distance/time), take weekly notes and a photo/measurement every two weeks.",
			"",
		)
	}

	return strings.Join(lines, "\n")
}

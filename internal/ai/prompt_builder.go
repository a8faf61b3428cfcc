package ai

import (
	"strconv"
	"strings"

	"goalplan-backend/internal/goals"
)

// BuildPlanPrompt renders the instruction followed by one numbered block per
// goal, blocks separated by a blank line.
func BuildPlanPrompt(list []goals.Goal) string {
	var b strings.Builder

	b.WriteString(planInstruction)

	for i, g := range list {
		b.WriteString("\n\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". Goal: ")
		b.WriteString(g.Text)
		b.WriteString("\n   Starting progress: ")
		b.WriteString(progressOrDefault(g.Progress))
	}

	return b.String()
}

func progressOrDefault(p string) string {
	if strings.TrimSpace(p) == "" {
		return notProvided
	}
	return p
}

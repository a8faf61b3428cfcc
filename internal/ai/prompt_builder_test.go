package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"goalplan-backend/internal/goals"
)

func TestBuildPlanPrompt(t *testing.T) {
	prompt := BuildPlanPrompt([]goals.Goal{
		{Text: "Run 5k", Progress: "ran 1km"},
		{Text: "Read more"},
	})

	assert.True(t, strings.HasPrefix(prompt, "Create a concise, actionable plan for these goals."))
	for _, want := range []string{"objective", "weekly milestones", "recommended workouts/practices", "how to track progress"} {
		assert.Contains(t, prompt, want)
	}
	assert.Contains(t, prompt, "1. Goal: Run 5k\n   Starting progress: ran 1km")
	assert.Contains(t, prompt, "2. Goal: Read more\n   Starting progress: not provided")
	assert.Less(t, strings.Index(prompt, "Run 5k"), strings.Index(prompt, "Read more"))
}

func TestBuildPlanPrompt_BlankProgressIsNotProvided(t *testing.T) {
	prompt := BuildPlanPrompt([]goals.Goal{{Text: "Swim", Progress: "   "}})
	assert.Contains(t, prompt, "Starting progress: not provided")
}

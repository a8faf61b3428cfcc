package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"goalplan-backend/internal/goals"
)

func TestMockPlan_PerGoalBlock(t *testing.T) {
	list := []goals.Goal{
		{Text: "Run 5k", Progress: "ran 1km"},
		{Text: "10 push-ups"},
	}
	plan := MockPlan(list)

	assert.True(t, strings.HasPrefix(plan, "MOCK PLAN"))
	assert.Contains(t, plan, "1. Goal: Run 5k")
	assert.Contains(t, plan, "Starting progress: ran 1km")
	assert.Contains(t, plan, "2. Goal: 10 push-ups")
	assert.Contains(t, plan, "Starting progress: not provided")

	for _, phrase := range []string{"baseline", "+10%", "consolidate", "test"} {
		assert.Equal(t, len(list), strings.Count(plan, phrase), phrase)
	}
	assert.Equal(t, 2, strings.Count(plan, "3 focused sessions per week, 1 light recovery session, daily mobility"))
	assert.Equal(t, 2, strings.Count(plan, "photo/measurement every two weeks"))
}

func TestMockPlan_Deterministic(t *testing.T) {
	list := []goals.Goal{{Text: "Learn Go", Progress: "tour done"}}
	assert.Equal(t, MockPlan(list), MockPlan(list))
}

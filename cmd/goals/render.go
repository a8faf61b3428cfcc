package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"goalplan-backend/internal/goals"
)

var (
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle     = lipgloss.NewStyle().Bold(true)
	progressStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func renderGoals(list []goals.Goal) string {
	if len(list) == 0 {
		return emptyStyle.Render("No goals yet. Add one with: goals add \"<goal>\"") + "\n"
	}

	var b strings.Builder
	for _, g := range list {
		progress := g.Progress
		if progress == "" {
			progress = "No progress"
		}
		fmt.Fprintf(&b, "%s  %s  %s\n",
			idStyle.Render(fmt.Sprint(g.ID)),
			textStyle.Render(g.Text),
			progressStyle.Render(progress))
	}
	return b.String()
}

// renderPlan renders markdown for the terminal; raw or a renderer failure
// prints the text unchanged.
func renderPlan(plan string, raw bool) string {
	if !strings.HasSuffix(plan, "\n") {
		plan += "\n"
	}
	if raw {
		return plan
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return plan
	}
	out, err := renderer.Render(plan)
	if err != nil {
		return plan
	}
	return out
}

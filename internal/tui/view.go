package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/loomra/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = m.form.View()
	default:
		content = docStyle.Render(m.habits.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatusLine(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := utils.FormatDate(m.date) + " " + m.date.Weekday().String()[:3]
	if m.date.Equal(m.svc.Scheduler.Today()) {
		title += " (today)"
	}
	c := m.summary.Counts
	stats := fmt.Sprintf("%d/%d done · %.0f%%", c.Completed, c.Completed+c.Skipped+c.Scheduled, m.summary.CompletionRate*100)
	return lipgloss.JoinHorizontal(lipgloss.Top, headerStyle.Render(title), mutedStyle.Render(stats))
}

func (m Model) viewStatusLine() string {
	switch {
	case m.err != nil:
		return dangerStyle.Render("  " + m.err.Error())
	case m.notice != "":
		return okStyle.Render("  " + m.notice)
	case m.showAll:
		return warningStyle.Render("  showing unscheduled habits")
	}
	return ""
}

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/loomra/internal/status"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[status.DayStatus]lipgloss.Style{
		status.Completed:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		status.PeriodCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
		status.Skipped:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		status.Missed:          lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		status.Scheduled:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		status.FutureLocked:    mutedStyle,
		status.NotScheduled:    mutedStyle,
		status.Locked:          mutedStyle,
		status.Default:         mutedStyle,
	}

	// one-character cells for the status calendar
	statusMarks = map[status.DayStatus]string{
		status.Completed:       "x",
		status.PeriodCompleted: "+",
		status.Skipped:         "s",
		status.Missed:          "!",
		status.Scheduled:       "o",
		status.FutureLocked:    "·",
		status.NotScheduled:    " ",
		status.Locked:          " ",
		status.Default:         "-",
	}
)

func badge(s status.DayStatus) string {
	return statusStyles[s].Render("[" + s.String() + "]")
}

func mark(s status.DayStatus) string {
	return statusStyles[s].Render(statusMarks[s])
}

// fit pads or truncates name to width runes.
func fit(name string, width int) string {
	r := []rune(name)
	if len(r) > width {
		if width >= 5 {
			return string(r[:width-3]) + "..."
		}
		return string(r[:width])
	}
	return name + strings.Repeat(" ", width-len(r))
}

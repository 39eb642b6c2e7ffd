package tui

import "github.com/charmbracelet/lipgloss"

// maxLogLines bounds the activity log kept in the model.
const maxLogLines = 200

var (
	appStyle = lipgloss.NewStyle().Margin(0, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	logLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#303030", Dark: "#C0C0C0"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#808080"})

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#006000", Dark: "#50FA7B"})

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#806000", Dark: "#F1FA8C"})

	statusCritStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF5555"}).
			Bold(true)
)

// overallStyle picks the style for the fleet-wide status badge.
func overallStyle(overall string) lipgloss.Style {
	switch overall {
	case "healthy":
		return statusOKStyle
	case "degraded":
		return statusWarnStyle
	default:
		return statusCritStyle
	}
}

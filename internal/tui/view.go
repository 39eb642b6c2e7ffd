package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"questctl/internal/monitor"
)

func (m model) View() string {
	if m.quitting {
		return "Shutting down monitor...\n"
	}

	header := headerStyle.Render("questctl monitor")

	var body string
	if !m.haveSnap {
		body = panelStyle.Render(m.spinner.View() + " waiting for first polling round")
	} else {
		badge := overallStyle(string(m.snapshot.Overall)).Render(strings.ToUpper(string(m.snapshot.Overall)))
		dash := strings.TrimRight(monitor.RenderDashboard(m.snapshot), "\n")
		age := monitor.LastCheckAge(m.snapshot.GeneratedAt, time.Now())
		body = panelStyle.Render(dash + "\n\nFleet: " + badge + "   Last round: " + age)
	}

	logPanel := panelStyle.Render(m.renderLog())

	footer := helpStyle.Render("q quit · r refresh now · c copy latest alert")
	if m.statusMsg != "" {
		footer = helpStyle.Render(m.statusMsg)
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, logPanel, footer)) + "\n"
}

// renderLog shows the tail of the activity log sized to the terminal.
func (m model) renderLog() string {
	lines := 8
	if m.height > 0 && m.height < 24 {
		lines = 4
	}
	if len(m.logLines) == 0 {
		return logLineStyle.Render("(no activity yet)")
	}

	start := len(m.logLines) - lines
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for i, line := range m.logLines[start:] {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(logLineStyle.Render(line))
	}
	return b.String()
}

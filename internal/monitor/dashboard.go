package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	dashNameWidth   = 24
	dashClockFormat = "15:04:05"
)

// RenderDashboard formats a snapshot as a plain-text dashboard. It is a pure
// function of the snapshot so the console renderer and the TUI share it.
func RenderDashboard(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Quest Tracker Production Monitor\n")
	fmt.Fprintf(&b, "Generated %s    Overall: %s\n\n",
		s.GeneratedAt.Format(dashClockFormat), strings.ToUpper(string(s.Overall)))

	fmt.Fprintf(&b, "%s %-10s %8s %8s %7s %7s %6s %6s  %s\n",
		pad("SERVICE", dashNameWidth), "STATUS", "AVG", "P95", "AVAIL", "ERRORS", "REQS", "FAILS", "APP")
	for _, svc := range s.Services {
		fmt.Fprintf(&b, "%s %-10s %8s %8s %6.1f%% %6.1f%% %6d %6d  %s\n",
			pad(svc.Name, dashNameWidth),
			svc.Status,
			fmt.Sprintf("%.0fms", svc.AvgResponseMs),
			fmt.Sprintf("%.0fms", svc.P95ResponseMs),
			svc.Availability*100,
			svc.ErrorRate*100,
			svc.TotalRequests,
			svc.ConsecutiveFailures,
			appHealth(svc.DeploymentHealth))
	}

	b.WriteString("\nRecent alerts:\n")
	if len(s.Alerts) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, a := range s.Alerts {
		fmt.Fprintf(&b, "  %s [%s] %s: %s\n",
			a.Timestamp.Format(dashClockFormat), a.Severity, a.Service, a.Message)
	}

	return b.String()
}

// appHealth renders the application-level status column; static sites have
// no application layer so the unknown state shows as a dash.
func appHealth(h DeploymentHealth) string {
	if h == DeploymentUnknown {
		return "-"
	}
	return string(h)
}

func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// LastCheckAge renders how long ago a service was last checked.
func LastCheckAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return now.Sub(t).Truncate(time.Second).String() + " ago"
}

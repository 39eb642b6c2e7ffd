// Package tui renders the production monitor as a live terminal dashboard.
// The monitor owns all health state; the model only holds the latest
// snapshot, the activity log tail and view plumbing.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"questctl/internal/monitor"
	"questctl/pkg/logging"
)

// snapshotMsg carries a fresh monitor snapshot into the event loop.
type snapshotMsg monitor.Snapshot

// logMsg carries one structured log entry into the event loop.
type logMsg logging.LogEntry

// logChannelClosedMsg signals that the logging channel was closed.
type logChannelClosedMsg struct{}

// statusExpiredMsg clears a transient status-bar message.
type statusExpiredMsg struct{ id int }

type model struct {
	mon  *monitor.Monitor
	keys KeyMap

	snapshots <-chan monitor.Snapshot
	logCh     <-chan logging.LogEntry

	snapshot monitor.Snapshot
	haveSnap bool
	logLines []string

	spinner  spinner.Model
	width    int
	height   int
	quitting bool

	statusMsg string
	statusID  int
}

func newModel(mon *monitor.Monitor, snapshots <-chan monitor.Snapshot, logCh <-chan logging.LogEntry) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		mon:       mon,
		keys:      DefaultKeyMap(),
		snapshots: snapshots,
		logCh:     logCh,
		spinner:   sp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.snapshots), waitForLog(m.logCh))
}

// waitForSnapshot blocks on the snapshot channel and republishes it as a
// message, re-armed after every receipt.
func waitForSnapshot(ch <-chan monitor.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func waitForLog(ch <-chan logging.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return logChannelClosedMsg{}
		}
		return logMsg(entry)
	}
}

func formatLogLine(e logging.LogEntry) string {
	line := fmt.Sprintf("%s [%s] %s: %s",
		e.Timestamp.Format("15:04:05"), e.Level.String(), e.Subsystem, e.Message)
	if e.Err != nil {
		line += ": " + e.Err.Error()
	}
	return line
}

// setStatus shows a transient message in the footer and schedules its expiry.
func (m *model) setStatus(msg string, ttl time.Duration) tea.Cmd {
	m.statusMsg = msg
	m.statusID++
	id := m.statusID
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}

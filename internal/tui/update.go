package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"questctl/internal/monitor"
	"questctl/pkg/logging"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snapshot = monitor.Snapshot(msg)
		m.haveSnap = true
		return m, waitForSnapshot(m.snapshots)

	case logMsg:
		m.logLines = append(m.logLines, formatLogLine(logging.LogEntry(msg)))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		return m, waitForLog(m.logCh)

	case logChannelClosedMsg:
		return m, nil

	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.mon.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.mon.ForcePoll()
		return m, m.setStatus("Refresh requested", 2*time.Second)

	case key.Matches(msg, m.keys.CopyAlert):
		if !m.haveSnap || len(m.snapshot.Alerts) == 0 {
			return m, m.setStatus("No alerts to copy", 2*time.Second)
		}
		a := m.snapshot.Alerts[0]
		text := fmt.Sprintf("[%s] %s: %s (%s)", a.Severity, a.Service, a.Message, a.Timestamp.Format(time.RFC3339))
		if err := clipboard.WriteAll(text); err != nil {
			return m, m.setStatus("Copy failed: "+err.Error(), 3*time.Second)
		}
		return m, m.setStatus("Latest alert copied", 2*time.Second)
	}

	return m, nil
}

package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questctl/internal/monitor"
	"questctl/pkg/logging"
)

func newTestModel() model {
	return newModel(nil, make(chan monitor.Snapshot), make(chan logging.LogEntry))
}

func TestSnapshotMessageUpdatesModel(t *testing.T) {
	m := newTestModel()

	snap := monitor.Snapshot{
		GeneratedAt: time.Now(),
		Overall:     monitor.OverallHealthy,
		Services:    []monitor.ServiceReport{{Name: "frontend", Status: monitor.StatusHealthy}},
	}

	updated, cmd := m.Update(snapshotMsg(snap))
	m = updated.(model)

	assert.True(t, m.haveSnap)
	assert.Equal(t, monitor.OverallHealthy, m.snapshot.Overall)
	// The snapshot listener re-arms itself.
	assert.NotNil(t, cmd)
}

func TestLogTailIsBounded(t *testing.T) {
	m := newTestModel()

	for i := 0; i < maxLogLines+25; i++ {
		updated, _ := m.Update(logMsg(logging.LogEntry{
			Timestamp: time.Now(),
			Level:     logging.LevelInfo,
			Subsystem: "Monitor",
			Message:   "round complete",
		}))
		m = updated.(model)
	}

	assert.Len(t, m.logLines, maxLogLines)
}

func TestFormatLogLineIncludesError(t *testing.T) {
	line := formatLogLine(logging.LogEntry{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Level:     logging.LevelError,
		Subsystem: "Monitor",
		Message:   "persist failed",
		Err:       errors.New("disk full"),
	})

	assert.Contains(t, line, "12:00:00")
	assert.Contains(t, line, "Monitor")
	assert.Contains(t, line, "persist failed: disk full")
}

func TestCopyAlertWithoutAlertsSetsStatus(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(model)

	assert.Equal(t, "No alerts to copy", m.statusMsg)
	require.NotNil(t, cmd)
}

func TestViewBeforeFirstSnapshot(t *testing.T) {
	m := newTestModel()
	out := m.View()
	assert.Contains(t, out, "waiting for first polling round")
	assert.Contains(t, out, "questctl monitor")
}

func TestViewRendersDashboardAndStatus(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(snapshotMsg(monitor.Snapshot{
		GeneratedAt: time.Now(),
		Overall:     monitor.OverallCritical,
		Services:    []monitor.ServiceReport{{Name: "api", Status: monitor.StatusUnhealthy}},
	}))
	m = updated.(model)

	out := m.View()
	assert.Contains(t, out, "api")
	assert.True(t, strings.Contains(out, "CRITICAL"))
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"questctl/internal/monitor"
	"questctl/pkg/logging"
)

// Run starts the dashboard and blocks until the user quits or the context is
// cancelled. The monitor must already be started; its render timer feeds the
// snapshots channel.
func Run(ctx context.Context, mon *monitor.Monitor, snapshots <-chan monitor.Snapshot, logCh <-chan logging.LogEntry) error {
	p := tea.NewProgram(newModel(mon, snapshots, logCh), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

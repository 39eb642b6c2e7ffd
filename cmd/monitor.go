package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"questctl/internal/config"
	"questctl/internal/monitor"
	"questctl/internal/store"
	"questctl/internal/tui"
	"questctl/pkg/logging"
)

func newMonitorCmd() *cobra.Command {
	var (
		configPath string
		noTUI      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the production services and record health reports",
		Long: `Polls every configured service on a fixed interval, keeps rolling
latency and availability metrics, raises alerts when thresholds are crossed
and writes a daily report plus an append-only alert log.

By default a live terminal dashboard is shown. With --no-tui the dashboard
is printed to stdout on every render tick instead, which suits logs and CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadMonitorConfig(configPath)
			if err != nil {
				return err
			}

			level := logging.LevelInfo
			if verbose {
				level = logging.LevelDebug
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st := store.New("deployments", cfg.DataDir)

			if noTUI {
				logging.InitForCLI(level, os.Stderr)
				mon := monitor.New(monitor.Config{
					Monitor: cfg,
					Store:   st,
					OnRender: func(s monitor.Snapshot) {
						fmt.Println(monitor.RenderDashboard(s))
					},
				})
				mon.Start(ctx)
				<-ctx.Done()
				mon.Stop()
				return nil
			}

			logCh := logging.InitForTUI(level)
			defer logging.CloseTUIChannel()

			snapshots := make(chan monitor.Snapshot, 8)
			mon := monitor.New(monitor.Config{
				Monitor: cfg,
				Store:   st,
				OnRender: func(s monitor.Snapshot) {
					// Never block the render timer on a busy TUI.
					select {
					case snapshots <- s:
					default:
					}
				},
			})
			mon.Start(ctx)
			defer mon.Stop()

			return tui.Run(ctx, mon, snapshots, logCh)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config/monitor.yaml", "Path to the monitor configuration file")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print the dashboard to stdout instead of running the TUI")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	return cmd
}

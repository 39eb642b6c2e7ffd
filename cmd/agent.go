package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"questctl/internal/agent"
	"questctl/internal/store"
	"questctl/pkg/logging"
)

func newAgentCmd() *cobra.Command {
	var (
		host           string
		port           int
		deploymentsDir string
		monitoringDir  string
	)

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Serve deployment and monitoring records over MCP",
		Long: `Runs an MCP server over SSE transport exposing the on-disk records
as tools, so an AI assistant can answer questions about the platform:

- deployment_status: the most recent deployment record
- monitor_report:    the monitor's daily health report
- recent_alerts:     the newest alerts for a day

Point your assistant's MCP configuration at http://<host>:<port>/sse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.LevelInfo, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := agent.New(agent.Config{
				Host:  host,
				Port:  port,
				Store: store.New(deploymentsDir, monitoringDir),
			}, rootCmd.Version)

			if err := srv.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return srv.Stop(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "Host to bind the SSE server to")
	cmd.Flags().IntVar(&port, "port", 8090, "Port to bind the SSE server to")
	cmd.Flags().StringVar(&deploymentsDir, "deployments-dir", "deployments", "Directory holding deployment records")
	cmd.Flags().StringVar(&monitoringDir, "monitoring-dir", "monitoring", "Directory holding monitor reports and alert logs")

	return cmd
}

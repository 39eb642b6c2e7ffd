package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"questctl/internal/config"
	"questctl/internal/deploy"
	"questctl/pkg/logging"
)

func newDeployCmd() *cobra.Command {
	var (
		configDir  string
		projectDir string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <environment>",
		Short: "Run the deployment pipeline against an environment",
		Long: `Runs the phased deployment pipeline: environment validation,
pre-deployment checks, service deployment, health checks, smoke tests,
traffic routing and post-deployment tasks.

Configuration is read from deploy-<environment>.json in the config
directory; anything missing falls back to built-in defaults. When a phase
at or after service deployment fails, already-deployed services are rolled
back in reverse order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment := args[0]
			if !config.ValidEnvironment(environment) {
				return fmt.Errorf("unknown environment %q (expected %s or %s)",
					environment, config.EnvStaging, config.EnvProduction)
			}

			level := logging.LevelInfo
			if verbose {
				level = logging.LevelDebug
			}
			logging.InitForCLI(level, os.Stderr)

			cfg, err := config.LoadDeployConfig(configDir, environment)
			if err != nil {
				return err
			}

			orch := deploy.New(deploy.Config{
				Deploy:     cfg,
				ProjectDir: projectDir,
			})
			return orch.Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "config", "Directory containing deploy-<environment>.json")
	cmd.Flags().StringVar(&projectDir, "project-dir", ".", "Root of the Quest Tracker checkout to deploy")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	return cmd
}

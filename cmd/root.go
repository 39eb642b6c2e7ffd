package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "questctl",
	Short: "Deploy and monitor the Quest Tracker platform",
	Long: `questctl drives the Quest Tracker deployment pipeline and watches the
production services once they are live.

The deploy command runs the phased pipeline against staging or production,
rolling the release back automatically when a late phase fails. The monitor
command polls the production services, renders a live dashboard and records
daily health reports and alert logs.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed deployments)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "questctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newMonitorCmd())
	rootCmd.AddCommand(newAgentCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

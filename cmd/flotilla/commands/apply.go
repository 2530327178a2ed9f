package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flotilla/cmd/flotilla/handlers"
)

// Apply returns the command for converging the whole environment.
//
// It provisions the network and cluster, then renders and deploys every
// trader in the registry. The command is declarative: re-running it
// converges on the configured state without duplicating resources, and
// unchanged traders are server-side no-ops.
//
// Optional flags:
//
//	--config, -c: Path to environment configuration YAML file (default: flotilla.yaml)
//
// AWS credentials are taken from the standard SDK sources (environment,
// shared config, instance profile).
func Apply() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision infrastructure and deploy all traders",
		Long: `Create or update the trading environment.

This command provisions the network topology and managed cluster, then
deploys every trader declared in the registry. Traders are independent:
one failing to render or deploy does not block the others.

Examples:
  # Converge using flotilla.yaml in the current directory
  flotilla apply

  # Converge a specific environment
  flotilla apply -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: flotilla.yaml)")

	return cmd
}

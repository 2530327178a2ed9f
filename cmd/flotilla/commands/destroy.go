package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flotilla/cmd/flotilla/handlers"
)

// Destroy returns the command for tearing down the environment.
//
// The cluster is deleted first, then the network it runs in. Resources
// that are already gone are skipped, so a partial teardown can be
// re-invoked.
func Destroy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the cluster and network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: flotilla.yaml)")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flotilla/cmd/flotilla/handlers"
)

// Provision returns the command for provisioning infrastructure only.
//
// It runs the network and cluster phases without deploying any traders,
// which is useful for preparing an environment before the registry is
// populated.
func Provision() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision the network and cluster without deploying traders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: flotilla.yaml)")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flotilla/cmd/flotilla/handlers"
)

// Render returns the command for rendering trader manifests to stdout.
//
// Rendering needs no cloud credentials and no cluster; it expands the
// registry exactly as apply would and prints the resulting YAML, which
// makes configuration changes reviewable before they are deployed.
func Render() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "render [instance]",
		Short: "Render trader manifests to stdout without deploying",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			instance := ""
			if len(args) == 1 {
				instance = args[0]
			}
			return handlers.Render(configPath, instance)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: flotilla.yaml)")

	return cmd
}

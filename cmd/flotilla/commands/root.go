// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the flotilla CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flotilla",
		Short: "Provision trading environments and deploy trader fleets",
	}

	cmd.AddCommand(Apply())
	cmd.AddCommand(Provision())
	cmd.AddCommand(Render())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Version())

	return cmd
}

// Package main is the entry point for the flotilla CLI.
//
// flotilla is a command-line tool for provisioning trading environments
// on AWS and deploying fleets of trading workers onto a managed
// Kubernetes cluster. It is stateless and declarative: the environment
// configuration file is the single source of truth, and every command
// converges the world toward it.
//
// Commands: apply, provision, render, destroy, version.
//
// For detailed usage information, run:
//
//	flotilla --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/flotilla/cmd/flotilla/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

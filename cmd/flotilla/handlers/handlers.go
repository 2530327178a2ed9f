// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"io"
	"os"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/k8s"
	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/internal/provisioning"
	"github.com/imamik/flotilla/internal/release"
	"github.com/imamik/flotilla/pkg/log"
)

// defaultConfigPath is used when no --config flag is given.
const defaultConfigPath = "flotilla.yaml"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newCloudClient creates the cloud provisioning client.
	newCloudClient = func(ctx context.Context, region string) (aws.CloudManager, error) {
		return aws.NewRealClient(ctx, region)
	}

	// newClusterClient creates a Kubernetes client from cluster access.
	newClusterClient = func(access *aws.ClusterAccess) (k8s.Client, error) {
		return k8s.NewFromAccess(access)
	}

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// stdout is the destination for rendered output (for testing injection).
	stdout io.Writer = os.Stdout
)

// loadConfig resolves the config path and loads the environment
// configuration, then initializes logging from it.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: true})
	return cfg, nil
}

// renderTarget derives the shared release target from the configuration.
func renderTarget(cfg *config.Config) release.Target {
	return release.Target{
		ChartName:    cfg.Chart.Name,
		ChartVersion: cfg.Chart.Version,
		Namespace:    cfg.Chart.Namespace,
	}
}

package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/internal/provisioning"
	"github.com/imamik/flotilla/internal/provisioning/cluster"
	"github.com/imamik/flotilla/internal/provisioning/network"
)

// Provision creates or converges the environment's infrastructure:
// the network topology first, then the managed cluster on top of it.
// Both phases are idempotent, so re-running after a failure resumes
// where the previous run stopped.
func Provision(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize cloud client: %w", err)
	}

	_, err = provisionInfrastructure(ctx, cfg, cloud)
	return err
}

// provisionInfrastructure runs the network and cluster phases and
// returns the populated provisioning context for callers that continue
// on to deployment.
func provisionInfrastructure(ctx context.Context, cfg *config.Config, cloud aws.CloudManager) (*provisioning.Context, error) {
	pCtx := newProvisioningContext(ctx, cfg, cloud)

	pCtx.Logger.Info().Str("environment", cfg.Environment).Msg("provisioning network")
	if err := network.NewProvisioner(cloud).Provision(pCtx); err != nil {
		return nil, err
	}

	pCtx.Logger.Info().Str("environment", cfg.Environment).Msg("provisioning cluster")
	if err := cluster.NewProvisioner(cloud).Provision(pCtx, pCtx.State.SubnetIDs); err != nil {
		return nil, err
	}

	return pCtx, nil
}

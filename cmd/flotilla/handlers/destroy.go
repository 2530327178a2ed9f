package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/flotilla/internal/util/naming"
	"github.com/imamik/flotilla/pkg/log"
)

// Destroy tears down the environment: the cluster first, then the
// network it runs in. Resources that are already gone are skipped, so
// a partially destroyed environment can be destroyed again.
func Destroy(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize cloud client: %w", err)
	}

	logger := log.WithComponent("destroy")

	clusterName := naming.Cluster(cfg.Environment)
	logger.Info().Str("cluster", clusterName).Msg("deleting cluster")
	if err := cloud.DeleteCluster(ctx, clusterName); err != nil {
		return fmt.Errorf("failed to delete cluster %s: %w", clusterName, err)
	}

	logger.Info().Str("environment", cfg.Environment).Msg("deleting network")
	if err := cloud.DeleteNetwork(ctx, cfg.Environment); err != nil {
		return fmt.Errorf("failed to delete network for %s: %w", cfg.Environment, err)
	}

	logger.Info().Str("environment", cfg.Environment).Msg("environment destroyed")
	return nil
}

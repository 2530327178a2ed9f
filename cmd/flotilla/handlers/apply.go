package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/flotilla/internal/release"
	"github.com/imamik/flotilla/pkg/log"
)

// Apply converges the whole environment: infrastructure first, then
// every trader release in the registry.
//
// The deployment half treats instances independently. A trader that
// fails to render or apply is reported and skipped; the remaining
// traders still deploy. The command fails if any instance failed.
func Apply(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cloud, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to initialize cloud client: %w", err)
	}

	pCtx, err := provisionInfrastructure(ctx, cfg, cloud)
	if err != nil {
		return err
	}

	client, err := newClusterClient(pCtx.State.Access)
	if err != nil {
		return fmt.Errorf("failed to initialize cluster client: %w", err)
	}

	target := renderTarget(cfg)
	releases, errs := release.RenderAll(target, cfg.Traders)

	if err := client.EnsureNamespace(ctx, target.Namespace); err != nil {
		return err
	}

	for _, rel := range releases {
		logger := log.WithInstance(rel.Instance)
		if err := client.ApplyRelease(ctx, rel); err != nil {
			logger.Error().Err(err).Msg("deploy failed")
			errs = append(errs, err)
			continue
		}
		logger.Info().
			Str("name", rel.Name).
			Str("params_hash", rel.Deployment.Annotations[release.HashAnnotation]).
			Msg("deployed")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d traders failed: %w", len(errs), len(cfg.Traders), errors.Join(errs...))
	}
	return nil
}

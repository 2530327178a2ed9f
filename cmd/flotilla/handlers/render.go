package handlers

import (
	"errors"
	"fmt"

	"github.com/imamik/flotilla/internal/release"
)

// Render expands trader releases to multi-document YAML on stdout
// without touching any cloud API. With an instance name, only that
// trader is rendered; otherwise the whole registry is.
func Render(configPath, instance string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	target := renderTarget(cfg)

	if instance != "" {
		rel, err := release.RenderOne(target, cfg.Traders, instance)
		if err != nil {
			return err
		}
		return writeManifests(rel)
	}

	releases, errs := release.RenderAll(target, cfg.Traders)
	for _, rel := range releases {
		if err := writeManifests(rel); err != nil {
			return err
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d traders failed to render: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

func writeManifests(rel *release.Release) error {
	manifests, err := rel.Manifests()
	if err != nil {
		return err
	}
	_, err = stdout.Write(manifests)
	return err
}

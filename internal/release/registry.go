package release

import (
	"fmt"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/errdefs"
)

// RenderAll expands every registered trader against the shared target.
// Instances are independent: a failing one contributes an error and is
// skipped, the rest still render. Releases come back in registry order.
func RenderAll(target Target, traders []config.TraderConfig) ([]*Release, []error) {
	releases := make([]*Release, 0, len(traders))
	var errs []error

	seen := make(map[string]string, len(traders))
	for _, trader := range traders {
		rel, err := Render(target, trader)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		// Truncation can collapse two long instance names onto the same
		// object name; catch that before anything is applied.
		if other, ok := seen[rel.Name]; ok {
			errs = append(errs, errdefs.Render(trader.Name,
				fmt.Errorf("derived name %q collides with instance %q", rel.Name, other)))
			continue
		}
		seen[rel.Name] = trader.Name
		releases = append(releases, rel)
	}
	return releases, errs
}

// RenderOne expands a single trader selected by instance name.
func RenderOne(target Target, traders []config.TraderConfig, instance string) (*Release, error) {
	for _, trader := range traders {
		if trader.Name == instance {
			return Render(target, trader)
		}
	}
	return nil, errdefs.Configuration("unknown trader instance %q", instance)
}

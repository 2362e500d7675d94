package helm

import "github.com/rfleet/rfleet/internal/config"

// ChartSpec identifies one installable chart release.
type ChartSpec struct {
	Repository string
	Name       string
	Version    string
}

// GetChartSpec returns the chart spec for the given add-on name, applying
// any overrides from the add-on config. Users can pin a different version or
// point at a mirror without touching code.
func GetChartSpec(name string, cfg config.AddonConfig) ChartSpec {
	spec, ok := DefaultChartSpecs[name]
	if !ok {
		// Return empty spec if the add-on is unknown - caller should handle this
		return ChartSpec{}
	}

	if cfg.Repository != "" {
		spec.Repository = cfg.Repository
	}
	if cfg.Chart != "" {
		spec.Name = cfg.Chart
	}
	if cfg.Version != "" {
		spec.Version = cfg.Version
	}

	return spec
}

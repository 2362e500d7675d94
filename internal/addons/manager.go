package addons

import (
	"errors"
	"fmt"

	"github.com/rfleet/rfleet/internal/addons/helm"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// Manager installs the enabled add-ons in order against the provisioned
// cluster. Installs are idempotent: an existing release is upgraded in place.
type Manager struct {
	factory InstallerFactory
}

// NewManager creates a manager backed by the Helm client.
func NewManager() *Manager {
	return &Manager{
		factory: func(kubeconfig []byte, namespace string) (Installer, error) {
			return helm.NewClient(kubeconfig, namespace)
		},
	}
}

// NewManagerWithFactory creates a manager with a custom installer factory,
// used by tests to avoid real Helm installs.
func NewManagerWithFactory(factory InstallerFactory) *Manager {
	return &Manager{factory: factory}
}

// Apply installs or upgrades every enabled add-on. Disabled add-ons are
// skipped without touching their releases. The cluster kubeconfig must be
// present in state before any enabled add-on can install.
func (m *Manager) Apply(ctx *provisioning.Context) error {
	var enabled []Addon
	for _, addon := range Addons(ctx.Config) {
		if !addon.Config.Enabled {
			ctx.Observer.Event(provisioning.Event{
				Type:     provisioning.EventAddonSkipped,
				Phase:    "addons",
				Resource: addon.Name,
				Message:  "disabled, leaving any existing release untouched",
			})
			continue
		}
		enabled = append(enabled, addon)
	}
	if len(enabled) == 0 {
		return nil
	}

	if len(ctx.State.Kubeconfig) == 0 {
		return provisioning.E(provisioning.KindDependencyNotReady, "addons",
			errors.New("cluster kubeconfig not available"))
	}

	for _, addon := range enabled {
		if err := m.install(ctx, addon); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) install(ctx *provisioning.Context, addon Addon) error {
	ctx.State.Transition(addon.ReleaseName, "helm-release", "", provisioning.StatusCreating)

	values, err := m.buildValues(ctx, addon)
	if err != nil {
		ctx.State.Transition(addon.ReleaseName, "helm-release", "", provisioning.StatusFailed)
		return provisioning.E(provisioning.KindValidation, addon.Name, err)
	}

	installer, err := m.factory(ctx.State.Kubeconfig, addon.Config.Namespace)
	if err != nil {
		ctx.State.Transition(addon.ReleaseName, "helm-release", "", provisioning.StatusFailed)
		return provisioning.E(provisioning.KindInternal, addon.Name,
			fmt.Errorf("helm client: %w", err))
	}

	spec := helm.GetChartSpec(addon.Name, addon.Config)
	rel, err := installer.InstallOrUpgrade(ctx, addon.ReleaseName, spec, values)
	if err != nil {
		ctx.State.Transition(addon.ReleaseName, "helm-release", "", provisioning.StatusFailed)
		return provisioning.E(provisioning.KindInternal, addon.Name,
			fmt.Errorf("install release %s: %w", addon.ReleaseName, err))
	}

	version := ""
	if rel != nil && rel.Chart != nil && rel.Chart.Metadata != nil {
		version = rel.Chart.Metadata.Version
	}
	ctx.State.Transition(addon.ReleaseName, "helm-release", addon.ReleaseName, provisioning.StatusReady)
	ctx.State.InstalledAddons = append(ctx.State.InstalledAddons, addon.Name)
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventAddonInstalled,
		Phase:    "addons",
		Resource: addon.Name,
		Message:  fmt.Sprintf("release %s in namespace %s", addon.ReleaseName, addon.Config.Namespace),
		Fields:   map[string]string{"chart": spec.Name, "version": version},
	})
	return nil
}

// buildValues layers chart values: generated defaults first, then inline
// config values, then the values file on top.
func (m *Manager) buildValues(ctx *provisioning.Context, addon Addon) (helm.Values, error) {
	values := addon.Values(ctx)
	if len(addon.Config.Values) > 0 {
		values = helm.Merge(values, helm.Values(addon.Config.Values))
	}
	if addon.Config.ValuesFile != "" {
		fileValues, err := helm.LoadValuesFile(addon.Config.ValuesFile)
		if err != nil {
			return nil, err
		}
		values = helm.Merge(values, fileValues)
	}
	return values, nil
}

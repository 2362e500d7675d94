package helm

import (
	"context"
	"fmt"
	"os"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/repo"
)

const (
	installTimeout   = 10 * time.Minute
	uninstallTimeout = 5 * time.Minute
)

// Client provides Helm operations using in-memory kubeconfig.
type Client struct {
	kubeconfig   []byte
	namespace    string
	actionConfig *action.Configuration
}

// NewClient creates a Helm client from kubeconfig bytes.
func NewClient(kubeconfig []byte, namespace string) (*Client, error) {
	c := &Client{
		kubeconfig: kubeconfig,
		namespace:  namespace,
	}

	actionConfig := new(action.Configuration)
	restGetter := newRESTClientGetter(kubeconfig, namespace)

	// Initialize with a no-op logger (suppress debug output)
	if err := actionConfig.Init(restGetter, namespace, "secret", func(format string, v ...interface{}) {}); err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}

	c.actionConfig = actionConfig
	return c, nil
}

// InstallOrUpgrade installs a chart or upgrades if already installed.
func (c *Client) InstallOrUpgrade(ctx context.Context, releaseName string, spec ChartSpec, values map[string]interface{}) (*release.Release, error) {
	exists, err := c.ReleaseExists(releaseName)
	if err != nil {
		return nil, err
	}
	if exists {
		return c.upgrade(ctx, releaseName, spec, values)
	}
	return c.install(ctx, releaseName, spec, values)
}

func (c *Client) install(ctx context.Context, releaseName string, spec ChartSpec, values map[string]interface{}) (*release.Release, error) {
	installClient := action.NewInstall(c.actionConfig)
	installClient.ReleaseName = releaseName
	installClient.Namespace = c.namespace
	installClient.CreateNamespace = true
	installClient.Version = spec.Version
	installClient.Wait = true
	installClient.Timeout = installTimeout

	chrt, err := c.loadChart(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	return installClient.RunWithContext(ctx, chrt, values)
}

func (c *Client) upgrade(ctx context.Context, releaseName string, spec ChartSpec, values map[string]interface{}) (*release.Release, error) {
	upgradeClient := action.NewUpgrade(c.actionConfig)
	upgradeClient.Namespace = c.namespace
	upgradeClient.Version = spec.Version
	upgradeClient.Wait = true
	upgradeClient.Timeout = installTimeout
	upgradeClient.ReuseValues = false // Use new values

	chrt, err := c.loadChart(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	return upgradeClient.RunWithContext(ctx, releaseName, chrt, values)
}

func (c *Client) loadChart(spec ChartSpec) (*chart.Chart, error) {
	settings := cli.New()

	chartPath, err := repo.FindChartInRepoURL(
		spec.Repository,
		spec.Name,
		spec.Version,
		"", "", "",
		getter.All(settings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", spec.Name, spec.Repository, err)
	}

	// Clean up the downloaded chart after loading
	defer func() {
		_ = os.Remove(chartPath)
	}()

	return loader.Load(chartPath)
}

// Uninstall removes a Helm release.
func (c *Client) Uninstall(releaseName string) error {
	uninstallClient := action.NewUninstall(c.actionConfig)
	uninstallClient.Wait = true
	uninstallClient.Timeout = uninstallTimeout

	_, err := uninstallClient.Run(releaseName)
	return err
}

// ReleaseExists checks if a release exists.
func (c *Client) ReleaseExists(releaseName string) (bool, error) {
	histClient := action.NewHistory(c.actionConfig)
	histClient.Max = 1
	if _, err := histClient.Run(releaseName); err != nil {
		return false, nil
	}
	return true, nil
}

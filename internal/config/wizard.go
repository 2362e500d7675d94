package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// wizardRegions are the regions offered by the init wizard. Any region works
// in the config file; the wizard just keeps the common ones one keypress away.
var wizardRegions = []huh.Option[string]{
	huh.NewOption("Frankfurt (eu-central-1)", "eu-central-1"),
	huh.NewOption("Ireland (eu-west-1)", "eu-west-1"),
	huh.NewOption("N. Virginia (us-east-1)", "us-east-1"),
	huh.NewOption("Oregon (us-west-2)", "us-west-2"),
	huh.NewOption("Singapore (ap-southeast-1)", "ap-southeast-1"),
}

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Name        string
	Region      string
	AZCount     int
	AMI         string
	FleetCount  int
	FleetPublic bool
	GenerateKey bool
	Cluster     bool
	Addons      []string
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Region:     "eu-central-1",
		AZCount:    2,
		FleetCount: DefaultFleetCount,
		Cluster:    true,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Deployment name").
				Description("Prefixes every AWS resource (DNS-safe, lowercase)").
				Placeholder("redis-prod").
				Value(&result.Name).
				Validate(validateName),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region for all resources").
				Options(wizardRegions...).
				Value(&result.Region),

			huh.NewSelect[int]().
				Title("Availability zones").
				Description("Subnets are spread across this many zones").
				Options(
					huh.NewOption("2 zones", 2),
					huh.NewOption("3 zones", 3),
				).
				Value(&result.AZCount),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Fleet AMI").
				Description("Machine image for the data store instances").
				Placeholder("ami-0123456789abcdef0").
				Value(&result.AMI).
				Validate(validateAMI),

			huh.NewSelect[int]().
				Title("Fleet size").
				Description("Fixed instance count; the group self-heals, it does not scale").
				Options(
					huh.NewOption("1 instance", 1),
					huh.NewOption("3 instances", 3),
					huh.NewOption("5 instances", 5),
				).
				Value(&result.FleetCount),

			huh.NewConfirm().
				Title("Public fleet addresses?").
				Description("Places instances in public subnets with public IPs").
				Value(&result.FleetPublic),

			huh.NewConfirm().
				Title("Generate an SSH key pair?").
				Description("Creates an ed25519 pair and imports it; the private key is saved locally").
				Value(&result.GenerateKey),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Provision a Kubernetes cluster?").
				Description("Managed EKS control plane plus a bounded node group").
				Value(&result.Cluster),

			huh.NewMultiSelect[string]().
				Title("Cluster add-ons").
				Description("Each is independently versioned and toggleable later").
				Options(
					huh.NewOption("Cluster autoscaler", "cluster_autoscaler").Selected(true),
					huh.NewOption("Argo CD (GitOps)", "argocd"),
					huh.NewOption("Argo Rollouts (progressive delivery)", "argo_rollouts"),
				).
				Value(&result.Addons),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard result to a fully defaulted Config so the
// written YAML is explicit and self-documenting.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		Name:   r.Name,
		Region: r.Region,
	}

	for i := 0; i < r.AZCount; i++ {
		cfg.Network.AZs = append(cfg.Network.AZs, fmt.Sprintf("%s%c", r.Region, 'a'+i))
	}

	cfg.Fleet.AMI = r.AMI
	cfg.Fleet.Count = r.FleetCount
	cfg.Fleet.GenerateKey = r.GenerateKey
	if r.FleetPublic {
		public := true
		cfg.Fleet.Public = &public
	}

	cluster := r.Cluster
	cfg.Cluster.Enabled = &cluster
	for _, addon := range r.Addons {
		switch addon {
		case "cluster_autoscaler":
			cfg.Cluster.Addons.ClusterAutoscaler.Enabled = true
		case "argocd":
			cfg.Cluster.Addons.ArgoCD.Enabled = true
		case "argo_rollouts":
			cfg.Cluster.Addons.ArgoRollouts.Enabled = true
		}
	}

	applyDefaults(cfg)
	return cfg
}

// validateName validates the deployment name.
func validateName(s string) error {
	if s == "" {
		return fmt.Errorf("name is required")
	}
	if len(s) > 63 {
		return fmt.Errorf("name must be 63 characters or less")
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("name can only contain lowercase letters, numbers, and hyphens")
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return fmt.Errorf("name cannot start or end with a hyphen")
	}
	return nil
}

// validateAMI validates the fleet machine image ID.
func validateAMI(s string) error {
	if s == "" {
		return fmt.Errorf("an AMI is required for the fleet")
	}
	if !strings.HasPrefix(s, "ami-") {
		return fmt.Errorf("expected an image ID like ami-0123456789abcdef0")
	}
	return nil
}

package config

import (
	"net"
	"regexp"

	"github.com/imamik/flotilla/internal/errdefs"
)

// instanceNamePattern restricts instance names to lowercase alphanumerics
// with '-' or '_' separators. Underscores are tolerated here and mapped to
// '-' during name derivation, since Kubernetes object names forbid them.
var instanceNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9_-]*[a-z0-9])?$`)

// Validate checks the configuration for common errors and returns a
// detailed error if validation fails. All failures are configuration
// errors: nothing has been provisioned yet when they surface.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return errdefs.Configuration("environment is required")
	}
	if c.Region == "" {
		return errdefs.Configuration("region is required")
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}
	if err := c.validateCluster(); err != nil {
		return err
	}
	return c.validateTraders()
}

func (c *Config) validateNetwork() error {
	if _, _, err := net.ParseCIDR(c.Network.CIDR); err != nil {
		return errdefs.Configuration("invalid network cidr %q: %v", c.Network.CIDR, err)
	}
	if c.Network.SubnetCount < 1 {
		return errdefs.Configuration("network subnet_count must be at least 1, got %d", c.Network.SubnetCount)
	}
	// Fail now rather than mid-provisioning if the block cannot hold the
	// requested subdivision.
	if _, err := PlanAddressSpace(c.Network.CIDR, c.Network.SubnetCount); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCluster() error {
	if c.Cluster.RoleARN == "" {
		return errdefs.Configuration("cluster role_arn is required")
	}
	if c.Cluster.NodeGroup.RoleARN == "" {
		return errdefs.Configuration("cluster node_group role_arn is required")
	}
	if c.Cluster.SubnetSlots < 2 {
		return errdefs.Configuration("cluster subnet_slots must be at least 2 (EKS requires two availability zones), got %d", c.Cluster.SubnetSlots)
	}
	if c.Cluster.SubnetSlots > c.Network.SubnetCount {
		return errdefs.Configuration("cluster subnet_slots %d exceeds network subnet_count %d",
			c.Cluster.SubnetSlots, c.Network.SubnetCount)
	}
	ng := c.Cluster.NodeGroup
	if ng.MinCount > ng.Count || ng.Count > ng.MaxCount {
		return errdefs.Configuration("node group counts must satisfy min <= count <= max, got %d <= %d <= %d",
			ng.MinCount, ng.Count, ng.MaxCount)
	}
	for _, admin := range c.Cluster.Admins {
		if admin.ARN == "" {
			return errdefs.Configuration("cluster admin entry is missing an arn")
		}
		if admin.Group != "admin" {
			return errdefs.Configuration("cluster admin %q has unknown group %q (only \"admin\" is supported)",
				admin.ARN, admin.Group)
		}
	}
	return nil
}

// validateTraders enforces the registry invariants: unique instance names
// and, per the isolation rule, a credential secret unique to each trader.
// The metrics-store secret is allowed to be shared.
func (c *Config) validateTraders() error {
	seenNames := make(map[string]bool, len(c.Traders))
	seenCredentials := make(map[string]string, len(c.Traders))

	for _, trader := range c.Traders {
		if trader.Name == "" {
			return errdefs.Configuration("trader entry is missing a name")
		}
		if !instanceNamePattern.MatchString(trader.Name) {
			return errdefs.Configuration("trader name %q is not a valid instance name", trader.Name)
		}
		if seenNames[trader.Name] {
			return errdefs.Configuration("duplicate trader name %q", trader.Name)
		}
		seenNames[trader.Name] = true

		if trader.Image.Repository == "" {
			return errdefs.Configuration("trader %q is missing an image repository", trader.Name)
		}
		if trader.CredentialsSecret == "" {
			return errdefs.Configuration("trader %q is missing a credentials_secret", trader.Name)
		}
		if trader.MetricsSecret == "" {
			return errdefs.Configuration("trader %q is missing a metrics_secret", trader.Name)
		}
		if other, ok := seenCredentials[trader.CredentialsSecret]; ok {
			return errdefs.Configuration("traders %q and %q share credentials_secret %q; each trader needs its own exchange account",
				other, trader.Name, trader.CredentialsSecret)
		}
		seenCredentials[trader.CredentialsSecret] = trader.Name
	}
	return nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flotilla/internal/errdefs"
)

func baseConfig() *Config {
	cfg := &Config{
		Environment: "trading-test",
		Region:      "us-east-1",
		Cluster: ClusterConfig{
			RoleARN: "arn:aws:iam::123456789012:role/eks-cluster",
			NodeGroup: NodeGroupConfig{
				RoleARN: "arn:aws:iam::123456789012:role/eks-nodes",
			},
		},
		Traders: []TraderConfig{
			{
				Name:              "red_trader",
				Image:             ImageConfig{Repository: "registry.example.com/trader"},
				CredentialsSecret: "red-trader-coinbase",
				MetricsSecret:     "influx-connection",
			},
			{
				Name:              "blue_trader",
				Image:             ImageConfig{Repository: "registry.example.com/trader"},
				CredentialsSecret: "blue-trader-coinbase",
				MetricsSecret:     "influx-connection",
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	assert.NoError(t, baseConfig().Validate())
}

func TestValidate_SharedMetricsSecretAllowed(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	require.Equal(t, cfg.Traders[0].MetricsSecret, cfg.Traders[1].MetricsSecret)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		errPart string
	}{
		{
			name:    "missing environment",
			mutate:  func(c *Config) { c.Environment = "" },
			errPart: "environment is required",
		},
		{
			name:    "missing region",
			mutate:  func(c *Config) { c.Region = "" },
			errPart: "region is required",
		},
		{
			name:    "bad cidr",
			mutate:  func(c *Config) { c.Network.CIDR = "10.42.0.0/99" },
			errPart: "invalid network cidr",
		},
		{
			name:    "zero subnets",
			mutate:  func(c *Config) { c.Network.SubnetCount = -3 },
			errPart: "subnet_count",
		},
		{
			name:    "cluster wants more subnets than exist",
			mutate:  func(c *Config) { c.Cluster.SubnetSlots = 9 },
			errPart: "exceeds network subnet_count",
		},
		{
			name:    "single subnet slot",
			mutate:  func(c *Config) { c.Cluster.SubnetSlots = 1 },
			errPart: "at least 2",
		},
		{
			name:    "missing cluster role",
			mutate:  func(c *Config) { c.Cluster.RoleARN = "" },
			errPart: "role_arn is required",
		},
		{
			name: "inconsistent node counts",
			mutate: func(c *Config) {
				c.Cluster.NodeGroup.MinCount = 5
				c.Cluster.NodeGroup.Count = 2
				c.Cluster.NodeGroup.MaxCount = 3
			},
			errPart: "min <= count <= max",
		},
		{
			name: "unknown admin group",
			mutate: func(c *Config) {
				c.Cluster.Admins = []AdminPrincipal{{ARN: "arn:aws:iam::1:user/bob", Group: "viewer"}}
			},
			errPart: "unknown group",
		},
		{
			name:    "duplicate trader name",
			mutate:  func(c *Config) { c.Traders[1].Name = "red_trader" },
			errPart: "duplicate trader name",
		},
		{
			name:    "invalid trader name",
			mutate:  func(c *Config) { c.Traders[0].Name = "Red Trader!" },
			errPart: "not a valid instance name",
		},
		{
			name:    "missing credentials secret",
			mutate:  func(c *Config) { c.Traders[0].CredentialsSecret = "" },
			errPart: "credentials_secret",
		},
		{
			name:    "shared credentials secret",
			mutate:  func(c *Config) { c.Traders[1].CredentialsSecret = "red-trader-coinbase" },
			errPart: "share credentials_secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := baseConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errdefs.IsConfiguration(err), "expected ConfigurationError, got %v", err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

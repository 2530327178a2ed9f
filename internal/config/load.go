package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Defaults applied by LoadFile when the config file leaves them unset.
const (
	DefaultCIDR         = "10.42.0.0/16"
	DefaultSubnetCount  = 3
	DefaultSubnetSlots  = 2
	DefaultChartName    = "trader"
	DefaultNamespace    = "traders"
	DefaultK8sVersion   = "1.31"
	DefaultInstanceType = "t3.medium"
	DefaultDiskSizeGB   = 50
	DefaultNodeCount    = 2
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Network.CIDR == "" {
		c.Network.CIDR = DefaultCIDR
	}
	if c.Network.SubnetCount == 0 {
		c.Network.SubnetCount = DefaultSubnetCount
	}
	if c.Cluster.SubnetSlots == 0 {
		c.Cluster.SubnetSlots = DefaultSubnetSlots
	}
	if c.Cluster.Version == "" {
		c.Cluster.Version = DefaultK8sVersion
	}
	if c.Cluster.NodeGroup.InstanceType == "" {
		c.Cluster.NodeGroup.InstanceType = DefaultInstanceType
	}
	if c.Cluster.NodeGroup.DiskSizeGB == 0 {
		c.Cluster.NodeGroup.DiskSizeGB = DefaultDiskSizeGB
	}
	if c.Cluster.NodeGroup.Count == 0 {
		c.Cluster.NodeGroup.Count = DefaultNodeCount
	}
	if c.Cluster.NodeGroup.MinCount == 0 {
		c.Cluster.NodeGroup.MinCount = c.Cluster.NodeGroup.Count
	}
	if c.Cluster.NodeGroup.MaxCount == 0 {
		c.Cluster.NodeGroup.MaxCount = c.Cluster.NodeGroup.Count
	}
	if c.Chart.Name == "" {
		c.Chart.Name = DefaultChartName
	}
	if c.Chart.Namespace == "" {
		c.Chart.Namespace = DefaultNamespace
	}
	for i := range c.Cluster.Admins {
		if c.Cluster.Admins[i].Group == "" {
			c.Cluster.Admins[i].Group = "admin"
		}
	}
}

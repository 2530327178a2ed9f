// Package config defines the configuration structure and methods for the application.
package config

// Config holds the full environment configuration: the network topology,
// the managed cluster shape, and the trader instance registry.
type Config struct {
	// Environment names the deployment environment (e.g. "trading-prod").
	// Every cloud resource name is derived from it.
	Environment string `mapstructure:"environment" yaml:"environment"`

	// Region is the AWS region resources are provisioned in.
	Region string `mapstructure:"region" yaml:"region"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster"`
	Chart   ChartConfig   `mapstructure:"chart" yaml:"chart"`

	// Traders is the instance registry: one entry per independently
	// configured trading worker. Entries are re-declared on every run,
	// never patched in place.
	Traders []TraderConfig `mapstructure:"traders" yaml:"traders"`
}

// NetworkConfig defines the environment's address space.
type NetworkConfig struct {
	// CIDR is the top-level address block all subnets are derived from.
	CIDR string `mapstructure:"cidr" yaml:"cidr"`

	// SubnetCount is the number of public subnets to derive.
	SubnetCount int `mapstructure:"subnet_count" yaml:"subnet_count"`
}

// ClusterConfig defines the managed Kubernetes cluster.
type ClusterConfig struct {
	// Version is the Kubernetes control plane version.
	Version string `mapstructure:"version" yaml:"version"`

	// RoleARN is the IAM role assumed by the cluster control plane.
	RoleARN string `mapstructure:"role_arn" yaml:"role_arn"`

	// SubnetSlots is how many of the public subnets the cluster binds to.
	SubnetSlots int `mapstructure:"subnet_slots" yaml:"subnet_slots"`

	NodeGroup NodeGroupConfig `mapstructure:"node_group" yaml:"node_group"`

	// Admins lists principals granted cluster-admin access. Grants are
	// idempotent: re-applying the list never duplicates an entry.
	Admins []AdminPrincipal `mapstructure:"admins" yaml:"admins"`
}

// NodeGroupConfig defines the default worker pool. It is declarative
// desired state: scaling means editing the spec and re-applying.
type NodeGroupConfig struct {
	RoleARN      string `mapstructure:"role_arn" yaml:"role_arn"`
	InstanceType string `mapstructure:"instance_type" yaml:"instance_type"`
	DiskSizeGB   int    `mapstructure:"disk_size_gb" yaml:"disk_size_gb"`
	Count        int    `mapstructure:"count" yaml:"count"`
	MinCount     int    `mapstructure:"min_count" yaml:"min_count"`
	MaxCount     int    `mapstructure:"max_count" yaml:"max_count"`
}

// AdminPrincipal maps one human principal to a fixed permission group.
type AdminPrincipal struct {
	ARN string `mapstructure:"arn" yaml:"arn"`
	// Group is the access policy group; only "admin" is recognized today.
	Group string `mapstructure:"group" yaml:"group"`
}

// ChartConfig identifies the shared deployable unit all traders are
// instances of.
type ChartConfig struct {
	// Name is the chart identity used in name and label derivation.
	Name string `mapstructure:"name" yaml:"name"`

	// Version doubles as the default image tag when a trader does not
	// override it.
	Version string `mapstructure:"version" yaml:"version"`

	// Namespace is the cluster namespace all releases are applied to.
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// TraderConfig is one entry of the instance registry: a single deployable
// trading-worker instance with its own parameters and secret references.
type TraderConfig struct {
	// Name is the instance name, unique within the registry.
	Name string `mapstructure:"name" yaml:"name"`

	// OverrideName, when set, replaces the derived resource name entirely.
	OverrideName string `mapstructure:"override_name" yaml:"override_name"`

	Image ImageConfig `mapstructure:"image" yaml:"image"`

	Params Params `mapstructure:"params" yaml:"params"`

	// CredentialsSecret names the pre-existing secret holding exchange
	// credentials. Unique per trader; contents are opaque to this tool.
	CredentialsSecret string `mapstructure:"credentials_secret" yaml:"credentials_secret"`

	// MetricsSecret names the metrics-store connection secret. May be
	// shared by traders of the same logical group.
	MetricsSecret string `mapstructure:"metrics_secret" yaml:"metrics_secret"`

	Resources ResourceConfig `mapstructure:"resources" yaml:"resources"`
}

// ImageConfig holds container image coordinates in {repository}:{tag} form.
type ImageConfig struct {
	Repository string `mapstructure:"repository" yaml:"repository"`
	// Tag falls back to the chart version when empty.
	Tag string `mapstructure:"tag" yaml:"tag"`
}

// ResourceConfig holds per-instance compute requests and limits.
type ResourceConfig struct {
	CPURequest    string `mapstructure:"cpu_request" yaml:"cpu_request"`
	MemoryRequest string `mapstructure:"memory_request" yaml:"memory_request"`
	CPULimit      string `mapstructure:"cpu_limit" yaml:"cpu_limit"`
	MemoryLimit   string `mapstructure:"memory_limit" yaml:"memory_limit"`
}

// Params is the enumerated strategy parameter table. Fields are pointers so
// that an omitted key is distinguishable from a zero value; the full set is
// required and validated at render time. Values stay typed until the final
// render boundary, where they are converted to strings.
type Params struct {
	// EMAPeriods is the exponential moving average window length.
	EMAPeriods *int `mapstructure:"ema_periods" yaml:"ema_periods"`

	// BuyFraction and SellFraction are order-size fractions in (0, 1].
	BuyFraction  *float64 `mapstructure:"buy_fraction" yaml:"buy_fraction"`
	SellFraction *float64 `mapstructure:"sell_fraction" yaml:"sell_fraction"`

	// StopLoss is the exit threshold as a fraction of the reference price.
	StopLoss *float64 `mapstructure:"stop_loss" yaml:"stop_loss"`

	// Cooldown and target windows, in seconds.
	CooldownSeconds   *int `mapstructure:"cooldown_seconds" yaml:"cooldown_seconds"`
	BuyTargetSeconds  *int `mapstructure:"buy_target_seconds" yaml:"buy_target_seconds"`
	SellTargetSeconds *int `mapstructure:"sell_target_seconds" yaml:"sell_target_seconds"`
	RMMISeconds       *int `mapstructure:"rmmi_seconds" yaml:"rmmi_seconds"`

	// ConcentrationLimit caps the portfolio fraction held in one market.
	ConcentrationLimit *float64 `mapstructure:"concentration_limit" yaml:"concentration_limit"`

	// ProbabilisticBuying is a boolean-as-int flag (0 or 1).
	ProbabilisticBuying *int `mapstructure:"probabilistic_buying" yaml:"probabilistic_buying"`

	// Extra carries unknown keys through to the environment verbatim.
	Extra map[string]string `mapstructure:"extra" yaml:"extra"`
}

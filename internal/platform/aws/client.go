// Package aws provides a wrapper around the AWS EC2 and EKS APIs.
package aws

import (
	"context"
)

// SubnetCreateOpts holds all parameters for creating one public subnet.
type SubnetCreateOpts struct {
	Name             string
	VPCID            string
	CIDR             string
	AvailabilityZone string
	// Public marks the subnet for automatic public IP assignment.
	Public bool
	Tags   map[string]string
}

// SubnetInfo identifies a provisioned subnet.
type SubnetInfo struct {
	ID               string
	CIDR             string
	AvailabilityZone string
}

// ClusterCreateOpts holds all parameters for declaring the managed cluster.
type ClusterCreateOpts struct {
	Name      string
	Version   string
	RoleARN   string
	SubnetIDs []string
	Tags      map[string]string
}

// NodeGroupOpts holds the declarative desired state of a worker pool.
type NodeGroupOpts struct {
	ClusterName  string
	Name         string
	RoleARN      string
	SubnetIDs    []string
	InstanceType string
	DiskSizeGB   int32
	DesiredSize  int32
	MinSize      int32
	MaxSize      int32
	Tags         map[string]string
}

// ClusterAccess carries the connection coordinates for the orchestration
// apply step. It is handed to the Kubernetes client and never persisted.
type ClusterAccess struct {
	Endpoint string
	CAData   []byte
	Token    string
}

// NetworkManager defines the interface for managing the network topology.
// All Ensure methods are idempotent: they locate an existing resource by
// its Name tag before creating anything.
type NetworkManager interface {
	EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (string, error)
	EnsureSubnet(ctx context.Context, opts SubnetCreateOpts) (SubnetInfo, error)
	EnsureInternetGateway(ctx context.Context, name, vpcID string, tags map[string]string) (string, error)
	// EnsureRouteTable creates the single shared route table with a
	// default route through the gateway.
	EnsureRouteTable(ctx context.Context, name, vpcID, gatewayID string, tags map[string]string) (string, error)
	AssociateRouteTable(ctx context.Context, routeTableID, subnetID string) error
	// EnsureAllowAllACL creates the permissive network ACL and attaches
	// it to every given subnet.
	EnsureAllowAllACL(ctx context.Context, name, vpcID string, subnetIDs []string, tags map[string]string) (string, error)
	// AvailabilityZones lists the zones subnets are spread across.
	AvailabilityZones(ctx context.Context) ([]string, error)
	// DeleteNetwork tears down the environment's network objects in
	// dependency order. Missing resources are not an error.
	DeleteNetwork(ctx context.Context, env string) error
}

// ClusterManager defines the interface for managing the orchestration cluster.
type ClusterManager interface {
	EnsureCluster(ctx context.Context, opts ClusterCreateOpts) error
	// WaitForClusterActive blocks until the control plane reports active.
	WaitForClusterActive(ctx context.Context, name string) error
	EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error
	// EnsureAdminAccess grants one principal cluster-admin. Re-applying
	// an existing grant is not an error.
	EnsureAdminAccess(ctx context.Context, clusterName, principalARN string) error
	GetClusterAccess(ctx context.Context, name string) (*ClusterAccess, error)
	DeleteCluster(ctx context.Context, name string) error
}

// CloudManager combines all cloud provisioning interfaces.
type CloudManager interface {
	NetworkManager
	ClusterManager
}

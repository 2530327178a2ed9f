package aws

import (
	"context"
	"fmt"
)

// MockClient implements CloudManager for tests. Every method has a
// corresponding Func field; when nil, a canned default is returned.
type MockClient struct {
	EnsureVPCFunc             func(ctx context.Context, name, cidr string, tags map[string]string) (string, error)
	EnsureSubnetFunc          func(ctx context.Context, opts SubnetCreateOpts) (SubnetInfo, error)
	EnsureInternetGatewayFunc func(ctx context.Context, name, vpcID string, tags map[string]string) (string, error)
	EnsureRouteTableFunc      func(ctx context.Context, name, vpcID, gatewayID string, tags map[string]string) (string, error)
	AssociateRouteTableFunc   func(ctx context.Context, routeTableID, subnetID string) error
	EnsureAllowAllACLFunc     func(ctx context.Context, name, vpcID string, subnetIDs []string, tags map[string]string) (string, error)
	AvailabilityZonesFunc     func(ctx context.Context) ([]string, error)
	DeleteNetworkFunc         func(ctx context.Context, env string) error

	EnsureClusterFunc        func(ctx context.Context, opts ClusterCreateOpts) error
	WaitForClusterActiveFunc func(ctx context.Context, name string) error
	EnsureNodeGroupFunc      func(ctx context.Context, opts NodeGroupOpts) error
	EnsureAdminAccessFunc    func(ctx context.Context, clusterName, principalARN string) error
	GetClusterAccessFunc     func(ctx context.Context, name string) (*ClusterAccess, error)
	DeleteClusterFunc        func(ctx context.Context, name string) error
}

var _ CloudManager = (*MockClient)(nil)

func (m *MockClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (string, error) {
	if m.EnsureVPCFunc != nil {
		return m.EnsureVPCFunc(ctx, name, cidr, tags)
	}
	return "vpc-mock", nil
}

func (m *MockClient) EnsureSubnet(ctx context.Context, opts SubnetCreateOpts) (SubnetInfo, error) {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, opts)
	}
	return SubnetInfo{
		ID:               fmt.Sprintf("subnet-mock-%s", opts.Name),
		CIDR:             opts.CIDR,
		AvailabilityZone: opts.AvailabilityZone,
	}, nil
}

func (m *MockClient) EnsureInternetGateway(ctx context.Context, name, vpcID string, tags map[string]string) (string, error) {
	if m.EnsureInternetGatewayFunc != nil {
		return m.EnsureInternetGatewayFunc(ctx, name, vpcID, tags)
	}
	return "igw-mock", nil
}

func (m *MockClient) EnsureRouteTable(ctx context.Context, name, vpcID, gatewayID string, tags map[string]string) (string, error) {
	if m.EnsureRouteTableFunc != nil {
		return m.EnsureRouteTableFunc(ctx, name, vpcID, gatewayID, tags)
	}
	return "rtb-mock", nil
}

func (m *MockClient) AssociateRouteTable(ctx context.Context, routeTableID, subnetID string) error {
	if m.AssociateRouteTableFunc != nil {
		return m.AssociateRouteTableFunc(ctx, routeTableID, subnetID)
	}
	return nil
}

func (m *MockClient) EnsureAllowAllACL(ctx context.Context, name, vpcID string, subnetIDs []string, tags map[string]string) (string, error) {
	if m.EnsureAllowAllACLFunc != nil {
		return m.EnsureAllowAllACLFunc(ctx, name, vpcID, subnetIDs, tags)
	}
	return "acl-mock", nil
}

func (m *MockClient) AvailabilityZones(ctx context.Context) ([]string, error) {
	if m.AvailabilityZonesFunc != nil {
		return m.AvailabilityZonesFunc(ctx)
	}
	return []string{"us-east-1a", "us-east-1b", "us-east-1c"}, nil
}

func (m *MockClient) DeleteNetwork(ctx context.Context, env string) error {
	if m.DeleteNetworkFunc != nil {
		return m.DeleteNetworkFunc(ctx, env)
	}
	return nil
}

func (m *MockClient) EnsureCluster(ctx context.Context, opts ClusterCreateOpts) error {
	if m.EnsureClusterFunc != nil {
		return m.EnsureClusterFunc(ctx, opts)
	}
	return nil
}

func (m *MockClient) WaitForClusterActive(ctx context.Context, name string) error {
	if m.WaitForClusterActiveFunc != nil {
		return m.WaitForClusterActiveFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error {
	if m.EnsureNodeGroupFunc != nil {
		return m.EnsureNodeGroupFunc(ctx, opts)
	}
	return nil
}

func (m *MockClient) EnsureAdminAccess(ctx context.Context, clusterName, principalARN string) error {
	if m.EnsureAdminAccessFunc != nil {
		return m.EnsureAdminAccessFunc(ctx, clusterName, principalARN)
	}
	return nil
}

func (m *MockClient) GetClusterAccess(ctx context.Context, name string) (*ClusterAccess, error) {
	if m.GetClusterAccessFunc != nil {
		return m.GetClusterAccessFunc(ctx, name)
	}
	return &ClusterAccess{
		Endpoint: "https://mock.eks.example.com",
		CAData:   []byte("mock-ca"),
		Token:    "k8s-aws-v1.mock",
	}, nil
}

func (m *MockClient) DeleteCluster(ctx context.Context, name string) error {
	if m.DeleteClusterFunc != nil {
		return m.DeleteClusterFunc(ctx, name)
	}
	return nil
}

package network

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/errdefs"
	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/internal/provisioning"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Environment: "trading-test",
		Region:      "us-east-1",
		Network: config.NetworkConfig{
			CIDR:        "10.42.0.0/16",
			SubnetCount: 3,
		},
	}
	return cfg
}

func TestProvision_CreatesFullTopology(t *testing.T) {
	t.Parallel()

	var subnetOpts []aws.SubnetCreateOpts
	var associations []string
	var aclSubnets []string

	mock := &aws.MockClient{
		EnsureSubnetFunc: func(_ context.Context, opts aws.SubnetCreateOpts) (aws.SubnetInfo, error) {
			subnetOpts = append(subnetOpts, opts)
			return aws.SubnetInfo{ID: "subnet-" + opts.Name, CIDR: opts.CIDR, AvailabilityZone: opts.AvailabilityZone}, nil
		},
		AssociateRouteTableFunc: func(_ context.Context, routeTableID, subnetID string) error {
			assert.Equal(t, "rtb-mock", routeTableID)
			associations = append(associations, subnetID)
			return nil
		},
		EnsureAllowAllACLFunc: func(_ context.Context, _, _ string, subnetIDs []string, _ map[string]string) (string, error) {
			aclSubnets = subnetIDs
			return "acl-mock", nil
		},
	}

	ctx := provisioning.NewContext(context.Background(), testConfig(), mock)
	err := NewProvisioner(mock).Provision(ctx)
	require.NoError(t, err)

	// One subnet per planner output, index-derived names, AZ spread.
	require.Len(t, subnetOpts, 3)
	assert.Equal(t, "trading-test-public-0", subnetOpts[0].Name)
	assert.Equal(t, "10.42.0.0/20", subnetOpts[0].CIDR)
	assert.Equal(t, "us-east-1a", subnetOpts[0].AvailabilityZone)
	assert.Equal(t, "10.42.16.0/20", subnetOpts[1].CIDR)
	assert.Equal(t, "us-east-1b", subnetOpts[1].AvailabilityZone)
	assert.Equal(t, "10.42.32.0/20", subnetOpts[2].CIDR)
	for _, opts := range subnetOpts {
		assert.True(t, opts.Public, "all planner subnets are public-facing")
		assert.Equal(t, "shared", opts.Tags["kubernetes.io/cluster/trading-test-eks"])
	}

	// Every subnet is bound to the single shared route table and ACL.
	assert.Equal(t, ctx.State.SubnetIDs, associations)
	assert.Equal(t, ctx.State.SubnetIDs, aclSubnets)

	// State carries the ordered identifiers for the cluster phase.
	assert.Equal(t, "vpc-mock", ctx.State.VPCID)
	assert.Equal(t, "igw-mock", ctx.State.GatewayID)
	assert.Equal(t, "rtb-mock", ctx.State.RouteTableID)
	assert.Equal(t, "acl-mock", ctx.State.ACLID)
	assert.Equal(t, []string{
		"subnet-trading-test-public-0",
		"subnet-trading-test-public-1",
		"subnet-trading-test-public-2",
	}, ctx.State.SubnetIDs)
}

func TestProvision_PlannerErrorIsConfiguration(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Network.CIDR = "not-a-cidr"

	ctx := provisioning.NewContext(context.Background(), cfg, &aws.MockClient{})
	err := NewProvisioner(&aws.MockClient{}).Provision(ctx)

	require.Error(t, err)
	assert.True(t, errdefs.IsConfiguration(err))
}

func TestProvision_SubnetFailureIsFatalWithResource(t *testing.T) {
	t.Parallel()
	cause := errors.New("api down")
	mock := &aws.MockClient{
		EnsureSubnetFunc: func(_ context.Context, opts aws.SubnetCreateOpts) (aws.SubnetInfo, error) {
			if opts.Name == "trading-test-public-1" {
				return aws.SubnetInfo{}, cause
			}
			return aws.SubnetInfo{ID: "subnet-" + opts.Name}, nil
		},
	}

	ctx := provisioning.NewContext(context.Background(), testConfig(), mock)
	err := NewProvisioner(mock).Provision(ctx)

	require.Error(t, err)
	var fatal *errdefs.FatalProvisioningError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, "network", fatal.Phase)
	assert.Equal(t, "trading-test-public-1", fatal.Resource)
	assert.ErrorIs(t, err, cause)
}

func TestProvision_ReRunTargetsSameNames(t *testing.T) {
	t.Parallel()
	names := make(map[string]int)
	mock := &aws.MockClient{
		EnsureSubnetFunc: func(_ context.Context, opts aws.SubnetCreateOpts) (aws.SubnetInfo, error) {
			names[opts.Name]++
			return aws.SubnetInfo{ID: "subnet-" + opts.Name}, nil
		},
	}

	for i := 0; i < 2; i++ {
		ctx := provisioning.NewContext(context.Background(), testConfig(), mock)
		require.NoError(t, NewProvisioner(mock).Provision(ctx))
	}

	// Idempotent convergence: both runs ensure the same derived names.
	assert.Len(t, names, 3)
	for name, count := range names {
		assert.Equal(t, 2, count, "subnet %s", name)
	}
}

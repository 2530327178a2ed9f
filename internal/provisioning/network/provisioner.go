// Package network materializes the environment's network topology: VPC,
// public subnets, gateway, shared route table, and the permissive ACL.
package network

import (
	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/errdefs"
	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/internal/provisioning"
	"github.com/imamik/flotilla/internal/util/naming"
)

const phase = "network"

// Provisioner converges the network topology for one environment.
type Provisioner struct {
	cloud aws.NetworkManager
}

// NewProvisioner creates a network provisioner.
func NewProvisioner(cloud aws.NetworkManager) *Provisioner {
	return &Provisioner{cloud: cloud}
}

// Provision derives the address plan and reconciles every network object.
// It populates the context state with the VPC, gateway, route table and the
// ordered subnet identifier list consumed by the cluster provisioner.
//
// All creations are idempotent ensures keyed by derived names, so an
// interrupted run is resumed by re-running convergence. Any failure is
// fatal to the run; nothing is rolled back.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	env := ctx.Config.Environment
	logger := ctx.Logger.With().Str("phase", phase).Logger()

	plan, err := config.PlanAddressSpace(ctx.Config.Network.CIDR, ctx.Config.Network.SubnetCount)
	if err != nil {
		return err
	}
	ctx.State.Plan = plan

	zones, err := p.cloud.AvailabilityZones(ctx)
	if err != nil {
		return errdefs.Fatal(phase, "availability-zones", err)
	}

	tags := map[string]string{
		"environment": env,
		"managed-by":  "flotilla",
		// The cluster discovers subnets it may place load balancers in
		// through this ownership tag.
		"kubernetes.io/cluster/" + naming.Cluster(env): "shared",
	}

	logger.Info().Str("vpc", naming.Network(env)).Str("cidr", plan.Base).Msg("reconciling VPC")
	vpcID, err := p.cloud.EnsureVPC(ctx, naming.Network(env), plan.Base, tags)
	if err != nil {
		return errdefs.Fatal(phase, naming.Network(env), err)
	}
	ctx.State.VPCID = vpcID

	subnetIDs := make([]string, 0, len(plan.Public))
	for i, cidr := range plan.Public {
		name := naming.Subnet(env, i)
		zone := zones[i%len(zones)]

		logger.Info().Str("subnet", name).Str("cidr", cidr).Str("zone", zone).Msg("reconciling subnet")
		info, err := p.cloud.EnsureSubnet(ctx, aws.SubnetCreateOpts{
			Name:             name,
			VPCID:            vpcID,
			CIDR:             cidr,
			AvailabilityZone: zone,
			Public:           true,
			Tags:             tags,
		})
		if err != nil {
			return errdefs.Fatal(phase, name, err)
		}
		subnetIDs = append(subnetIDs, info.ID)
	}
	ctx.State.SubnetIDs = subnetIDs

	logger.Info().Str("gateway", naming.Gateway(env)).Msg("reconciling internet gateway")
	gatewayID, err := p.cloud.EnsureInternetGateway(ctx, naming.Gateway(env), vpcID, tags)
	if err != nil {
		return errdefs.Fatal(phase, naming.Gateway(env), err)
	}
	ctx.State.GatewayID = gatewayID

	// One route table and one gateway serve all public subnets; there is
	// no per-subnet routing divergence.
	logger.Info().Str("route_table", naming.RouteTable(env)).Msg("reconciling route table")
	routeTableID, err := p.cloud.EnsureRouteTable(ctx, naming.RouteTable(env), vpcID, gatewayID, tags)
	if err != nil {
		return errdefs.Fatal(phase, naming.RouteTable(env), err)
	}
	ctx.State.RouteTableID = routeTableID

	for i, subnetID := range subnetIDs {
		if err := p.cloud.AssociateRouteTable(ctx, routeTableID, subnetID); err != nil {
			return errdefs.Fatal(phase, naming.Subnet(env, i), err)
		}
	}

	logger.Info().Str("acl", naming.NetworkACL(env)).Msg("reconciling network ACL")
	aclID, err := p.cloud.EnsureAllowAllACL(ctx, naming.NetworkACL(env), vpcID, subnetIDs, tags)
	if err != nil {
		return errdefs.Fatal(phase, naming.NetworkACL(env), err)
	}
	ctx.State.ACLID = aclID

	return nil
}

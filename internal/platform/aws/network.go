package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/flotilla/internal/util/naming"
	"github.com/imamik/flotilla/internal/util/retry"
)

const allCIDR = "0.0.0.0/0"

// tagSpec builds the tag specification for a resource, always including a
// Name tag so that ensure operations can locate the resource later.
func tagSpec(resourceType ec2types.ResourceType, name string, tags map[string]string) []ec2types.TagSpecification {
	ec2Tags := []ec2types.Tag{{Key: awssdk.String("Name"), Value: awssdk.String(name)}}
	for k, v := range tags {
		ec2Tags = append(ec2Tags, ec2types.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return []ec2types.TagSpecification{{ResourceType: resourceType, Tags: ec2Tags}}
}

func nameFilter(name string) []ec2types.Filter {
	return []ec2types.Filter{{Name: awssdk.String("tag:Name"), Values: []string{name}}}
}

// EnsureVPC finds or creates the VPC carrying the given Name tag and
// returns its ID. DNS support and hostnames are enabled either way, since
// the managed cluster requires both.
func (c *RealClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (string, error) {
	var vpcID string

	err := c.withRetry(ctx, func() error {
		existing, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{Filters: nameFilter(name)})
		if err != nil {
			return classify(err)
		}
		if len(existing.Vpcs) > 0 {
			vpcID = awssdk.ToString(existing.Vpcs[0].VpcId)
			return nil
		}

		created, err := c.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
			CidrBlock:         awssdk.String(cidr),
			TagSpecifications: tagSpec(ec2types.ResourceTypeVpc, name, tags),
		})
		if err != nil {
			return classify(err)
		}
		vpcID = awssdk.ToString(created.Vpc.VpcId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to ensure VPC %s: %w", name, err)
	}

	for _, attr := range []*ec2.ModifyVpcAttributeInput{
		{VpcId: awssdk.String(vpcID), EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)}},
		{VpcId: awssdk.String(vpcID), EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)}},
	} {
		if _, err := c.ec2.ModifyVpcAttribute(ctx, attr); err != nil {
			return "", fmt.Errorf("failed to enable DNS on VPC %s: %w", vpcID, err)
		}
	}

	return vpcID, nil
}

// EnsureSubnet finds or creates one subnet and returns its identity.
func (c *RealClient) EnsureSubnet(ctx context.Context, opts SubnetCreateOpts) (SubnetInfo, error) {
	var info SubnetInfo

	err := c.withRetry(ctx, func() error {
		existing, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{Filters: nameFilter(opts.Name)})
		if err != nil {
			return classify(err)
		}
		if len(existing.Subnets) > 0 {
			s := existing.Subnets[0]
			info = SubnetInfo{
				ID:               awssdk.ToString(s.SubnetId),
				CIDR:             awssdk.ToString(s.CidrBlock),
				AvailabilityZone: awssdk.ToString(s.AvailabilityZone),
			}
			return nil
		}

		created, err := c.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
			VpcId:             awssdk.String(opts.VPCID),
			CidrBlock:         awssdk.String(opts.CIDR),
			AvailabilityZone:  awssdk.String(opts.AvailabilityZone),
			TagSpecifications: tagSpec(ec2types.ResourceTypeSubnet, opts.Name, opts.Tags),
		})
		if err != nil {
			return classify(err)
		}
		info = SubnetInfo{
			ID:               awssdk.ToString(created.Subnet.SubnetId),
			CIDR:             opts.CIDR,
			AvailabilityZone: opts.AvailabilityZone,
		}
		return nil
	})
	if err != nil {
		return SubnetInfo{}, fmt.Errorf("failed to ensure subnet %s: %w", opts.Name, err)
	}

	if opts.Public {
		_, err := c.ec2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            awssdk.String(info.ID),
			MapPublicIpOnLaunch: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)},
		})
		if err != nil {
			return SubnetInfo{}, fmt.Errorf("failed to mark subnet %s public: %w", info.ID, err)
		}
	}

	return info, nil
}

// EnsureInternetGateway finds or creates the gateway and attaches it to the VPC.
func (c *RealClient) EnsureInternetGateway(ctx context.Context, name, vpcID string, tags map[string]string) (string, error) {
	var gatewayID string
	attached := false

	err := c.withRetry(ctx, func() error {
		existing, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{Filters: nameFilter(name)})
		if err != nil {
			return classify(err)
		}
		if len(existing.InternetGateways) > 0 {
			gw := existing.InternetGateways[0]
			gatewayID = awssdk.ToString(gw.InternetGatewayId)
			for _, att := range gw.Attachments {
				if awssdk.ToString(att.VpcId) == vpcID {
					attached = true
				}
			}
			return nil
		}

		created, err := c.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
			TagSpecifications: tagSpec(ec2types.ResourceTypeInternetGateway, name, tags),
		})
		if err != nil {
			return classify(err)
		}
		gatewayID = awssdk.ToString(created.InternetGateway.InternetGatewayId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to ensure internet gateway %s: %w", name, err)
	}

	if !attached {
		err := c.withRetry(ctx, func() error {
			_, err := c.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
				InternetGatewayId: awssdk.String(gatewayID),
				VpcId:             awssdk.String(vpcID),
			})
			if isAlreadyExists(err) {
				return nil
			}
			return classify(err)
		})
		if err != nil {
			return "", fmt.Errorf("failed to attach internet gateway %s: %w", gatewayID, err)
		}
	}

	return gatewayID, nil
}

// EnsureRouteTable finds or creates the shared route table and installs the
// default route through the gateway. Exactly one route table serves all
// public subnets.
func (c *RealClient) EnsureRouteTable(ctx context.Context, name, vpcID, gatewayID string, tags map[string]string) (string, error) {
	var routeTableID string

	err := c.withRetry(ctx, func() error {
		existing, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{Filters: nameFilter(name)})
		if err != nil {
			return classify(err)
		}
		if len(existing.RouteTables) > 0 {
			routeTableID = awssdk.ToString(existing.RouteTables[0].RouteTableId)
			return nil
		}

		created, err := c.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
			VpcId:             awssdk.String(vpcID),
			TagSpecifications: tagSpec(ec2types.ResourceTypeRouteTable, name, tags),
		})
		if err != nil {
			return classify(err)
		}
		routeTableID = awssdk.ToString(created.RouteTable.RouteTableId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to ensure route table %s: %w", name, err)
	}

	err = c.withRetry(ctx, func() error {
		_, err := c.ec2.CreateRoute(ctx, &ec2.CreateRouteInput{
			RouteTableId:         awssdk.String(routeTableID),
			DestinationCidrBlock: awssdk.String(allCIDR),
			GatewayId:            awssdk.String(gatewayID),
		})
		if isAlreadyExists(err) {
			return nil
		}
		return classify(err)
	})
	if err != nil {
		return "", fmt.Errorf("failed to ensure default route on %s: %w", routeTableID, err)
	}

	return routeTableID, nil
}

// AssociateRouteTable binds one subnet to the shared route table.
func (c *RealClient) AssociateRouteTable(ctx context.Context, routeTableID, subnetID string) error {
	err := c.withRetry(ctx, func() error {
		existing, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
			RouteTableIds: []string{routeTableID},
		})
		if err != nil {
			return classify(err)
		}
		for _, rt := range existing.RouteTables {
			for _, assoc := range rt.Associations {
				if awssdk.ToString(assoc.SubnetId) == subnetID {
					return nil
				}
			}
		}

		_, err = c.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
			RouteTableId: awssdk.String(routeTableID),
			SubnetId:     awssdk.String(subnetID),
		})
		if isAlreadyExists(err) {
			return nil
		}
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("failed to associate subnet %s with route table %s: %w", subnetID, routeTableID, err)
	}
	return nil
}

// EnsureAllowAllACL finds or creates the permissive network ACL and moves
// every given subnet onto it.
func (c *RealClient) EnsureAllowAllACL(ctx context.Context, name, vpcID string, subnetIDs []string, tags map[string]string) (string, error) {
	var aclID string

	err := c.withRetry(ctx, func() error {
		existing, err := c.ec2.DescribeNetworkAcls(ctx, &ec2.DescribeNetworkAclsInput{Filters: nameFilter(name)})
		if err != nil {
			return classify(err)
		}
		if len(existing.NetworkAcls) > 0 {
			aclID = awssdk.ToString(existing.NetworkAcls[0].NetworkAclId)
			return nil
		}

		created, err := c.ec2.CreateNetworkAcl(ctx, &ec2.CreateNetworkAclInput{
			VpcId:             awssdk.String(vpcID),
			TagSpecifications: tagSpec(ec2types.ResourceTypeNetworkAcl, name, tags),
		})
		if err != nil {
			return classify(err)
		}
		aclID = awssdk.ToString(created.NetworkAcl.NetworkAclId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to ensure network ACL %s: %w", name, err)
	}

	for _, egress := range []bool{false, true} {
		err := c.withRetry(ctx, func() error {
			_, err := c.ec2.CreateNetworkAclEntry(ctx, &ec2.CreateNetworkAclEntryInput{
				NetworkAclId: awssdk.String(aclID),
				RuleNumber:   awssdk.Int32(100),
				Protocol:     awssdk.String("-1"),
				RuleAction:   ec2types.RuleActionAllow,
				Egress:       awssdk.Bool(egress),
				CidrBlock:    awssdk.String(allCIDR),
			})
			if isAlreadyExists(err) {
				return nil
			}
			return classify(err)
		})
		if err != nil {
			return "", fmt.Errorf("failed to ensure allow-all entry on ACL %s: %w", aclID, err)
		}
	}

	for _, subnetID := range subnetIDs {
		if err := c.attachACL(ctx, aclID, subnetID); err != nil {
			return "", err
		}
	}

	return aclID, nil
}

// attachACL replaces a subnet's current ACL association with the given ACL.
func (c *RealClient) attachACL(ctx context.Context, aclID, subnetID string) error {
	err := c.withRetry(ctx, func() error {
		current, err := c.ec2.DescribeNetworkAcls(ctx, &ec2.DescribeNetworkAclsInput{
			Filters: []ec2types.Filter{{Name: awssdk.String("association.subnet-id"), Values: []string{subnetID}}},
		})
		if err != nil {
			return classify(err)
		}

		for _, acl := range current.NetworkAcls {
			if awssdk.ToString(acl.NetworkAclId) == aclID {
				return nil // already attached
			}
			for _, assoc := range acl.Associations {
				if awssdk.ToString(assoc.SubnetId) != subnetID {
					continue
				}
				_, err := c.ec2.ReplaceNetworkAclAssociation(ctx, &ec2.ReplaceNetworkAclAssociationInput{
					AssociationId: assoc.NetworkAclAssociationId,
					NetworkAclId:  awssdk.String(aclID),
				})
				return classify(err)
			}
		}
		return retry.Fatal(fmt.Errorf("no ACL association found for subnet %s", subnetID))
	})
	if err != nil {
		return fmt.Errorf("failed to attach ACL %s to subnet %s: %w", aclID, subnetID, err)
	}
	return nil
}

// AvailabilityZones lists the available zones of the client's region.
func (c *RealClient) AvailabilityZones(ctx context.Context) ([]string, error) {
	var zones []string

	err := c.withRetry(ctx, func() error {
		out, err := c.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
			Filters: []ec2types.Filter{{Name: awssdk.String("state"), Values: []string{"available"}}},
		})
		if err != nil {
			return classify(err)
		}
		zones = zones[:0]
		for _, az := range out.AvailabilityZones {
			zones = append(zones, awssdk.ToString(az.ZoneName))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list availability zones: %w", err)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("region %s reports no available zones", c.region)
	}
	return zones, nil
}

// DeleteNetwork removes the environment's network objects in dependency
// order: ACL, route table, gateway, subnets, VPC. Absent resources are
// skipped, so a partially torn down environment can be cleaned up again.
func (c *RealClient) DeleteNetwork(ctx context.Context, env string) error {
	vpcs, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{Filters: nameFilter(naming.Network(env))})
	if err != nil {
		return fmt.Errorf("failed to look up VPC for %s: %w", env, err)
	}
	if len(vpcs.Vpcs) == 0 {
		return nil
	}
	vpcID := awssdk.ToString(vpcs.Vpcs[0].VpcId)

	if acls, err := c.ec2.DescribeNetworkAcls(ctx, &ec2.DescribeNetworkAclsInput{Filters: nameFilter(naming.NetworkACL(env))}); err == nil {
		for _, acl := range acls.NetworkAcls {
			_ = c.withRetry(ctx, func() error {
				_, err := c.ec2.DeleteNetworkAcl(ctx, &ec2.DeleteNetworkAclInput{NetworkAclId: acl.NetworkAclId})
				if IsNotFound(err) {
					return nil
				}
				return classify(err)
			})
		}
	}

	if rts, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{Filters: nameFilter(naming.RouteTable(env))}); err == nil {
		for _, rt := range rts.RouteTables {
			for _, assoc := range rt.Associations {
				if assoc.RouteTableAssociationId != nil {
					_, _ = c.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
						AssociationId: assoc.RouteTableAssociationId,
					})
				}
			}
			_ = c.withRetry(ctx, func() error {
				_, err := c.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{RouteTableId: rt.RouteTableId})
				if IsNotFound(err) {
					return nil
				}
				return classify(err)
			})
		}
	}

	if gws, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{Filters: nameFilter(naming.Gateway(env))}); err == nil {
		for _, gw := range gws.InternetGateways {
			_, _ = c.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
				InternetGatewayId: gw.InternetGatewayId,
				VpcId:             awssdk.String(vpcID),
			})
			_ = c.withRetry(ctx, func() error {
				_, err := c.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{InternetGatewayId: gw.InternetGatewayId})
				if IsNotFound(err) {
					return nil
				}
				return classify(err)
			})
		}
	}

	subnets, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{{Name: awssdk.String("vpc-id"), Values: []string{vpcID}}},
	})
	if err != nil {
		return fmt.Errorf("failed to list subnets of %s: %w", vpcID, err)
	}
	for _, subnet := range subnets.Subnets {
		subnetID := subnet.SubnetId
		err := c.withRetry(ctx, func() error {
			_, err := c.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: subnetID})
			if IsNotFound(err) {
				return nil
			}
			return classify(err)
		})
		if err != nil {
			return fmt.Errorf("failed to delete subnet %s: %w", awssdk.ToString(subnetID), err)
		}
	}

	err = c.withRetry(ctx, func() error {
		_, err := c.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: awssdk.String(vpcID)})
		if IsNotFound(err) {
			return nil
		}
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("failed to delete VPC %s: %w", vpcID, err)
	}
	return nil
}

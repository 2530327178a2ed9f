// Package cluster declares the managed Kubernetes cluster on top of the
// provisioned network and grants administrative access.
package cluster

import (
	"github.com/imamik/flotilla/internal/errdefs"
	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/internal/provisioning"
	"github.com/imamik/flotilla/internal/util/naming"
)

const phase = "cluster"

// Provisioner converges the managed cluster for one environment.
type Provisioner struct {
	cloud aws.ClusterManager
}

// NewProvisioner creates a cluster provisioner.
func NewProvisioner(cloud aws.ClusterManager) *Provisioner {
	return &Provisioner{cloud: cloud}
}

// Provision declares the cluster bound to the first SubnetSlots public
// subnets, waits for the control plane, converges the worker pool, and
// applies admin grants. Cluster creation failure is fatal to the run;
// admin-grant failures are retried inside the client but never roll back
// the cluster.
func (p *Provisioner) Provision(ctx *provisioning.Context, subnetIDs []string) error {
	cfg := ctx.Config
	env := cfg.Environment
	clusterName := naming.Cluster(env)
	logger := ctx.Logger.With().Str("phase", phase).Str("cluster", clusterName).Logger()

	if len(subnetIDs) < cfg.Cluster.SubnetSlots {
		return errdefs.Configuration("cluster needs %d subnets but only %d were provisioned",
			cfg.Cluster.SubnetSlots, len(subnetIDs))
	}
	clusterSubnets := subnetIDs[:cfg.Cluster.SubnetSlots]

	tags := map[string]string{
		"environment": env,
		"managed-by":  "flotilla",
	}

	logger.Info().Strs("subnets", clusterSubnets).Msg("reconciling cluster")
	err := p.cloud.EnsureCluster(ctx, aws.ClusterCreateOpts{
		Name:      clusterName,
		Version:   cfg.Cluster.Version,
		RoleARN:   cfg.Cluster.RoleARN,
		SubnetIDs: clusterSubnets,
		Tags:      tags,
	})
	if err != nil {
		return errdefs.Fatal(phase, clusterName, err)
	}

	logger.Info().Msg("waiting for control plane")
	if err := p.cloud.WaitForClusterActive(ctx, clusterName); err != nil {
		return errdefs.Fatal(phase, clusterName, err)
	}
	ctx.State.ClusterName = clusterName

	ng := cfg.Cluster.NodeGroup
	logger.Info().Str("node_group", naming.NodeGroup(env)).Int("count", ng.Count).Msg("reconciling worker pool")
	err = p.cloud.EnsureNodeGroup(ctx, aws.NodeGroupOpts{
		ClusterName:  clusterName,
		Name:         naming.NodeGroup(env),
		RoleARN:      ng.RoleARN,
		SubnetIDs:    clusterSubnets,
		InstanceType: ng.InstanceType,
		DiskSizeGB:   int32(ng.DiskSizeGB),
		DesiredSize:  int32(ng.Count),
		MinSize:      int32(ng.MinCount),
		MaxSize:      int32(ng.MaxCount),
		Tags:         tags,
	})
	if err != nil {
		return errdefs.Fatal(phase, naming.NodeGroup(env), err)
	}

	for _, admin := range cfg.Cluster.Admins {
		logger.Info().Str("principal", admin.ARN).Msg("reconciling admin grant")
		if err := p.cloud.EnsureAdminAccess(ctx, clusterName, admin.ARN); err != nil {
			return errdefs.Fatal(phase, admin.ARN, err)
		}
	}

	access, err := p.cloud.GetClusterAccess(ctx, clusterName)
	if err != nil {
		return errdefs.Fatal(phase, clusterName, err)
	}
	ctx.State.Access = access

	return nil
}

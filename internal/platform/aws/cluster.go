package aws

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/imamik/flotilla/internal/util/retry"
)

// adminPolicyARN is the fixed permission group every admin principal is
// mapped to.
const adminPolicyARN = "arn:aws:eks::aws:cluster-access-policy/AmazonEKSClusterAdminPolicy"

// tokenPrefix is the scheme marker of EKS bearer tokens: a base64-encoded
// presigned STS GetCallerIdentity URL.
const tokenPrefix = "k8s-aws-v1."

// EnsureCluster declares the managed cluster. An already existing cluster
// with the same name is left untouched: cluster identity is a pure function
// of the environment name, so re-running targets the same cluster.
func (c *RealClient) EnsureCluster(ctx context.Context, opts ClusterCreateOpts) error {
	err := c.withRetry(ctx, func() error {
		_, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(opts.Name)})
		if err == nil {
			return nil
		}
		if !IsNotFound(err) {
			return classify(err)
		}

		_, err = c.eks.CreateCluster(ctx, &eks.CreateClusterInput{
			Name:    awssdk.String(opts.Name),
			Version: awssdk.String(opts.Version),
			RoleArn: awssdk.String(opts.RoleARN),
			ResourcesVpcConfig: &ekstypes.VpcConfigRequest{
				SubnetIds: opts.SubnetIDs,
			},
			Tags: opts.Tags,
		})
		if isAlreadyExists(err) {
			return nil
		}
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("failed to ensure cluster %s: %w", opts.Name, err)
	}
	return nil
}

// WaitForClusterActive polls until the control plane reports active or the
// wait budget runs out.
func (c *RealClient) WaitForClusterActive(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ClusterWait)
	defer cancel()

	for {
		out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(name)})
		if err == nil {
			switch out.Cluster.Status {
			case ekstypes.ClusterStatusActive:
				return nil
			case ekstypes.ClusterStatusFailed:
				return fmt.Errorf("cluster %s entered failed state", name)
			}
		} else if !isTransient(err) && !IsNotFound(err) {
			return fmt.Errorf("failed to describe cluster %s: %w", name, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for cluster %s to become active: %w", name, ctx.Err())
		case <-time.After(c.timeouts.ClusterPoll):
		}
	}
}

// EnsureNodeGroup declares the worker pool. If it already exists its
// scaling configuration is converged to the desired state instead of being
// recreated.
func (c *RealClient) EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error {
	scaling := &ekstypes.NodegroupScalingConfig{
		DesiredSize: awssdk.Int32(opts.DesiredSize),
		MinSize:     awssdk.Int32(opts.MinSize),
		MaxSize:     awssdk.Int32(opts.MaxSize),
	}

	err := c.withRetry(ctx, func() error {
		_, err := c.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
			ClusterName:   awssdk.String(opts.ClusterName),
			NodegroupName: awssdk.String(opts.Name),
		})
		if err == nil {
			_, err = c.eks.UpdateNodegroupConfig(ctx, &eks.UpdateNodegroupConfigInput{
				ClusterName:   awssdk.String(opts.ClusterName),
				NodegroupName: awssdk.String(opts.Name),
				ScalingConfig: scaling,
			})
			return classify(err)
		}
		if !IsNotFound(err) {
			return classify(err)
		}

		_, err = c.eks.CreateNodegroup(ctx, &eks.CreateNodegroupInput{
			ClusterName:   awssdk.String(opts.ClusterName),
			NodegroupName: awssdk.String(opts.Name),
			NodeRole:      awssdk.String(opts.RoleARN),
			Subnets:       opts.SubnetIDs,
			InstanceTypes: []string{opts.InstanceType},
			DiskSize:      awssdk.Int32(opts.DiskSizeGB),
			ScalingConfig: scaling,
			Tags:          opts.Tags,
		})
		if isAlreadyExists(err) {
			return nil
		}
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("failed to ensure node group %s: %w", opts.Name, err)
	}
	return nil
}

// EnsureAdminAccess grants one principal the admin permission group. Both
// steps tolerate the grant already existing, so re-applying the admin list
// never duplicates entries.
func (c *RealClient) EnsureAdminAccess(ctx context.Context, clusterName, principalARN string) error {
	err := c.withRetry(ctx, func() error {
		_, err := c.eks.CreateAccessEntry(ctx, &eks.CreateAccessEntryInput{
			ClusterName:  awssdk.String(clusterName),
			PrincipalArn: awssdk.String(principalARN),
		})
		if isAlreadyExists(err) {
			return nil
		}
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("failed to create access entry for %s: %w", principalARN, err)
	}

	err = c.withRetry(ctx, func() error {
		_, err := c.eks.AssociateAccessPolicy(ctx, &eks.AssociateAccessPolicyInput{
			ClusterName:  awssdk.String(clusterName),
			PrincipalArn: awssdk.String(principalARN),
			PolicyArn:    awssdk.String(adminPolicyARN),
			AccessScope: &ekstypes.AccessScope{
				Type: ekstypes.AccessScopeTypeCluster,
			},
		})
		if isAlreadyExists(err) {
			return nil
		}
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("failed to associate admin policy for %s: %w", principalARN, err)
	}
	return nil
}

// GetClusterAccess returns the connection coordinates for the apply step:
// API endpoint, cluster CA, and a short-lived bearer token derived from a
// presigned STS GetCallerIdentity request.
func (c *RealClient) GetClusterAccess(ctx context.Context, name string) (*ClusterAccess, error) {
	var access ClusterAccess

	err := c.withRetry(ctx, func() error {
		out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(name)})
		if err != nil {
			return classify(err)
		}
		access.Endpoint = awssdk.ToString(out.Cluster.Endpoint)

		caData, err := base64.StdEncoding.DecodeString(awssdk.ToString(out.Cluster.CertificateAuthority.Data))
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to decode cluster CA data: %w", err))
		}
		access.CAData = caData
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster %s access data: %w", name, err)
	}

	token, err := c.bearerToken(ctx, name)
	if err != nil {
		return nil, err
	}
	access.Token = token

	return &access, nil
}

// bearerToken builds the EKS bearer token for the given cluster name.
func (c *RealClient) bearerToken(ctx context.Context, clusterName string) (string, error) {
	presigner := sts.NewPresignClient(c.sts)

	presigned, err := presigner.PresignGetCallerIdentity(ctx, &sts.GetCallerIdentityInput{},
		func(po *sts.PresignOptions) {
			po.ClientOptions = append(po.ClientOptions, func(o *sts.Options) {
				o.APIOptions = append(o.APIOptions,
					smithyhttp.SetHeaderValue("X-K8s-Aws-Id", clusterName))
			})
		})
	if err != nil {
		return "", fmt.Errorf("failed to presign token request: %w", err)
	}

	return tokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(presigned.URL)), nil
}

// DeleteCluster removes the node group and the cluster. Absent resources
// are skipped.
func (c *RealClient) DeleteCluster(ctx context.Context, name string) error {
	groups, err := c.eks.ListNodegroups(ctx, &eks.ListNodegroupsInput{ClusterName: awssdk.String(name)})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to list node groups of %s: %w", name, err)
	}
	for _, group := range groups.Nodegroups {
		_, err := c.eks.DeleteNodegroup(ctx, &eks.DeleteNodegroupInput{
			ClusterName:   awssdk.String(name),
			NodegroupName: awssdk.String(group),
		})
		if err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to delete node group %s: %w", group, err)
		}
	}

	err = c.withRetry(ctx, func() error {
		_, err := c.eks.DeleteCluster(ctx, &eks.DeleteClusterInput{Name: awssdk.String(name)})
		if IsNotFound(err) {
			return nil
		}
		// Node groups still draining: retry until they are gone.
		if isAPIErrorCode(err, "ResourceInUseException") {
			return err
		}
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("failed to delete cluster %s: %w", name, err)
	}
	return nil
}

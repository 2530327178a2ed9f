package aws

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/imamik/flotilla/internal/errdefs"
	"github.com/imamik/flotilla/internal/util/retry"
)

// Timeouts bundles the retry budget applied to cloud API calls.
type Timeouts struct {
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	ClusterWait       time.Duration
	ClusterPoll       time.Duration
}

// DefaultTimeouts returns the retry budget used unless overridden.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		RetryMaxAttempts:  5,
		RetryInitialDelay: 2 * time.Second,
		ClusterWait:       20 * time.Minute,
		ClusterPoll:       20 * time.Second,
	}
}

// RealClient implements CloudManager against the AWS APIs.
type RealClient struct {
	ec2      *ec2.Client
	eks      *eks.Client
	sts      *sts.Client
	region   string
	timeouts Timeouts
}

var _ CloudManager = (*RealClient)(nil)

// NewRealClient creates a CloudManager using the default AWS credential
// chain and the given region.
func NewRealClient(ctx context.Context, region string) (*RealClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &RealClient{
		ec2:      ec2.NewFromConfig(awsCfg),
		eks:      eks.NewFromConfig(awsCfg),
		sts:      sts.NewFromConfig(awsCfg),
		region:   region,
		timeouts: DefaultTimeouts(),
	}, nil
}

// WithTimeouts overrides the default retry budget.
func (c *RealClient) WithTimeouts(t Timeouts) *RealClient {
	c.timeouts = t
	return c
}

// withRetry runs op under the client's retry budget. The operation must
// mark non-retryable failures with retry.Fatal; transient AWS errors are
// retried with exponential backoff until the budget is exhausted.
func (c *RealClient) withRetry(ctx context.Context, op func() error) error {
	return retry.WithExponentialBackoff(ctx, op,
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
}

// classify converts an AWS API error into a retryable or fatal retry
// error. Transient failures are marked as such and retried; everything
// else stops the backoff loop immediately.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return errdefs.Transient(err)
	}
	return retry.Fatal(err)
}

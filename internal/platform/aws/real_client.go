package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/rfleet/rfleet/internal/util/retry"
)

// RealClient implements InfrastructureManager against the live AWS APIs.
type RealClient struct {
	region      string
	ec2         EC2API
	autoscaling AutoScalingAPI
	eks         EKSAPI
	iam         IAMAPI
	sts         STSPresignAPI
	retryOpts   []retry.Option
}

// ClientOpts configures a RealClient. Static credentials are optional; when
// empty the SDK's default chain (env, shared config, instance role) is used.
// Zero retry values keep the default backoff budget.
type ClientOpts struct {
	Region            string
	AccessKeyID       string
	SecretAccessKey   string
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// NewClient builds a RealClient for the given region.
func NewClient(ctx context.Context, opts ClientOpts) (*RealClient, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	return &RealClient{
		region:      opts.Region,
		ec2:         ec2.NewFromConfig(cfg),
		autoscaling: autoscaling.NewFromConfig(cfg),
		eks:         eks.NewFromConfig(cfg),
		iam:         iam.NewFromConfig(cfg),
		sts:         sts.NewPresignClient(sts.NewFromConfig(cfg)),
		retryOpts:   retryOptions(opts.RetryMaxAttempts, opts.RetryInitialDelay),
	}, nil
}

// Region returns the region the client operates in.
func (c *RealClient) Region() string {
	return c.region
}

func strVal(s *string) string {
	return awssdk.ToString(s)
}

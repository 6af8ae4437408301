package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CostExplorerRegion is the only region Cost Explorer is reachable in.
const CostExplorerRegion = "us-east-1"

// ---------------------------------------------------------------------------
// Per-service client interfaces
//
// Each interface covers only the operations used by this project, so tests
// can substitute a stub struct that returns canned data.
// ---------------------------------------------------------------------------

// STSClient is the subset of STS operations used by the loader.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// EC2Client is the subset of EC2 operations used for inventory.
// It also satisfies ec2.DescribeInstancesAPIClient for the SDK paginator.
type EC2Client interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
}

// CostExplorerClient covers the Cost Explorer operation used for the daily
// billing total.
type CostExplorerClient interface {
	GetCostAndUsage(
		ctx context.Context,
		params *ce.GetCostAndUsageInput,
		optFns ...func(*ce.Options),
	) (*ce.GetCostAndUsageOutput, error)
}

// S3Client covers the S3 operations used for report upload and the doctor
// bucket check.
type S3Client interface {
	PutObject(
		ctx context.Context,
		params *s3svc.PutObjectInput,
		optFns ...func(*s3svc.Options),
	) (*s3svc.PutObjectOutput, error)

	HeadBucket(
		ctx context.Context,
		params *s3svc.HeadBucketInput,
		optFns ...func(*s3svc.Options),
	) (*s3svc.HeadBucketOutput, error)
}

// ---------------------------------------------------------------------------
// ClientSet and ClientFactory
// ---------------------------------------------------------------------------

// ClientSet holds initialised AWS service clients for one configuration.
// All fields are interfaces so they can be replaced with stubs in tests.
type ClientSet struct {
	STS          STSClient
	EC2          EC2Client
	CostExplorer CostExplorerClient
	S3           S3Client
}

// ClientFactory creates a ClientSet from an aws.Config.
// Swap this in tests to inject stub clients.
type ClientFactory func(cfg aws.Config) *ClientSet

// NewClientSet is the production ClientFactory. Cost Explorer is always
// pointed at us-east-1 because it is a global service only reachable there.
func NewClientSet(cfg aws.Config) *ClientSet {
	ceCfg := cfg
	ceCfg.Region = CostExplorerRegion

	return &ClientSet{
		STS:          sts.NewFromConfig(cfg),
		EC2:          ec2.NewFromConfig(cfg),
		CostExplorer: ce.NewFromConfig(ceCfg),
		S3:           s3svc.NewFromConfig(cfg),
	}
}

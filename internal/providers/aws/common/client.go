package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/aws-report/internal/config"
)

// ProfileConfig is a resolved AWS configuration with its SDK configuration
// and initialised service clients. It is the unit passed from the provider
// into the engine.
type ProfileConfig struct {
	// ProfileName is the named profile in use, or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID (via STS).
	AccountID string

	// Region is the home region used for EC2 and S3.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config

	// Clients holds initialised service clients scoped to Region.
	// Cost Explorer is always scoped to us-east-1 by the factory.
	Clients *ClientSet
}

// AWSClientProvider loads AWS configurations.
// It is the sole entry point for AWS credential and region management across
// the provider layer.
type AWSClientProvider interface {
	// Load returns a ProfileConfig built from the explicit configuration
	// values in cfg. Static keys take precedence over the default chain.
	Load(ctx context.Context, cfg config.AWSConfig) (*ProfileConfig, error)
}

package config

import (
	"errors"
	"strings"
)

// Config is the top-level application configuration.
// It is built once at startup and passed by value into every collaborator;
// nothing reads the environment after Load returns.
type Config struct {
	AWS    AWSConfig    `yaml:"aws"    json:"aws"`
	Report ReportConfig `yaml:"report" json:"report"`
	Log    LogConfig    `yaml:"log"    json:"log"`
}

// AWSConfig holds credentials, region and the destination bucket.
type AWSConfig struct {
	// AccessKeyID and SecretAccessKey are static credentials. When either is
	// empty the SDK default credential chain is used instead.
	// Never committed to version control.
	AccessKeyID     string `yaml:"access_key_id"     json:"-"`
	SecretAccessKey string `yaml:"secret_access_key" json:"-"`

	// Region is the home region for EC2 and S3 calls.
	Region string `yaml:"region" json:"region"`

	// Profile optionally selects a named profile from ~/.aws/config.
	Profile string `yaml:"profile" json:"profile,omitempty"`

	// Bucket is the S3 bucket that receives the rendered report.
	Bucket string `yaml:"bucket" json:"bucket"`
}

// HasStaticCredentials reports whether both halves of a static key pair are set.
func (a AWSConfig) HasStaticCredentials() bool {
	return a.AccessKeyID != "" && a.SecretAccessKey != ""
}

// ReportConfig controls where the report is written locally and remotely.
type ReportConfig struct {
	// OutputDir is the local directory for the PDF. Defaults to os.TempDir().
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// KeyPrefix is prepended to the object key. Defaults to "reports/".
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`

	// CostMetric is the Cost Explorer metric to report. Defaults to "UnblendedCost".
	CostMetric string `yaml:"cost_metric" json:"cost_metric"`
}

// LogConfig configures the progress logger.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "console" (human-readable) or "json".
	Format string `yaml:"format" json:"format"`
}

// Loader is the interface for reading Config.
// Default implementation reads ~/.config/aws-report/config.yaml, an optional
// .env file, and the process environment, in that order of precedence
// (later wins).
type Loader interface {
	// Load reads, merges, and defaults the configuration.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}

var (
	// ErrMissingBucket is returned by Validate when no bucket is configured.
	ErrMissingBucket = errors.New("S3 bucket is not configured (set S3_BUCKET or aws.bucket)")

	// ErrMissingRegion is returned by Validate when no region is configured.
	ErrMissingRegion = errors.New("AWS region is not configured (set AWS_DEFAULT_REGION or aws.region)")
)

// Validate checks the values a full report run depends on.
// When upload is false the bucket is not required.
func (c *Config) Validate(upload bool) error {
	var errs []error
	if strings.TrimSpace(c.AWS.Region) == "" {
		errs = append(errs, ErrMissingRegion)
	}
	if upload && strings.TrimSpace(c.AWS.Bucket) == "" {
		errs = append(errs, ErrMissingBucket)
	}
	return errors.Join(errs...)
}

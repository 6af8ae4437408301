package engine

import (
	"context"

	"github.com/pankaj-dahiya-devops/aws-report/internal/config"
	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
)

// RunOptions configures a single report run.
// It is the sole input to Engine.Run.
type RunOptions struct {
	// AWS carries credentials, region and the destination bucket.
	AWS config.AWSConfig

	// OutputDir is the local directory that receives the PDF.
	OutputDir string

	// KeyPrefix is prepended to the object key (e.g. "reports/").
	KeyPrefix string

	// SkipUpload stops the run after the PDF is written locally.
	SkipUpload bool
}

// Engine is the central orchestration interface.
// It runs inventory collection, cost aggregation, report rendering and
// upload exactly once, in that order, and returns a description of the
// generated report.
//
// Engine must not call the AWS SDK directly; it delegates to the provider,
// collector, aggregator and uploader interfaces.
type Engine interface {
	Run(ctx context.Context, opts RunOptions) (*models.ReportResult, error)
}

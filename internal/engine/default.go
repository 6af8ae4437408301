package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/billing"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/storage"
	"github.com/pankaj-dahiya-devops/aws-report/internal/render"
)

// Assembler renders a report document into a directory and returns the path
// written and the page count.
type Assembler interface {
	Assemble(dir string, doc render.Document) (string, int, error)
}

// UploaderFactory builds an Uploader around an S3 client.
type UploaderFactory func(client common.S3Client) storage.Uploader

// DefaultEngine is the production implementation of Engine.
type DefaultEngine struct {
	provider    common.AWSClientProvider
	inventory   inventory.Collector
	billing     billing.Aggregator
	assembler   Assembler
	newUploader UploaderFactory
	clock       func() time.Time
	log         zerolog.Logger
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied provider,
// collector, aggregator and assembler. Uploads go through storage.S3Uploader.
func NewDefaultEngine(
	provider common.AWSClientProvider,
	collector inventory.Collector,
	aggregator billing.Aggregator,
	assembler Assembler,
	log zerolog.Logger,
) *DefaultEngine {
	return &DefaultEngine{
		provider:  provider,
		inventory: collector,
		billing:   aggregator,
		assembler: assembler,
		newUploader: func(client common.S3Client) storage.Uploader {
			return storage.NewS3Uploader(client)
		},
		clock: time.Now,
		log:   log,
	}
}

// Run implements Engine.
//
// Flow:
//  1. Take "today" (UTC) from the clock once.
//  2. Load the AWS configuration and resolve the account.
//  3. Collect the EC2 inventory for the home region.
//  4. Collect the cost for [today-1, today).
//  5. Render aws-report-<today>.pdf into opts.OutputDir.
//  6. Upload it to <bucket>/<prefix>/aws-report-<today>.pdf.
//
// Any stage failure aborts the run. An upload failure leaves the local PDF
// in place and is reported with its path.
func (e *DefaultEngine) Run(ctx context.Context, opts RunOptions) (*models.ReportResult, error) {
	today := e.clock().UTC()
	date := today.Format(billing.DateLayout)

	profile, err := e.provider.Load(ctx, opts.AWS)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	log := e.log.With().Str("account", profile.AccountID).Str("region", profile.Region).Logger()

	instances, err := e.inventory.CollectInstances(ctx, profile.Clients.EC2, profile.Region)
	if err != nil {
		return nil, fmt.Errorf("collect instances in %s: %w", profile.Region, err)
	}
	log.Info().Int("instances", len(instances)).Msg("EC2 inventory collected")

	window := billing.DailyWindow(today)
	cost, err := e.billing.CollectDailyCost(ctx, profile.Clients.CostExplorer, window)
	if err != nil {
		return nil, fmt.Errorf("collect cost for %s..%s: %w", window.Start, window.End, err)
	}
	log.Info().
		Str("amount", cost.AmountString()).
		Str("unit", cost.Unit).
		Str("period_start", cost.PeriodStart).
		Str("period_end", cost.PeriodEnd).
		Msg("billing total collected")

	path, pages, err := e.assembler.Assemble(opts.OutputDir, render.Document{
		Date:      date,
		AccountID: profile.AccountID,
		Region:    profile.Region,
		Instances: instances,
		Cost:      *cost,
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	log.Info().Str("path", path).Int("pages", pages).Msg("PDF created")

	result := &models.ReportResult{
		Date:        date,
		GeneratedAt: today,
		AccountID:   profile.AccountID,
		Region:      profile.Region,
		LocalPath:   path,
		Pages:       pages,
		Instances:   instances,
		Cost:        *cost,
	}

	if opts.SkipUpload {
		log.Info().Msg("upload skipped")
		return result, nil
	}

	result.Bucket = opts.AWS.Bucket
	result.Key = render.StorageKey(opts.KeyPrefix, date)
	uploader := e.newUploader(profile.Clients.S3)
	if err := uploader.UploadFile(ctx, path, result.Bucket, result.Key); err != nil {
		return result, fmt.Errorf("upload report (local copy kept at %s): %w", path, err)
	}
	result.Uploaded = true
	log.Info().Str("bucket", result.Bucket).Str("key", result.Key).Msg("PDF uploaded to S3 successfully")

	return result, nil
}

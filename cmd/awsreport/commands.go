package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/aws-report/internal/config"
	"github.com/pankaj-dahiya-devops/aws-report/internal/engine"
	"github.com/pankaj-dahiya-devops/aws-report/internal/logging"
	"github.com/pankaj-dahiya-devops/aws-report/internal/models"
	"github.com/pankaj-dahiya-devops/aws-report/internal/output"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/billing"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/inventory"
	"github.com/pankaj-dahiya-devops/aws-report/internal/render"
	"github.com/pankaj-dahiya-devops/aws-report/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "awsreport",
		Short:         "Daily AWS EC2 inventory and billing report",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// runFlags holds the command-line overrides for a report run.
// Empty values leave the loaded configuration untouched.
type runFlags struct {
	configPath string
	envFile    string
	outputDir  string
	bucket     string
	region     string
	profile    string
	prefix     string
	metric     string
	logLevel   string
	logFormat  string
	skipUpload bool
	jsonOut    bool
	colored    bool
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate today's report and upload it to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			if err := cfg.Validate(!f.skipUpload); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			// Keep stdout clean for the JSON document.
			logOut := cmd.OutOrStdout()
			if f.jsonOut {
				logOut = cmd.ErrOrStderr()
			}
			log, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			eng := engine.NewDefaultEngine(
				common.NewDefaultAWSClientProvider(),
				inventory.NewDefaultCollector(),
				billing.NewDefaultAggregator(billing.WithMetric(cfg.Report.CostMetric)),
				render.NewAssembler(),
				log,
			)

			opts := engine.RunOptions{
				AWS:        cfg.AWS,
				OutputDir:  cfg.Report.OutputDir,
				KeyPrefix:  cfg.Report.KeyPrefix,
				SkipUpload: f.skipUpload,
			}
			_, err = runReport(cmd.Context(), eng, opts, cmd.OutOrStdout(), f.jsonOut, output.TableOptions{
				Colored:     f.colored,
				IncludeType: true,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config file (default: ~/.config/aws-report/config.yaml)")
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "Path to a dotenv file (default: ./.env when present)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Local directory for the PDF (default: system temp dir)")
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "Destination S3 bucket (overrides S3_BUCKET)")
	cmd.Flags().StringVar(&f.region, "region", "", "AWS region (overrides AWS_DEFAULT_REGION)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "AWS profile name (default: static keys or default chain)")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", `S3 key prefix (default "reports/")`)
	cmd.Flags().StringVar(&f.metric, "metric", "", `Cost Explorer metric (default "UnblendedCost")`)
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "Log format: console or json")
	cmd.Flags().BoolVar(&f.skipUpload, "skip-upload", false, "Write the PDF locally without uploading it")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the run result as JSON instead of a table")
	cmd.Flags().BoolVar(&f.colored, "color", false, "Colour instance states in the summary table")

	return cmd
}

// loadConfig reads the configuration sources and applies flag overrides on top.
func loadConfig(f runFlags) (*config.Config, error) {
	cfg, err := config.NewFileLoader(f.configPath, f.envFile).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.AWS.Bucket, f.bucket)
	override(&cfg.AWS.Region, f.region)
	override(&cfg.AWS.Profile, f.profile)
	override(&cfg.Report.OutputDir, f.outputDir)
	override(&cfg.Report.KeyPrefix, f.prefix)
	override(&cfg.Report.CostMetric, f.metric)
	override(&cfg.Log.Level, f.logLevel)
	override(&cfg.Log.Format, f.logFormat)
	return cfg, nil
}

// runReport executes one engine run and prints its result to w.
// A partial result (local PDF written, upload failed) is still printed before
// the error is returned.
func runReport(ctx context.Context, eng engine.Engine, opts engine.RunOptions, w io.Writer, jsonOut bool, tableOpts output.TableOptions) (*models.ReportResult, error) {
	result, runErr := eng.Run(ctx, opts)
	if result != nil {
		if jsonOut {
			if err := printJSON(w, result); err != nil {
				return result, err
			}
		} else {
			fmt.Fprintln(w)
			output.RenderSummary(w, result, tableOpts)
		}
	}
	if runErr != nil {
		return result, fmt.Errorf("report run failed: %w", runErr)
	}
	return result, nil
}

// printJSON writes the result as indented JSON to w.
func printJSON(w io.Writer, result *models.ReportResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

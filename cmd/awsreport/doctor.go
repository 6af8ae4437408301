package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/aws-report/internal/config"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/storage"
)

// DoctorResult is the structured output of awsreport doctor. It can be
// serialised to JSON via --format=json or rendered as a human-readable table
// (default).
type DoctorResult struct {
	Config struct {
		Path   string   `json:"path"`
		Loaded bool     `json:"loaded"`
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors,omitempty"`
	} `json:"config"`

	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Region      string `json:"region,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Storage struct {
		Bucket    string `json:"bucket,omitempty"`
		Reachable bool   `json:"reachable"`
		Error     string `json:"error,omitempty"`
	} `json:"storage"`

	OverallHealthy bool `json:"overall_healthy"`
}

// bucketChecker probes the destination bucket.
type bucketChecker interface {
	CheckBucket(ctx context.Context, bucket string) error
}

// checkerFactory builds a bucketChecker around an S3 client.
type checkerFactory func(client common.S3Client) bucketChecker

func defaultCheckerFactory(client common.S3Client) bucketChecker {
	return storage.NewS3Uploader(client)
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			configPath, _ := cmd.Flags().GetString("config")
			envFile, _ := cmd.Flags().GetString("env-file")
			profile, _ := cmd.Flags().GetString("profile")
			result, err := runDoctor(
				cmd.Context(),
				config.NewFileLoader(configPath, envFile),
				common.NewDefaultAWSClientProvider(),
				defaultCheckerFactory,
				cmd.OutOrStdout(),
				format,
				profile,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main's Error: path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("config", "", "Path to config file (default: ~/.config/aws-report/config.yaml)")
	cmd.Flags().String("env-file", "", "Path to a dotenv file (default: ./.env when present)")
	cmd.Flags().String("profile", "", "AWS profile to use (overrides AWS_PROFILE)")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures. Callers must inspect
// result.OverallHealthy to decide whether the environment is usable.
func runDoctor(ctx context.Context, loader config.Loader, awsProvider common.AWSClientProvider, newChecker checkerFactory, w io.Writer, format, profile string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, loader, awsProvider, newChecker, profile)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// Checks short-circuit: no AWS call is made without a loaded config, and the
// bucket is only probed with working credentials.
func collectDoctorResult(ctx context.Context, loader config.Loader, awsProvider common.AWSClientProvider, newChecker checkerFactory, profile string) DoctorResult {
	var result DoctorResult

	// Config: load → validate.
	result.Config.Path = loader.ConfigPath()
	cfg, err := loader.Load()
	if err != nil {
		result.Config.Errors = []string{err.Error()}
		return result
	}
	result.Config.Loaded = true
	if profile != "" {
		cfg.AWS.Profile = profile
	}
	if err := cfg.Validate(true); err != nil {
		result.Config.Errors = splitJoined(err)
	} else {
		result.Config.Valid = true
	}

	// AWS: credentials → STS account ID.
	result.AWS.Profile = cfg.AWS.Profile
	profileCfg, err := awsProvider.Load(ctx, cfg.AWS)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		result.AWS.Region = profileCfg.Region
	}

	// Storage: HeadBucket on the configured bucket.
	result.Storage.Bucket = cfg.AWS.Bucket
	switch {
	case cfg.AWS.Bucket == "":
		result.Storage.Error = "no bucket configured"
	case !result.AWS.Credentials:
		result.Storage.Error = "skipped"
	default:
		if err := newChecker(profileCfg.Clients.S3).CheckBucket(ctx, cfg.AWS.Bucket); err != nil {
			result.Storage.Error = err.Error()
		} else {
			result.Storage.Reachable = true
		}
	}

	result.OverallHealthy = result.Config.Loaded &&
		result.Config.Valid &&
		result.AWS.Credentials &&
		result.Storage.Reachable

	return result
}

// splitJoined flattens an errors.Join result into one message per error.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nConfig:")
	if !result.Config.Loaded {
		for _, e := range result.Config.Errors {
			doctorPrint(w, "Config loaded", "FAIL", e)
		}
		doctorPrint(w, "Credentials", "FAIL", "skipped")
		doctorPrint(w, "Bucket reachable", "FAIL", "skipped")
		return
	}
	doctorPrint(w, "Config loaded", "OK", result.Config.Path)
	if result.Config.Valid {
		doctorPrint(w, "Config valid", "OK", "")
	} else {
		for _, e := range result.Config.Errors {
			doctorPrint(w, "Config valid", "FAIL", e)
		}
	}

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		doctorPrint(w, "Region", "OK", result.AWS.Region)
	}

	fmt.Fprintln(w, "\nStorage:")
	if result.Storage.Reachable {
		doctorPrint(w, "Bucket reachable", "OK", result.Storage.Bucket)
	} else {
		doctorPrint(w, "Bucket reachable", "FAIL", result.Storage.Error)
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}

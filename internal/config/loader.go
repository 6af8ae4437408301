package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by FileLoader.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvRegion          = "AWS_DEFAULT_REGION"
	EnvProfile         = "AWS_PROFILE"
	EnvBucket          = "S3_BUCKET"
	EnvKeyPrefix       = "REPORT_PREFIX"
	EnvOutputDir       = "REPORT_OUTPUT_DIR"
	EnvLogLevel        = "LOG_LEVEL"
)

// Defaults applied after all sources are merged.
const (
	DefaultKeyPrefix  = "reports/"
	DefaultCostMetric = "UnblendedCost"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// FileLoader is the production Loader.
type FileLoader struct {
	path    string
	envFile string
	getenv  func(string) string
}

// NewFileLoader returns a loader for the config file at path. An empty path
// selects ~/.config/aws-report/config.yaml. envFile names an optional dotenv
// file; empty means ".env" in the working directory.
func NewFileLoader(path, envFile string) *FileLoader {
	return &FileLoader{path: path, envFile: envFile, getenv: os.Getenv}
}

// ConfigPath implements Loader.
func (l *FileLoader) ConfigPath() string {
	if l.path != "" {
		return l.path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "aws-report", "config.yaml")
}

// Load implements Loader. A missing config file or .env file is not an error;
// a file that exists but cannot be parsed is.
func (l *FileLoader) Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(l.ConfigPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.ConfigPath(), err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config %s: %w", l.ConfigPath(), err)
	}

	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	applyEnv(cfg, l.getenv)
	applyDefaults(cfg)
	return cfg, nil
}

// loadEnvFile populates the process environment from the dotenv file.
// godotenv.Load never overrides variables that are already set.
func (l *FileLoader) loadEnvFile() error {
	path := l.envFile
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays non-empty environment values onto cfg.
func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.AWS.AccessKeyID, EnvAccessKeyID)
	set(&cfg.AWS.SecretAccessKey, EnvSecretAccessKey)
	set(&cfg.AWS.Region, EnvRegion)
	set(&cfg.AWS.Profile, EnvProfile)
	set(&cfg.AWS.Bucket, EnvBucket)
	set(&cfg.Report.KeyPrefix, EnvKeyPrefix)
	set(&cfg.Report.OutputDir, EnvOutputDir)
	set(&cfg.Log.Level, EnvLogLevel)
}

func applyDefaults(cfg *Config) {
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = os.TempDir()
	}
	if cfg.Report.KeyPrefix == "" {
		cfg.Report.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.Report.CostMetric == "" {
		cfg.Report.CostMetric = DefaultCostMetric
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

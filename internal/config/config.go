// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Telemetry exporter names accepted by OTEL_EXPORTER.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLP     = "otlp"
	ExporterOTLPGRPC = "otlpgrpc"
)

// minHashSaltLength mirrors logger.MinHashSaltLength.
const minHashSaltLength = 32

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL     string
	LogLevel        string
	LogFormat       string
	LogHashSalt     string
	ReportOutputDir string
	BcryptCost      int
	OTelExporter    string
	ServiceName     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       strings.ToLower(os.Getenv("LOG_FORMAT")),
		LogHashSalt:     os.Getenv("LOG_HASH_SALT"),
		ReportOutputDir: os.Getenv("REPORT_OUTPUT_DIR"),
		OTelExporter:    strings.ToLower(os.Getenv("OTEL_EXPORTER")),
		ServiceName:     os.Getenv("OTEL_SERVICE_NAME"),
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "."
	}
	if cfg.OTelExporter == "" {
		cfg.OTelExporter = ExporterNone
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "expense-ledger"
	}

	cfg.BcryptCost = bcrypt.DefaultCost
	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			return nil, fmt.Errorf("configuration validation failed:\n  - BCRYPT_COST must be an integer")
		}
		cfg.BcryptCost = cost
	}

	// Validate required configuration.
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if len(c.LogHashSalt) < minHashSaltLength {
		errs = append(errs, fmt.Sprintf("LOG_HASH_SALT must be at least %d characters", minHashSaltLength))
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, "LOG_FORMAT must be console or json")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	switch c.OTelExporter {
	case ExporterNone, ExporterStdout, ExporterOTLP, ExporterOTLPGRPC:
	default:
		errs = append(errs, "OTEL_EXPORTER must be one of none, stdout, otlp, otlpgrpc")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// TelemetryEnabled reports whether an exporter is configured.
func (c *Config) TelemetryEnabled() bool {
	return c.OTelExporter != ExporterNone
}

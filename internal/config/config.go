// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aristath/graham/internal/clients/fmp"
	"github.com/aristath/graham/internal/modules/settings"
	"github.com/aristath/graham/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir             string // Base directory for all databases (always absolute)
	Port                int
	LogLevel            string
	DevMode             bool
	FMPAPIKey           string
	FMPBaseURL          string
	FMPRateLimit        int // requests per second
	AllowedOrigins      []string
	DefaultTolerancePct float64
	R2                  R2Config
}

// R2Config holds Cloudflare R2 backup settings
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	RetentionDays   int
}

// Enabled reports whether every credential needed for backups is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	origins := utils.ParseCSV(getEnv("ALLOWED_ORIGINS", ""))
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	cfg := &Config{
		DataDir:             absDataDir,
		Port:                getEnvAsInt("PORT", 8080),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		FMPAPIKey:           getEnv("FMP_API_KEY", ""),
		FMPBaseURL:          strings.TrimRight(getEnv("FMP_BASE_URL", fmp.DefaultBaseURL), "/"),
		FMPRateLimit:        getEnvAsInt("FMP_RATE_LIMIT", fmp.DefaultRateLimit),
		AllowedOrigins:      origins,
		DefaultTolerancePct: getEnvAsFloat("DEFAULT_TOLERANCE_PCT", 10),
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("R2_BUCKET", ""),
			RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SettingsReader is the subset of the settings repository config needs.
type SettingsReader interface {
	Get(key string) (*string, error)
}

// UpdateFromSettings updates configuration from settings database
// This should be called after the config database is initialized
// Settings DB values take precedence over environment variables
func (c *Config) UpdateFromSettings(settingsRepo SettingsReader) error {
	overrides := []struct {
		key    string
		target *string
	}{
		{settings.KeyFMPAPIKey, &c.FMPAPIKey},
		{settings.KeyR2AccountID, &c.R2.AccountID},
		{settings.KeyR2AccessKeyID, &c.R2.AccessKeyID},
		{settings.KeyR2SecretAccessKey, &c.R2.SecretAccessKey},
		{settings.KeyR2BucketName, &c.R2.Bucket},
	}

	for _, o := range overrides {
		value, err := settingsRepo.Get(o.key)
		if err != nil {
			return fmt.Errorf("failed to get %s from settings: %w", o.key, err)
		}
		// Empty settings keep the env var value as fallback
		if value != nil && *value != "" {
			*o.target = *value
		}
	}

	if err := c.overrideFloat(settingsRepo, settings.KeyDefaultTolerancePct, func(f float64) {
		c.DefaultTolerancePct = f
	}); err != nil {
		return err
	}

	return c.overrideFloat(settingsRepo, settings.KeyBackupRetentionDays, func(f float64) {
		c.R2.RetentionDays = int(f)
	})
}

func (c *Config) overrideFloat(settingsRepo SettingsReader, key string, apply func(float64)) error {
	value, err := settingsRepo.Get(key)
	if err != nil {
		return fmt.Errorf("failed to get %s from settings: %w", key, err)
	}
	if value == nil || *value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s in settings: %w", key, err)
	}
	apply(f)
	return nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if math.IsNaN(c.DefaultTolerancePct) || c.DefaultTolerancePct < 0 || c.DefaultTolerancePct > 100 {
		return fmt.Errorf("DEFAULT_TOLERANCE_PCT must be between 0 and 100, got %v", c.DefaultTolerancePct)
	}
	if c.FMPRateLimit <= 0 {
		return fmt.Errorf("FMP_RATE_LIMIT must be positive, got %d", c.FMPRateLimit)
	}
	if c.R2.RetentionDays < 0 {
		return fmt.Errorf("BACKUP_RETENTION_DAYS must not be negative, got %d", c.R2.RetentionDays)
	}

	// FMP API key is optional: the proxy reports it missing per request and it can be set at runtime

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/hoteldo/internal/modules/recommendations"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the database and exports (always absolute)
	DatabasePath   string
	RatesFile      string // Rate comparison CSV export
	RequestsFile   string // Demand requests CSV export
	ReloadSchedule string // Cron expression; empty disables scheduled reloads
	LogLevel       string
	Port           int
	DevMode        bool
	Thresholds     ThresholdConfig
	Backup         BackupConfig
}

// BackupConfig holds the S3-compatible backup target.
// Backups are disabled unless Bucket is set.
type BackupConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PathStyle     bool
	Schedule      string
	RetentionDays int
}

// Enabled reports whether backups are configured
func (b BackupConfig) Enabled() bool {
	return b.Bucket != ""
}

// ThresholdConfig holds the recommendation rule thresholds
type ThresholdConfig struct {
	Overpriced         float64
	Underpriced        float64
	MaxRateCut         float64
	CriticalLostRate   float64
	SegmentLostRequest float64
	RecoveryConversion float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("HOTELDO_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	defaults := recommendations.DefaultThresholds()

	cfg := &Config{
		DataDir:        absDataDir,
		DatabasePath:   resolvePath(absDataDir, getEnv("HOTELDO_DB_PATH", "hoteldo.db")),
		RatesFile:      resolvePath(absDataDir, getEnv("HOTELDO_RATES_FILE", "detallehound_data.csv")),
		RequestsFile:   resolvePath(absDataDir, getEnv("HOTELDO_REQUESTS_FILE", "requests_data.csv")),
		ReloadSchedule: getEnvAllowEmpty("HOTELDO_RELOAD_SCHEDULE", "@every 1h"),
		Port:           getEnvAsInt("GO_PORT", 8001),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Thresholds: ThresholdConfig{
			Overpriced:         getEnvAsFloat("HOTELDO_OVERPRICED_THRESHOLD", defaults.Overpriced),
			Underpriced:        getEnvAsFloat("HOTELDO_UNDERPRICED_THRESHOLD", defaults.Underpriced),
			MaxRateCut:         getEnvAsFloat("HOTELDO_MAX_RATE_CUT", defaults.MaxRateCut),
			CriticalLostRate:   getEnvAsFloat("HOTELDO_CRITICAL_LOST_RATE", defaults.CriticalLostRate),
			SegmentLostRequest: getEnvAsFloat("HOTELDO_SEGMENT_LOST_REQUESTS", defaults.SegmentLostRequest),
			RecoveryConversion: getEnvAsFloat("HOTELDO_RECOVERY_CONVERSION", defaults.RecoveryConversion),
		},
		Backup: BackupConfig{
			Endpoint:      getEnv("HOTELDO_BACKUP_ENDPOINT", ""),
			Region:        getEnv("HOTELDO_BACKUP_REGION", "auto"),
			Bucket:        getEnv("HOTELDO_BACKUP_BUCKET", ""),
			AccessKey:     getEnv("HOTELDO_BACKUP_ACCESS_KEY", ""),
			SecretKey:     getEnv("HOTELDO_BACKUP_SECRET_KEY", ""),
			PathStyle:     getEnvAsBool("HOTELDO_BACKUP_PATH_STYLE", false),
			Schedule:      getEnv("HOTELDO_BACKUP_SCHEDULE", "0 30 2 * * *"),
			RetentionDays: getEnvAsInt("HOTELDO_BACKUP_RETENTION_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if configuration values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}

	t := c.Thresholds
	if t.Overpriced <= t.Underpriced {
		return fmt.Errorf("overpriced threshold (%v) must be above underpriced threshold (%v)", t.Overpriced, t.Underpriced)
	}
	if t.MaxRateCut <= 0 {
		return fmt.Errorf("max rate cut must be positive, got %v", t.MaxRateCut)
	}
	if t.CriticalLostRate < 0 || t.CriticalLostRate > 1 {
		return fmt.Errorf("critical lost rate must be within [0, 1], got %v", t.CriticalLostRate)
	}
	if t.SegmentLostRequest < 0 {
		return fmt.Errorf("segment lost requests threshold must not be negative, got %v", t.SegmentLostRequest)
	}
	if t.RecoveryConversion < 0 {
		return fmt.Errorf("recovery conversion must not be negative, got %v", t.RecoveryConversion)
	}

	if c.Backup.Enabled() {
		if (c.Backup.AccessKey == "") != (c.Backup.SecretKey == "") {
			return fmt.Errorf("backup access key and secret key must be set together")
		}
		if c.Backup.RetentionDays < 0 {
			return fmt.Errorf("backup retention days must not be negative, got %d", c.Backup.RetentionDays)
		}
	}

	return nil
}

// RecommendationThresholds converts the configured values for the engine
func (c *Config) RecommendationThresholds() recommendations.Thresholds {
	return recommendations.Thresholds{
		Overpriced:         c.Thresholds.Overpriced,
		Underpriced:        c.Thresholds.Underpriced,
		MaxRateCut:         c.Thresholds.MaxRateCut,
		CriticalLostRate:   c.Thresholds.CriticalLostRate,
		SegmentLostRequest: c.Thresholds.SegmentLostRequest,
		RecoveryConversion: c.Thresholds.RecoveryConversion,
	}
}

// resolvePath anchors relative paths at the data directory
func resolvePath(dataDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty treats an explicitly empty variable as a value
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
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

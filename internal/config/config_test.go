package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hoteldo/internal/modules/recommendations"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOTELDO_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "hoteldo.db"), cfg.DatabasePath)
	assert.Equal(t, filepath.Join(dir, "detallehound_data.csv"), cfg.RatesFile)
	assert.Equal(t, filepath.Join(dir, "requests_data.csv"), cfg.RequestsFile)
	assert.Equal(t, "@every 1h", cfg.ReloadSchedule)
	assert.Equal(t, 8001, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, recommendations.DefaultThresholds(), cfg.RecommendationThresholds())
	assert.False(t, cfg.Backup.Enabled())
	assert.Equal(t, "auto", cfg.Backup.Region)
	assert.Equal(t, 30, cfg.Backup.RetentionDays)
}

func TestLoad_Backup(t *testing.T) {
	t.Setenv("HOTELDO_DATA_DIR", t.TempDir())
	t.Setenv("HOTELDO_BACKUP_BUCKET", "hoteldo-backups")
	t.Setenv("HOTELDO_BACKUP_ENDPOINT", "https://account.r2.cloudflarestorage.com")
	t.Setenv("HOTELDO_BACKUP_ACCESS_KEY", "key")
	t.Setenv("HOTELDO_BACKUP_SECRET_KEY", "secret")
	t.Setenv("HOTELDO_BACKUP_RETENTION_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Backup.Enabled())
	assert.Equal(t, "hoteldo-backups", cfg.Backup.Bucket)
	assert.Equal(t, "https://account.r2.cloudflarestorage.com", cfg.Backup.Endpoint)
	assert.Equal(t, "0 30 2 * * *", cfg.Backup.Schedule)
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
}

func TestLoad_BackupRequiresBothKeys(t *testing.T) {
	t.Setenv("HOTELDO_DATA_DIR", t.TempDir())
	t.Setenv("HOTELDO_BACKUP_BUCKET", "hoteldo-backups")
	t.Setenv("HOTELDO_BACKUP_ACCESS_KEY", "key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOTELDO_DATA_DIR", dir)
	t.Setenv("HOTELDO_DB_PATH", "/tmp/other.db")
	t.Setenv("HOTELDO_RATES_FILE", "rates.csv")
	t.Setenv("HOTELDO_RELOAD_SCHEDULE", "")
	t.Setenv("GO_PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("HOTELDO_OVERPRICED_THRESHOLD", "0.1")
	t.Setenv("HOTELDO_SEGMENT_LOST_REQUESTS", "250")
	t.Setenv("HOTELDO_MAX_RATE_CUT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
	assert.Equal(t, filepath.Join(dir, "rates.csv"), cfg.RatesFile)
	assert.Empty(t, cfg.ReloadSchedule, "explicitly empty schedule disables reloads")
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)

	th := cfg.RecommendationThresholds()
	assert.Equal(t, 0.1, th.Overpriced)
	assert.Equal(t, 250.0, th.SegmentLostRequest)
	assert.Equal(t, 0.15, th.MaxRateCut, "unparsable value falls back to default")
}

func TestLoad_InvalidThresholds(t *testing.T) {
	t.Setenv("HOTELDO_DATA_DIR", t.TempDir())
	t.Setenv("HOTELDO_OVERPRICED_THRESHOLD", "-0.1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overpriced threshold")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		d := recommendations.DefaultThresholds()
		return &Config{
			DatabasePath: "x.db",
			Port:         8001,
			Thresholds: ThresholdConfig{
				Overpriced:         d.Overpriced,
				Underpriced:        d.Underpriced,
				MaxRateCut:         d.MaxRateCut,
				CriticalLostRate:   d.CriticalLostRate,
				SegmentLostRequest: d.SegmentLostRequest,
				RecoveryConversion: d.RecoveryConversion,
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"missing database", func(c *Config) { c.DatabasePath = "" }},
		{"inverted band", func(c *Config) { c.Thresholds.Underpriced = 0.2 }},
		{"non-positive rate cut", func(c *Config) { c.Thresholds.MaxRateCut = 0 }},
		{"lost rate above one", func(c *Config) { c.Thresholds.CriticalLostRate = 1.5 }},
		{"negative segment threshold", func(c *Config) { c.Thresholds.SegmentLostRequest = -1 }},
		{"negative conversion", func(c *Config) { c.Thresholds.RecoveryConversion = -0.1 }},
		{"negative backup retention", func(c *Config) {
			c.Backup = BackupConfig{Bucket: "b", RetentionDays: -1}
		}},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/config"
	"github.com/aristath/hoteldo/internal/events"
	"github.com/aristath/hoteldo/internal/ingest"
	"github.com/aristath/hoteldo/internal/modules/cache"
	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/modules/pricing"
	"github.com/aristath/hoteldo/internal/modules/recommendations"
	"github.com/aristath/hoteldo/internal/reliability"
	"github.com/aristath/hoteldo/internal/scheduler"
)

// InitializeServices creates the analyzers, the cache in front of them and the engine
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	container.Loader = ingest.NewLoader(log)
	container.PricingAnalyzer = pricing.NewAnalyzer(log)
	container.DemandAnalyzer = demand.NewAnalyzer(log)

	// Engine reads through the cache; results are a pure function of the snapshot
	container.AnalysisCache = cache.NewAnalysisCache(container.PricingAnalyzer, container.DemandAnalyzer, log)
	container.RecommendationEngine = recommendations.NewEngine(
		container.AnalysisCache,
		container.AnalysisCache,
		cfg.RecommendationThresholds(),
		log,
	)

	container.EventBus = events.NewBus(log)

	if cfg.Backup.Enabled() {
		client, err := reliability.NewS3Client(context.Background(), reliability.S3Config{
			Endpoint:        cfg.Backup.Endpoint,
			Region:          cfg.Backup.Region,
			Bucket:          cfg.Backup.Bucket,
			AccessKeyID:     cfg.Backup.AccessKey,
			SecretAccessKey: cfg.Backup.SecretKey,
			UsePathStyle:    cfg.Backup.PathStyle,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create backup client: %w", err)
		}
		container.BackupService = reliability.NewBackupService(
			client,
			container.DB,
			filepath.Join(cfg.DataDir, "backups"),
			log,
		)
	}

	container.Scheduler = scheduler.New(log)

	log.Info().Msg("Services initialized")
	return nil
}

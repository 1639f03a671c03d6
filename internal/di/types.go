/**
 * Package di provides dependency injection type definitions.
 *
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to services.
 */
package di

import (
	"github.com/aristath/hoteldo/internal/database"
	"github.com/aristath/hoteldo/internal/events"
	"github.com/aristath/hoteldo/internal/ingest"
	"github.com/aristath/hoteldo/internal/modules/cache"
	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/modules/pricing"
	"github.com/aristath/hoteldo/internal/modules/recommendations"
	"github.com/aristath/hoteldo/internal/reliability"
	"github.com/aristath/hoteldo/internal/scheduler"
	"github.com/aristath/hoteldo/internal/store"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Database: one SQLite file holding the imported exports
 * - Store: repository plus the holder publishing the live snapshot
 * - Services: analyzers, the analysis cache and the recommendation engine
 * - Events: in-process bus streamed to WebSocket clients
 * - Reliability: optional S3 backups (nil when no bucket is configured)
 * - Scheduler: cron runner for reloads, integrity checks and backups
 */
type Container struct {
	// Database
	DB *database.DB

	// Store
	DatasetRepo *store.Repository
	Snapshots   *store.Holder

	// Services
	Loader               *ingest.Loader
	PricingAnalyzer      *pricing.Analyzer
	DemandAnalyzer       *demand.Analyzer
	AnalysisCache        *cache.AnalysisCache
	RecommendationEngine *recommendations.Engine
	EventBus             *events.Bus

	// Reliability
	BackupService *reliability.BackupService

	// Scheduler
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered jobs for manual triggering via API
type JobInstances struct {
	ReloadDataset *scheduler.ReloadDatasetJob
	CheckDatabase *scheduler.CheckDatabaseJob
	BackupDataset *scheduler.BackupDatasetJob // nil when backups are disabled
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/hoteldo/internal/modules/cache"
	"github.com/aristath/hoteldo/internal/reliability"
	"github.com/aristath/hoteldo/internal/scheduler"
	"github.com/aristath/hoteldo/internal/store"
)

// SnapshotProvider returns the snapshot in effect
type SnapshotProvider interface {
	Current() *store.Snapshot
}

// ImportHistory reports the latest persisted import
type ImportHistory interface {
	LastImport() (*store.ImportInfo, error)
}

// HealthChecker verifies the database answers
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CacheStats reports analysis cache effectiveness
type CacheStats interface {
	Stats() cache.Stats
}

// Reloader re-ingests the exports
type Reloader interface {
	Reload() (*scheduler.ReloadResult, error)
}

// JobHistory reports scheduled job runs
type JobHistory interface {
	Runs() []scheduler.JobRun
}

// BackupLister lists remote backups
type BackupLister interface {
	ListBackups(ctx context.Context) ([]reliability.BackupInfo, error)
}

// SystemHandlers handles system-wide monitoring and operations
type SystemHandlers struct {
	log       zerolog.Logger
	snapshots SnapshotProvider
	imports   ImportHistory
	db        HealthChecker
	cache     CacheStats
	reloader  Reloader
	integrity scheduler.Job
	backup    scheduler.Job
	backups   BackupLister
	jobs      JobHistory
	startup   time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	snapshots SnapshotProvider,
	imports ImportHistory,
	db HealthChecker,
	cacheStats CacheStats,
	reloader Reloader,
	integrity scheduler.Job,
) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("service", "system").Logger(),
		snapshots: snapshots,
		imports:   imports,
		db:        db,
		cache:     cacheStats,
		reloader:  reloader,
		integrity: integrity,
		startup:   time.Now(),
	}
}

// SetBackups enables the backup endpoints
func (h *SystemHandlers) SetBackups(job scheduler.Job, lister BackupLister) {
	h.backup = job
	h.backups = lister
}

// SetJobHistory adds job run history to the status response
func (h *SystemHandlers) SetJobHistory(jobs JobHistory) {
	h.jobs = jobs
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string             `json:"status"` // "healthy" or "degraded"
	SnapshotID    string             `json:"snapshot_id"`
	LoadedAt      string             `json:"loaded_at"`
	RateRecords   int                `json:"rate_records"`
	DemandRecords int                `json:"demand_records"`
	Hotels        int                `json:"hotels"`
	LastImport    *store.ImportInfo  `json:"last_import,omitempty"`
	Cache         cache.Stats        `json:"cache"`
	CPUPercent    float64            `json:"cpu_percent"`
	RAMPercent    float64            `json:"ram_percent"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	Jobs          []scheduler.JobRun `json:"jobs,omitempty"`
	Warnings      []string           `json:"warnings,omitempty"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	snap := h.snapshots.Current()
	rates, demand := snap.Counts()

	resp := SystemStatusResponse{
		Status:        "healthy",
		SnapshotID:    snap.Version(),
		LoadedAt:      snap.LoadedAt().Format(time.RFC3339),
		RateRecords:   rates,
		DemandRecords: demand,
		Hotels:        len(snap.Hotels()),
		UptimeSeconds: int64(time.Since(h.startup).Seconds()),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.HealthCheck(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Database health check failed")
			resp.Status = "degraded"
			resp.Warnings = append(resp.Warnings, err.Error())
		}
	}

	if h.imports != nil {
		info, err := h.imports.LastImport()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get last import")
			resp.Warnings = append(resp.Warnings, err.Error())
		}
		resp.LastImport = info
	}

	if h.cache != nil {
		resp.Cache = h.cache.Stats()
	}

	if h.jobs != nil {
		resp.Jobs = h.jobs.Runs()
	}

	resp.CPUPercent, resp.RAMPercent = h.getSystemStats()

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleReload handles POST /api/system/reload
func (h *SystemHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "reload not configured"})
		return
	}

	result, err := h.reloader.Reload()
	if err != nil {
		h.log.Error().Err(err).Msg("Manual reload failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.log.Info().Str("snapshot_id", result.SnapshotID).Msg("Manual reload completed")
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Dataset reloaded",
		"data":    result,
	})
}

// HandleIntegrityCheck handles POST /api/system/integrity-check
func (h *SystemHandlers) HandleIntegrityCheck(w http.ResponseWriter, r *http.Request) {
	if h.integrity == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "integrity check not configured"})
		return
	}

	if err := h.integrity.Run(); err != nil {
		h.log.Error().Err(err).Msg("Integrity check failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Database integrity OK",
	})
}

// HandleBackup handles POST /api/system/backup
func (h *SystemHandlers) HandleBackup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "backups not configured"})
		return
	}

	if err := h.backup.Run(); err != nil {
		h.log.Error().Err(err).Msg("Manual backup failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Backup uploaded",
	})
}

// HandleListBackups handles GET /api/system/backups
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "backups not configured"})
		return
	}

	backups, err := h.backups.ListBackups(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list backups")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"backups": backups,
		"count":   len(backups),
	})
}

// getSystemStats returns CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// 100ms sample keeps the status call responsive
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

package scheduler

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/events"
	"github.com/aristath/hoteldo/internal/store"
	"github.com/aristath/hoteldo/internal/utils"
)

// ExportLoader reads the rate comparison and demand exports
type ExportLoader interface {
	LoadFiles(ratesPath, requestsPath string) ([]domain.RateComparisonRecord, []domain.DemandRecord, error)
}

// DatasetWriter persists a full dataset and returns its snapshot
type DatasetWriter interface {
	Replace(rates []domain.RateComparisonRecord, demand []domain.DemandRecord, source string) (*store.Snapshot, error)
}

// CachePurger drops cached results of replaced snapshots
type CachePurger interface {
	Purge(keepVersion string) int
}

// EventEmitter publishes job outcomes
type EventEmitter interface {
	Emit(module string, data events.EventData)
}

// ReloadResult describes a completed reload
type ReloadResult struct {
	SnapshotID string `json:"snapshot_id"`
	RateRows   int    `json:"rate_rows"`
	DemandRows int    `json:"demand_rows"`
}

// ReloadDatasetJob re-ingests the exports and atomically installs the new snapshot
type ReloadDatasetJob struct {
	log          zerolog.Logger
	loader       ExportLoader
	writer       DatasetWriter
	holder       *store.Holder
	cache        CachePurger
	emitter      EventEmitter
	ratesFile    string
	requestsFile string

	mu sync.Mutex
}

// NewReloadDatasetJob creates a new ReloadDatasetJob. cache may be nil.
func NewReloadDatasetJob(
	loader ExportLoader,
	writer DatasetWriter,
	holder *store.Holder,
	cache CachePurger,
	ratesFile string,
	requestsFile string,
) *ReloadDatasetJob {
	return &ReloadDatasetJob{
		log:          zerolog.Nop(),
		loader:       loader,
		writer:       writer,
		holder:       holder,
		cache:        cache,
		ratesFile:    ratesFile,
		requestsFile: requestsFile,
	}
}

// SetLogger sets the logger for the job
func (j *ReloadDatasetJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// SetEmitter sets where reload outcomes are published
func (j *ReloadDatasetJob) SetEmitter(emitter EventEmitter) {
	j.emitter = emitter
}

// Name returns the job name
func (j *ReloadDatasetJob) Name() string {
	return "reload_dataset"
}

// Run executes the reload
func (j *ReloadDatasetJob) Run() error {
	_, err := j.Reload()
	return err
}

// Reload ingests both exports, persists them and swaps the live snapshot.
// On failure the current snapshot stays in place.
func (j *ReloadDatasetJob) Reload() (*ReloadResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	defer utils.OperationTimer(j.Name(), j.log)()

	rates, demand, err := j.loader.LoadFiles(j.ratesFile, j.requestsFile)
	if err != nil {
		return nil, j.fail(fmt.Errorf("failed to load exports: %w", err))
	}

	snap, err := j.writer.Replace(rates, demand, j.ratesFile+";"+j.requestsFile)
	if err != nil {
		return nil, j.fail(fmt.Errorf("failed to persist dataset: %w", err))
	}

	previous := j.holder.Swap(snap)
	if j.cache != nil {
		j.cache.Purge(snap.Version())
	}

	rateRows, demandRows := snap.Counts()
	j.log.Info().
		Str("snapshot_id", snap.Version()).
		Str("previous_snapshot_id", previous.Version()).
		Int("rate_rows", rateRows).
		Int("demand_rows", demandRows).
		Msg("Dataset reloaded")

	if j.emitter != nil {
		j.emitter.Emit(j.Name(), &events.DatasetReloadedData{
			SnapshotID:         snap.Version(),
			PreviousSnapshotID: previous.Version(),
			RateRows:           rateRows,
			DemandRows:         demandRows,
		})
	}

	return &ReloadResult{
		SnapshotID: snap.Version(),
		RateRows:   rateRows,
		DemandRows: demandRows,
	}, nil
}

func (j *ReloadDatasetJob) fail(err error) error {
	if j.emitter != nil {
		j.emitter.Emit(j.Name(), &events.ReloadFailedData{Error: err.Error()})
	}
	return err
}

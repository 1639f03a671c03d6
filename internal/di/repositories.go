package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/store"
)

// InitializeRepositories creates the dataset repository and publishes the
// persisted snapshot, so a restart serves the last import before any reload.
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil || container.DB == nil {
		return fmt.Errorf("container database is not initialized")
	}

	container.DatasetRepo = store.NewRepository(container.DB.Conn(), log)
	container.Snapshots = store.NewHolder()

	snap, err := container.DatasetRepo.Load()
	if err != nil {
		return fmt.Errorf("failed to load persisted dataset: %w", err)
	}
	container.Snapshots.Swap(snap)

	rates, demand := snap.Counts()
	log.Info().
		Str("snapshot_id", snap.Version()).
		Int("rate_rows", rates).
		Int("demand_rows", demand).
		Msg("Persisted dataset loaded")

	return nil
}

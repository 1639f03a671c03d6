package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/config"
	"github.com/aristath/hoteldo/internal/database"
)

// InitializeDatabases opens and migrates the dataset database
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath,
		Profile: database.ProfileStandard,
		Name:    "hoteldo",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hoteldo database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply hoteldo schema: %w", err)
	}

	log.Info().Str("path", db.Path()).Msg("Database initialized")

	return &Container{DB: db}, nil
}

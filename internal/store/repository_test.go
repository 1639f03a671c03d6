package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hoteldo/internal/database"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "hoteldo.db"),
		Name: "hoteldo",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRepository_ReplaceAndLoad(t *testing.T) {
	repo := setupRepository(t)

	snap, err := repo.Replace(sampleRates(), sampleDemand(), "test")
	require.NoError(t, err)

	loaded, err := repo.Load()
	require.NoError(t, err)

	assert.Equal(t, snap.AllRates(), loaded.AllRates(), "missing variances must round-trip as nil")
	assert.Equal(t, snap.AllDemand(), loaded.AllDemand())
	assert.Nil(t, loaded.AllRates()[0].ChannelVarianceB2C)
}

func TestRepository_ReplaceOverwritesPreviousImport(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.Replace(sampleRates(), sampleDemand(), "first")
	require.NoError(t, err)
	second, err := repo.Replace(sampleRates()[:1], nil, "second")
	require.NoError(t, err)

	loaded, err := repo.Load()
	require.NoError(t, err)
	rates, demand := loaded.Counts()
	assert.Equal(t, 1, rates)
	assert.Equal(t, 0, demand)

	info, err := repo.LastImport()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, second.Version(), info.SnapshotID)
	assert.Equal(t, "second", info.Source)
	assert.Equal(t, 1, info.RateRows)
	assert.Equal(t, 0, info.DemandRows)
}

func TestRepository_LastImportEmpty(t *testing.T) {
	repo := setupRepository(t)

	info, err := repo.LastImport()
	require.NoError(t, err)
	assert.Nil(t, info)
}

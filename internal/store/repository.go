package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/database"
	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/utils"
)

// ImportInfo describes the most recent dataset import
type ImportInfo struct {
	SnapshotID string    `json:"snapshot_id"`
	RateRows   int       `json:"rate_rows"`
	DemandRows int       `json:"demand_rows"`
	Source     string    `json:"source"`
	ImportedAt time.Time `json:"imported_at"`
}

// Repository persists the cleaned record tables in SQLite so a restart can
// serve the last imported data without re-reading the source files.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new dataset repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "datasets").Logger(),
	}
}

// Replace atomically swaps the stored tables for the given records and
// returns the snapshot built from them.
func (r *Repository) Replace(rates []domain.RateComparisonRecord, demand []domain.DemandRecord, source string) (*Snapshot, error) {
	snap := NewSnapshot(rates, demand)

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM rate_comparisons"); err != nil {
			return fmt.Errorf("failed to clear rate_comparisons: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM demand_requests"); err != nil {
			return fmt.Errorf("failed to clear demand_requests: %w", err)
		}

		rateStmt, err := tx.Prepare(`
			INSERT INTO rate_comparisons
				(hotel_id, hotel_name, channel_variance_b2b, channel_variance_b2c, reference_rate_b2b, reference_rate_b2c)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare rate insert: %w", err)
		}
		defer rateStmt.Close()

		for _, rec := range snap.AllRates() {
			if _, err := rateStmt.Exec(
				rec.HotelID,
				rec.HotelName,
				nullFloat(rec.ChannelVarianceB2B),
				nullFloat(rec.ChannelVarianceB2C),
				rec.ReferenceRateB2B,
				rec.ReferenceRateB2C,
			); err != nil {
				return fmt.Errorf("failed to insert rate record for %s: %w", rec.HotelName, err)
			}
		}

		demandStmt, err := tx.Prepare(`
			INSERT INTO demand_requests
				(hotel_id, nationality, total_requests, total_availability, orders, gb)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare demand insert: %w", err)
		}
		defer demandStmt.Close()

		for _, rec := range snap.AllDemand() {
			if _, err := demandStmt.Exec(
				rec.HotelID,
				rec.Nationality,
				rec.TotalRequests,
				rec.TotalAvailability,
				rec.Orders,
				rec.GB,
			); err != nil {
				return fmt.Errorf("failed to insert demand record for %s: %w", rec.HotelID, err)
			}
		}

		rateRows, demandRows := snap.Counts()
		if _, err := tx.Exec(`
			INSERT INTO imports (snapshot_id, rate_rows, demand_rows, source, imported_at)
			VALUES (?, ?, ?, ?, ?)
		`, snap.Version(), rateRows, demandRows, source, snap.LoadedAt().Unix()); err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	rateRows, demandRows := snap.Counts()
	r.log.Info().
		Str("snapshot", snap.Version()).
		Int("rate_rows", rateRows).
		Int("demand_rows", demandRows).
		Str("source", source).
		Msg("Datasets replaced")

	return snap, nil
}

// Load builds a snapshot from the stored tables, in insertion order
func (r *Repository) Load() (*Snapshot, error) {
	rates, err := r.loadRates()
	if err != nil {
		return nil, err
	}
	demand, err := r.loadDemand()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(rates, demand), nil
}

// LastImport returns the most recent import, or nil if nothing was imported yet
func (r *Repository) LastImport() (*ImportInfo, error) {
	var info ImportInfo
	var importedAt int64
	err := r.db.QueryRow(`
		SELECT snapshot_id, rate_rows, demand_rows, source, imported_at
		FROM imports
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&info.SnapshotID, &info.RateRows, &info.DemandRows, &info.Source, &importedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last import: %w", err)
	}
	info.ImportedAt = time.Unix(importedAt, 0).UTC()
	return &info, nil
}

func (r *Repository) loadRates() ([]domain.RateComparisonRecord, error) {
	done := utils.MeasureQuery("load_rate_comparisons", r.log)
	rows, err := r.db.Query(`
		SELECT hotel_id, hotel_name, channel_variance_b2b, channel_variance_b2c, reference_rate_b2b, reference_rate_b2c
		FROM rate_comparisons
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate_comparisons: %w", err)
	}
	defer rows.Close()

	var records []domain.RateComparisonRecord
	for rows.Next() {
		var rec domain.RateComparisonRecord
		var b2b, b2c sql.NullFloat64
		if err := rows.Scan(&rec.HotelID, &rec.HotelName, &b2b, &b2c, &rec.ReferenceRateB2B, &rec.ReferenceRateB2C); err != nil {
			return nil, fmt.Errorf("failed to scan rate record: %w", err)
		}
		if b2b.Valid {
			rec.ChannelVarianceB2B = domain.Float(b2b.Float64)
		}
		if b2c.Valid {
			rec.ChannelVarianceB2C = domain.Float(b2c.Float64)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate records: %w", err)
	}
	done(len(records))
	return records, nil
}

func (r *Repository) loadDemand() ([]domain.DemandRecord, error) {
	done := utils.MeasureQuery("load_demand_requests", r.log)
	rows, err := r.db.Query(`
		SELECT hotel_id, nationality, total_requests, total_availability, orders, gb
		FROM demand_requests
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query demand_requests: %w", err)
	}
	defer rows.Close()

	var records []domain.DemandRecord
	for rows.Next() {
		var rec domain.DemandRecord
		if err := rows.Scan(&rec.HotelID, &rec.Nationality, &rec.TotalRequests, &rec.TotalAvailability, &rec.Orders, &rec.GB); err != nil {
			return nil, fmt.Errorf("failed to scan demand record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demand records: %w", err)
	}
	done(len(records))
	return records, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

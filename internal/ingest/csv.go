// Package ingest reads the rate comparison and demand exports into domain records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/domain"
)

// Rate comparison export columns
const (
	ColOid              = "Oid"
	ColHotelName        = "Nombre_Hotel"
	ColVarianceB2B      = "Var_B2B"
	ColVarianceB2C      = "Var_B2C"
	ColReferenceRateB2B = "PamBaseRate ($)"
	ColReferenceRateB2C = "PAM_B2C ($)"
)

// Demand export columns
const (
	ColHotelID           = "hotelid"
	ColNationality       = "nationality"
	ColTotalRequests     = "total_requests"
	ColTotalAvailability = "total_availability"
	ColOrders            = "orders"
	ColGB                = "gb"
)

// ErrMissingColumn is returned when a required header is absent
var ErrMissingColumn = errors.New("missing required column")

var (
	rateColumns   = []string{ColOid, ColHotelName, ColVarianceB2B, ColVarianceB2C, ColReferenceRateB2B, ColReferenceRateB2C}
	demandColumns = []string{ColHotelID, ColNationality, ColTotalRequests, ColTotalAvailability, ColOrders, ColGB}
)

// Loader reads CSV exports
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "ingest").Logger(),
	}
}

// LoadRateComparisons parses a rate comparison export.
// Row order is preserved and duplicates are kept.
func (l *Loader) LoadRateComparisons(r io.Reader) ([]domain.RateComparisonRecord, error) {
	rows, err := readTable(r, rateColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate comparisons: %w", err)
	}

	records := make([]domain.RateComparisonRecord, 0, len(rows.data))
	for _, row := range rows.data {
		records = append(records, domain.RateComparisonRecord{
			HotelID:            NormalizeHotelID(rows.get(row, ColOid)),
			HotelName:          strings.TrimSpace(rows.get(row, ColHotelName)),
			ChannelVarianceB2B: CleanOptional(rows.get(row, ColVarianceB2B)),
			ChannelVarianceB2C: CleanOptional(rows.get(row, ColVarianceB2C)),
			ReferenceRateB2B:   CleanNumeric(rows.get(row, ColReferenceRateB2B)),
			ReferenceRateB2C:   CleanNumeric(rows.get(row, ColReferenceRateB2C)),
		})
	}

	l.log.Debug().Int("rows", len(records)).Msg("Parsed rate comparisons")
	return records, nil
}

// LoadDemand parses a demand export
func (l *Loader) LoadDemand(r io.Reader) ([]domain.DemandRecord, error) {
	rows, err := readTable(r, demandColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to read demand requests: %w", err)
	}

	records := make([]domain.DemandRecord, 0, len(rows.data))
	for _, row := range rows.data {
		records = append(records, domain.DemandRecord{
			HotelID:           NormalizeHotelID(rows.get(row, ColHotelID)),
			Nationality:       strings.TrimSpace(rows.get(row, ColNationality)),
			TotalRequests:     CleanNumeric(rows.get(row, ColTotalRequests)),
			TotalAvailability: CleanNumeric(rows.get(row, ColTotalAvailability)),
			Orders:            CleanNumeric(rows.get(row, ColOrders)),
			GB:                CleanNumeric(rows.get(row, ColGB)),
		})
	}

	l.log.Debug().Int("rows", len(records)).Msg("Parsed demand requests")
	return records, nil
}

// LoadFiles reads both exports from disk
func (l *Loader) LoadFiles(ratesPath, requestsPath string) ([]domain.RateComparisonRecord, []domain.DemandRecord, error) {
	rates, err := loadFile(ratesPath, l.LoadRateComparisons)
	if err != nil {
		return nil, nil, err
	}
	demand, err := loadFile(requestsPath, l.LoadDemand)
	if err != nil {
		return nil, nil, err
	}

	l.log.Info().
		Str("rates_file", ratesPath).
		Str("requests_file", requestsPath).
		Int("rate_rows", len(rates)).
		Int("demand_rows", len(demand)).
		Msg("Loaded exports")
	return rates, demand, nil
}

func loadFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	out, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, nil
}

type table struct {
	index map[string]int
	data  [][]string
}

// get returns "" for cells a short row does not have
func (t *table) get(row []string, column string) string {
	i := t.index[column]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func readTable(r io.Reader, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	data, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return &table{index: index, data: data}, nil
}

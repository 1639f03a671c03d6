package utils

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	slowOperation = 10 * time.Second
	slowQuery     = 2 * time.Second
)

// OperationTimer logs the duration of an operation when the returned func runs.
//
//	defer utils.OperationTimer("reload_dataset", log)()
func OperationTimer(operation string, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		duration := time.Since(start)
		if duration > slowOperation {
			log.Warn().Str("operation", operation).Dur("duration_ms", duration).Msg("Slow operation detected")
			return
		}
		log.Debug().Str("operation", operation).Dur("duration_ms", duration).Msg("Operation completed")
	}
}

// MeasureQuery logs the duration and row count of a database query
func MeasureQuery(query string, log zerolog.Logger) func(rows int) {
	start := time.Now()

	return func(rows int) {
		duration := time.Since(start)
		event := log.Debug()
		if duration > slowQuery {
			event = log.Warn()
		}
		event.
			Str("query", query).
			Int("rows", rows).
			Dur("duration_ms", duration).
			Msg("Database query completed")
	}
}

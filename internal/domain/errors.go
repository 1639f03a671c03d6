package domain

import "errors"

// Signals returned by the analyzers. They are recoverable: callers decide
// whether to surface them or skip the dependent computation.
var (
	// ErrHotelNotFound means no rate records exist for the hotel name at all
	ErrHotelNotFound = errors.New("hotel not found")
	// ErrNoDataForChannel means the hotel exists but has no variance values for the channel
	ErrNoDataForChannel = errors.New("no data for channel")
	// ErrNoDataForHotel means no demand records exist for the hotel id
	ErrNoDataForHotel = errors.New("no demand data for hotel")
	// ErrInvalidChannel means the channel name is not B2B or B2C
	ErrInvalidChannel = errors.New("invalid channel")
)

// IsNoData reports whether err is one of the analyzer signals
func IsNoData(err error) bool {
	return errors.Is(err, ErrHotelNotFound) ||
		errors.Is(err, ErrNoDataForChannel) ||
		errors.Is(err, ErrNoDataForHotel)
}

package ingest

import (
	"math"
	"strconv"
	"strings"
)

// CleanNumeric parses a spreadsheet cell into a number.
// Empty, "nan" and unparsable cells become 0. Thousands separators are stripped.
func CleanNumeric(raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return 0
	}
	return v
}

// CleanOptional parses a cell that may legitimately be absent.
// Returns nil for empty, "nan" and unparsable cells.
func CleanOptional(raw string) *float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return nil
	}
	return &v
}

// NormalizeHotelID turns a raw hotel id cell into the join key used by both tables.
// "1,234", " 1234 " and "1234.0" all become "1234".
func NormalizeHotelID(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Ids exported as floats lose their trailing ".0"
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) && strings.ContainsAny(s, ".eE") {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

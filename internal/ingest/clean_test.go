package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{"nan", 0},
		{"NaN", 0},
		{"abc", 0},
		{"12", 12},
		{"1,234.5", 1234.5},
		{" 7 ", 7},
		{"$99.90", 99.9},
		{"-3", -3},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanNumeric(tt.raw))
		})
	}
}

func TestCleanOptional(t *testing.T) {
	assert.Nil(t, CleanOptional(""))
	assert.Nil(t, CleanOptional("nan"))
	assert.Nil(t, CleanOptional("n/a"))

	v := CleanOptional("0")
	require.NotNil(t, v)
	assert.Equal(t, 0.0, *v)

	v = CleanOptional("-0.25")
	require.NotNil(t, v)
	assert.Equal(t, -0.25, *v)
}

func TestNormalizeHotelID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1234", "1234"},
		{"1,234", "1234"},
		{" 1234 ", "1234"},
		{"1234.0", "1234"},
		{"1,234.0", "1234"},
		{"12.5", "12.5"},
		{"ABC-1", "ABC-1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHotelID(tt.raw))
		})
	}
}

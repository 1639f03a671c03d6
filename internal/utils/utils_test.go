package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  , ,", nil},
		{"single", "DatasetReloaded", []string{"DatasetReloaded"}},
		{"trims values", " DatasetReloaded , ReloadFailed ", []string{"DatasetReloaded", "ReloadFailed"}},
		{"drops empty entries", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.input))
		})
	}
}

func TestMeasureQuery_LogsRows(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	MeasureQuery("load_rates", log)(42)

	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"query":"load_rates"`)
	assert.Contains(t, buf.String(), `"rows":42`)
}

func TestOperationTimer_LogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	OperationTimer("reload_dataset", log)()

	assert.Contains(t, buf.String(), `"operation":"reload_dataset"`)
	assert.Contains(t, buf.String(), "Operation completed")
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hoteldo/internal/domain"
	"github.com/aristath/hoteldo/internal/modules/pricing"
	"github.com/aristath/hoteldo/internal/store"
)

func setupRouter(t *testing.T) (*chi.Mux, *store.Holder) {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	holder := store.NewHolder()
	holder.Swap(store.NewSnapshot([]domain.RateComparisonRecord{
		{HotelID: "1", HotelName: "Hotel Uno", ChannelVarianceB2B: domain.Float(0.10), ReferenceRateB2B: 100},
		{HotelID: "1", HotelName: "Hotel Uno", ChannelVarianceB2B: domain.Float(-0.02), ReferenceRateB2B: 120},
		{HotelID: "2", HotelName: "H2", ChannelVarianceB2C: domain.Float(0.01), ReferenceRateB2C: 90},
	}, nil))

	handler := NewHandler(pricing.NewAnalyzer(logger), holder, logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, holder
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestHandleGetCompetitiveness(t *testing.T) {
	router, holder := setupRouter(t)

	req := httptest.NewRequest("GET", "/pricing/Hotel%20Uno/b2b", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	response := decode(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Hotel Uno", data["hotel"])
	assert.Equal(t, "B2B", data["channel"])
	assert.InDelta(t, 0.04, data["mean_variance"], 1e-12)
	assert.InDelta(t, 110.0, data["mean_reference_price"], 1e-12)
	assert.Equal(t, 2.0, data["sample_count"])

	metadata := response["metadata"].(map[string]interface{})
	assert.Equal(t, holder.Current().Version(), metadata["snapshot_id"])
	assert.NotEmpty(t, metadata["timestamp"])
}

func TestHandleGetCompetitiveness_Errors(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"invalid channel", "/pricing/Hotel%20Uno/b2x", http.StatusBadRequest},
		{"unknown hotel", "/pricing/Nowhere/B2B", http.StatusNotFound},
		{"no data for channel", "/pricing/Hotel%20Uno/B2C", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestHandleGetAllChannels(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/pricing/H2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	channels := data["channels"].(map[string]interface{})
	assert.Contains(t, channels, "B2C")
	assert.NotContains(t, channels, "B2B")

	errs := data["errors"].(map[string]interface{})
	assert.Contains(t, errs, "B2B")
}

func TestHandleGetAllChannels_UnknownHotel(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/pricing/Nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_FollowSnapshotSwap(t *testing.T) {
	router, holder := setupRouter(t)
	holder.Swap(store.Empty())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/pricing/Hotel%20Uno/B2B", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

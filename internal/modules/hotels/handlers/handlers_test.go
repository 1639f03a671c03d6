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
	"github.com/aristath/hoteldo/internal/store"
)

func setupRouter(holder *store.Holder) *chi.Mux {
	handler := NewHandler(holder, zerolog.New(nil).Level(zerolog.Disabled))
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func listHotels(t *testing.T, router http.Handler, path string) []interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	return data["hotels"].([]interface{})
}

func TestHandleListHotels(t *testing.T) {
	holder := store.NewHolder()
	holder.Swap(store.NewSnapshot([]domain.RateComparisonRecord{
		{HotelID: "2", HotelName: "Playa Azul"},
		{HotelID: "1", HotelName: "Hotel Centro"},
		{HotelID: "1", HotelName: "Hotel Centro"},
	}, nil))
	router := setupRouter(holder)

	hotels := listHotels(t, router, "/hotels")
	require.Len(t, hotels, 2, "distinct pairs")
	first := hotels[0].(map[string]interface{})
	assert.Equal(t, "Hotel Centro", first["hotel_name"])
	assert.Equal(t, "1", first["hotel_id"])

	filtered := listHotels(t, router, "/hotels?q=playa")
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].(map[string]interface{})["hotel_id"])
}

func TestHandleListHotels_EmptySnapshot(t *testing.T) {
	hotels := listHotels(t, setupRouter(store.NewHolder()), "/hotels")
	assert.Empty(t, hotels)
}

package handlers

import (
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aristath/hoteldo/internal/modules/demand"
	"github.com/aristath/hoteldo/internal/modules/pricing"
	"github.com/aristath/hoteldo/internal/modules/recommendations"
	"github.com/aristath/hoteldo/internal/store"
)

func TestRegisterRoutes(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	p := pricing.NewAnalyzer(logger)
	d := demand.NewAnalyzer(logger)
	engine := recommendations.NewEngine(p, d, recommendations.DefaultThresholds(), logger)
	handler := NewHandler(engine, p, d, store.NewHolder(), logger)

	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	}, "RegisterRoutes should not panic")
}

package controller

import (
	"context"

	"github.com/go-chi/chi/v5"

	"climate-api/internal/modules/climate/types"
)

// Querier is the read side the handlers depend on; *service.Service implements it.
type Querier interface {
	Precipitation(ctx context.Context) (types.Precipitation, error)
	StationIDs(ctx context.Context) ([]string, error)
	TemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error)
	TemperatureStats(ctx context.Context, start string, end *string) ([]types.TemperatureStats, error)
}

type ClimateController interface {
	RegisterRoutes(r chi.Router)
}

type climateControllerImpl struct {
	service Querier
}

func NewClimateController(service Querier) ClimateController {
	return &climateControllerImpl{service: service}
}

func (c *climateControllerImpl) RegisterRoutes(r chi.Router) {
	r.Get("/", c.handleHome)
	r.Route(apiPrefix, func(r chi.Router) {
		r.Get("/precipitation", c.handlePrecipitation)
		r.Get("/stations", c.handleStations)
		r.Get("/tobs", c.handleTemperatureObservations)
		r.Get("/{start}", c.handleStatsFrom)
		r.Get("/{start}/{end}", c.handleStatsRange)
	})
}

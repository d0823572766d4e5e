package climate

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"climate-api/internal/modules/climate/controller"
	"climate-api/internal/modules/climate/repository"
	"climate-api/internal/modules/climate/service"
)

func RegisterFeature(r chi.Router, db *sql.DB, driverName string) {
	climateRepository := repository.NewRepository(db, driverName)
	climateService := service.NewService(climateRepository)
	climateController := controller.NewClimateController(climateService)
	climateController.RegisterRoutes(r)
}

package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"climate-api/internal/modules/climate/service"
	"climate-api/internal/modules/climate/views"
)

const (
	apiPrefix = "/api/v1.0"
	appTitle  = "The Climate App"
)

var homeRoutes = []views.Route{
	{Label: "precipitation", Path: apiPrefix + "/precipitation"},
	{Label: "stations", Path: apiPrefix + "/stations"},
	{Label: "tobs", Path: apiPrefix + "/tobs"},
	{Label: "start", Path: apiPrefix + "/<start>"},
	{Label: "start/end", Path: apiPrefix + "/<start>/<end>"},
}

// pathParam returns the unescaped route parameter. Values that fail to
// unescape are used verbatim; they will simply match no rows.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}

func errorMessage(err error, fallback string) string {
	if errors.Is(err, service.ErrNoMeasurements) {
		return "no measurements available"
	}
	return fallback
}

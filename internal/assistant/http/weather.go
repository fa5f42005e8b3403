package http

import (
	"errors"
	"net/http"

	"github.com/littledragon/assistant/internal/assistant/weather"
	"github.com/littledragon/assistant/pkg/httpx"
)

func (rt *Router) handleWeather() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.Weather == nil {
			httpx.WriteError(w, http.StatusNotImplemented, "weather_disabled", "Weather lookups are not configured")
			return
		}

		location := r.URL.Query().Get("location")
		if location == "" {
			writeBadRequest(w, "location query parameter is required")
			return
		}

		report, err := rt.Weather.Current(r.Context(), location)
		switch {
		case errors.Is(err, weather.ErrPlaceNotFound):
			httpx.WriteError(w, http.StatusNotFound, "place_not_found", "No such place")
			return
		case err != nil:
			httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "Weather lookup failed")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, report)
	})
}

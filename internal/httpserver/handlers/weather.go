package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/utils"
	"github.com/MrSnakeDoc/startpage/internal/widgets"
)

// Weather serves the composed widget view. It always answers 200: parts
// that could not be fetched are null in the payload.
func Weather(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := widgets.Request{
			City: strings.TrimSpace(q.Get("city")),
			IP:   utils.ClientIP(r, d.TrustProxy),
		}

		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
		if latErr == nil && lonErr == nil {
			req.Lat, req.Lon = &lat, &lon
		}

		writeJSON(w, http.StatusOK, d.Widgets.Weather(r.Context(), req))
	}
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

type ipFailure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IP proxies the geolocation lookup of the caller's address.
func IP(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r, d.TrustProxy)

		res, err := d.Widgets.Geo().Locate(r.Context(), ip)
		if err != nil {
			d.Logger.Warn("ip lookup failed",
				logger.String("ip", ip),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, ipFailure{Status: "fail", Message: "Server failed to fetch IP"})
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

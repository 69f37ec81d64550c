package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// CORS answers preflight requests and lets browsers call the API from any
// origin. Writes stay guarded by the admin password header, which is
// listed explicitly because it is not a simple header.
func CORS() func(http.Handler) http.Handler {
	allowMethods := strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	allowHeaders := strings.Join([]string{"Content-Type", domain.PasswordHeader}, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

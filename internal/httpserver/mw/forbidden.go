package mw

import "net/http"

// forbidden rejects a request with the {"error": ...} body every API error uses.
func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"Forbidden"}` + "\n"))
}

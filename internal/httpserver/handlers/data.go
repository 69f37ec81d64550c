package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// GetData serves the stored document, creating it from the seed when absent.
func GetData(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := d.Store.Read(r.Context())
		if err != nil {
			d.Logger.Error("failed to read document", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to read data")
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, doc)
	}
}

// PostData replaces the whole document. The password is checked before the
// body shape, so an unauthorized caller learns nothing about validation.
func PostData(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
				return
			}
			writeError(w, http.StatusBadRequest, "Invalid data structure")
			return
		}
		if !json.Valid(body) {
			writeError(w, http.StatusBadRequest, "Invalid data structure")
			return
		}

		// A shape error is reported by Write after the credential check.
		candidate, err := domain.ParseCandidate(body)
		if err != nil {
			candidate = nil
		}

		err = d.Store.Write(r.Context(), candidate, r.Header.Get(domain.PasswordHeader))
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusForbidden, "Unauthorized: Incorrect password")
			return
		case errors.Is(err, domain.ErrInvalidDocument):
			writeError(w, http.StatusBadRequest, "Invalid data structure")
			return
		default:
			d.Logger.Error("failed to save document", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save data")
			return
		}

		// Cached jump resolutions may point at links that no longer exist.
		if d.Cache != nil {
			if err := d.Cache.FlushCache(r.Context()); err != nil {
				d.Logger.Warn("failed to flush jump cache", logger.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// Backup triggers an immediate document snapshot.
func Backup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remote := utils.ClientIP(r, d.TrustProxy)

		if d.BackupTrigger == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, err := w.Write([]byte("❌ Backups are disabled\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
			return
		}

		select {
		case d.BackupTrigger <- struct{}{}:
			d.Logger.Info("manual backup triggered via endpoint",
				logger.String("remote_ip", remote))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Backup triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("backup already pending",
				logger.String("remote_ip", remote))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Backup already pending, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Categories *int   `json:"categories,omitempty"`
	Links      *int   `json:"links,omitempty"`
	LastRun    string `json:"last_run,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every component the start page depends on.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"docstore": checkDocstore(ctx, d),
			"redis":    checkRedis(ctx, d),
			"backup":   checkBackup(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// The document is the only critical component
	if store, exists := components["docstore"]; exists && !store.OK {
		return "critical"
	}

	// Redis and backups are optional but their loss is worth surfacing
	for _, name := range []string{"redis", "backup"} {
		if c, exists := components[name]; exists && !c.OK && c.Mode != "disabled" {
			return "degraded"
		}
	}

	return "optimal"
}

func checkDocstore(ctx context.Context, d deps.Deps) componentStatus {
	if err := d.Store.Check(ctx); err != nil {
		return componentStatus{OK: false, Impact: "start-page-unavailable", Error: err.Error()}
	}

	doc, err := d.Store.Read(ctx)
	if err != nil {
		return componentStatus{OK: false, Impact: "start-page-unavailable", Error: err.Error()}
	}

	categories, links := len(doc.Categories), doc.LinkCount()
	return componentStatus{OK: true, Categories: &categories, Links: &links}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Cache == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "widget-cache-and-usage-learning-disabled",
		}
	}

	if err := d.Cache.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "widget-cache-and-usage-learning-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{OK: true, Mode: "optimal"}
}

func checkBackup(d deps.Deps) componentStatus {
	if d.Backup == nil {
		return componentStatus{OK: false, Mode: "disabled"}
	}

	last, err := d.Backup.LastRun()
	status := componentStatus{OK: err == nil && !last.IsZero(), Mode: "scheduled", LastRun: "never"}
	if !last.IsZero() {
		status.LastRun = last.Format("2006-01-02 15:04:05")
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
)

// homePath is where a jump lands when nothing matches.
const homePath = "/"

// Jump redirects ?q= to the best matching link of the document.
func Jump(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		// Empty query -> redirect to the start page
		if query == "" {
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}

		// Special case: internal endpoints (queries starting with /)
		if strings.HasPrefix(query, "/") {
			handleInternalEndpoint(w, r, query, d)
			return
		}

		doc, err := d.Store.Read(ctx)
		if err != nil {
			d.Logger.Error("failed to read document for jump", logger.Error(err))
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}

		// Try cache first
		if handleCachedLink(w, r, ctx, query, doc, d) {
			return
		}

		handleLinkSearch(w, r, ctx, query, doc, d)
	}
}

// handleInternalEndpoint redirects to the single infra endpoint the query
// is a prefix of.
func handleInternalEndpoint(w http.ResponseWriter, r *http.Request, query string, d deps.Deps) {
	if endpoint := matchInternalEndpoint(query); endpoint != "" {
		d.Logger.Info("internal endpoint redirect",
			logger.String("query", query),
			logger.String("endpoint", endpoint))
		http.Redirect(w, r, endpoint, http.StatusFound)
		return
	}
	d.Logger.Debug("no internal endpoint matched",
		logger.String("query", query))
	http.Redirect(w, r, homePath, http.StatusFound)
}

// handleCachedLink redirects to a cached resolution that still exists in
// the document. Returns true if handled.
func handleCachedLink(w http.ResponseWriter, r *http.Request, ctx context.Context, query string, doc domain.Document, d deps.Deps) bool {
	if d.Cache == nil {
		return false
	}

	target, err := d.Cache.GetCachedResolution(ctx, query)
	if err != nil || target == "" {
		return false
	}

	if !documentHasURL(doc, target) {
		d.Logger.Debug("cached link no longer in document, invalidating",
			logger.String("url", target))
		_ = d.Cache.InvalidateCache(ctx, query)
		return false
	}

	d.Logger.Info("cache hit, redirecting",
		logger.String("query", query),
		logger.String("url", target))

	// Increment usage counter (best effort)
	_ = d.Cache.IncrementUsage(ctx, target)

	http.Redirect(w, r, target, http.StatusFound)
	return true
}

// handleLinkSearch ranks every link against the query, weighted by past
// jumps, and redirects to the best one.
func handleLinkSearch(w http.ResponseWriter, r *http.Request, ctx context.Context, query string, doc domain.Document, d deps.Deps) {
	var usage map[string]int64
	if d.Cache != nil {
		stats, err := d.Cache.GetUsageStats(ctx)
		if err != nil {
			d.Logger.Debug("usage stats unavailable", logger.Error(err))
		}
		usage = stats
	}

	best, ok := domain.FindBestLink(query, doc, usage)
	if !ok {
		d.Logger.Info("no matching link found",
			logger.String("query", query))
		http.Redirect(w, r, homePath, http.StatusFound)
		return
	}

	d.Logger.Info("resolved link",
		logger.String("query", query),
		logger.String("title", best.Title),
		logger.String("url", best.URL))

	if d.Cache != nil {
		_ = d.Cache.IncrementUsage(ctx, best.URL)
		_ = d.Cache.CacheResolution(ctx, query, best.URL, redisstore.DefaultCacheTTL)
	}

	http.Redirect(w, r, best.URL, http.StatusFound)
}

func documentHasURL(doc domain.Document, target string) bool {
	for _, c := range doc.Categories {
		for _, l := range c.Items {
			if l.URL == target {
				return true
			}
		}
	}
	return false
}

// matchInternalEndpoint performs prefix matching on internal endpoints.
// Returns the endpoint only if exactly one matches.
func matchInternalEndpoint(query string) string {
	endpoints := []string{
		"/infra",
		"/healthz",
		"/readyz",
	}

	query = strings.ToLower(query)
	var matches []string
	for _, endpoint := range endpoints {
		if strings.HasPrefix(endpoint, query) {
			matches = append(matches, endpoint)
		}
	}

	if len(matches) == 1 {
		return matches[0]
	}
	return ""
}

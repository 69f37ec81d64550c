// Package widgets fetches the data behind the weather and air quality
// widgets: IP geolocation, forecast and AQI from public upstream APIs.
package widgets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// Cache stores upstream payloads. *redis.Store from internal/store/redis
// satisfies it. A nil Cache disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// maxPayload bounds upstream response bodies.
const maxPayload = 1 << 20

// getJSON performs a GET and decodes a JSON body into dst. Network failures,
// non-2xx statuses and undecodable bodies all wrap domain.ErrTransport.
func getJSON(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayload))
		return fmt.Errorf("%w: %s returned %d", domain.ErrTransport, req.URL.Host, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayload)).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrTransport, req.URL.Host, err)
	}
	return nil
}

// cached serves dst from cache under key when present, otherwise calls
// fetch and stores the result. Cache errors never fail the call.
func cached(ctx context.Context, cache Cache, key string, ttl time.Duration, dst any, fetch func() error) error {
	if cache != nil {
		if found, err := cache.GetJSON(ctx, key, dst); err == nil && found {
			return nil
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if cache != nil {
		_ = cache.SetJSON(ctx, key, dst, ttl)
	}
	return nil
}

// coordKey rounds coordinates to roughly one kilometre for cache keys.
func coordKey(lat, lon float64) []string {
	return []string{fmt.Sprintf("%.2f", lat), fmt.Sprintf("%.2f", lon)}
}

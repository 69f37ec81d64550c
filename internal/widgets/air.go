package widgets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
)

// AQIBand is a US AQI category.
type AQIBand string

const (
	AQIGood               AQIBand = "good"
	AQIModerate           AQIBand = "moderate"
	AQIUnhealthySensitive AQIBand = "unhealthy-for-sensitive"
	AQIUnhealthy          AQIBand = "unhealthy"
	AQIVeryUnhealthy      AQIBand = "very-unhealthy"
)

var bandLabels = map[AQIBand]string{
	AQIGood:               "优",
	AQIModerate:           "良",
	AQIUnhealthySensitive: "轻度",
	AQIUnhealthy:          "中度",
	AQIVeryUnhealthy:      "重度",
}

// AQILevel maps a US AQI value to its band.
func AQILevel(aqi int) AQIBand {
	switch {
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthySensitive
	case aqi <= 200:
		return AQIUnhealthy
	default:
		return AQIVeryUnhealthy
	}
}

// Label is the short display label of the band.
func (b AQIBand) Label() string { return bandLabels[b] }

type airQualityResponse struct {
	Current *struct {
		USAQI *float64 `json:"us_aqi"`
	} `json:"current"`
}

// AirQuality queries the open-meteo air quality API.
type AirQuality struct {
	baseURL string
	client  *http.Client
	cache   Cache
	ttl     time.Duration
}

// NewAirQuality creates an air quality client for baseURL.
func NewAirQuality(baseURL string, client *http.Client, cache Cache, ttl time.Duration) *AirQuality {
	return &AirQuality{baseURL: baseURL, client: client, cache: cache, ttl: ttl}
}

// AQI returns the current US AQI at lat, lon.
func (a *AirQuality) AQI(ctx context.Context, lat, lon float64) (int, error) {
	var resp airQualityResponse
	err := cached(ctx, a.cache, redisstore.WidgetKey("aqi", coordKey(lat, lon)...), a.ttl, &resp, func() error {
		if err := getJSON(ctx, a.client, a.url(lat, lon), &resp); err != nil {
			return err
		}
		if resp.Current == nil || resp.Current.USAQI == nil {
			return fmt.Errorf("%w: air quality response has no current.us_aqi", domain.ErrTransport)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(*resp.Current.USAQI + 0.5), nil
}

func (a *AirQuality) url(lat, lon float64) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "us_aqi")
	return a.baseURL + "?" + q.Encode()
}

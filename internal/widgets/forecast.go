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

// CurrentWeather is the "current" block of an open-meteo forecast.
type CurrentWeather struct {
	Time                string  `json:"time"`
	Temperature         float64 `json:"temperature_2m"`
	RelativeHumidity    float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	IsDay               int     `json:"is_day"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed           float64 `json:"wind_speed_10m"`
}

// DailyWeather is the "daily" block of an open-meteo forecast.
type DailyWeather struct {
	Time           []string  `json:"time"`
	WeatherCode    []int     `json:"weather_code"`
	TemperatureMax []float64 `json:"temperature_2m_max"`
	TemperatureMin []float64 `json:"temperature_2m_min"`
}

// Forecast is the subset of the open-meteo forecast response we request.
type Forecast struct {
	Timezone string          `json:"timezone"`
	Current  *CurrentWeather `json:"current"`
	Daily    *DailyWeather   `json:"daily"`
}

// Forecaster queries the open-meteo forecast API.
type Forecaster struct {
	baseURL string
	client  *http.Client
	cache   Cache
	ttl     time.Duration
}

// NewForecaster creates a forecast client for baseURL.
func NewForecaster(baseURL string, client *http.Client, cache Cache, ttl time.Duration) *Forecaster {
	return &Forecaster{baseURL: baseURL, client: client, cache: cache, ttl: ttl}
}

// Forecast returns current conditions and the daily outlook at lat, lon.
func (f *Forecaster) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	var fc Forecast
	err := cached(ctx, f.cache, redisstore.WidgetKey("forecast", coordKey(lat, lon)...), f.ttl, &fc, func() error {
		if err := getJSON(ctx, f.client, f.url(lat, lon), &fc); err != nil {
			return err
		}
		if fc.Current == nil || fc.Daily == nil {
			return fmt.Errorf("%w: forecast response has no current or daily block", domain.ErrTransport)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fc, nil
}

func (f *Forecaster) url(lat, lon float64) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,weather_code,wind_speed_10m")
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "auto")
	return f.baseURL + "?" + q.Encode()
}

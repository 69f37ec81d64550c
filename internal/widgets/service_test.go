package widgets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/logger"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastBody = `{
  "timezone": "Asia/Shanghai",
  "current": {"time": "2026-10-17T09:00", "temperature_2m": 18.6, "relative_humidity_2m": 40,
              "apparent_temperature": 17.2, "is_day": 1, "weather_code": 2, "wind_speed_10m": 7.5},
  "daily": {"time": ["2026-10-17"], "weather_code": [3], "temperature_2m_max": [22.4], "temperature_2m_min": [9.5]}
}`

type upstream struct {
	geo, forecast, air *httptest.Server
	geoHits            atomic.Int32
	forecastHits       atomic.Int32
	lastGeoPath        atomic.Value
}

func newUpstream(t *testing.T, geoBody string, forecastStatus int, airBody string) *upstream {
	t.Helper()
	u := &upstream{}
	u.geo = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.geoHits.Add(1)
		u.lastGeoPath.Store(r.URL.Path + "?" + r.URL.RawQuery)
		_, _ = w.Write([]byte(geoBody))
	}))
	u.forecast = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.forecastHits.Add(1)
		if forecastStatus != http.StatusOK {
			w.WriteHeader(forecastStatus)
			return
		}
		assert.Equal(t, "auto", r.URL.Query().Get("timezone"))
		_, _ = w.Write([]byte(forecastBody))
	}))
	u.air = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "us_aqi", r.URL.Query().Get("current"))
		_, _ = w.Write([]byte(airBody))
	}))
	t.Cleanup(func() {
		u.geo.Close()
		u.forecast.Close()
		u.air.Close()
	})
	return u
}

func (u *upstream) service(cache Cache) *Service {
	client := &http.Client{Timeout: time.Second}
	return NewService(
		NewGeoClient(u.geo.URL+"/json/", client, cache, time.Minute),
		NewForecaster(u.forecast.URL, client, cache, time.Minute),
		NewAirQuality(u.air.URL, client, cache, time.Minute),
		logger.Nop(),
	)
}

func TestWeatherFromIP(t *testing.T) {
	u := newUpstream(t,
		`{"status":"success","city":"Shanghai","lat":31.23,"lon":121.47,"query":"8.8.8.8"}`,
		http.StatusOK,
		`{"current":{"us_aqi":72.4}}`)

	view := u.service(nil).Weather(context.Background(), Request{IP: "8.8.8.8"})

	assert.Equal(t, Location{City: "Shanghai", Lat: 31.23, Lon: 121.47, Source: SourceIP}, view.Location)
	require.True(t, view.Available())
	assert.Equal(t, 19, view.Weather.Temp)
	assert.Equal(t, 10, view.Weather.MinTemp)
	assert.Equal(t, 22, view.Weather.MaxTemp)
	assert.Equal(t, 17, view.Weather.FeelsLike)
	assert.Equal(t, "partly-cloudy", view.Weather.Condition)
	assert.True(t, view.Weather.IsDay)

	require.NotNil(t, view.AirQuality)
	assert.Equal(t, 72, view.AirQuality.AQI)
	assert.Equal(t, AQIModerate, view.AirQuality.Level)
	assert.Equal(t, "良", view.AirQuality.Label)

	assert.Equal(t, "/json/8.8.8.8?lang=zh-CN", u.lastGeoPath.Load())
}

func TestWeatherFallsBackToBeijing(t *testing.T) {
	u := newUpstream(t, `{"status":"fail","message":"reserved range"}`, http.StatusOK, `{"current":{"us_aqi":10}}`)

	view := u.service(nil).Weather(context.Background(), Request{IP: "10.0.0.5"})

	assert.Equal(t, Fallback, view.Location)
	assert.True(t, view.Available())
	assert.Equal(t, "/json/?lang=zh-CN", u.lastGeoPath.Load(), "private addresses are not sent upstream")
}

func TestWeatherPartsFailIndependently(t *testing.T) {
	lat, lon := 48.85, 2.35

	t.Run("forecast down", func(t *testing.T) {
		u := newUpstream(t, `{}`, http.StatusBadGateway, `{"current":{"us_aqi":160}}`)
		view := u.service(nil).Weather(context.Background(), Request{Lat: &lat, Lon: &lon, City: "Paris"})

		assert.Equal(t, SourceExplicit, view.Location.Source)
		assert.Equal(t, "Paris", view.Location.City)
		assert.False(t, view.Available())
		assert.Nil(t, view.Weather)
		require.NotNil(t, view.AirQuality)
		assert.Equal(t, AQIUnhealthy, view.AirQuality.Level)
		assert.Zero(t, u.geoHits.Load(), "explicit coordinates skip geolocation")
	})

	t.Run("air quality missing", func(t *testing.T) {
		u := newUpstream(t, `{}`, http.StatusOK, `{"current":{}}`)
		view := u.service(nil).Weather(context.Background(), Request{Lat: &lat, Lon: &lon})

		assert.Equal(t, DefaultCity, view.Location.City)
		assert.True(t, view.Available())
		assert.Nil(t, view.AirQuality)
	})
}

func TestWeatherUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := redisstore.NewStore(client)

	u := newUpstream(t, `{"status":"success","city":"Shanghai","lat":31.23,"lon":121.47}`, http.StatusOK, `{"current":{"us_aqi":20}}`)
	svc := u.service(cache)

	for i := 0; i < 3; i++ {
		view := svc.Weather(context.Background(), Request{IP: "8.8.4.4"})
		require.True(t, view.Available())
	}

	assert.EqualValues(t, 1, u.geoHits.Load())
	assert.EqualValues(t, 1, u.forecastHits.Load())
	assert.True(t, mr.Exists(redisstore.WidgetKey("forecast", "31.23", "121.47")))
}

func TestLocateRejectsFailStatus(t *testing.T) {
	u := newUpstream(t, `{"status":"fail","message":"invalid query"}`, http.StatusOK, `{}`)
	_, err := u.service(nil).Geo().Locate(context.Background(), "1.1.1.1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid query"))
}

func TestAQILevel(t *testing.T) {
	tests := []struct {
		aqi  int
		want AQIBand
	}{
		{0, AQIGood},
		{50, AQIGood},
		{51, AQIModerate},
		{100, AQIModerate},
		{150, AQIUnhealthySensitive},
		{200, AQIUnhealthy},
		{201, AQIVeryUnhealthy},
	}

	for _, tt := range tests {
		if got := AQILevel(tt.aqi); got != tt.want {
			t.Errorf("AQILevel(%d) = %s, want %s", tt.aqi, got, tt.want)
		}
	}
}

func TestConditionName(t *testing.T) {
	tests := map[int]string{0: "clear", 3: "partly-cloudy", 45: "fog", 61: "rain", 75: "snow", 81: "rain", 96: "thunderstorm", 90: "cloudy"}
	for code, want := range tests {
		if got := ConditionName(code); got != want {
			t.Errorf("ConditionName(%d) = %q, want %q", code, got, want)
		}
	}
}

package widgets

import (
	"context"
	"math"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Location sources.
const (
	SourceExplicit = "explicit"
	SourceIP       = "ip"
	SourceFallback = "fallback"
)

// DefaultCity labels explicit coordinates and IP lookups without a city.
const DefaultCity = "本地"

// Fallback is used when no location can be resolved.
var Fallback = Location{City: "北京", Lat: 39.9042, Lon: 116.4074, Source: SourceFallback}

// Location is where the widgets report for.
type Location struct {
	City   string  `json:"city"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Source string  `json:"source"`
}

// Request selects the location of a Weather call. Explicit coordinates
// win over the client IP.
type Request struct {
	Lat, Lon *float64
	City     string
	IP       string
}

// Conditions is the weather widget payload.
type Conditions struct {
	Temp        int           `json:"temp"`
	WeatherCode int           `json:"weatherCode"`
	Condition   string        `json:"condition"`
	MinTemp     int           `json:"minTemp"`
	MaxTemp     int           `json:"maxTemp"`
	WindSpeed   float64       `json:"windSpeed"`
	Humidity    float64       `json:"humidity"`
	FeelsLike   int           `json:"feelsLike"`
	IsDay       bool          `json:"isDay"`
	Daily       *DailyWeather `json:"daily"`
}

// AirReading is the air quality widget payload.
type AirReading struct {
	AQI   int     `json:"aqi"`
	Level AQIBand `json:"level"`
	Label string  `json:"label"`
}

// View composes both widgets. A nil Weather or AirQuality means that
// sub-fetch failed; the other part is still served.
type View struct {
	Location   Location    `json:"location"`
	Weather    *Conditions `json:"weather"`
	AirQuality *AirReading `json:"airQuality"`
}

// Available reports whether the weather part could be fetched.
func (v View) Available() bool { return v.Weather != nil }

// Service resolves a location and fetches both widgets concurrently.
type Service struct {
	geo      *GeoClient
	forecast *Forecaster
	air      *AirQuality
	log      logger.Logger
}

// NewService wires the three upstream clients.
func NewService(geo *GeoClient, forecast *Forecaster, air *AirQuality, log logger.Logger) *Service {
	return &Service{geo: geo, forecast: forecast, air: air, log: log.With(logger.String("component", "widgets"))}
}

// NewServiceFromConfig builds the upstream clients from cfg. cache may be nil.
func NewServiceFromConfig(cfg *config.Config, cache Cache, log logger.Logger) *Service {
	client := &http.Client{Timeout: cfg.UpstreamTimeout}
	return NewService(
		NewGeoClient(cfg.GeoURL, client, cache, cfg.WidgetCacheTTL),
		NewForecaster(cfg.ForecastURL, client, cache, cfg.WidgetCacheTTL),
		NewAirQuality(cfg.AirQualityURL, client, cache, cfg.WidgetCacheTTL),
		log,
	)
}

// Geo exposes the geolocation client for the IP proxy endpoint.
func (s *Service) Geo() *GeoClient { return s.geo }

// Weather never fails: each part that cannot be fetched is left nil.
func (s *Service) Weather(ctx context.Context, req Request) View {
	view := View{Location: s.resolve(ctx, req)}
	lat, lon := view.Location.Lat, view.Location.Lon

	var g errgroup.Group
	g.Go(func() error {
		fc, err := s.forecast.Forecast(ctx, lat, lon)
		if err != nil {
			s.log.Warn("forecast unavailable", logger.Error(err))
			return nil
		}
		view.Weather = toConditions(fc)
		return nil
	})
	g.Go(func() error {
		aqi, err := s.air.AQI(ctx, lat, lon)
		if err != nil {
			s.log.Warn("air quality unavailable", logger.Error(err))
			return nil
		}
		level := AQILevel(aqi)
		view.AirQuality = &AirReading{AQI: aqi, Level: level, Label: level.Label()}
		return nil
	})
	_ = g.Wait()

	return view
}

func (s *Service) resolve(ctx context.Context, req Request) Location {
	if req.Lat != nil && req.Lon != nil && validCoordinates(*req.Lat, *req.Lon) {
		city := req.City
		if city == "" {
			city = DefaultCity
		}
		return Location{City: city, Lat: *req.Lat, Lon: *req.Lon, Source: SourceExplicit}
	}

	geo, err := s.geo.Locate(ctx, req.IP)
	if err != nil {
		s.log.Warn("geolocation failed, using fallback location", logger.Error(err))
		return Fallback
	}
	city := geo.City
	if city == "" {
		city = DefaultCity
	}
	return Location{City: city, Lat: geo.Lat, Lon: geo.Lon, Source: SourceIP}
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 &&
		!math.IsNaN(lat) && !math.IsNaN(lon)
}

func toConditions(fc *Forecast) *Conditions {
	c := fc.Current
	out := &Conditions{
		Temp:        round(c.Temperature),
		WeatherCode: c.WeatherCode,
		Condition:   ConditionName(c.WeatherCode),
		WindSpeed:   c.WindSpeed,
		Humidity:    c.RelativeHumidity,
		FeelsLike:   round(c.ApparentTemperature),
		IsDay:       c.IsDay == 1,
		Daily:       fc.Daily,
	}
	if len(fc.Daily.TemperatureMin) > 0 {
		out.MinTemp = round(fc.Daily.TemperatureMin[0])
	}
	if len(fc.Daily.TemperatureMax) > 0 {
		out.MaxTemp = round(fc.Daily.TemperatureMax[0])
	}
	return out
}

func round(f float64) int { return int(math.Round(f)) }

// ConditionName maps a WMO weather code to the icon family the front end draws.
func ConditionName(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code >= 1 && code <= 3:
		return "partly-cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain"
	case code >= 95:
		return "thunderstorm"
	default:
		return "cloudy"
	}
}

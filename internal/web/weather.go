package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// Location is a geocoded place.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DayForecast is the forecast for one calendar day.
type DayForecast struct {
	Date         string  `json:"date"`
	TempMaxC     float64 `json:"temp_max_c"`
	TempMinC     float64 `json:"temp_min_c"`
	PrecipChance int     `json:"precip_chance_pct"`
	WeatherCode  int     `json:"weather_code"`
	Description  string  `json:"description"`
}

// Forecast is a geocoded location with its daily forecasts.
type Forecast struct {
	Location Location      `json:"location"`
	Days     []DayForecast `json:"days"`
}

// WeatherClient looks up forecasts via the Open-Meteo public API,
// which needs no API key. The endpoint URLs are settable for tests.
type WeatherClient struct {
	client *Client

	GeocodeURL  string
	ForecastURL string
}

// NewWeatherClient creates a WeatherClient using client for transport.
func NewWeatherClient(client *Client) *WeatherClient {
	return &WeatherClient{
		client:      client,
		GeocodeURL:  defaultGeocodeURL,
		ForecastURL: defaultForecastURL,
	}
}

// Forecast geocodes location and fetches up to days daily forecasts.
func (w *WeatherClient) Forecast(ctx context.Context, location string, days int) (*Forecast, error) {
	if days <= 0 {
		days = 2
	}
	if days > 7 {
		days = 7
	}

	loc, err := w.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", loc.Latitude))
	q.Set("longitude", fmt.Sprintf("%.4f", loc.Longitude))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weather_code")
	q.Set("timezone", "auto")
	q.Set("forecast_days", fmt.Sprintf("%d", days))

	body, err := w.client.Fetch(ctx, w.ForecastURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("forecast lookup for %q: %w", loc.Name, err)
	}

	var payload struct {
		Daily struct {
			Time        []string  `json:"time"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
			PrecipProb  []int     `json:"precipitation_probability_max"`
			WeatherCode []int     `json:"weather_code"`
		} `json:"daily"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}
	if len(payload.Daily.Time) == 0 {
		return nil, fmt.Errorf("forecast response has no daily data for %q", loc.Name)
	}

	forecast := &Forecast{Location: *loc}
	for i, date := range payload.Daily.Time {
		day := DayForecast{Date: date}
		if i < len(payload.Daily.TempMax) {
			day.TempMaxC = payload.Daily.TempMax[i]
		}
		if i < len(payload.Daily.TempMin) {
			day.TempMinC = payload.Daily.TempMin[i]
		}
		if i < len(payload.Daily.PrecipProb) {
			day.PrecipChance = payload.Daily.PrecipProb[i]
		}
		if i < len(payload.Daily.WeatherCode) {
			day.WeatherCode = payload.Daily.WeatherCode[i]
			day.Description = describeWeatherCode(day.WeatherCode)
		}
		forecast.Days = append(forecast.Days, day)
	}
	return forecast, nil
}

func (w *WeatherClient) geocode(ctx context.Context, location string) (*Location, error) {
	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")
	q.Set("format", "json")

	body, err := w.client.Fetch(ctx, w.GeocodeURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("geocode lookup for %q: %w", location, err)
	}

	var payload struct {
		Results []Location `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("unknown location %q", location)
	}
	return &payload.Results[0], nil
}

// describeWeatherCode maps WMO weather interpretation codes to short
// English descriptions.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	default:
		return "mixed conditions"
	}
}

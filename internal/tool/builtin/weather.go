package builtin

import (
	"context"
	"fmt"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/web"
)

// WeatherHandler answers forecast questions via Open-Meteo.
type WeatherHandler struct {
	weather *web.WeatherClient
}

// NewWeatherHandler creates the get_weather handler.
func NewWeatherHandler(weather *web.WeatherClient) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

func (h *WeatherHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        "get_weather",
		Description: "Get the weather forecast for a location. Use when the user asks about weather, temperature, or rain.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"location": schema.NewStringField("City or place name"),
			"day":      schema.NewStringField("Which day; defaults to today").WithEnum("today", "tomorrow"),
		}, []string{"location"}),
	}
}

func (h *WeatherHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Location string `mapstructure:"location"`
		Day      string `mapstructure:"day"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	dayIndex := 0
	dayLabel := "today"
	if in.Day == "tomorrow" {
		dayIndex = 1
		dayLabel = "tomorrow"
	}

	forecast, err := h.weather.Forecast(ctx, in.Location, dayIndex+1)
	if err != nil {
		return "", err
	}
	if dayIndex >= len(forecast.Days) {
		return "", fmt.Errorf("no forecast data for %s in %s", dayLabel, in.Location)
	}

	day := forecast.Days[dayIndex]
	place := forecast.Location.Name
	if forecast.Location.Country != "" {
		place += ", " + forecast.Location.Country
	}

	return fmt.Sprintf("%s %s (%s): %s, %.0f to %.0f°C, %d%% chance of precipitation.",
		place, dayLabel, day.Date, day.Description, day.TempMinC, day.TempMaxC, day.PrecipChance), nil
}

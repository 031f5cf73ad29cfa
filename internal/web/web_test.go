package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "steward")
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	body, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestClient_FetchNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_FetchCapsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	client := NewClient(time.Second)
	client.maxBody = 16

	body, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 16)
}

func TestWeatherClient_Forecast(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Warsaw", r.URL.Query().Get("name"))
		fmt.Fprint(w, `{"results": [{"name": "Warsaw", "country": "Poland", "latitude": 52.23, "longitude": 21.01}]}`)
	}))
	defer geocode.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.2300", r.URL.Query().Get("latitude"))
		assert.Equal(t, "2", r.URL.Query().Get("forecast_days"))
		fmt.Fprint(w, `{
			"daily": {
				"time": ["2026-08-22", "2026-08-23"],
				"temperature_2m_max": [24.5, 19.0],
				"temperature_2m_min": [14.1, 12.3],
				"precipitation_probability_max": [10, 80],
				"weather_code": [1, 61]
			}
		}`)
	}))
	defer forecast.Close()

	wc := NewWeatherClient(NewClient(time.Second))
	wc.GeocodeURL = geocode.URL
	wc.ForecastURL = forecast.URL

	got, err := wc.Forecast(context.Background(), "Warsaw", 2)
	require.NoError(t, err)
	assert.Equal(t, "Warsaw", got.Location.Name)
	assert.Equal(t, "Poland", got.Location.Country)
	require.Len(t, got.Days, 2)
	assert.Equal(t, "2026-08-22", got.Days[0].Date)
	assert.Equal(t, 24.5, got.Days[0].TempMaxC)
	assert.Equal(t, "partly cloudy", got.Days[0].Description)
	assert.Equal(t, 80, got.Days[1].PrecipChance)
	assert.Equal(t, "rain", got.Days[1].Description)
}

func TestWeatherClient_UnknownLocation(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer geocode.Close()

	wc := NewWeatherClient(NewClient(time.Second))
	wc.GeocodeURL = geocode.URL

	_, err := wc.Forecast(context.Background(), "Nowheretown", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown location")
}

func TestDescribeWeatherCode(t *testing.T) {
	assert.Equal(t, "clear sky", describeWeatherCode(0))
	assert.Equal(t, "overcast", describeWeatherCode(3))
	assert.Equal(t, "fog", describeWeatherCode(45))
	assert.Equal(t, "rain", describeWeatherCode(63))
	assert.Equal(t, "snow", describeWeatherCode(73))
	assert.Equal(t, "thunderstorm", describeWeatherCode(95))
	assert.Equal(t, "mixed conditions", describeWeatherCode(42))
}

func TestSummarizer_Summarize(t *testing.T) {
	page := `<html>
<head><title>Sourdough Basics</title><style>body { color: red; }</style></head>
<body>
  <nav>Home | About</nav>
  <script>console.log("noise")</script>
  <p>Sourdough needs only flour, water, and salt. The starter does the heavy lifting.
  Feed it daily at room temperature. Refrigerate it when baking less often.</p>
  <footer>copyright</footer>
</body>
</html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	summary, err := NewSummarizer(NewClient(time.Second)).Summarize(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Sourdough Basics", summary.Title)
	assert.Equal(t, srv.URL, summary.URL)
	assert.Contains(t, summary.Summary, "flour, water, and salt")
	assert.Contains(t, summary.Summary, "Feed it daily")
	assert.NotContains(t, summary.Summary, "Home | About")
	assert.NotContains(t, summary.Summary, "console.log")
	assert.NotContains(t, summary.Summary, "copyright")
	assert.NotContains(t, summary.Summary, "Refrigerate")
}

func TestSummarizer_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer srv.Close()

	_, err := NewSummarizer(NewClient(time.Second)).Summarize(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no readable text")
}

func TestLeadingSentences(t *testing.T) {
	text := "First one. Second one! Third one? Fourth one."
	assert.Equal(t, "First one. Second one! Third one?", leadingSentences(text, 3, 500))
	assert.Equal(t, "First one.", leadingSentences(text, 1, 500))

	long := strings.Repeat("word ", 200) + "end."
	got := leadingSentences(long, 3, 50)
	assert.LessOrEqual(t, len([]rune(got)), 53)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestLeadingSentences_AbbreviationDoesNotSplit(t *testing.T) {
	text := "Mix 2.5 cups of flour. Then rest."
	assert.Equal(t, "Mix 2.5 cups of flour.", leadingSentences(text, 1, 500))
}

package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/littledragon/assistant/internal/assistant/weather"
)

func TestCurrentUsesOneCall(t *testing.T) {
	t.Parallel()

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Brisbane", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"name":"Brisbane","lat":-27.47,"lon":153.03}]`))
	}))
	defer geo.Close()

	oneCall := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Write([]byte(`{"current":{"temp":24.5,"feels_like":25.1,"humidity":60,"wind_speed":3.4,"weather":[{"description":"clear sky"}]}}`))
	}))
	defer oneCall.Close()

	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("fallback must not be called when One Call succeeds")
	}))
	defer legacy.Close()

	c := weather.NewClient("key", weather.WithBaseURLs(geo.URL, oneCall.URL, legacy.URL))
	report, err := c.Current(context.Background(), "Brisbane")
	require.NoError(t, err)
	require.Equal(t, "Brisbane", report.Place)
	require.Equal(t, "clear sky", report.Description)
	require.InDelta(t, 24.5, report.TempC, 0.001)
	require.Equal(t, 60, report.Humidity)
}

func TestCurrentFallsBackToLegacy(t *testing.T) {
	t.Parallel()

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Brisbane","lat":-27.47,"lon":153.03}]`))
	}))
	defer geo.Close()

	oneCall := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer oneCall.Close()

	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[{"description":"light rain"}],"main":{"temp":18.2,"feels_like":17.9,"humidity":82},"wind":{"speed":5.1}}`))
	}))
	defer legacy.Close()

	c := weather.NewClient("key", weather.WithBaseURLs(geo.URL, oneCall.URL, legacy.URL))
	report, err := c.Current(context.Background(), "Brisbane")
	require.NoError(t, err)
	require.Equal(t, "light rain", report.Description)
	require.InDelta(t, 18.2, report.TempC, 0.001)
	require.InDelta(t, 5.1, report.WindSpeed, 0.001)
}

func TestCurrentUnknownPlace(t *testing.T) {
	t.Parallel()

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer geo.Close()

	c := weather.NewClient("key", weather.WithBaseURLs(geo.URL, geo.URL, geo.URL))
	_, err := c.Current(context.Background(), "Atlantis")
	require.ErrorIs(t, err, weather.ErrPlaceNotFound)
}

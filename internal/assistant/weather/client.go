// Package weather fetches current conditions from OpenWeather: geocode the
// place name first, then query the One Call API with a 2.5 fallback for
// accounts without a One Call 3.0 subscription.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrPlaceNotFound = errors.New("weather: place not found")
	ErrUpstream      = errors.New("weather: upstream request failed")
)

const (
	defaultGeoBaseURL     = "https://api.openweathermap.org/geo/1.0"
	defaultOneCallBaseURL = "https://api.openweathermap.org/data/3.0"
	fallbackBaseURL       = "https://api.openweathermap.org/data/2.5"
)

// Report is the condensed weather answer returned to clients.
type Report struct {
	Place       string  `json:"place"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// Client talks to the OpenWeather APIs. Base URLs are overridable for tests.
type Client struct {
	apiKey string
	http   *http.Client

	geoBaseURL     string
	oneCallBaseURL string
	legacyBaseURL  string
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURLs overrides the API endpoints, used in tests.
func WithBaseURLs(geo, oneCall, legacy string) Option {
	return func(c *Client) {
		c.geoBaseURL = geo
		c.oneCallBaseURL = oneCall
		c.legacyBaseURL = legacy
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:         apiKey,
		http:           &http.Client{Timeout: 10 * time.Second},
		geoBaseURL:     defaultGeoBaseURL,
		oneCallBaseURL: defaultOneCallBaseURL,
		legacyBaseURL:  fallbackBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current resolves a place name and returns its current conditions.
func (c *Client) Current(ctx context.Context, place string) (Report, error) {
	loc, err := c.geocode(ctx, place)
	if err != nil {
		return Report{}, err
	}

	report, err := c.oneCall(ctx, loc)
	if err == nil {
		return report, nil
	}

	// One Call 3.0 needs a separate subscription; fall back to 2.5.
	return c.legacy(ctx, loc)
}

type location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (c *Client) geocode(ctx context.Context, place string) (location, error) {
	q := url.Values{
		"q":     {place},
		"limit": {"1"},
		"appid": {c.apiKey},
	}

	var locations []location
	if err := c.getJSON(ctx, c.geoBaseURL+"/direct?"+q.Encode(), &locations); err != nil {
		return location{}, err
	}
	if len(locations) == 0 {
		return location{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, place)
	}
	return locations[0], nil
}

func (c *Client) oneCall(ctx context.Context, loc location) (Report, error) {
	q := url.Values{
		"lat":     {fmt.Sprintf("%f", loc.Lat)},
		"lon":     {fmt.Sprintf("%f", loc.Lon)},
		"exclude": {"minutely,hourly,daily,alerts"},
		"units":   {"metric"},
		"appid":   {c.apiKey},
	}

	var body struct {
		Current struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			WindSpeed float64 `json:"wind_speed"`
			Weather   []struct {
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"current"`
	}
	if err := c.getJSON(ctx, c.oneCallBaseURL+"/onecall?"+q.Encode(), &body); err != nil {
		return Report{}, err
	}

	report := Report{
		Place:      loc.Name,
		Latitude:   loc.Lat,
		Longitude:  loc.Lon,
		TempC:      body.Current.Temp,
		FeelsLikeC: body.Current.FeelsLike,
		Humidity:   body.Current.Humidity,
		WindSpeed:  body.Current.WindSpeed,
	}
	if len(body.Current.Weather) > 0 {
		report.Description = body.Current.Weather[0].Description
	}
	return report, nil
}

func (c *Client) legacy(ctx context.Context, loc location) (Report, error) {
	q := url.Values{
		"lat":   {fmt.Sprintf("%f", loc.Lat)},
		"lon":   {fmt.Sprintf("%f", loc.Lon)},
		"units": {"metric"},
		"appid": {c.apiKey},
	}

	var body struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := c.getJSON(ctx, c.legacyBaseURL+"/weather?"+q.Encode(), &body); err != nil {
		return Report{}, err
	}

	report := Report{
		Place:      loc.Name,
		Latitude:   loc.Lat,
		Longitude:  loc.Lon,
		TempC:      body.Main.Temp,
		FeelsLikeC: body.Main.FeelsLike,
		Humidity:   body.Main.Humidity,
		WindSpeed:  body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		report.Description = body.Weather[0].Description
	}
	return report, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}

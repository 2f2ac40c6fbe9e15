package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/wind-data-analysis/internal/common"
	"github.com/i474232898/wind-data-analysis/internal/wind"
)

var errNoCoordinates = errors.New("openmeteo requires latitude and longitude")

// geocodeFunc resolves a city/country pair to coordinates.
type geocodeFunc func(city, country string) (lat, lon float64, err error)

// OpenMeteoSource fetches hourly 10m wind observations from Open-Meteo.
type OpenMeteoSource struct {
	name     string
	baseURL  string
	pastDays int
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	geocode  geocodeFunc
	now      func() time.Time
}

// NewOpenMeteoSource creates the source. Stations without coordinates are
// geocoded from city and country when geocoderAPIKey is set.
func NewOpenMeteoSource(client *http.Client, pastDays int, geocoderAPIKey string) *OpenMeteoSource {
	if pastDays <= 0 {
		pastDays = 7
	}

	src := &OpenMeteoSource{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		pastDays: pastDays,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreaker("openmeteo"),
		now:     time.Now,
	}

	if geocoderAPIKey != "" {
		geocoder.ApiKey = geocoderAPIKey
		src.geocode = googleGeocode
	}
	return src
}

func (p *OpenMeteoSource) Name() string {
	return p.name
}

// Fetch returns the station's hourly samples for the configured past days.
// Hours the API reports as null, and hours after now, are skipped.
func (p *OpenMeteoSource) Fetch(ctx context.Context, st wind.Station) (wind.Dataset, error) {
	lat, lon, err := p.coordinates(st)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	values.Set("hourly", "wind_speed_10m,wind_direction_10m")
	values.Set("wind_speed_unit", "ms")
	values.Set("timezone", "GMT")
	values.Set("past_days", strconv.Itoa(p.pastDays))
	values.Set("forecast_days", "1")

	var payload struct {
		Hourly struct {
			Time          []string   `json:"time"`
			WindSpeed     []*float64 `json:"wind_speed_10m"`
			WindDirection []*float64 `json:"wind_direction_10m"`
		} `json:"hourly"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	if len(h.WindSpeed) != len(h.Time) || len(h.WindDirection) != len(h.Time) {
		return nil, fmt.Errorf("openmeteo: hourly series length mismatch (time=%d speed=%d direction=%d)",
			len(h.Time), len(h.WindSpeed), len(h.WindDirection))
	}

	now := p.now()
	data := wind.Dataset{}
	for i, raw := range h.Time {
		if h.WindSpeed[i] == nil || h.WindDirection[i] == nil {
			continue
		}
		ts, err := common.ParseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("openmeteo: time %q: %w", raw, err)
		}
		if ts.After(now) {
			continue
		}
		data = append(data, wind.Sample{
			Timestamp: ts,
			Speed:     *h.WindSpeed[i],
			Direction: *h.WindDirection[i],
		})
	}
	return data, nil
}

func (p *OpenMeteoSource) coordinates(st wind.Station) (float64, float64, error) {
	if st.Lat != nil && st.Lon != nil {
		return *st.Lat, *st.Lon, nil
	}
	if p.geocode == nil || st.City == "" {
		return 0, 0, errNoCoordinates
	}
	lat, lon, err := p.geocode(st.City, st.Country)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s, %s: %w", st.City, st.Country, err)
	}
	return lat, lon, nil
}

func googleGeocode(city, country string) (float64, float64, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    city,
		Country: country,
	})
	if err != nil {
		return 0, 0, err
	}
	return loc.Latitude, loc.Longitude, nil
}

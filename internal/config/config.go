package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/wind-data-analysis/internal/common"
	"github.com/i474232898/wind-data-analysis/internal/wind"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string // "console" or "json"

	// RefreshInterval controls how often station datasets are reloaded.
	RefreshInterval time.Duration

	// StoreMaxHistory is the number of dataset versions kept per station (0 = unlimited).
	StoreMaxHistory int
	// StoreMaxAge drops dataset versions loaded longer ago than this (0 = keep all).
	StoreMaxAge time.Duration

	// Stations to track.
	Stations []wind.Station

	// Sources names data sources in fallback order: csv, openmeteo, synthetic.
	Sources []string

	DataFile string
	// SeedDataFile writes the synthetic series to DataFile when it is missing.
	SeedDataFile bool

	SynthSamples int
	SynthStart   time.Time
	SynthSeed    int64

	OpenMeteoPastDays int
	GeocoderAPIKey    string
}

var knownSources = map[string]bool{
	"csv":       true,
	"openmeteo": true,
	"synthetic": true,
}

// Load reads configuration from environment with sensible defaults.
// Callers load any .env file first.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:      getenvDefault("PORT", "8080"),
		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "console"),
		DataFile:  getenvDefault("DATA_FILE", "sample_wind_data.csv"),

		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 24); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "0s"); err != nil {
		return nil, err
	}
	if cfg.SynthSamples, err = getenvInt("SYNTH_SAMPLES", 720); err != nil { // 30 days of hourly data
		return nil, err
	}
	seed, err := getenvInt("SYNTH_SEED", 42)
	if err != nil {
		return nil, err
	}
	cfg.SynthSeed = int64(seed)
	if cfg.OpenMeteoPastDays, err = getenvInt("OPENMETEO_PAST_DAYS", 7); err != nil {
		return nil, err
	}

	start := getenvDefault("SYNTH_START", "2024-01-01")
	if cfg.SynthStart, err = common.ParseTime(start); err != nil {
		return nil, fmt.Errorf("invalid SYNTH_START: %w", err)
	}

	if cfg.SeedDataFile, err = getenvBool("SEED_DATA_FILE", true); err != nil {
		return nil, err
	}

	if cfg.Sources, err = loadSources(); err != nil {
		return nil, err
	}

	st, err := loadStation()
	if err != nil {
		return nil, err
	}
	cfg.Stations = []wind.Station{st}

	return cfg, nil
}

func loadSources() ([]string, error) {
	var out []string
	for _, name := range strings.Split(getenvDefault("DATA_SOURCES", "csv,synthetic"), ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if !knownSources[name] {
			return nil, fmt.Errorf("invalid DATA_SOURCES: unknown source %q", name)
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("DATA_SOURCES must name at least one source")
	}
	return out, nil
}

func loadStation() (wind.Station, error) {
	st := wind.Station{
		ID:      getenvDefault("STATION_ID", "jamaica-bay"),
		Name:    getenvDefault("STATION_NAME", "Jamaica Bay"),
		City:    os.Getenv("STATION_CITY"),
		Country: os.Getenv("STATION_COUNTRY"),
	}

	lat, err := getenvFloatPtr("STATION_LAT")
	if err != nil {
		return st, err
	}
	lon, err := getenvFloatPtr("STATION_LON")
	if err != nil {
		return st, err
	}
	if (lat == nil) != (lon == nil) {
		return st, fmt.Errorf("STATION_LAT and STATION_LON must be set together")
	}
	st.Lat, st.Lon = lat, lon
	return st, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloatPtr(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}

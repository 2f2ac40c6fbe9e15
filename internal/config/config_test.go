package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 24, cfg.StoreMaxHistory)
	assert.Zero(t, cfg.StoreMaxAge)
	assert.True(t, cfg.SeedDataFile)
	assert.Equal(t, []string{"csv", "synthetic"}, cfg.Sources)
	assert.Equal(t, 720, cfg.SynthSamples)
	assert.Equal(t, int64(42), cfg.SynthSeed)
	assert.True(t, cfg.SynthStart.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.Len(t, cfg.Stations, 1)
	assert.Equal(t, "jamaica-bay", cfg.Stations[0].ID)
	assert.Nil(t, cfg.Stations[0].Lat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("DATA_SOURCES", " OpenMeteo , csv ")
	t.Setenv("STATION_ID", "rockaway")
	t.Setenv("STATION_LAT", "40.58")
	t.Setenv("STATION_LON", "-73.81")
	t.Setenv("SYNTH_SEED", "7")
	t.Setenv("STORE_MAX_AGE", "72h")
	t.Setenv("SEED_DATA_FILE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, []string{"openmeteo", "csv"}, cfg.Sources)
	assert.Equal(t, int64(7), cfg.SynthSeed)
	assert.Equal(t, 72*time.Hour, cfg.StoreMaxAge)
	assert.False(t, cfg.SeedDataFile)

	st := cfg.Stations[0]
	assert.Equal(t, "rockaway", st.ID)
	require.NotNil(t, st.Lat)
	require.NotNil(t, st.Lon)
	assert.Equal(t, 40.58, *st.Lat)
	assert.Equal(t, -73.81, *st.Lon)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"REFRESH_INTERVAL", "soon", "invalid REFRESH_INTERVAL"},
		{"STORE_MAX_HISTORY", "many", "invalid STORE_MAX_HISTORY"},
		{"STORE_MAX_AGE", "forever", "invalid STORE_MAX_AGE"},
		{"SEED_DATA_FILE", "maybe", "invalid SEED_DATA_FILE"},
		{"DATA_SOURCES", "csv,ftp", `unknown source "ftp"`},
		{"DATA_SOURCES", " , ", "at least one source"},
		{"SYNTH_START", "someday", "invalid SYNTH_START"},
		{"STATION_LAT", "north", "invalid STATION_LAT"},
		{"STATION_LON", "1.5", "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

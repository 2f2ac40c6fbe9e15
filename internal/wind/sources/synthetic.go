package sources

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/i474232898/wind-data-analysis/internal/wind"
)

// SyntheticConfig shapes the generated series.
type SyntheticConfig struct {
	Samples int
	Start   time.Time
	Seed    int64
}

// SyntheticSource generates hourly samples with an afternoon speed peak,
// occasional gusts and a south-westerly prevailing direction.
type SyntheticSource struct {
	name string
	cfg  SyntheticConfig
}

const (
	synthBaseSpeed      = 3.0
	synthDailyAmplitude = 2.0
	synthSpeedNoise     = 1.5
	synthGustChance     = 0.05
	synthGustMin        = 3.0
	synthGustMax        = 8.0
	synthPrevailing     = 225.0
	synthDirectionNoise = 45.0
)

var defaultSynthStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func NewSyntheticSource(cfg SyntheticConfig) *SyntheticSource {
	return &SyntheticSource{
		name: "synthetic",
		cfg:  cfg,
	}
}

func (s *SyntheticSource) Name() string {
	return s.name
}

// Fetch returns the same series for the same config on every call.
func (s *SyntheticSource) Fetch(ctx context.Context, _ wind.Station) (wind.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Generate(s.cfg), nil
}

// Generate builds cfg.Samples hourly samples starting at cfg.Start
// (2024-01-01 UTC when unset).
func Generate(cfg SyntheticConfig) wind.Dataset {
	if cfg.Samples <= 0 {
		return wind.Dataset{}
	}
	if cfg.Start.IsZero() {
		cfg.Start = defaultSynthStart
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	data := make(wind.Dataset, cfg.Samples)
	for i := range data {
		ts := cfg.Start.Add(time.Duration(i) * time.Hour)

		daily := synthBaseSpeed + synthDailyAmplitude*math.Sin(2*math.Pi*float64(ts.Hour()-6)/24)
		noise := rng.NormFloat64() * synthSpeedNoise
		var gust float64
		if rng.Float64() < synthGustChance {
			gust = synthGustMin + rng.Float64()*(synthGustMax-synthGustMin)
		}

		dir := math.Mod(synthPrevailing+rng.NormFloat64()*synthDirectionNoise, 360)
		if dir < 0 {
			dir += 360
		}

		data[i] = wind.Sample{
			Timestamp: ts,
			Speed:     math.Max(0, daily+noise+gust),
			Direction: dir,
		}
	}
	return data
}

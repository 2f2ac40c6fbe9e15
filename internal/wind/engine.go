package wind

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

const (
	DefaultRoseBins        = 16
	DefaultCalmThreshold   = 2.0  // m/s
	DefaultStrongThreshold = 10.0 // m/s
	DefaultGustWindow      = 10
	DefaultAirDensity      = 1.225 // kg/m³ at sea level

	prevailingBins    = 16
	prevailingBinSize = 22.5
)

// Engine computes statistics over a wind dataset.
//
// Queries never write derived values back into the dataset, so an Engine may
// be read from several goroutines as long as nobody calls Load concurrently.
type Engine struct {
	name string
	data Dataset
}

// NewEngine creates an engine with no data. name is used in the summary report
// title and may be empty.
func NewEngine(name string) *Engine {
	return &Engine{name: name}
}

// Load replaces the current dataset wholesale. The engine keeps its own copy;
// values are not validated.
func (e *Engine) Load(data Dataset) {
	e.data = data.Clone()
}

// Len returns the number of loaded samples.
func (e *Engine) Len() int {
	return len(e.data)
}

// Dataset returns a copy of the loaded samples.
func (e *Engine) Dataset() Dataset {
	return e.data.Clone()
}

// BasicStatistics returns mean, median, sample standard deviation, min and max
// of the wind speed.
func (e *Engine) BasicStatistics() (Statistics, error) {
	if len(e.data) == 0 {
		return Statistics{}, ErrEmptyDataset
	}
	return describe(e.data.Speeds()), nil
}

// WindRose bins directions into bins equal sectors. A sample falls into
// bin trunc(direction/binSize) mod bins.
func (e *Engine) WindRose(bins int) (WindRose, error) {
	if len(e.data) == 0 {
		return WindRose{}, ErrEmptyDataset
	}
	if bins < 1 {
		return WindRose{}, fmt.Errorf("%w: bins must be at least 1, got %d", ErrInvalidArgument, bins)
	}

	binSize := 360 / float64(bins)
	counts := make([]int, bins)
	sums := make([]float64, bins)
	for _, s := range e.data {
		i := roseBin(s.Direction, binSize, bins)
		counts[i]++
		sums[i] += s.Speed
	}

	total := float64(len(e.data))
	rose := WindRose{
		Directions:  make([]float64, bins),
		Frequencies: make([]float64, bins),
		AvgSpeeds:   make([]float64, bins),
	}
	for i := 0; i < bins; i++ {
		rose.Directions[i] = float64(i) * binSize
		rose.Frequencies[i] = float64(counts[i]) / total * 100
		if counts[i] > 0 {
			rose.AvgSpeeds[i] = sums[i] / float64(counts[i])
		}
	}
	return rose, nil
}

// DetectCalmPeriods returns the samples with speed strictly below threshold.
func (e *Engine) DetectCalmPeriods(threshold float64) (Dataset, error) {
	return e.filter(func(s Sample) bool { return s.Speed < threshold })
}

// DetectStrongWindEvents returns the samples with speed strictly above threshold.
func (e *Engine) DetectStrongWindEvents(threshold float64) (Dataset, error) {
	return e.filter(func(s Sample) bool { return s.Speed > threshold })
}

func (e *Engine) filter(keep func(Sample) bool) (Dataset, error) {
	if len(e.data) == 0 {
		return nil, ErrEmptyDataset
	}
	out := Dataset{}
	for _, s := range e.data {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// GustFactor returns max/mean speed over the trailing window ending at each
// index. The result is aligned with the dataset; an entry is nil while fewer
// than window samples are available or when the window mean is zero.
func (e *Engine) GustFactor(window int) ([]*float64, error) {
	if len(e.data) == 0 {
		return nil, ErrEmptyDataset
	}
	if window < 1 {
		return nil, fmt.Errorf("%w: window must be at least 1, got %d", ErrInvalidArgument, window)
	}

	speeds := e.data.Speeds()
	out := make([]*float64, len(speeds))
	for i := window - 1; i < len(speeds); i++ {
		w := speeds[i-window+1 : i+1]
		peak, _ := stats.Max(w)
		mean, _ := stats.Mean(w)
		if mean == 0 {
			continue
		}
		g := peak / mean
		if math.IsNaN(g) || math.IsInf(g, 0) {
			continue
		}
		out[i] = &g
	}
	return out, nil
}

// PrevailingDirection finds the most populated of 16 sectors of 22.5°.
// Unlike WindRose, directions are rounded (half to even) to the nearest
// sector centre. Ties go to the lowest sector.
func (e *Engine) PrevailingDirection() (Prevailing, error) {
	if len(e.data) == 0 {
		return Prevailing{}, ErrEmptyDataset
	}

	var counts [prevailingBins]int
	for _, s := range e.data {
		counts[prevailingBin(s.Direction)]++
	}

	best := 0
	for i := 1; i < prevailingBins; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}

	return Prevailing{
		Direction:  float64(best) * prevailingBinSize,
		Percentage: float64(counts[best]) / float64(len(e.data)) * 100,
	}, nil
}

// DailyPattern groups speeds by the hour of day of their timestamp. Hours
// without samples are absent from the result.
func (e *Engine) DailyPattern() (map[int]HourlyStats, error) {
	if len(e.data) == 0 {
		return nil, ErrEmptyDataset
	}

	groups := make(map[int][]float64)
	for _, s := range e.data {
		if s.Timestamp.IsZero() {
			return nil, ErrMissingTimestamp
		}
		h := s.Timestamp.Hour()
		groups[h] = append(groups[h], s.Speed)
	}

	pattern := make(map[int]HourlyStats, len(groups))
	for h, speeds := range groups {
		d := describe(speeds)
		pattern[h] = HourlyStats{
			Count:  len(speeds),
			Mean:   d.Mean,
			StdDev: d.StdDev,
			Min:    d.Min,
			Max:    d.Max,
		}
	}
	return pattern, nil
}

// SortedHours returns the hours present in a daily pattern in ascending order.
func SortedHours(pattern map[int]HourlyStats) []int {
	hours := make([]int, 0, len(pattern))
	for h := range pattern {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// PowerDensity returns 0.5·ρ·v³ (W/m²) for every sample.
func (e *Engine) PowerDensity(airDensity float64) ([]float64, error) {
	if len(e.data) == 0 {
		return nil, ErrEmptyDataset
	}
	out := make([]float64, len(e.data))
	for i, s := range e.data {
		out[i] = 0.5 * airDensity * math.Pow(s.Speed, 3)
	}
	return out, nil
}

// describe expects a non-empty slice.
func describe(speeds []float64) Statistics {
	mean, _ := stats.Mean(speeds)
	median, _ := stats.Median(speeds)
	lo, _ := stats.Min(speeds)
	hi, _ := stats.Max(speeds)

	// n-1 deviation is undefined for one sample; report no spread.
	var sd float64
	if len(speeds) > 1 {
		sd, _ = stats.StandardDeviationSample(speeds)
	}

	return Statistics{
		Mean:   mean,
		Median: median,
		StdDev: sd,
		Min:    lo,
		Max:    hi,
	}
}

func roseBin(direction, binSize float64, bins int) int {
	i := int(direction/binSize) % bins
	if i < 0 {
		i += bins
	}
	return i
}

func prevailingBin(direction float64) int {
	i := int(math.RoundToEven(direction/prevailingBinSize)) % prevailingBins
	if i < 0 {
		i += prevailingBins
	}
	return i
}

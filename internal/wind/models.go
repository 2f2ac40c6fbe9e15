package wind

import (
	"encoding/json"
	"time"
)

// Sample is a single timestamped wind observation.
// A zero Timestamp means the observation carried no time.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Speed     float64   `json:"wind_speed"`     // m/s
	Direction float64   `json:"wind_direction"` // degrees
}

// MarshalJSON writes a missing timestamp as null.
func (s Sample) MarshalJSON() ([]byte, error) {
	type sample Sample
	out := struct {
		Timestamp *time.Time `json:"timestamp"`
		sample
	}{sample: sample(s)}
	if !s.Timestamp.IsZero() {
		out.Timestamp = &s.Timestamp
	}
	return json.Marshal(out)
}

// Dataset is an ordered sequence of samples. Insertion order is assumed to be
// chronological.
type Dataset []Sample

// Speeds returns the speed column as a fresh slice.
func (d Dataset) Speeds() []float64 {
	out := make([]float64, len(d))
	for i, s := range d {
		out[i] = s.Speed
	}
	return out
}

// Clone returns a copy that shares no backing array with d.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// Between returns the samples whose timestamp lies in [from, to].
func (d Dataset) Between(from, to time.Time) Dataset {
	var out Dataset
	for _, s := range d {
		if !s.Timestamp.Before(from) && !s.Timestamp.After(to) {
			out = append(out, s)
		}
	}
	return out
}

// Statistics summarizes the speed column.
type Statistics struct {
	Mean   float64 `json:"mean_speed"`
	Median float64 `json:"median_speed"`
	StdDev float64 `json:"std_speed"`
	Min    float64 `json:"min_speed"`
	Max    float64 `json:"max_speed"`
}

// WindRose holds per-bin direction frequencies and mean speeds.
// Directions are bin lower edges in degrees, frequencies are percentages.
type WindRose struct {
	Directions  []float64 `json:"directions"`
	Frequencies []float64 `json:"frequencies"`
	AvgSpeeds   []float64 `json:"avg_speeds"`
}

// Prevailing is the most frequently observed 22.5 degree direction bin.
type Prevailing struct {
	Direction  float64 `json:"direction"`
	Percentage float64 `json:"percentage"`
}

// HourlyStats aggregates the samples falling in one hour of the day.
type HourlyStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Station identifies a location owning wind datasets.
type Station struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	City    string   `json:"city,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns the canonical key for indexing this station in stores.
func (s Station) Key() string {
	return s.ID
}

// Record is one loaded dataset version for a station.
type Record struct {
	ID       string    `json:"id"`
	Station  Station   `json:"station"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Samples  Dataset   `json:"-"`
}

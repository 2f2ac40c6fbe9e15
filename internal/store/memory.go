package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/wind-data-analysis/internal/wind"
)

var (
	// ErrNotFound is returned when no data is available for a given station.
	ErrNotFound = errors.New("no wind data for station")
)

// RecordHistory holds the loaded dataset versions of a station, oldest first.
type RecordHistory struct {
	Records []wind.Record
}

// MemoryStore is a concurrency-safe in-memory store of station datasets.
type MemoryStore struct {
	mu sync.RWMutex

	// key: station key, value: history
	data map[string]*RecordHistory

	// retention configuration
	maxHistory int           // max number of records per station
	maxAge     time.Duration // optional max age of a record, by LoadedAt

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, that limit is not enforced.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*RecordHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveRecord appends a record for its station and enforces retention.
func (s *MemoryStore) SaveRecord(rec wind.Record) {
	key := rec.Station.Key()
	rec.Samples = rec.Samples.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &RecordHistory{}
		s.data[key] = history
	}

	history.Records = append(history.Records, rec)

	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}

	// Enforce retention by age. The latest record always survives so the
	// station keeps a dataset to analyze.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Records)-1; i++ {
			if !history.Records[i].LoadedAt.Before(cutoff) {
				break
			}
		}
		history.Records = history.Records[i:]
	}
}

// GetLatest returns the most recent record for a station.
func (s *MemoryStore) GetLatest(stationID string) (wind.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[stationID]
	if !ok || len(history.Records) == 0 {
		return wind.Record{}, ErrNotFound
	}
	rec := history.Records[len(history.Records)-1]
	rec.Samples = rec.Samples.Clone()
	return rec, nil
}

// GetRange returns the samples of the latest record between from and to (inclusive).
func (s *MemoryStore) GetRange(stationID string, from, to time.Time) (wind.Dataset, error) {
	rec, err := s.GetLatest(stationID)
	if err != nil {
		return nil, err
	}

	result := rec.Samples.Between(from, to)
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// History returns every retained record of a station, oldest first.
func (s *MemoryStore) History(stationID string) ([]wind.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[stationID]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}
	out := make([]wind.Record, len(history.Records))
	for i, rec := range history.Records {
		rec.Samples = rec.Samples.Clone()
		out[i] = rec
	}
	return out, nil
}

// Stations returns the stations that have at least one record, sorted by key.
func (s *MemoryStore) Stations() []wind.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]wind.Station, 0, len(s.data))
	for _, history := range s.data {
		if len(history.Records) == 0 {
			continue
		}
		out = append(out, history.Records[len(history.Records)-1].Station)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

package wind

import (
	"context"
	"time"
)

// Source abstracts a wind data source (CSV file, Open-Meteo, synthetic generator).
type Source interface {
	Name() string
	Fetch(ctx context.Context, st Station) (Dataset, error)
}

// Store is the contract the in-memory store must satisfy.
type Store interface {
	SaveRecord(rec Record)
	GetLatest(stationID string) (Record, error)
	GetRange(stationID string, from, to time.Time) (Dataset, error)
	History(stationID string) ([]Record, error)
	Stations() []Station
}

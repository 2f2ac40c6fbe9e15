package wind

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNoSources is returned by Refresh when the service has no sources.
	ErrNoSources = errors.New("no wind data sources configured")

	// ErrNoData is returned by Refresh when every source failed or came back empty.
	ErrNoData = errors.New("no wind data available")
)

// Service resolves station datasets from sources, keeps them in the store and
// hands out engines over the latest one.
type Service struct {
	store   Store
	sources []Source
	log     zerolog.Logger
}

// NewService creates a new Service. Sources are tried in the given order.
func NewService(store Store, sources []Source, log zerolog.Logger) *Service {
	return &Service{
		store:   store,
		sources: sources,
		log:     log.With().Str("component", "wind-service").Logger(),
	}
}

// Refresh fetches a dataset for the station from the first source that
// returns samples and saves it as a new record. When every source fails the
// previous record is left in place.
func (s *Service) Refresh(ctx context.Context, st Station) (Record, error) {
	if len(s.sources) == 0 {
		s.log.Error().Str("station", st.Key()).Msg("no sources available to fetch wind data")
		return Record{}, ErrNoSources
	}

	var errs []error
	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		data, err := src.Fetch(ctx, st)
		if err != nil {
			s.log.Warn().Err(err).Str("station", st.Key()).Str("source", src.Name()).Msg("source fetch failed")
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		if len(data) == 0 {
			s.log.Warn().Str("station", st.Key()).Str("source", src.Name()).Msg("source returned no samples")
			continue
		}
		return s.Load(st, src.Name(), data), nil
	}

	s.log.Warn().Str("station", st.Key()).Msg("no source produced samples; keeping last dataset if any")
	if len(errs) == 0 {
		return Record{}, fmt.Errorf("%w for %s", ErrNoData, st.Key())
	}
	return Record{}, fmt.Errorf("%w for %s: %w", ErrNoData, st.Key(), errors.Join(errs...))
}

// Load saves data as the station's latest record.
func (s *Service) Load(st Station, source string, data Dataset) Record {
	rec := Record{
		ID:       uuid.NewString(),
		Station:  st,
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Samples:  data.Clone(),
	}
	s.store.SaveRecord(rec)

	s.log.Info().
		Str("station", st.Key()).
		Str("source", source).
		Str("record", rec.ID).
		Int("samples", len(data)).
		Msg("dataset loaded")
	return rec
}

// Engine returns an engine over the station's latest dataset.
func (s *Service) Engine(stationID string) (*Engine, error) {
	rec, err := s.store.GetLatest(stationID)
	if err != nil {
		return nil, err
	}

	name := rec.Station.Name
	if name == "" {
		name = rec.Station.Key()
	}
	e := NewEngine(name)
	e.Load(rec.Samples)
	return e, nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(stationID string) (Record, error) {
	return s.store.GetLatest(stationID)
}

// Samples delegates to the underlying store.
func (s *Service) Samples(stationID string, from, to time.Time) (Dataset, error) {
	return s.store.GetRange(stationID, from, to)
}

// History delegates to the underlying store.
func (s *Service) History(stationID string) ([]Record, error) {
	return s.store.History(stationID)
}

// Stations delegates to the underlying store.
func (s *Service) Stations() []Station {
	return s.store.Stations()
}

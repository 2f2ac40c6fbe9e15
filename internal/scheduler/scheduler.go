package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/wind-data-analysis/internal/wind"
)

const refreshTimeout = 30 * time.Second

// Refresher reloads a station's dataset. *wind.Service satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, st wind.Station) (wind.Record, error)
}

// Scheduler periodically refreshes the datasets of configured stations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	stations  []wind.Station
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler.
func New(stations []wind.Station, interval time.Duration, service Refresher, log zerolog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		stations:  stations,
		interval:  interval,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.stations) == 0 {
		s.log.Info().Msg("no stations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every station concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	s.log.Debug().Int("stations", len(s.stations)).Msg("running wind refresh job")

	var wg sync.WaitGroup
	for _, st := range s.stations {
		wg.Add(1)
		go func(st wind.Station) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()

			if _, err := s.service.Refresh(ctx, st); err != nil {
				s.log.Error().Err(err).Str("station", st.Key()).Msg("refresh failed")
			}
		}(st)
	}
	wg.Wait()

	s.log.Debug().Msg("completed wind refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

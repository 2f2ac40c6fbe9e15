package wind_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/wind-data-analysis/internal/logging"
	"github.com/i474232898/wind-data-analysis/internal/store"
	"github.com/i474232898/wind-data-analysis/internal/wind"
)

type fakeSource struct {
	name  string
	data  wind.Dataset
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, _ wind.Station) (wind.Dataset, error) {
	f.calls++
	return f.data, f.err
}

var bay = wind.Station{ID: "jamaica-bay", Name: "Jamaica Bay"}

func samples(speeds ...float64) wind.Dataset {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	data := make(wind.Dataset, len(speeds))
	for i, v := range speeds {
		data[i] = wind.Sample{Timestamp: base.Add(time.Duration(i) * time.Hour), Speed: v, Direction: 225}
	}
	return data
}

func TestRefreshFallsBackToNextSource(t *testing.T) {
	broken := &fakeSource{name: "csv", err: errors.New("file not found")}
	empty := &fakeSource{name: "openmeteo", data: wind.Dataset{}}
	synth := &fakeSource{name: "synthetic", data: samples(1, 2, 3)}

	svc := wind.NewService(store.NewMemoryStore(0, 0), []wind.Source{broken, empty, synth}, logging.Nop())

	rec, err := svc.Refresh(context.Background(), bay)
	require.NoError(t, err)
	assert.Equal(t, "synthetic", rec.Source)
	assert.NotEmpty(t, rec.ID)
	assert.Len(t, rec.Samples, 3)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, empty.calls)

	e, err := svc.Engine(bay.ID)
	require.NoError(t, err)
	st, err := e.BasicStatistics()
	require.NoError(t, err)
	assert.Equal(t, 2.0, st.Mean)
}

func TestRefreshStopsAtFirstSuccess(t *testing.T) {
	first := &fakeSource{name: "csv", data: samples(5)}
	second := &fakeSource{name: "synthetic", data: samples(1, 2)}

	svc := wind.NewService(store.NewMemoryStore(0, 0), []wind.Source{first, second}, logging.Nop())

	rec, err := svc.Refresh(context.Background(), bay)
	require.NoError(t, err)
	assert.Equal(t, "csv", rec.Source)
	assert.Zero(t, second.calls)
}

func TestRefreshAllFailKeepsPreviousRecord(t *testing.T) {
	src := &fakeSource{name: "csv", data: samples(4, 6)}
	svc := wind.NewService(store.NewMemoryStore(0, 0), []wind.Source{src}, logging.Nop())

	first, err := svc.Refresh(context.Background(), bay)
	require.NoError(t, err)

	src.data = nil
	src.err = errors.New("disk on fire")
	_, err = svc.Refresh(context.Background(), bay)
	assert.ErrorIs(t, err, wind.ErrNoData)
	assert.Contains(t, err.Error(), "disk on fire")

	latest, err := svc.Latest(bay.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)
}

func TestRefreshWithoutSources(t *testing.T) {
	svc := wind.NewService(store.NewMemoryStore(0, 0), nil, logging.Nop())

	_, err := svc.Refresh(context.Background(), bay)
	assert.ErrorIs(t, err, wind.ErrNoSources)
}

func TestRefreshCanceled(t *testing.T) {
	src := &fakeSource{name: "csv", data: samples(1)}
	svc := wind.NewService(store.NewMemoryStore(0, 0), []wind.Source{src}, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Refresh(ctx, bay)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, src.calls)
}

func TestLoadAndQuery(t *testing.T) {
	svc := wind.NewService(store.NewMemoryStore(0, 0), nil, logging.Nop())

	_, err := svc.Engine(bay.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	data := samples(1, 2, 3, 4)
	rec := svc.Load(bay, "upload", data)
	assert.Equal(t, "upload", rec.Source)

	// caller mutation after Load does not leak into the store
	data[0].Speed = 100

	e, err := svc.Engine(bay.ID)
	require.NoError(t, err)
	report, err := e.SummaryReport()
	require.NoError(t, err)
	assert.Contains(t, report, "Jamaica Bay")
	assert.Contains(t, report, "Max Speed: 4.00 m/s")

	got, err := svc.Samples(bay.ID, data[1].Timestamp, data[2].Timestamp)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, got.Speeds())

	assert.Equal(t, []wind.Station{bay}, svc.Stations())

	svc.Load(bay, "csv", samples(5, 6))
	history, err := svc.History(bay.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, rec.ID, history[0].ID)
	assert.Equal(t, "csv", history[1].Source)
}

func TestEngineNameFallsBackToStationID(t *testing.T) {
	svc := wind.NewService(store.NewMemoryStore(0, 0), nil, logging.Nop())
	svc.Load(wind.Station{ID: "pier-9"}, "upload", samples(1))

	e, err := svc.Engine("pier-9")
	require.NoError(t, err)
	report, err := e.SummaryReport()
	require.NoError(t, err)
	assert.Contains(t, report, "Wind Data Analysis Report - pier-9")
}

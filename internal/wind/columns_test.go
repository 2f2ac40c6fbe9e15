package wind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromColumns(t *testing.T) {
	data, err := FromColumns(Columns{
		Timestamp:     []string{"2024-01-01 00:00:00", "2024-01-01 01:00:00", "2024-01-01T02:00:00Z"},
		WindSpeed:     []float64{1.5, 2.5, 3.5},
		WindDirection: []float64{10, 20, 30},
	})
	require.NoError(t, err)
	require.Len(t, data, 3)

	assert.Equal(t, 1.5, data[0].Speed)
	assert.Equal(t, 30.0, data[2].Direction)
	assert.Equal(t, 1, data[1].Timestamp.Hour())
	assert.Equal(t, 2, data[2].Timestamp.Hour())
}

func TestFromColumnsWithoutTimestamps(t *testing.T) {
	data, err := FromColumns(Columns{
		WindSpeed:     []float64{1, 2},
		WindDirection: []float64{0, 90},
	})
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.True(t, data[0].Timestamp.IsZero())

	e := NewEngine("")
	e.Load(data)
	_, err = e.DailyPattern()
	assert.ErrorIs(t, err, ErrMissingTimestamp)

	st, err := e.BasicStatistics()
	require.NoError(t, err)
	assert.Equal(t, 1.5, st.Mean)
}

func TestFromColumnsErrors(t *testing.T) {
	tests := []struct {
		name    string
		cols    Columns
		wantErr string
	}{
		{
			name:    "direction length",
			cols:    Columns{WindSpeed: []float64{1, 2}, WindDirection: []float64{0}},
			wantErr: "wind_direction has 1",
		},
		{
			name: "timestamp length",
			cols: Columns{
				Timestamp:     []string{"2024-01-01"},
				WindSpeed:     []float64{1, 2},
				WindDirection: []float64{0, 0},
			},
			wantErr: "timestamp has 1",
		},
		{
			name: "bad timestamp",
			cols: Columns{
				Timestamp:     []string{"2024-01-01", "soon"},
				WindSpeed:     []float64{1, 2},
				WindDirection: []float64{0, 0},
			},
			wantErr: `timestamp[1] "soon"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromColumns(tt.cols)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

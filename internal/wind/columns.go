package wind

import (
	"fmt"

	"github.com/i474232898/wind-data-analysis/internal/common"
)

// Columns is key-value columnar input. Timestamp may be omitted entirely, in
// which case the samples carry no time.
type Columns struct {
	Timestamp     []string  `json:"timestamp,omitempty"`
	WindSpeed     []float64 `json:"wind_speed" validate:"required,min=1"`
	WindDirection []float64 `json:"wind_direction" validate:"required"`
}

// FromColumns builds a dataset from columnar input. Column lengths must match.
func FromColumns(c Columns) (Dataset, error) {
	n := len(c.WindSpeed)
	if len(c.WindDirection) != n {
		return nil, fmt.Errorf("column length mismatch: wind_speed has %d values, wind_direction has %d", n, len(c.WindDirection))
	}
	if len(c.Timestamp) != 0 && len(c.Timestamp) != n {
		return nil, fmt.Errorf("column length mismatch: wind_speed has %d values, timestamp has %d", n, len(c.Timestamp))
	}

	data := make(Dataset, n)
	for i := 0; i < n; i++ {
		data[i] = Sample{
			Speed:     c.WindSpeed[i],
			Direction: c.WindDirection[i],
		}
		if len(c.Timestamp) == 0 {
			continue
		}
		ts, err := common.ParseTime(c.Timestamp[i])
		if err != nil {
			return nil, fmt.Errorf("timestamp[%d] %q: %w", i, c.Timestamp[i], err)
		}
		data[i].Timestamp = ts
	}
	return data, nil
}

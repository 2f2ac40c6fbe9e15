package sources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/wind-data-analysis/internal/common"
	"github.com/i474232898/wind-data-analysis/internal/wind"
)

// CSV column names. Aliases are accepted when reading.
const (
	colTimestamp = "timestamp"
	colSpeed     = "wind_speed"
	colDirection = "wind_direction"
)

var (
	errMissingColumn = errors.New("missing required column")
	errNotFinite     = errors.New("value is not a finite number")
)

// CSVSource reads a station dataset from a delimited file with a header row.
type CSVSource struct {
	name string
	path string
}

// NewCSVSource creates a source reading path on every fetch.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{
		name: "csv",
		path: path,
	}
}

func (s *CSVSource) Name() string {
	return s.name
}

// Fetch reads the whole file. The station is not used to select rows.
func (s *CSVSource) Fetch(ctx context.Context, _ wind.Station) (wind.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return data, nil
}

// ReadCSV parses timestamp,wind_speed,wind_direction records. Columns are
// located by header name; the timestamp column is optional.
func ReadCSV(r io.Reader) (wind.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return wind.Dataset{}, nil
	}
	if err != nil {
		return nil, err
	}
	// Strip a UTF-8 BOM left by spreadsheet exports.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	tsIdx := common.ColumnIndex(header, colTimestamp, "time", "datetime")
	speedIdx := common.ColumnIndex(header, colSpeed, "speed", "wind_speed_ms")
	dirIdx := common.ColumnIndex(header, colDirection, "direction", "wind_direction_deg")
	if speedIdx < 0 {
		return nil, fmt.Errorf("%w %q", errMissingColumn, colSpeed)
	}
	if dirIdx < 0 {
		return nil, fmt.Errorf("%w %q", errMissingColumn, colDirection)
	}

	data := wind.Dataset{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var sample wind.Sample
		if sample.Speed, err = parseFloat(rec, speedIdx); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colSpeed, err)
		}
		if sample.Direction, err = parseFloat(rec, dirIdx); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colDirection, err)
		}
		if tsIdx >= 0 && tsIdx < len(rec) && strings.TrimSpace(rec[tsIdx]) != "" {
			if sample.Timestamp, err = common.ParseTime(rec[tsIdx]); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, colTimestamp, err)
			}
		}
		data = append(data, sample)
	}
	return data, nil
}

// WriteCSV writes the dataset with a timestamp,wind_speed,wind_direction header.
// Missing timestamps are written as empty fields.
func WriteCSV(w io.Writer, data wind.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colTimestamp, colSpeed, colDirection}); err != nil {
		return err
	}
	for _, s := range data {
		ts := ""
		if !s.Timestamp.IsZero() {
			ts = s.Timestamp.Format(time.RFC3339)
		}
		err := cw.Write([]string{
			ts,
			strconv.FormatFloat(s.Speed, 'f', -1, 64),
			strconv.FormatFloat(s.Direction, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the dataset to path, replacing any existing file.
func SaveCSV(path string, data wind.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SeedCSV writes the synthetic series to path when no file exists there yet.
// It reports whether a file was written.
func SeedCSV(path string, cfg SyntheticConfig) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := SaveCSV(path, Generate(cfg)); err != nil {
		return false, err
	}
	return true, nil
}

func parseFloat(rec []string, idx int) (float64, error) {
	if idx >= len(rec) {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

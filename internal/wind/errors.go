package wind

import "errors"

var (
	// ErrEmptyDataset is returned by every query when no samples are loaded.
	ErrEmptyDataset = errors.New("no wind data loaded")

	// ErrMissingTimestamp is returned by DailyPattern when a sample has no timestamp.
	ErrMissingTimestamp = errors.New("timestamp required for daily pattern analysis")

	// ErrInvalidArgument is returned for a non-positive bin count or window.
	ErrInvalidArgument = errors.New("invalid argument")
)

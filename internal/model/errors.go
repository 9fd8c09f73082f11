package model

import "fmt"

// NotFoundError reports a missing or unreadable persisted series.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("series %s not found: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// EmptySeriesError reports a series with zero dates.
type EmptySeriesError struct{}

func (e *EmptySeriesError) Error() string { return "series has no dates" }

// MalformedSnapshotError reports a structurally invalid snapshot or date key.
type MalformedSnapshotError struct {
	Date       string
	Instrument string
	Reason     string
}

func (e *MalformedSnapshotError) Error() string {
	if e.Instrument != "" {
		return fmt.Sprintf("malformed snapshot %s[%s]: %s", e.Date, e.Instrument, e.Reason)
	}
	return fmt.Sprintf("malformed snapshot %s: %s", e.Date, e.Reason)
}

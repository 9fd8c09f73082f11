package model

import (
	"sort"
	"time"
)

// DateFormat is the textual form of observation dates. Lexicographic order of
// dates in this form equals chronological order.
const DateFormat = "2006-01-02"

// Snapshot maps an instrument key to its observation for one date.
// An empty snapshot marks a date that was fetched but returned nothing.
type Snapshot map[string]Value

// Usable returns the number of instruments with a numeric value.
func (s Snapshot) Usable() int {
	n := 0
	for _, v := range s {
		if _, ok := v.Float(); ok {
			n++
		}
	}
	return n
}

// Series is an ascending, duplicate-free collection of dated snapshots.
// It is never mutated once built.
type Series struct {
	dates     []string
	snapshots map[string]Snapshot
}

// NewSeries builds a Series from a date-keyed map. Every key must be a
// calendar date in DateFormat.
func NewSeries(byDate map[string]Snapshot) (*Series, error) {
	s := &Series{
		dates:     make([]string, 0, len(byDate)),
		snapshots: make(map[string]Snapshot, len(byDate)),
	}
	for date, snap := range byDate {
		if _, err := time.Parse(DateFormat, date); err != nil {
			return nil, &MalformedSnapshotError{Date: date, Reason: "date is not YYYY-MM-DD"}
		}
		if snap == nil {
			snap = Snapshot{}
		}
		s.dates = append(s.dates, date)
		s.snapshots[date] = snap
	}
	sort.Strings(s.dates)
	return s, nil
}

// Len returns the number of dates in the series.
func (s *Series) Len() int { return len(s.dates) }

// Dates returns the sorted date keys. The slice must not be modified.
func (s *Series) Dates() []string { return s.dates }

// Snapshot returns the snapshot stored for date.
func (s *Series) Snapshot(date string) (Snapshot, bool) {
	snap, ok := s.snapshots[date]
	return snap, ok
}

// Index returns the position of date in Dates, or -1.
func (s *Series) Index(date string) int {
	i := sort.SearchStrings(s.dates, date)
	if i < len(s.dates) && s.dates[i] == date {
		return i
	}
	return -1
}

// ToMap returns a shallow copy of the date-keyed snapshots, for persistence.
func (s *Series) ToMap() map[string]Snapshot {
	out := make(map[string]Snapshot, len(s.dates))
	for _, d := range s.dates {
		out[d] = s.snapshots[d]
	}
	return out
}

package changes

import (
	"sort"
	"time"

	"MarketDigest/internal/model"
)

// Window is a nominal lookback offset.
type Window struct {
	Label string
	Days  int
}

// DefaultWindows is the fixed, ordered window set.
var DefaultWindows = []Window{
	{Label: model.Window24h, Days: 1},
	{Label: model.Window7d, Days: 7},
	{Label: model.Window30d, Days: 30},
}

// WindowMode decides how a window's offset maps onto the date list.
type WindowMode string

const (
	// ModeEntries steps back N entries in the sorted date list.
	ModeEntries WindowMode = "entries"
	// ModeCalendar takes the latest date at or before anchor minus N calendar days.
	ModeCalendar WindowMode = "calendar"
)

// comparisonIndex returns the index of the historical date for a window, or
// -1 when the series does not reach back far enough. It never returns the
// anchor index itself.
func comparisonIndex(dates []string, anchor int, w Window, mode WindowMode) int {
	if w.Days <= 0 {
		return -1
	}
	if mode == ModeCalendar {
		t, err := time.Parse(model.DateFormat, dates[anchor])
		if err != nil {
			return -1
		}
		target := t.AddDate(0, 0, -w.Days).Format(model.DateFormat)
		// first index strictly after target, minus one
		j := sort.Search(anchor, func(i int) bool { return dates[i] > target }) - 1
		return j
	}
	j := anchor - w.Days
	if j < 0 {
		return -1
	}
	return j
}

package changes

import "MarketDigest/internal/model"

// AnchorSelector picks the date treated as "current" for all windows.
type AnchorSelector interface {
	SelectAnchor(s *model.Series) (string, error)
	Name() string
}

// MostRecent anchors on the latest date in the series.
type MostRecent struct{}

func (MostRecent) Name() string { return "most-recent" }

func (MostRecent) SelectAnchor(s *model.Series) (string, error) {
	if s == nil || s.Len() == 0 {
		return "", &model.EmptySeriesError{}
	}
	dates := s.Dates()
	return dates[len(dates)-1], nil
}

// DefaultLookback is how many trailing dates MostComplete examines.
const DefaultLookback = 7

// MostComplete anchors on the date with the most usable instruments among
// the last Lookback dates. Ties go to the more recent date.
type MostComplete struct {
	Lookback int
}

func (MostComplete) Name() string { return "most-complete" }

func (m MostComplete) SelectAnchor(s *model.Series) (string, error) {
	if s == nil || s.Len() == 0 {
		return "", &model.EmptySeriesError{}
	}
	k := m.Lookback
	if k <= 0 {
		k = DefaultLookback
	}
	dates := s.Dates()
	start := len(dates) - k
	if start < 0 {
		start = 0
	}

	best, bestCount := "", -1
	for _, d := range dates[start:] {
		snap, _ := s.Snapshot(d)
		// >= so a later date wins ties
		if n := snap.Usable(); n >= bestCount {
			best, bestCount = d, n
		}
	}
	return best, nil
}

// SelectorByName maps a config value to a selector.
func SelectorByName(name string, lookback int) (AnchorSelector, bool) {
	switch name {
	case "", "most-recent":
		return MostRecent{}, true
	case "most-complete":
		return MostComplete{Lookback: lookback}, true
	}
	return nil, false
}

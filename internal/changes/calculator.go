package changes

import (
	"math"

	"github.com/shopspring/decimal"

	"MarketDigest/internal/model"
)

// PercentChange returns (current-historical)/historical*100 rounded to one
// decimal place, half away from zero. A zero historical value yields 0. The
// second result is false when the change overflows float64.
func PercentChange(current, historical float64) (float64, bool) {
	if historical == 0 {
		return 0, true
	}
	pct := (current - historical) / historical * 100
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		return 0, false
	}
	return decimal.NewFromFloat(pct).Round(1).InexactFloat64(), true
}

// Calculate builds change records for every instrument in the anchor
// snapshot (or only those listed in only, when non-empty). Per instrument and
// window, a missing or unusable historical value omits just that window.
func Calculate(s *model.Series, anchor string, windows []Window, mode WindowMode, only []string) map[string]model.ChangeRecord {
	records := make(map[string]model.ChangeRecord)
	i := s.Index(anchor)
	if i < 0 {
		return records
	}
	dates := s.Dates()
	current, _ := s.Snapshot(anchor)

	keys := only
	if len(keys) == 0 {
		keys = make([]string, 0, len(current))
		for k := range current {
			keys = append(keys, k)
		}
	}

	historical := make([]model.Snapshot, len(windows))
	for w, win := range windows {
		if j := comparisonIndex(dates, i, win, mode); j >= 0 {
			historical[w], _ = s.Snapshot(dates[j])
		}
	}

	for _, key := range keys {
		v, present := current[key]
		if !present {
			continue
		}
		cur, ok := v.Float()
		if !ok {
			continue
		}
		rec := model.ChangeRecord{Current: cur, Changes: make(map[string]float64)}
		for w, win := range windows {
			if historical[w] == nil {
				continue
			}
			hv, present := historical[w][key]
			if !present {
				continue
			}
			h, ok := hv.Float()
			if !ok {
				continue
			}
			if pct, ok := PercentChange(cur, h); ok {
				rec.Changes[win.Label] = pct
			}
		}
		records[key] = rec
	}
	return records
}

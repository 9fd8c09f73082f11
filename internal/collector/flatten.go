package collector

import (
	"math"

	"MarketDigest/internal/model"
)

// Flatten turns a multi-instrument fetch into a date-keyed series holding
// one field per instrument. Bars whose field is NaN or infinite are skipped,
// and a date left with no instrument at all is dropped. When an instrument
// has several bars on one date the later bar wins.
func Flatten(cube model.Cube, field model.Field) *model.Series {
	byDate := make(map[string]model.Snapshot)
	for instrument, bars := range cube {
		for _, bar := range bars {
			v := field(bar)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			date := bar.Time.Format(model.DateFormat)
			snap, ok := byDate[date]
			if !ok {
				snap = make(model.Snapshot)
				byDate[date] = snap
			}
			snap[instrument] = model.Number(v)
		}
	}
	// Every key was produced by Format(DateFormat), so NewSeries cannot fail.
	s, _ := model.NewSeries(byDate)
	return s
}

package store

import (
	"encoding/json"
	"time"

	"MarketDigest/internal/model"
)

type marketFile struct {
	DailyPrices    map[string]json.RawMessage  `json:"daily_prices"`
	Instruments    map[string]model.Instrument `json:"instruments,omitempty"`
	FetchTimestamp string                      `json:"fetch_timestamp,omitempty"`
	Note           string                      `json:"note,omitempty"`
}

// LoadMarket reads the ticker series at path together with its display
// side-table.
func LoadMarket(path string) (*model.Series, map[string]model.Instrument, error) {
	var f marketFile
	if err := readFile(path, &f); err != nil {
		return nil, nil, err
	}
	s, err := decodeSnapshots(f.DailyPrices)
	if err != nil {
		return nil, nil, err
	}
	return s, f.Instruments, nil
}

// MergeMarket folds a freshly fetched series into the file at path. Values
// for the same date and ticker are overwritten; tickers missing from the
// fetch keep their stored values. The side-table is replaced by instruments.
func MergeMarket(path string, fetched *model.Series, instruments map[string]model.Instrument, retention int, now time.Time) error {
	byDate := map[string]model.Snapshot{}
	existing, _, err := LoadMarket(path)
	switch {
	case err == nil:
		byDate = existing.ToMap()
	case !isMissing(err):
		return err
	}

	if fetched != nil {
		for _, date := range fetched.Dates() {
			snap, _ := fetched.Snapshot(date)
			merged := make(model.Snapshot, len(snap))
			for k, v := range byDate[date] {
				merged[k] = v
			}
			for k, v := range snap {
				merged[k] = v
			}
			byDate[date] = merged
		}
	}
	Trim(byDate, retention)

	raw, err := encodeSnapshots(byDate)
	if err != nil {
		return err
	}
	return writeFile(path, marketFile{
		DailyPrices:    raw,
		Instruments:    instruments,
		FetchTimestamp: now.Format(time.RFC3339),
		Note:           "Market data fetched from Yahoo Finance",
	})
}

package store

import (
	"encoding/json"
	"time"

	"MarketDigest/internal/model"
)

// FXMetadata describes the currency-pair series file.
type FXMetadata struct {
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	CurrencyPairs  []string `json:"currency_pairs,omitempty"`
	FetchTimestamp string   `json:"fetch_timestamp,omitempty"`
	Note           string   `json:"note,omitempty"`
}

type fxFile struct {
	Metadata   FXMetadata                 `json:"metadata"`
	DailyRates map[string]json.RawMessage `json:"daily_rates"`
}

// LoadFX reads the currency-pair series at path.
func LoadFX(path string) (*model.Series, error) {
	s, _, err := loadFX(path)
	return s, err
}

func loadFX(path string) (*model.Series, FXMetadata, error) {
	var f fxFile
	if err := readFile(path, &f); err != nil {
		return nil, FXMetadata{}, err
	}
	s, err := decodeSnapshots(f.DailyRates)
	if err != nil {
		return nil, FXMetadata{}, err
	}
	return s, f.Metadata, nil
}

// UpsertFX stores snap as the snapshot for date, replacing any previous one,
// then trims the file to the newest retention dates. An empty snap is kept
// as a gap marker. The stored metadata note is preserved.
func UpsertFX(path, date string, snap model.Snapshot, pairs []string, retention int, now time.Time) error {
	if _, err := model.NewSeries(map[string]model.Snapshot{date: nil}); err != nil {
		return err
	}

	byDate := map[string]model.Snapshot{}
	existing, meta, err := loadFX(path)
	switch {
	case err == nil:
		byDate = existing.ToMap()
	case !isMissing(err):
		return err
	}

	if snap == nil {
		snap = model.Snapshot{}
	}
	byDate[date] = snap
	Trim(byDate, retention)

	raw, err := encodeSnapshots(byDate)
	if err != nil {
		return err
	}
	first, last := dateRange(byDate)
	return writeFile(path, fxFile{
		Metadata: FXMetadata{
			StartDate:      first,
			EndDate:        last,
			CurrencyPairs:  pairs,
			FetchTimestamp: now.Format(time.RFC3339),
			Note:           meta.Note,
		},
		DailyRates: raw,
	})
}

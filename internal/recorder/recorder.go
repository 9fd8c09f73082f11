package recorder

import (
	"time"

	"MarketDigest/internal/model"
)

// RunSummary is one stored digest run.
type RunSummary struct {
	ID          string
	Timestamp   time.Time
	Kind        string // "fx" or "market"
	Status      string
	Anchor      string
	Error       string
	Instruments int
}

// Recorder persists digest results for later analysis.
type Recorder interface {
	RecordResult(kind string, res *model.Result) (string, error)
	RecentRuns(kind string, limit int) ([]RunSummary, error)
	Close() error
}

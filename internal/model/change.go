package model

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Window labels.
const (
	Window24h = "24h"
	Window7d  = "7d"
	Window30d = "30d"
)

// ChangeRecord pairs an instrument's current value with its percentage
// changes. A window with no valid comparison date is absent from Changes.
type ChangeRecord struct {
	Current float64            `json:"current"`
	Changes map[string]float64 `json:"changes"`
}

// Instrument is display metadata for a market ticker.
type Instrument struct {
	Category      string `json:"category" yaml:"category"`
	DisplaySymbol string `json:"display_symbol" yaml:"display_symbol"`
	Currency      string `json:"currency" yaml:"currency"`
	Name          string `json:"name" yaml:"name"`
}

// Result is the output of one engine invocation.
type Result struct {
	Status      string                  `json:"status"`
	Error       string                  `json:"error,omitempty"`
	Anchor      string                  `json:"anchor,omitempty"`
	Records     map[string]ChangeRecord `json:"records,omitempty"`
	Instruments map[string]Instrument   `json:"instruments,omitempty"`
}

// OK reports whether the result carries change records.
func (r *Result) OK() bool { return r.Status == StatusSuccess }

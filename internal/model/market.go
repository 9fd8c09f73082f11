package model

import "time"

// OHLCV represents a single daily bar. Missing fields are NaN.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Cube is the raw result of a multi-instrument fetch: per instrument, its
// bars, each bar carrying several fields.
type Cube map[string][]OHLCV

// Field selects one numeric field from a bar.
type Field func(OHLCV) float64

// CloseField selects the closing value.
func CloseField(b OHLCV) float64 { return b.Close }

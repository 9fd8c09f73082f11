package recorder

import "MarketDigest/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordResult(_ string, _ *model.Result) (string, error) { return "", nil }
func (n *NoopRecorder) RecentRuns(_ string, _ int) ([]RunSummary, error)      { return nil, nil }
func (n *NoopRecorder) Close() error                                          { return nil }

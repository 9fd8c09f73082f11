package changes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"MarketDigest/internal/model"
)

// dailySeries builds consecutive daily snapshots starting at start, one per
// element of snaps.
func dailySeries(t *testing.T, start string, snaps ...model.Snapshot) *model.Series {
	t.Helper()
	day, err := time.Parse(model.DateFormat, start)
	require.NoError(t, err)
	byDate := make(map[string]model.Snapshot, len(snaps))
	for i, snap := range snaps {
		byDate[day.AddDate(0, 0, i).Format(model.DateFormat)] = snap
	}
	s, err := model.NewSeries(byDate)
	require.NoError(t, err)
	return s
}

func constantSnapshots(n int, key string, v float64) []model.Snapshot {
	out := make([]model.Snapshot, n)
	for i := range out {
		out[i] = model.Snapshot{key: model.Number(v)}
	}
	return out
}

func countSnapshot(n int) model.Snapshot {
	snap := model.Snapshot{}
	for i := 0; i < n; i++ {
		snap[string(rune('A'+i))] = model.Number(float64(10 + i))
	}
	return snap
}

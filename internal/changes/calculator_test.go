package changes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketDigest/internal/model"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name       string
		current    float64
		historical float64
		want       float64
	}{
		{"rise rounds up", 100, 95, 5.3},
		{"fall", 95, 100, -5.0},
		{"two thirds drop", 1, 3, -66.7},
		{"unchanged", 0.589, 0.589, 0.0},
		{"historical zero", 42, 0, 0.0},
		{"fx sized move", 0.589, 0.580, 1.6},
		{"tie rounds away from zero", 100.25, 100, 0.3},
		{"negative tie rounds away from zero", 99.75, 100, -0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PercentChange(tt.current, tt.historical)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentChange_Overflow(t *testing.T) {
	for _, tt := range []struct{ current, historical float64 }{
		{1.7e308, -1.7e308},
		{1e300, 1e-300},
		{1, 1e-320},
	} {
		_, ok := PercentChange(tt.current, tt.historical)
		assert.False(t, ok, "%g vs %g", tt.current, tt.historical)
	}
}

func TestCalculate_OverflowOmitsOnlyThatWindow(t *testing.T) {
	s := dailySeries(t, "2025-09-29",
		model.Snapshot{"A": model.Number(-1.7e308), "B": model.Number(95)},
		model.Snapshot{"A": model.Number(1.7e308), "B": model.Number(100)},
	)

	res := Compute(s, Options{})
	require.True(t, res.OK())
	assert.Equal(t, model.ChangeRecord{Current: 1.7e308, Changes: map[string]float64{}}, res.Records["A"])
	assert.Equal(t, map[string]float64{"24h": 5.3}, res.Records["B"].Changes)
}

func TestCalculate_ConstantSeriesIsZero(t *testing.T) {
	s := dailySeries(t, "2025-08-01", constantSnapshots(40, "NZD/USD", 0.589)...)

	res := Compute(s, Options{})
	require.True(t, res.OK())
	rec := res.Records["NZD/USD"]
	assert.Equal(t, map[string]float64{"24h": 0, "7d": 0, "30d": 0}, rec.Changes)
}

func TestCalculate_ShortHistoryOmitsLongWindows(t *testing.T) {
	for n := 1; n < 8; n++ {
		snaps := make([]model.Snapshot, n)
		for i := range snaps {
			snaps[i] = model.Snapshot{
				"NZD/USD": model.Number(0.58 + float64(i)/1000),
				"NZD/AUD": model.Number(0.90),
			}
		}
		s := dailySeries(t, "2025-09-01", snaps...)

		for _, mode := range []WindowMode{ModeEntries, ModeCalendar} {
			res := Compute(s, Options{Mode: mode})
			require.True(t, res.OK())
			for key, rec := range res.Records {
				assert.NotContains(t, rec.Changes, "30d", "n=%d mode=%s key=%s", n, mode, key)
				assert.NotContains(t, rec.Changes, "7d", "n=%d mode=%s key=%s", n, mode, key)
				if n == 1 {
					assert.Empty(t, rec.Changes)
				} else {
					assert.Contains(t, rec.Changes, "24h")
				}
			}
		}
	}
}

func TestCalculate_KnownValues(t *testing.T) {
	s, err := model.NewSeries(map[string]model.Snapshot{
		"2025-09-29": {"X": model.Number(95)},
		"2025-09-30": {"X": model.Number(100)},
	})
	require.NoError(t, err)

	res := Compute(s, Options{})
	require.True(t, res.OK())
	assert.Equal(t, "2025-09-30", res.Anchor)
	assert.Equal(t, model.ChangeRecord{Current: 100, Changes: map[string]float64{"24h": 5.3}}, res.Records["X"])
}

func TestCalculate_ZeroHistoricalIsDefinedZero(t *testing.T) {
	s := dailySeries(t, "2025-09-29",
		model.Snapshot{"X": model.Number(0)},
		model.Snapshot{"X": model.Number(12)},
	)

	res := Compute(s, Options{})
	require.True(t, res.OK())
	got, ok := res.Records["X"].Changes["24h"]
	assert.True(t, ok)
	assert.Equal(t, 0.0, got)
}

func TestCalculate_MissingHistoricalOmitsOnlyThatInstrument(t *testing.T) {
	s := dailySeries(t, "2025-09-29",
		model.Snapshot{"A": model.Number(10)},
		model.Snapshot{"A": model.Number(11), "B": model.Number(20)},
	)

	res := Compute(s, Options{})
	require.True(t, res.OK())
	assert.Equal(t, map[string]float64{"24h": 10.0}, res.Records["A"].Changes)
	assert.Equal(t, 20.0, res.Records["B"].Current)
	assert.Empty(t, res.Records["B"].Changes)
}

func TestCalculate_FormattedStrings(t *testing.T) {
	s := dailySeries(t, "2025-09-29",
		model.Snapshot{"USD/BTC": model.ParseFormatted("100,000"), "Y": model.ParseFormatted("oops")},
		model.Snapshot{"USD/BTC": model.ParseFormatted("108,862"), "Y": model.Number(5)},
	)

	res := Compute(s, Options{})
	require.True(t, res.OK())
	assert.Equal(t, model.ChangeRecord{Current: 108862, Changes: map[string]float64{"24h": 8.9}}, res.Records["USD/BTC"])
	assert.Equal(t, model.ChangeRecord{Current: 5, Changes: map[string]float64{}}, res.Records["Y"])
}

func TestCalculate_InvalidAnchorValueDropsInstrument(t *testing.T) {
	s := dailySeries(t, "2025-09-29",
		model.Snapshot{"A": model.Number(1), "B": model.Number(2)},
		model.Snapshot{"A": model.ParseFormatted("N/A"), "B": model.Number(3)},
	)

	res := Compute(s, Options{})
	require.True(t, res.OK())
	assert.NotContains(t, res.Records, "A")
	assert.Contains(t, res.Records, "B")
}

func TestCalculate_EntriesMode(t *testing.T) {
	snaps := make([]model.Snapshot, 31)
	for i := range snaps {
		snaps[i] = model.Snapshot{"X": model.Number(float64(100 + i))}
	}
	s := dailySeries(t, "2025-09-01", snaps...)

	res := Compute(s, Options{Mode: ModeEntries})
	require.True(t, res.OK())
	assert.Equal(t, "2025-10-01", res.Anchor)
	assert.Equal(t, map[string]float64{
		"24h": 0.8,
		"7d":  5.7,
		"30d": 30.0,
	}, res.Records["X"].Changes)
	assert.Equal(t, 30.0, res.Records["X"].Changes["30d"])
}

func TestCalculate_CalendarModeFallsBackToEarlierDate(t *testing.T) {
	s, err := model.NewSeries(map[string]model.Snapshot{
		"2025-09-01": {"X": model.Number(50)},
		"2025-09-05": {"X": model.Number(80)},
		"2025-09-30": {"X": model.Number(100)},
	})
	require.NoError(t, err)

	res := Compute(s, Options{Mode: ModeCalendar})
	require.True(t, res.OK())
	assert.Equal(t, map[string]float64{"24h": 25.0, "7d": 25.0}, res.Records["X"].Changes)

	res = Compute(s, Options{Mode: ModeEntries})
	assert.Equal(t, map[string]float64{"24h": 25.0}, res.Records["X"].Changes)
}

func TestCalculate_OnlyFilter(t *testing.T) {
	s := dailySeries(t, "2025-09-29",
		model.Snapshot{"A": model.Number(1), "B": model.Number(2)},
		model.Snapshot{"A": model.Number(1), "B": model.Number(2)},
	)

	res := Compute(s, Options{Only: []string{"B", "Z"}})
	require.True(t, res.OK())
	assert.Len(t, res.Records, 1)
	assert.Contains(t, res.Records, "B")
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatted(t *testing.T) {
	tests := []struct {
		in   string
		kind ValueKind
		num  float64
	}{
		{"108,862", KindFormatted, 108862},
		{" 1,234.5 ", KindFormatted, 1234.5},
		{"0.5891", KindFormatted, 0.5891},
		{"-12", KindFormatted, -12},
		{"", KindInvalid, 0},
		{"n/a", KindInvalid, 0},
		{"12abc", KindInvalid, 0},
		{"NaN", KindInvalid, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseFormatted(tt.in)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.in, v.Raw)
			f, ok := v.Float()
			assert.Equal(t, tt.kind != KindInvalid, ok)
			assert.Equal(t, tt.num, f)
		})
	}
}

func TestValue_JSON(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"NZD/USD": 0.589, "USD/BTC": "108,862", "X": "bad"}`), &snap))

	assert.Equal(t, Number(0.589), snap["NZD/USD"])
	assert.Equal(t, Value{Kind: KindFormatted, Num: 108862, Raw: "108,862"}, snap["USD/BTC"])
	assert.Equal(t, KindInvalid, snap["X"].Kind)
	assert.Equal(t, 2, snap.Usable())

	out, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"NZD/USD": 0.589, "USD/BTC": "108,862", "X": "bad"}`, string(out))
}

func TestValue_RejectsNonScalar(t *testing.T) {
	for _, in := range []string{`{"A": true}`, `{"A": [1]}`, `{"A": {"v": 1}}`} {
		var snap Snapshot
		assert.Error(t, json.Unmarshal([]byte(in), &snap), in)
	}
}

package estimator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djdembeck/toon-format-skill/internal/models"
)

type fixedEncoder struct {
	out string
	err error
}

func (f fixedEncoder) Encode(models.JSONValue) (string, error) {
	return f.out, f.err
}

func TestTokenCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 0},
		{text: "a", want: 1},
		{text: "abcd", want: 1},
		{text: "abcde", want: 2},
		{text: strings.Repeat("x", 100), want: 25},
		{text: strings.Repeat("x", 101), want: 26},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TokenCount(tt.text), "TokenCount(%q)", tt.text)
	}
}

func TestEstimate(t *testing.T) {
	// {"a":1} serializes to 7 bytes of JSON -> 2 tokens.
	value := models.JSONObject{"a": 1}
	enc := fixedEncoder{out: "abcd"} // 1 token

	metrics, err := Estimate(value, enc)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.Original)
	assert.Equal(t, 1, metrics.Toon)
	assert.Equal(t, 1, metrics.Savings)
	assert.Equal(t, 50.0, metrics.PercentSaved)
}

func TestEstimate_NegativeSavings(t *testing.T) {
	value := models.JSONObject{"a": 1}
	enc := fixedEncoder{out: strings.Repeat("y", 40)} // 10 tokens

	metrics, err := Estimate(value, enc)
	require.NoError(t, err)

	assert.Equal(t, -8, metrics.Savings, "TOON can come out larger; report it honestly")
	assert.Less(t, metrics.PercentSaved, 0.0)
}

func TestEstimate_EncoderFailurePropagates(t *testing.T) {
	enc := fixedEncoder{err: errors.New("unrepresentable")}

	_, err := Estimate(models.JSONObject{"a": 1}, enc)
	assert.Error(t, err)
}

func TestEstimate_SavingsArithmetic(t *testing.T) {
	value := models.JSONObject{
		"users": models.JSONArray{
			models.JSONObject{"id": 1, "name": "Alice"},
			models.JSONObject{"id": 2, "name": "Bob"},
		},
	}
	enc := fixedEncoder{out: "users[2]{id,name}:\n  1,Alice\n  2,Bob"}

	metrics, err := Estimate(value, enc)
	require.NoError(t, err)

	assert.Equal(t, metrics.Original-metrics.Toon, metrics.Savings)
	if metrics.Original > 0 {
		assert.InDelta(t, 100*float64(metrics.Savings)/float64(metrics.Original), metrics.PercentSaved, 1e-9)
	}
}

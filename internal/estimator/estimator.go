// Package estimator reports the token savings of TOON-encoding a value.
//
// Token counts use a bytes/4 proxy, not a real tokenizer. The proxy is
// consistent enough to compare two encodings of the same payload but must
// never be read as an absolute token count for any particular model.
package estimator

import (
	json "github.com/goccy/go-json"

	"github.com/djdembeck/toon-format-skill/internal/errors"
	"github.com/djdembeck/toon-format-skill/internal/models"
)

// Encoder is the slice of the codec the estimator needs.
type Encoder interface {
	Encode(models.JSONValue) (string, error)
}

// bytesPerToken is the crude average of English/JSON text under common
// BPE tokenizers.
const bytesPerToken = 4

// TokenCount estimates the token cost of a text as ceil(len/4).
func TokenCount(text string) int {
	return (len(text) + bytesPerToken - 1) / bytesPerToken
}

// Estimate serializes the value both as compact JSON and as TOON and
// compares their token proxies. PercentSaved is 0 when the original costs
// nothing; Savings is negative when TOON comes out larger.
func Estimate(value models.JSONValue, enc Encoder) (models.TokenMetrics, error) {
	jsonText, err := json.Marshal(value)
	if err != nil {
		return models.TokenMetrics{}, errors.NewEncodeError("failed to serialize value as JSON", err)
	}

	toonText, err := enc.Encode(value)
	if err != nil {
		return models.TokenMetrics{}, err
	}

	original := TokenCount(string(jsonText))
	toonTokens := TokenCount(toonText)
	savings := original - toonTokens

	metrics := models.TokenMetrics{
		Original: original,
		Toon:     toonTokens,
		Savings:  savings,
	}
	if original > 0 {
		metrics.PercentSaved = 100 * float64(savings) / float64(original)
	}
	return metrics, nil
}

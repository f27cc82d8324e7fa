// Package codec binds the external TOON library behind the narrow
// encode/decode contract the pipeline consumes. Encode is total and
// deterministic for any JSON-compatible value; Decode fails (with an
// error, never a panic) on malformed or non-conforming text. Round-trip
// fidelity is the library's guarantee, not re-verified here.
package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
	toon "github.com/toon-format/toon-go"

	"github.com/djdembeck/toon-format-skill/internal/config"
	"github.com/djdembeck/toon-format-skill/internal/errors"
	"github.com/djdembeck/toon-format-skill/internal/models"
)

// Toon encodes and decodes between JSON value trees and TOON text.
type Toon struct {
	lengthMarkers bool
}

// New creates a codec configured from the encoding section of cfg.
func New(cfg *config.Config) *Toon {
	return &Toon{lengthMarkers: cfg.Encoding.LengthMarkers}
}

// Encode converts a JSON value tree to TOON text. A value the library
// cannot represent (a non-serializable type smuggled into the tree) is a
// programmer error and surfaces as an encode error wrapping
// ErrUnsupportedValue.
func (t *Toon) Encode(value models.JSONValue) (string, error) {
	// The published toon-go always emits the [N] length in array headers;
	// its WithLengthMarkers option instead adds an optional '#' prefix
	// ("[#N]") that the pipeline's format sniff and the decoder do not
	// accept, so it must stay disabled regardless of t.lengthMarkers.
	out, err := toon.Marshal(widenNumbers(value))
	if err != nil {
		return "", errors.NewEncodeError(
			fmt.Sprintf("failed to encode value as TOON: %v", err),
			errors.ErrUnsupportedValue,
		)
	}
	return string(out), nil
}

// widenNumbers converts json.Number leaves (how the parser reads numbers)
// into int64/float64 so they encode as numeric literals, not quoted strings.
func widenNumbers(value models.JSONValue) models.JSONValue {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case models.JSONObject:
		out := make(models.JSONObject, len(v))
		for key, child := range v {
			out[key] = widenNumbers(child)
		}
		return out
	case models.JSONArray:
		out := make(models.JSONArray, len(v))
		for i, child := range v {
			out[i] = widenNumbers(child)
		}
		return out
	default:
		return v
	}
}

// Decode parses TOON text back into a normalized JSON value tree.
func (t *Toon) Decode(text string) (models.JSONValue, error) {
	var value interface{}
	if err := toon.Unmarshal([]byte(text), &value); err != nil {
		return nil, errors.NewDecodeError("failed to decode TOON text", err)
	}
	return models.Normalize(value), nil
}

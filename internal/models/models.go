package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Normalize converts the raw container types produced by a JSON decoder
// (map[string]interface{} and []interface{}) into JSONObject and JSONArray,
// recursively. Primitives pass through untouched. Values already normalized
// are returned as is, so Normalize is idempotent.
func Normalize(val JSONValue) JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(JSONObject, len(v))
		for key, value := range v {
			obj[key] = Normalize(value)
		}
		return obj
	case JSONObject:
		obj := make(JSONObject, len(v))
		for key, value := range v {
			obj[key] = Normalize(value)
		}
		return obj
	case []interface{}:
		arr := make(JSONArray, len(v))
		for i, value := range v {
			arr[i] = Normalize(value)
		}
		return arr
	case JSONArray:
		arr := make(JSONArray, len(v))
		for i, value := range v {
			arr[i] = Normalize(value)
		}
		return arr
	default:
		return v
	}
}

// StructuralStats describes how table-shaped a value tree is. It is computed
// fresh per Analyze call from a single traversal and never persisted.
type StructuralStats struct {
	// PercentTabular is 100 * tabularArrays / totalArrays, 0 when the tree
	// contains no arrays at all.
	PercentTabular float64 `json:"percentTabular"`
	// NestedDepth is the maximum container depth reached, root container = 0.
	NestedDepth int `json:"nestedDepth"`
	// UniformityScore is the mean per-array field-presence ratio over all
	// candidate tabular arrays, 1 when there are no candidates to judge.
	UniformityScore float64 `json:"uniformityScore"`
}

// EligibilityReport is the decision produced from StructuralStats and a
// Config: whether TOON encoding is worthwhile, plus a human-readable reason.
type EligibilityReport struct {
	PercentTabular  float64 `json:"percentTabular"`
	NestedDepth     int     `json:"nestedDepth"`
	UniformityScore float64 `json:"uniformityScore"`
	ShouldUseToon   bool    `json:"shouldUseToon"`
	Reason          string  `json:"reason"`
}

// TokenMetrics compares the cheap token-count proxy of the JSON and TOON
// encodings of the same value.
type TokenMetrics struct {
	Original     int     `json:"original"`
	Toon         int     `json:"toon"`
	Savings      int     `json:"savings"`
	PercentSaved float64 `json:"percentSaved"`
}

// PipelineRequest is what a caller hands to PreProcess before sending a
// prompt to a model. Data may be nil when the request carries no payload.
type PipelineRequest struct {
	SystemPrompt string    `json:"systemPrompt"`
	UserMessage  string    `json:"userMessage"`
	Data         JSONValue `json:"data,omitempty"`
}

// ProcessedRequest is the PreProcess output. When ToonProcessed is true,
// Data has been replaced by its TOON-encoded text form (a string) and
// callers must treat it as opaque from that point on.
type ProcessedRequest struct {
	PipelineRequest
	ToonProcessed bool          `json:"toonProcessed"`
	Metrics       *TokenMetrics `json:"metrics,omitempty"`
}

// ResponseFormat identifies which decode path produced a PostProcessResult.
type ResponseFormat string

const (
	FormatTabular ResponseFormat = "tabular"
	FormatJSON    ResponseFormat = "json"
	FormatNone    ResponseFormat = "none"
)

// PostProcessResult is the outcome of parsing a raw model response. Err is
// informational when Success is true (the TOON decode failed but the JSON
// fallback succeeded); it is only a failure signal when Success is false.
type PostProcessResult struct {
	Parsed  JSONValue      `json:"parsed,omitempty"`
	Success bool           `json:"success"`
	Format  ResponseFormat `json:"format"`
	Err     string         `json:"error,omitempty"`
}

// Package analyzer characterizes how table-shaped an arbitrary JSON value
// tree is and decides whether TOON re-encoding is worthwhile.
package analyzer

import (
	"github.com/djdembeck/toon-format-skill/internal/models"
)

// Analyze walks the value tree once, depth-first, and computes its
// structural statistics. It is a total function over any finite JSON value,
// including nil and empty containers; cyclic inputs are the caller's
// problem. Raw decoder output (map[string]interface{} / []interface{}) is
// normalized on entry.
func Analyze(value models.JSONValue) models.StructuralStats {
	value = models.Normalize(value)

	w := &walker{}
	w.walk(value, 0)

	stats := models.StructuralStats{
		NestedDepth: w.maxDepth,
		// "No tabular candidates found" scores a full 1, distinct from a
		// zero tabular percent: nothing to judge is not a penalty.
		UniformityScore: 1,
	}
	if w.totalArrays > 0 {
		stats.PercentTabular = 100 * float64(w.tabularArrays) / float64(w.totalArrays)
	}
	if w.uniformityCount > 0 {
		stats.UniformityScore = w.uniformitySum / float64(w.uniformityCount)
	}
	return stats
}

// walker accumulates traversal state for a single Analyze call
type walker struct {
	totalArrays     int
	tabularArrays   int
	uniformitySum   float64
	uniformityCount int
	maxDepth        int
}

func (w *walker) walk(value models.JSONValue, depth int) {
	switch v := value.(type) {
	case models.JSONObject:
		w.observeDepth(depth)
		for _, child := range v {
			if isContainer(child) {
				w.walk(child, depth+1)
			}
		}
	case models.JSONArray:
		w.observeDepth(depth)
		w.totalArrays++
		if isTabularCandidate(v) {
			w.tabularArrays++
			w.uniformitySum += uniformity(v)
			w.uniformityCount++
		}
		for _, element := range v {
			if isContainer(element) {
				w.walk(element, depth+1)
			}
		}
	}
	// Scalars contribute nothing beyond the depth of their parent container.
}

func (w *walker) observeDepth(depth int) {
	if depth > w.maxDepth {
		w.maxDepth = depth
	}
}

func isContainer(value models.JSONValue) bool {
	switch value.(type) {
	case models.JSONObject, models.JSONArray:
		return true
	default:
		return false
	}
}

// isTabularCandidate reports whether the array is a candidate for
// table-style encoding: non-empty, with every element a non-array,
// non-null mapping. Empty arrays are excluded outright rather than scored,
// so they never boost the uniformity average.
func isTabularCandidate(arr models.JSONArray) bool {
	if len(arr) == 0 {
		return false
	}
	for _, element := range arr {
		if _, ok := element.(models.JSONObject); !ok {
			return false
		}
	}
	return true
}

// uniformity scores a candidate tabular array: the fraction of
// (element, reference-key) pairs where the key is present in the element.
// The reference key set is fixed by the array's FIRST element. Elements
// carrying extra keys are neither penalized nor rewarded for them — the
// denominator never grows past |first element's keys| * element count,
// so the score is order-dependent.
func uniformity(arr models.JSONArray) float64 {
	first := arr[0].(models.JSONObject)
	denominator := len(first) * len(arr)
	if denominator == 0 {
		// First element has no fields: nothing to judge.
		return 1
	}

	present := 0
	for _, element := range arr {
		obj := element.(models.JSONObject)
		for key := range first {
			if _, ok := obj[key]; ok {
				present++
			}
		}
	}
	return float64(present) / float64(denominator)
}

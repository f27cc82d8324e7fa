package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_RawContainers(t *testing.T) {
	raw := map[string]interface{}{
		"users": []interface{}{
			map[string]interface{}{"id": 1},
		},
		"name": "example",
	}

	normalized := Normalize(raw)

	obj, ok := normalized.(JSONObject)
	assert.True(t, ok, "root converts to JSONObject")

	users, ok := obj["users"].(JSONArray)
	assert.True(t, ok, "nested slice converts to JSONArray")

	_, ok = users[0].(JSONObject)
	assert.True(t, ok, "array elements convert to JSONObject")

	assert.Equal(t, "example", obj["name"])
}

func TestNormalize_Primitives(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, "text", Normalize("text"))
	assert.Equal(t, true, Normalize(true))
	assert.Equal(t, 3.14, Normalize(3.14))
}

func TestNormalize_Idempotent(t *testing.T) {
	value := JSONObject{
		"items": JSONArray{JSONObject{"a": 1}, "scalar"},
	}

	once := Normalize(value)
	twice := Normalize(once)

	assert.Equal(t, once, twice)
}

func TestNormalize_MixedDepth(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{
			"inner": []interface{}{1, 2},
		},
	}

	arr, ok := Normalize(raw).(JSONArray)
	assert.True(t, ok)
	obj, ok := arr[0].(JSONObject)
	assert.True(t, ok)
	_, ok = obj["inner"].(JSONArray)
	assert.True(t, ok)
}

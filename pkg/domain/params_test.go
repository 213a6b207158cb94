package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsFromMap_Defaults(t *testing.T) {
	params := ParamsFromMap(nil)
	assert.Equal(t, DefaultParameters(), params)

	params = ParamsFromMap(map[string]any{})
	assert.Equal(t, DefaultParameters(), params)
}

func TestParamsFromMap_TypedValues(t *testing.T) {
	params := ParamsFromMap(map[string]any{
		"neckDiameter":  25.0,
		"bodyHeight":    180,
		"bodyRadius":    35.5,
		"wallThickness": 2,
		"threadType":    "M25x2.0",
		"ribsCount":     4,
	})

	assert.Equal(t, 25.0, params.NeckDiameter)
	assert.Equal(t, 180.0, params.BodyHeight)
	assert.Equal(t, 35.5, params.BodyRadius)
	assert.Equal(t, 2.0, params.WallThickness)
	assert.Equal(t, "M25x2.0", params.ThreadType)
	assert.Equal(t, 4, params.RibsCount)
}

// Frontends send everything as strings; numeric strings must coerce.
func TestParamsFromMap_WeaklyTyped(t *testing.T) {
	params := ParamsFromMap(map[string]any{
		"neckDiameter": "22.5",
		"bodyHeight":   "120",
		"ribsCount":    "3",
	})

	assert.Equal(t, 22.5, params.NeckDiameter)
	assert.Equal(t, 120.0, params.BodyHeight)
	assert.Equal(t, 3, params.RibsCount)
}

// One bad field keeps its default without poisoning the rest.
func TestParamsFromMap_FailsOpen(t *testing.T) {
	params := ParamsFromMap(map[string]any{
		"neckDiameter": "not-a-number",
		"bodyHeight":   200,
	})

	assert.Equal(t, 20.0, params.NeckDiameter, "bad value falls back to default")
	assert.Equal(t, 200.0, params.BodyHeight, "good sibling still applied")
}

func TestParamsFromMap_UnknownKeysIgnored(t *testing.T) {
	params := ParamsFromMap(map[string]any{
		"bodyHeight": 100,
		"color":      "green",
	})
	assert.Equal(t, 100.0, params.BodyHeight)
}

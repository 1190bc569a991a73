package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weatherArgs struct {
	City    string  `json:"city" description:"City name"`
	Days    int     `json:"days,omitempty"`
	Unit    string  `json:"unit,omitempty" enum:"celsius,fahrenheit"`
	Verbose bool    `json:"verbose,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	hidden  string  // unexported fields must be skipped
}

func TestCreateSchemaFromStruct(t *testing.T) {
	schema := CreateSchema(weatherArgs{})

	assert.Equal(t, "object", schema["type"])

	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	city, ok := properties["city"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", city["type"])
	assert.Equal(t, "City name", city["description"])

	days, ok := properties["days"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", days["type"])

	unit, ok := properties["unit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"celsius", "fahrenheit"}, unit["enum"])

	assert.Equal(t, "boolean", properties["verbose"].(map[string]any)["type"])
	assert.Equal(t, "number", properties["lat"].(map[string]any)["type"])

	_, exists := properties["hidden"]
	assert.False(t, exists)

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"city"}, required)
}

func TestCreateSchemaNonStruct(t *testing.T) {
	schema := CreateSchema("not a struct")

	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateParametersRequired(t *testing.T) {
	schema := CreateSchema(weatherArgs{})

	err := ValidateParameters(map[string]any{}, schema)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "city", verr.Field)
}

func TestValidateParametersTypeMismatch(t *testing.T) {
	schema := CreateSchema(weatherArgs{})

	err := ValidateParameters(map[string]any{"city": 42}, schema)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "city", verr.Field)
}

func TestValidateParametersEnum(t *testing.T) {
	schema := CreateSchema(weatherArgs{})

	err := ValidateParameters(map[string]any{"city": "Berlin", "unit": "kelvin"}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit", verr.Field)

	err = ValidateParameters(map[string]any{"city": "Berlin", "unit": "celsius"}, schema)
	assert.NoError(t, err)
}

func TestValidateParametersJSONNumbers(t *testing.T) {
	schema := CreateSchema(weatherArgs{})

	// JSON decoding yields float64 for all numbers; whole floats satisfy integer
	err := ValidateParameters(map[string]any{"city": "Berlin", "days": float64(3)}, schema)
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{"city": "Berlin", "days": 3.5}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "days", verr.Field)
}

func TestValidateParametersExtraFieldsAllowed(t *testing.T) {
	schema := CreateSchema(weatherArgs{})

	err := ValidateParameters(map[string]any{"city": "Berlin", "unexpected": true}, schema)
	assert.NoError(t, err)
}

func TestValidateParametersRoundTrippedSchema(t *testing.T) {
	// required as []any, the shape produced by JSON decoding
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []any{"a"},
	}

	err := ValidateParameters(map[string]any{}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	err = ValidateParameters(map[string]any{"a": 1.5}, schema)
	assert.NoError(t, err)
}

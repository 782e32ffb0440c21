package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"message"},
	"properties": map[string]interface{}{
		"message":          map[string]interface{}{"type": "string", "minLength": 1},
		"perCategoryLimit": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 20},
	},
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		valid     bool
		wantField string
	}{
		{"valid", `{"message":"gift for mom"}`, true, ""},
		{"missing message", `{}`, false, "(root)"},
		{"empty message", `{"message":""}`, false, "message"},
		{"limit out of range", `{"message":"x","perCategoryLimit":50}`, false, "perCategoryLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateJSON(messageSchema, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.wantField, res.Errors[0].Field)
				assert.NotEmpty(t, res.Summary())
			}
		})
	}
}

func TestValidate_GoValue(t *testing.T) {
	res, err := Validate(messageSchema, map[string]interface{}{"message": 42})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "INVALID_TYPE", res.Errors[0].Code)
}

func TestValidate_EmptySchemaAcceptsAnything(t *testing.T) {
	res, err := Validate(nil, "anything")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	_, err := ValidateJSON(messageSchema, `{not json`)
	assert.Error(t, err)
}

package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsGiftWorkers(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, taskType := range []string{
		"parse-gift-context",
		"multi-category-search",
		"track-interaction",
		"parse-follow-up",
		"suggest-categories",
	} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.InputSchema, taskType)
		assert.Equal(t, "implemented", a.ImplementationStatus)
	}

	_, ok := reg.Find("unknown")
	assert.False(t, ok)
	assert.Nil(t, reg.InputSchema("unknown"))
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"id":"a","taskType":"x"}]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)
	_, ok := reg.Find("x")
	assert.True(t, ok)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	require.NoError(t, reg.Validate())
	assert.Equal(t, []string{
		"parse-gift-context",
		"multi-category-search",
		"track-interaction",
		"parse-follow-up",
		"suggest-categories",
	}, reg.TaskTypes())

	a, ok := reg.Find("multi-category-search")
	require.True(t, ok)
	d, err := a.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)
}

func TestActivityRegistry_Validate(t *testing.T) {
	object := map[string]interface{}{"type": "object"}

	tests := []struct {
		name       string
		activities []Activity
		errMsg     string
	}{
		{"valid", []Activity{{TaskType: "a", InputSchema: object, Timeout: "2s"}}, ""},
		{"empty timeout", []Activity{{TaskType: "a", InputSchema: object}}, ""},
		{"missing task type", []Activity{{ID: "x", InputSchema: object}}, "has no taskType"},
		{"duplicate", []Activity{{TaskType: "a", InputSchema: object}, {TaskType: "a", InputSchema: object}}, "duplicate taskType"},
		{"string schema", []Activity{{TaskType: "a", InputSchema: map[string]interface{}{"type": "string"}}}, "object schema"},
		{"bad timeout", []Activity{{TaskType: "a", InputSchema: object, Timeout: "soon"}}, "invalid timeout"},
		{"negative retries", []Activity{{TaskType: "a", InputSchema: object, Retries: -1}}, "retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ActivityRegistry{Activities: tt.activities}).Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

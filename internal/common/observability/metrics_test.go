package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_ExportsJobMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("gifting-workers-test", WithRegisterer(reg), WithoutGlobal())
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "multi-category-search", "completed")
	obs.RecordJobDuration(ctx, "multi-category-search", 25*time.Millisecond, "completed")
	obs.RecordCategories(ctx, 3, 1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.True(t, hasPrefix(names, "jobs_processed"), names)
	assert.True(t, hasPrefix(names, "jobs_duration"), names)
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	obs.RecordJobProcessed(context.Background(), "x", "completed")
	assert.NoError(t, obs.Shutdown(context.Background()))
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestRecordLookup(t *testing.T) {
	before := counterValue(t, CategoryLookups.WithLabelValues(LookupTimeout))
	RecordLookup(LookupTimeout)
	assert.Equal(t, before+1, counterValue(t, CategoryLookups.WithLabelValues(LookupTimeout)))
}

func TestObserveJob(t *testing.T) {
	completed := counterValue(t, WorkerJobsCompleted.WithLabelValues("suggest-categories"))
	failed := counterValue(t, WorkerJobsFailed.WithLabelValues("suggest-categories", "INVALID_INPUT"))

	ObserveJob("suggest-categories", 10*time.Millisecond, "")
	ObserveJob("suggest-categories", 10*time.Millisecond, "INVALID_INPUT")

	assert.Equal(t, completed+1, counterValue(t, WorkerJobsCompleted.WithLabelValues("suggest-categories")))
	assert.Equal(t, failed+1, counterValue(t, WorkerJobsFailed.WithLabelValues("suggest-categories", "INVALID_INPUT")))
}

package stats

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Empty(t *testing.T) {
	s := NewRecorder().Snapshot()
	assert.Zero(t, s.TotalRequests)
	assert.Zero(t, s.AvgProcessingTime(), "average must be zero without successes")
}

func TestRecorder_CountsOutcomes(t *testing.T) {
	r := NewRecorder()
	r.Record(true, 2*time.Second)
	r.Record(true, 4*time.Second)
	r.Record(false, 0)

	s := r.Snapshot()
	assert.Equal(t, int64(3), s.TotalRequests)
	assert.Equal(t, int64(2), s.SuccessfulRequests)
	assert.Equal(t, int64(1), s.FailedRequests)
	assert.Equal(t, 6*time.Second, s.TotalProcessingTime)
	assert.Equal(t, 3*time.Second, s.AvgProcessingTime())
}

func TestRecorder_OnlyFailures(t *testing.T) {
	r := NewRecorder()
	r.Record(false, 0)
	r.Record(false, time.Second)

	s := r.Snapshot()
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Zero(t, s.TotalProcessingTime)
	assert.Zero(t, s.AvgProcessingTime())
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Record(true, time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			r.Record(false, 0)
		}()
	}
	wg.Wait()

	s := r.Snapshot()
	assert.Equal(t, int64(100), s.TotalRequests)
	assert.Equal(t, s.TotalRequests, s.SuccessfulRequests+s.FailedRequests)
	assert.Equal(t, 50*time.Millisecond, s.TotalProcessingTime)
}

func TestCollector(t *testing.T) {
	r := NewRecorder()
	r.Record(true, 1500*time.Millisecond)
	r.Record(false, 0)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector(r)))

	expected := `
# HELP iopaint_requests_total Watermark removal requests by outcome.
# TYPE iopaint_requests_total counter
iopaint_requests_total{outcome="failed"} 1
iopaint_requests_total{outcome="success"} 1
# HELP iopaint_processing_seconds_total Summed end-to-end processing time of successful requests.
# TYPE iopaint_processing_seconds_total counter
iopaint_processing_seconds_total 1.5
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"iopaint_requests_total", "iopaint_processing_seconds_total")
	assert.NoError(t, err)
}

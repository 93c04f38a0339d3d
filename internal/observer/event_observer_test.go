package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	name   string
	mu     sync.Mutex
	events []PipelineEvent
}

func (o *recordingObserver) OnEvent(_ context.Context, event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return o.name }

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

type panickingObserver struct{}

func (panickingObserver) OnEvent(context.Context, PipelineEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string               { return "panicking" }

func TestEventPublisher_NotifiesSubscribers(t *testing.T) {
	p := NewEventPublisher()
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b"}
	p.Subscribe(a)
	p.Subscribe(b)
	p.Subscribe(panickingObserver{})

	p.NotifyObservers(context.Background(), PipelineEvent{EventType: RequestReceived, RequestID: "r1"})
	p.Wait()

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
	assert.False(t, a.events[0].Timestamp.IsZero(), "timestamp is filled in")
}

func TestEventPublisher_SurvivesCancelledRequest(t *testing.T) {
	p := NewEventPublisher()
	var seen error
	var mu sync.Mutex
	p.Subscribe(observerFunc(func(ctx context.Context, _ PipelineEvent) {
		mu.Lock()
		seen = ctx.Err()
		mu.Unlock()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.NotifyObservers(ctx, PipelineEvent{EventType: InpaintCompleted})
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.NoError(t, seen)
}

type observerFunc func(ctx context.Context, event PipelineEvent)

func (f observerFunc) OnEvent(ctx context.Context, event PipelineEvent) { f(ctx, event) }
func (f observerFunc) GetObserverName() string                           { return "func" }

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	o := NewLoggingObserver(l)
	assert.Equal(t, "logging_observer", o.GetObserverName())

	o.OnEvent(context.Background(), PipelineEvent{
		EventType:      InpaintCompleted,
		RequestID:      "req-1",
		Engine:         "diffusion",
		ImageSize:      "100x50",
		ProcessingTime: 1500 * time.Millisecond,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Watermark removed", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "100x50", entry["image_size"])
	assert.Equal(t, 1.5, entry["processing_time"])

	buf.Reset()
	o.OnEvent(context.Background(), PipelineEvent{
		EventType:    InpaintFailed,
		ErrorType:    "inference_failed",
		ErrorMessage: "Processing failed",
	})
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "inference_failed", entry["error_type"])
}

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewMetricsObserver(reg)
	require.NoError(t, err)

	o.OnEvent(context.Background(), PipelineEvent{EventType: InpaintCompleted, Engine: "diffusion", ProcessingTime: time.Second})
	o.OnEvent(context.Background(), PipelineEvent{EventType: InpaintFailed, ErrorType: "image_too_large"})
	o.OnEvent(context.Background(), PipelineEvent{EventType: InpaintFailed, ErrorType: "image_too_large"})

	assert.Equal(t, 1, testutil.CollectAndCount(o.duration))
	expected := `
# HELP iopaint_failures_total Failed requests by error type.
# TYPE iopaint_failures_total counter
iopaint_failures_total{type="image_too_large"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(o.failures, strings.NewReader(expected)))

	_, err = NewMetricsObserver(reg)
	assert.Error(t, err, "registering twice must fail")
}

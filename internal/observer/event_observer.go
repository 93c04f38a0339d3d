package observer

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// PipelineEvent represents one step of a watermark removal request
type PipelineEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id"`
	Engine         string                 `json:"engine,omitempty"`
	ImageSize      string                 `json:"image_size,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorType      string                 `json:"error_type,omitempty"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	// RequestReceived when an upload passes authentication
	RequestReceived EventType = "request_received"
	// ImageDecoded when the upload decodes within the limits
	ImageDecoded EventType = "image_decoded"
	// InpaintCompleted when the response image is ready
	InpaintCompleted EventType = "inpaint_completed"
	// InpaintFailed when any pipeline step fails
	InpaintFailed EventType = "inpaint_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PipelineEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"request_id": event.RequestID,
	}
	if event.Engine != "" {
		fields["engine"] = event.Engine
	}
	if event.ImageSize != "" {
		fields["image_size"] = event.ImageSize
	}
	if event.ProcessingTime > 0 {
		fields["processing_time"] = event.ProcessingTime.Seconds()
	}
	if event.ErrorMessage != "" {
		fields["error_type"] = event.ErrorType
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case RequestReceived:
		o.logger.WithFields(fields).Debug("Watermark removal requested")
	case ImageDecoded:
		o.logger.WithFields(fields).Debug("Image decoded")
	case InpaintCompleted:
		o.logger.WithFields(fields).Info("Watermark removed")
	case InpaintFailed:
		o.logger.WithFields(fields).Error("Watermark removal failed")
	default:
		o.logger.WithFields(fields).Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver records inference latency and failure types as Prometheus
// metrics. Request totals live in the stats recorder.
type MetricsObserver struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewMetricsObserver creates a metrics observer and registers its metrics with reg
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	o := &MetricsObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iopaint_inference_duration_seconds",
			Help:    "Inference latency of successful requests.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"engine"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iopaint_failures_total",
			Help: "Failed requests by error type.",
		}, []string{"type"}),
	}
	for _, c := range []prometheus.Collector{o.duration, o.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// OnEvent handles pipeline events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	switch event.EventType {
	case InpaintCompleted:
		o.duration.WithLabelValues(event.Engine).Observe(event.ProcessingTime.Seconds())
	case InpaintFailed:
		o.failures.WithLabelValues(event.ErrorType).Inc()
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	wg        sync.WaitGroup
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// NotifyObservers notifies all observers of an event without blocking the caller
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PipelineEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// observers outlive the request
	ctx = context.WithoutCancel(ctx)
	for _, observer := range observers {
		p.wg.Add(1)
		go func(obs Observer) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Wait blocks until every notification sent so far has been handled.
func (p *EventPublisher) Wait() {
	p.wg.Wait()
}

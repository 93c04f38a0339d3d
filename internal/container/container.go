package container

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/let5sne/IOPaint/internal/auth"
	"github.com/let5sne/IOPaint/internal/config"
	"github.com/let5sne/IOPaint/internal/factory"
	"github.com/let5sne/IOPaint/internal/inference"
	"github.com/let5sne/IOPaint/internal/logger"
	"github.com/let5sne/IOPaint/internal/observer"
	"github.com/let5sne/IOPaint/internal/repository"
	"github.com/let5sne/IOPaint/internal/service"
	"github.com/let5sne/IOPaint/internal/stats"
	"github.com/let5sne/IOPaint/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	pool             *inference.WorkerPool
	invoker          *inference.Invoker
	recorder         *stats.Recorder
	events           *observer.EventPublisher
	watermarkService service.WatermarkService
	handler          http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	pool := inference.NewWorkerPool(0)
	components := factory.NewComponentFactory(cfg, pool)

	invoker, err := components.CreateInvoker()
	if err != nil {
		return nil, fmt.Errorf("failed to create inference engine: %w", err)
	}
	pool.Start()

	recorder := stats.NewRecorder()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))

	var metrics http.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			stats.NewCollector(recorder),
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metricsObserver, err := observer.NewMetricsObserver(reg)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		events.Subscribe(metricsObserver)
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	watermarkService := service.NewWatermarkService(
		repository.NewBoundedUploadRepository(cfg.MaxFileSize),
		components.CreateDecoder(),
		components.CreateMaskResolver(),
		invoker,
		recorder,
		events,
	)

	handler := transport.NewHandler(transport.Options{
		Config:  cfg,
		Service: watermarkService,
		Gate:    auth.NewGate(cfg.APIKey),
		Metrics: metrics,
	})

	return &Container{
		config:           cfg,
		pool:             pool,
		invoker:          invoker,
		recorder:         recorder,
		events:           events,
		watermarkService: watermarkService,
		handler:          handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// EngineName returns the name of the configured inference engine
func (c *Container) EngineName() string {
	return c.invoker.EngineName()
}

// Stats returns the current request counters
func (c *Container) Stats() stats.Snapshot {
	return c.recorder.Snapshot()
}

// Close drains pending events and stops the worker pool. Call it after the
// HTTP server has shut down.
func (c *Container) Close() {
	c.events.Wait()
	c.pool.Close()

	ps := c.pool.GetStats()
	logger.WithFields(logrus.Fields{
		"workers":        c.pool.Workers(),
		"jobs_total":     ps.TotalJobs,
		"jobs_completed": ps.CompletedJobs,
	}).Info("Worker pool stopped")
}

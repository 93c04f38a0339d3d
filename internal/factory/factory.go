package factory

import (
	"fmt"

	"github.com/let5sne/IOPaint/internal/config"
	"github.com/let5sne/IOPaint/internal/decoder"
	"github.com/let5sne/IOPaint/internal/inference"
	"github.com/let5sne/IOPaint/internal/mask"
)

// EngineType represents the inpainting backends the service can run
type EngineType string

const (
	// DiffusionEngine is the built-in neighbour-averaging engine
	DiffusionEngine EngineType = config.EngineDiffusion
	// IOPaintEngine forwards requests to an IOPaint server
	IOPaintEngine EngineType = config.EngineIOPaint
	// GoCVEngine uses OpenCV, available in builds tagged gocv
	GoCVEngine EngineType = config.EngineGoCV
)

// EngineFactory creates inpainting engines
type EngineFactory interface {
	CreateEngine(engineType EngineType) (inference.Engine, error)
}

// engineFactory implements EngineFactory
type engineFactory struct {
	cfg  *config.Config
	pool *inference.WorkerPool
}

// NewEngineFactory creates a new engine factory. pool backs the CPU engines.
func NewEngineFactory(cfg *config.Config, pool *inference.WorkerPool) EngineFactory {
	return &engineFactory{cfg: cfg, pool: pool}
}

// CreateEngine creates an engine based on the specified type
func (f *engineFactory) CreateEngine(engineType EngineType) (inference.Engine, error) {
	switch engineType {
	case DiffusionEngine:
		return inference.NewDiffusionEngine(inference.DefaultDiffusionIterations, f.pool), nil
	case IOPaintEngine:
		if f.cfg.InferenceURL == "" {
			return nil, fmt.Errorf("iopaint engine requires INFERENCE_URL")
		}
		return inference.NewIOPaintEngine(f.cfg.InferenceURL, f.cfg.ModelName, f.cfg.InferenceTimeout), nil
	case GoCVEngine:
		engine, err := inference.NewGoCVEngine()
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", engineType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	EngineFactory EngineFactory
	cfg           *config.Config
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config, pool *inference.WorkerPool) *ComponentFactory {
	return &ComponentFactory{
		EngineFactory: NewEngineFactory(cfg, pool),
		cfg:           cfg,
	}
}

// CreateInvoker builds the engine selected by configuration and wraps it in
// an invoker with the configured concurrency and timeout bounds.
func (f *ComponentFactory) CreateInvoker() (*inference.Invoker, error) {
	engine, err := f.EngineFactory.CreateEngine(EngineType(f.cfg.InferenceEngine))
	if err != nil {
		return nil, err
	}
	return inference.NewInvoker(engine, inference.DefaultConfig(), inference.InvokerOptions{
		MaxConcurrency: f.cfg.InferenceMaxConcurrency,
		Timeout:        f.cfg.InferenceTimeout,
	}), nil
}

// CreateDecoder returns a decoder enforcing the configured upload limits.
func (f *ComponentFactory) CreateDecoder() *decoder.Decoder {
	return decoder.NewDecoder(f.cfg.MaxFileSize, f.cfg.MaxImageSize)
}

// CreateMaskResolver returns the mask resolver used by the pipeline.
func (f *ComponentFactory) CreateMaskResolver() *mask.Resolver {
	return mask.NewResolver()
}

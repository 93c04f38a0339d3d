package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	apperrors "github.com/let5sne/IOPaint/internal/errors"
	"github.com/let5sne/IOPaint/internal/logger"
	"github.com/let5sne/IOPaint/internal/raster"
)

// Result is the output of one inference call.
type Result struct {
	Image    *raster.Image
	Duration time.Duration
}

// InvokerOptions bound how inference runs. Zero values disable the bound.
type InvokerOptions struct {
	MaxConcurrency int
	Timeout        time.Duration
}

// Invoker calls the engine exactly once per request and normalizes every
// failure into an inference_failed error.
type Invoker struct {
	engine  Engine
	cfg     Config
	gate    *semaphore.Weighted
	timeout time.Duration
}

var _ InferenceInvoker = (*Invoker)(nil)

// NewInvoker creates an invoker for engine using cfg for every call.
func NewInvoker(engine Engine, cfg Config, opts InvokerOptions) *Invoker {
	inv := &Invoker{
		engine:  engine,
		cfg:     cfg,
		timeout: opts.Timeout,
	}
	if opts.MaxConcurrency > 0 {
		inv.gate = semaphore.NewWeighted(int64(opts.MaxConcurrency))
	}
	return inv
}

// EngineName returns the name of the wrapped engine.
func (i *Invoker) EngineName() string {
	return i.engine.Name()
}

// Invoke runs the engine on img and m, which must have equal dimensions.
func (i *Invoker) Invoke(ctx context.Context, img *raster.Image, m *raster.Mask) (*Result, error) {
	if !m.SameSize(img) {
		return nil, apperrors.NewInferenceFailedError(
			fmt.Errorf("mask %dx%d does not match image %dx%d", m.Width, m.Height, img.Width, img.Height))
	}

	release := func() {}
	if i.gate != nil {
		if err := i.gate.Acquire(ctx, 1); err != nil {
			return nil, apperrors.NewInferenceFailedError(fmt.Errorf("waiting for inference slot: %w", err))
		}
		release = func() { i.gate.Release(1) }
	}

	start := time.Now()
	out, err := i.run(ctx, img, m, release)
	elapsed := time.Since(start)

	if err != nil {
		logger.WithFields(logrus.Fields{
			"engine":   i.engine.Name(),
			"duration": elapsed.Seconds(),
		}).WithError(err).Warn("Inference engine returned an error")
		return nil, apperrors.NewInferenceFailedError(err)
	}
	if out == nil || out.Width != img.Width || out.Height != img.Height {
		got := "nil"
		if out != nil {
			got = fmt.Sprintf("%dx%d", out.Width, out.Height)
		}
		return nil, apperrors.NewInferenceFailedError(
			fmt.Errorf("engine %s returned %s for a %dx%d input", i.engine.Name(), got, img.Width, img.Height))
	}

	return &Result{Image: out, Duration: elapsed}, nil
}

// run calls the engine and invokes release once the engine has returned. On
// timeout the slot stays held until the abandoned call finishes.
func (i *Invoker) run(ctx context.Context, img *raster.Image, m *raster.Mask, release func()) (*raster.Image, error) {
	if i.timeout <= 0 {
		defer release()
		return i.call(ctx, img, m)
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	type outcome struct {
		img *raster.Image
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := i.call(ctx, img, m)
		release()
		done <- outcome{out, err}
	}()

	select {
	case o := <-done:
		return o.img, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("inference timed out after %s: %w", i.timeout, ctx.Err())
	}
}

func (i *Invoker) call(ctx context.Context, img *raster.Image, m *raster.Mask) (out *raster.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine %s panicked: %v", i.engine.Name(), r)
		}
	}()
	return i.engine.Inpaint(ctx, img, m, i.cfg)
}

package inference

import (
	"context"
	"math"

	"github.com/let5sne/IOPaint/internal/raster"
	"github.com/let5sne/IOPaint/internal/strategy"
)

// DefaultDiffusionIterations is the number of smoothing passes run by the diffusion engine
const DefaultDiffusionIterations = 200

// DiffusionEngine fills masked pixels by repeatedly averaging their four
// neighbours until the surrounding colours bleed into the hole. It needs no
// model weights and serves as the built-in engine.
type DiffusionEngine struct {
	iterations int
	pool       *WorkerPool
}

var _ Engine = (*DiffusionEngine)(nil)

// NewDiffusionEngine creates an engine that runs its passes on pool.
func NewDiffusionEngine(iterations int, pool *WorkerPool) *DiffusionEngine {
	if iterations <= 0 {
		iterations = DefaultDiffusionIterations
	}
	return &DiffusionEngine{iterations: iterations, pool: pool}
}

func (e *DiffusionEngine) Name() string {
	return "diffusion"
}

// Inpaint applies the configured high-resolution strategy around the diffusion pass.
func (e *DiffusionEngine) Inpaint(ctx context.Context, img *raster.Image, m *raster.Mask, cfg Config) (*raster.Image, error) {
	s, err := strategy.New(cfg.HDStrategy, cfg.StrategyParams())
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, img, m, e.inpaint)
}

func (e *DiffusionEngine) inpaint(ctx context.Context, img *raster.Image, m *raster.Mask) (*raster.Image, error) {
	w, h := img.Width, img.Height
	cur := make([]float32, len(img.Pix))
	for i, v := range img.Pix {
		cur[i] = float32(v)
	}
	next := make([]float32, len(cur))
	copy(next, cur)

	bands := e.bands(h)
	for it := 0; it < e.iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src, dst := cur, next
		jobs := make([]func(), len(bands))
		for i, b := range bands {
			y0, y1 := b[0], b[1]
			jobs[i] = func() { diffuseRows(src, dst, m, w, h, y0, y1) }
		}
		e.pool.Run(jobs...)
		cur, next = next, cur
	}

	// blend by mask weight so soft edges keep part of the original
	out := raster.NewImage(w, h)
	for p, a := range m.Pix {
		alpha := float32(a) / 255
		for c := 0; c < 3; c++ {
			i := p*3 + c
			v := float32(img.Pix[i])*(1-alpha) + cur[i]*alpha
			out.Pix[i] = uint8(math.Round(float64(min(max(v, 0), 255))))
		}
	}
	return out, nil
}

// bands splits h rows into one contiguous range per worker.
func (e *DiffusionEngine) bands(h int) [][2]int {
	n := min(e.pool.Workers(), h)
	if n < 1 {
		n = 1
	}
	out := make([][2]int, 0, n)
	step := (h + n - 1) / n
	for y := 0; y < h; y += step {
		out = append(out, [2]int{y, min(y+step, h)})
	}
	return out
}

// diffuseRows writes one averaging pass for rows [y0, y1) from src into dst.
// Unmasked pixels are copied through unchanged.
func diffuseRows(src, dst []float32, m *raster.Mask, w, h, y0, y1 int) {
	for y := y0; y < y1; y++ {
		up, down := max(y-1, 0), min(y+1, h-1)
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			if m.Pix[y*w+x] == 0 {
				dst[i], dst[i+1], dst[i+2] = src[i], src[i+1], src[i+2]
				continue
			}
			left, right := max(x-1, 0), min(x+1, w-1)
			l := (y*w + left) * 3
			r := (y*w + right) * 3
			u := (up*w + x) * 3
			d := (down*w + x) * 3
			for c := 0; c < 3; c++ {
				dst[i+c] = (src[l+c] + src[r+c] + src[u+c] + src[d+c]) / 4
			}
		}
	}
}

package inference

import "github.com/let5sne/IOPaint/internal/strategy"

// Config carries the per-request inference settings. The service always
// uses DefaultConfig; the fields mirror what IOPaint servers accept.
type Config struct {
	HDStrategy                string
	HDStrategyCropMargin      int
	HDStrategyCropTriggerSize int
	HDStrategyResizeLimit     int
}

// DefaultConfig returns the settings used for every watermark removal request
func DefaultConfig() Config {
	return Config{
		HDStrategy:                strategy.Original,
		HDStrategyCropMargin:      128,
		HDStrategyCropTriggerSize: 800,
		HDStrategyResizeLimit:     2048,
	}
}

// StrategyParams extracts the strategy thresholds.
func (cfg Config) StrategyParams() strategy.Params {
	return strategy.Params{
		CropMargin:      cfg.HDStrategyCropMargin,
		CropTriggerSize: cfg.HDStrategyCropTriggerSize,
		ResizeLimit:     cfg.HDStrategyResizeLimit,
	}
}

package spawn

import (
	"math"

	"github.com/udisondev/herbfield/internal/model"
)

// MaxHerbCount caps max_count; placement is quadratic in the herb count.
const MaxHerbCount = 10_000

// Config holds parameters of one spawn cycle.
// Treated as immutable while a cycle runs.
type Config struct {
	MinCount   int // inclusive
	MaxCount   int // inclusive
	MinSpacing float64
	MaxRetries int // placement attempts per slot
	Area       model.Area
}

// DefaultConfig returns the stock meadow setup: 3..8 herbs, 150 apart, in 1000x1000.
func DefaultConfig() Config {
	return Config{
		MinCount:   3,
		MaxCount:   8,
		MinSpacing: 150,
		MaxRetries: 10,
		Area:       model.NewArea(1000, 1000),
	}
}

// Validate checks bounds; returns *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.MinCount < 0:
		return configErrorf("min_count", "must be >= 0, got %d", c.MinCount)
	case c.MinCount > c.MaxCount:
		return configErrorf("max_count", "min_count %d > max_count %d", c.MinCount, c.MaxCount)
	case c.MaxCount > MaxHerbCount:
		return configErrorf("max_count", "must be <= %d, got %d", MaxHerbCount, c.MaxCount)
	case !nonNegativeFinite(c.MinSpacing):
		return configErrorf("min_spacing", "must be a finite number >= 0, got %v", c.MinSpacing)
	case c.MaxRetries < 1:
		return configErrorf("max_retries", "must be >= 1, got %d", c.MaxRetries)
	case !positiveFinite(c.Area.Width) || !positiveFinite(c.Area.Height):
		return configErrorf("area", "dimensions must be finite and positive, got %vx%v", c.Area.Width, c.Area.Height)
	}
	return nil
}

// NaN fails every comparison, so both helpers test the accepted range directly.
func nonNegativeFinite(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

package spawn

import (
	"math/rand/v2"

	"github.com/udisondev/herbfield/internal/model"
)

// Sampler finds free positions by rejection sampling.
//
// Each attempt checks the candidate against every existing position, so a
// slot costs O(maxRetries * len(existing)) and a full cycle of n herbs
// O(n^2 * maxRetries). Fine for tens of herbs; dense packing of hundreds
// needs a spatial index instead.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates sampler drawing from rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// TryPlace samples up to maxRetries uniform candidates inside area and
// returns the first one at least minSpacing away from every existing position.
// Returns ErrPlacementFailed when the budget is exhausted.
func (s *Sampler) TryPlace(area model.Area, minSpacing float64, existing []model.Position, maxRetries int) (model.Position, error) {
	minSq := minSpacing * minSpacing

	for range maxRetries {
		candidate := model.Position{
			X: (s.rng.Float64() - 0.5) * area.Width,
			Y: (s.rng.Float64() - 0.5) * area.Height,
		}

		if isFarEnough(candidate, existing, minSq) {
			return candidate, nil
		}
	}

	return model.Position{}, ErrPlacementFailed
}

func isFarEnough(candidate model.Position, existing []model.Position, minSq float64) bool {
	for _, p := range existing {
		if candidate.DistanceSquared(p) < minSq {
			return false
		}
	}
	return true
}

package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRand(t *testing.T) {
	draw := func(seed string) []uint64 {
		rng := NewRand(seed)
		out := make([]uint64, 8)
		for i := range out {
			out[i] = rng.Uint64()
		}
		return out
	}

	assert.Equal(t, draw("meadow"), draw("meadow"), "same seed, same stream")
	assert.NotEqual(t, draw("meadow"), draw("forest"))
	assert.NotEqual(t, draw(""), draw(""), "empty seed is random")
}

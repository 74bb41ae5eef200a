package spawn

import (
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// NewRand returns the RNG stream used by an orchestrator.
// A non-empty seed is hashed into a ChaCha8 key, so the same seed string
// always yields the same herb layout. An empty seed gives a random stream.
func NewRand(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewChaCha8(blake2b.Sum256([]byte(seed))))
}

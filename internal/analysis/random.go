package analysis

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random is a goroutine-safe pseudo-random source shared by the components
// of one Analyzer.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a source seeded with seed. A zero seed uses the clock.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := uint64(seed)
	return &Random{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Float64 returns a value in [0, 1).
func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// IntN returns a value in [0, n). It returns 0 when n <= 0.
func (r *Random) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

package normalize

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// NewOrderNumber formats ORD-<unix millis>-<suffix padded to 3 digits>.
func NewOrderNumber(now time.Time, suffix int) string {
	return fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), suffix%1000)
}

type RandomNumberGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	rand *rand.Rand
}

func NewRandomNumberGenerator(now func() time.Time, source rand.Source) *RandomNumberGenerator {
	return &RandomNumberGenerator{now: now, rand: rand.New(source)}
}

// DefaultNumberGenerator uses the wall clock and a time seeded PCG source.
func DefaultNumberGenerator() *RandomNumberGenerator {
	seed := uint64(time.Now().UnixNano())
	return NewRandomNumberGenerator(time.Now, rand.NewPCG(seed, seed>>1|1))
}

func (g *RandomNumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return NewOrderNumber(g.now(), g.rand.IntN(1000))
}

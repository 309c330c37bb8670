// Package stats provides the Gaussian sampler used for weight initialisation
// and mutation.
//
// Draws use inverse transform sampling: a uniform probability is mapped to a
// standard normal quantile found by bisection-style search over a numerical
// approximation of the normal CDF. Resolved quantiles are memoised in a
// QuantileCache.
package stats

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// maxQuantileError is the tolerance on |CDF(z) - p| for a resolved quantile.
	maxQuantileError = 1e-8

	// quantileLimit bounds the search. Past it the search gives up and returns
	// the tail probability instead of a z-score.
	quantileLimit = 3.0
)

// ProbabilityLessThan approximates P(Z < x) for a standard normal Z using a
// single-panel Simpson's 3/8 rule over the density between 0 and x.
func ProbabilityLessThan(x float64) float64 {
	f := distuv.UnitNormal.Prob
	a, b := 0.0, x
	sum := (b - a) / 8 * (f(a) + 3*f((2*a+b)/3) + 3*f((a+2*b)/3) + f(b))
	return sum + 0.5
}

// QuantileCache memoises probability to z-score resolutions. It only grows.
// A QuantileCache is safe for concurrent use.
type QuantileCache struct {
	mu sync.RWMutex
	m  map[float64]float64
}

// NewQuantileCache returns an empty cache.
func NewQuantileCache() *QuantileCache {
	return &QuantileCache{m: make(map[float64]float64)}
}

func (c *QuantileCache) get(p float64) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	z, ok := c.m[p]
	return z, ok
}

func (c *QuantileCache) put(p, z float64) {
	c.mu.Lock()
	c.m[p] = z
	c.mu.Unlock()
}

// Len returns the number of memoised quantiles.
func (c *QuantileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Reset drops every memoised quantile.
func (c *QuantileCache) Reset() {
	c.mu.Lock()
	c.m = make(map[float64]float64)
	c.mu.Unlock()
}

// Quantile returns z with ProbabilityLessThan(z) ≈ p.
//
// Probabilities outside [0, 1] yield 0. When the search leaves [-3, 3] the
// tail probability is returned instead: 1 above, 0 below. Neither case is
// memoised.
func (c *QuantileCache) Quantile(p float64) float64 {
	if z, ok := c.get(p); ok {
		return z
	}
	if p < 0 || p > 1 {
		return 0
	}

	z, step := 0.0, quantileLimit
	for {
		testP := ProbabilityLessThan(z)
		if math.Abs(testP-p) < maxQuantileError {
			break
		}
		if testP >= p {
			z -= step
		} else {
			z += step
		}
		if z > quantileLimit {
			return 1
		}
		if z < -quantileLimit {
			return 0
		}
		step /= 2
		if step == 0 {
			// Precision exhausted; keep the best z without memoising it.
			return z
		}
	}

	c.put(p, z)
	return z
}

// Sampler draws Gaussian values. A Sampler is safe for concurrent use.
type Sampler struct {
	mu    sync.Mutex
	rng   *rand.Rand
	cache *QuantileCache
}

// NewSampler returns a sampler drawing uniforms from src and memoising
// quantiles in cache. A nil cache gets a private one.
func NewSampler(src rand.Source, cache *QuantileCache) *Sampler {
	if cache == nil {
		cache = NewQuantileCache()
	}
	return &Sampler{
		rng:   rand.New(src),
		cache: cache,
	}
}

// NewSeededSampler returns a sampler with a private cache and a
// deterministic stream.
func NewSeededSampler(seed int64) *Sampler {
	return NewSampler(rand.NewSource(seed), nil)
}

var (
	defaultCache   = NewQuantileCache()
	defaultSampler = NewSampler(rand.NewSource(time.Now().UnixNano()), defaultCache)
)

// DefaultCache returns the cache shared by DefaultSampler.
func DefaultCache() *QuantileCache {
	return defaultCache
}

// DefaultSampler returns the process-wide sampler, seeded from the clock.
func DefaultSampler() *Sampler {
	return defaultSampler
}

// Cache returns the sampler's quantile cache.
func (s *Sampler) Cache() *QuantileCache {
	return s.cache
}

// Gaussian returns mean + stdDev*(z - 0.5), where z is the quantile of a
// uniform draw.
func (s *Sampler) Gaussian(mean, stdDev float64) float64 {
	s.mu.Lock()
	p := s.rng.Float64()
	s.mu.Unlock()

	z := s.cache.Quantile(p)
	return mean + stdDev*(z-0.5)
}

package upgrade

import (
	"github.com/sirupsen/logrus"
)

const (
	// MinOfferSize is the fewest candidates an offer may hold.
	MinOfferSize = 2
	// MaxOfferSize is the most candidates an offer may hold.
	MaxOfferSize = 4
	// DefaultOfferSize is used when no size is configured.
	DefaultOfferSize = 3
)

// Offer is the ordered set of distinct candidates shown at a wave boundary.
type Offer struct {
	Candidates []Definition `json:"candidates"`
}

// Contains reports whether t is one of the candidates.
func (o Offer) Contains(t Type) bool {
	for _, c := range o.Candidates {
		if c.Type == t {
			return true
		}
	}
	return false
}

// Types returns the candidate tags in order.
func (o Offer) Types() []Type {
	out := make([]Type, len(o.Candidates))
	for i, c := range o.Candidates {
		out[i] = c.Type
	}
	return out
}

// Generator draws upgrade offers from a pool.
type Generator struct {
	pool *Pool
	rng  RandomSource
	size int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithOfferSize sets how many candidates an offer aims for, clamped to
// [MinOfferSize, MaxOfferSize].
func WithOfferSize(n int) GeneratorOption {
	return func(g *Generator) {
		g.size = min(max(n, MinOfferSize), MaxOfferSize)
	}
}

// WithRandomSource replaces the default crypto source.
func WithRandomSource(src RandomSource) GeneratorOption {
	return func(g *Generator) {
		if src != nil {
			g.rng = src
		}
	}
}

// NewGenerator creates an offer generator for the pool.
func NewGenerator(pool *Pool, opts ...GeneratorOption) *Generator {
	g := &Generator{
		pool: pool,
		rng:  DefaultRNG(),
		size: DefaultOfferSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Pool returns the pool offers are drawn from.
func (g *Generator) Pool() *Pool {
	return g.pool
}

// Offer draws candidates for a session that has already acquired the given
// upgrades. High tier upgrades that hit their limit are excluded; the minor
// pool tops the offer up so it is never smaller than MinOfferSize.
func (g *Generator) Offer(acquired []Type) Offer {
	counts := Counts(acquired)

	var eligible []Definition
	for _, d := range g.pool.ByTier(TierHigh) {
		if d.Available(counts[d.Type]) {
			eligible = append(eligible, d)
		}
	}
	shuffle(g.rng, eligible)

	candidates := eligible
	if len(candidates) > g.size {
		candidates = candidates[:g.size]
	}

	if len(candidates) < MinOfferSize {
		minor := g.pool.ByTier(TierMinor)
		shuffle(g.rng, minor)
		for _, d := range minor {
			if len(candidates) >= MinOfferSize {
				break
			}
			candidates = append(candidates, d)
		}
		logrus.Debugf("offer: high tier has %d eligible upgrades, padded with minor pool", len(eligible))
	}

	offer := Offer{Candidates: make([]Definition, len(candidates))}
	copy(offer.Candidates, candidates)
	return offer
}

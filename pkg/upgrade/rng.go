package upgrade

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource supplies uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// cryptoRNG is the default source for live offers.
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}

	// 53 bits fill the float64 mantissa exactly.
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// DefaultRNG returns a cryptographically seeded source.
func DefaultRNG() RandomSource { return cryptoRNG{} }

type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a reproducible source, used for replays and tests.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// intn maps a source onto [0, n).
func intn(src RandomSource, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// shuffle permutes defs in place with Fisher-Yates.
func shuffle(src RandomSource, defs []Definition) {
	for i := len(defs) - 1; i > 0; i-- {
		j := intn(src, i+1)
		defs[i], defs[j] = defs[j], defs[i]
	}
}

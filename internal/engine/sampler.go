package engine

import "math"

// RandomSource is an ordered stream of uniform floats in [0,1). The engine
// normally uses its own seeded Stream, but a host can inject a platform-level
// source instead; parameter sampling only depends on this interface.
type RandomSource interface {
	Next() float64
}

// Stream is a deterministic uniform stream derived from a seed string.
// Identical seed strings produce identical infinite sequences, to full
// floating-point precision, on every platform.
//
// Two-stage construction: a string-mixing hash condenses the seed into a
// 32-bit state, then a mulberry32-style integer mixer advances that state
// per draw and bit-mixes it into a float.
type Stream struct {
	state uint32
}

func NewStream(seed string) *Stream {
	return &Stream{state: stringSeed(seed)}
}

// stringSeed hashes an arbitrary string into a 32-bit generator state.
func stringSeed(s string) uint32 {
	h := uint32(1779033703) ^ uint32(len(s))
	for i := 0; i < len(s); i++ {
		h = (h ^ uint32(s[i])) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ (h >> 16)) * 2246822507
	h = (h ^ (h >> 13)) * 3266489909
	return h ^ (h >> 16)
}

// Next advances the state and returns a uniform float in [0,1).
func (s *Stream) Next() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// ---- Derived distributions ----------------------------------------------

func uniformIn(src RandomSource, min, max float64) float64 {
	return min + (max-min)*src.Next()
}

// logUniformIn exponentiates a uniform draw over the log range, so outcomes
// are spread evenly across octaves. Used for all frequency-like parameters.
func logUniformIn(src RandomSource, min, max float64) float64 {
	lo, hi := math.Log(min), math.Log(max)
	return math.Exp(lo + (hi-lo)*src.Next())
}

// chance returns true with probability p. Always consumes exactly one draw.
func chance(src RandomSource, p float64) bool {
	return src.Next() < p
}

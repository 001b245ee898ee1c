package game

import (
	mathrand "math/rand"
	"time"
)

// Source yields uniform values in [0, 1). *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded generator; seed 0 seeds from the wall clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mathrand.New(mathrand.NewSource(seed))
}

// SequenceSource replays a fixed list of values, cycling when exhausted.
type SequenceSource struct {
	Values []float64
	next   int
}

func (s *SequenceSource) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

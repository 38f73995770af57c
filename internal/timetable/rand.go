package timetable

import (
	"math/rand"
	"time"
)

// Rand supplies the shuffle ordering used by the engine. *math/rand.Rand
// satisfies it directly; tests inject a fixed-seed source for reproducible
// scenarios.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded random source for production use.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

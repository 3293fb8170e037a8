// Package random generates high-entropy seeds for the game's
// pseudo-random number generators (deck shuffles, dice rolls).
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// NewSeed draws a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a PRNG seeded from crypto/rand. If the entropy read
// fails it logs and falls back to the wall clock rather than aborting
// game construction.
func NewRand() *rand.Rand {
	seed, err := NewSeed()
	if err != nil {
		log.Printf("random seed: %v, falling back to the clock", err)
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

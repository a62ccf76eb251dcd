package regression

import "math/rand"

// Shuffle returns the records in a random order drawn from rng. The input
// slice is not reordered.
func Shuffle(records []Record, rng *rand.Rand) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// NewRand returns a random source for Shuffle. A zero seed picks a
// non-deterministic one.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewSource(rand.Int63()))
	}
	return rand.New(rand.NewSource(seed))
}

package regression

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffle(t *testing.T) {
	records := make([]Record, 20)
	for i := range records {
		records[i] = ratedRecord(i, "A", "4")
	}

	first := Shuffle(records, rand.New(rand.NewSource(7)))
	second := Shuffle(records, rand.New(rand.NewSource(7)))

	assert.Equal(t, first, second, "same seed gives the same order")
	assert.ElementsMatch(t, records, first, "shuffle is a permutation")
	for i, rec := range records {
		assert.Equal(t, i, rec.Row, "input order is preserved")
	}
}

func TestShuffleEmpty(t *testing.T) {
	assert.Empty(t, Shuffle(nil, NewRand(1)))
}

package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionbet-games/poker-backend/models"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	require.Equal(t, 52, deck.Remaining())

	seen := make(map[string]bool)
	for _, c := range deck.Deal(52) {
		key := c.Rank + "/" + c.Suit
		assert.False(t, seen[key], "duplicate card %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, 52)
	assert.Equal(t, 0, deck.Remaining())
}

func TestDealNeverOverlaps(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(7)))

	community := deck.Deal(models.CommunitySize)
	require.Len(t, community, models.CommunitySize)

	seen := make(map[models.Card]bool)
	for _, c := range community {
		seen[c] = true
	}

	for player := 0; player < 6; player++ {
		hand := deck.Deal(models.HandSize)
		require.Len(t, hand, models.HandSize)
		for _, c := range hand {
			assert.False(t, seen[c], "card %v dealt twice", c)
			seen[c] = true
		}
	}
	assert.Equal(t, 52-models.CommunitySize-6*models.HandSize, deck.Remaining())
}

func TestDealPastEndReturnsNil(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(3)))
	require.Len(t, deck.Deal(50), 50)
	assert.Nil(t, deck.Deal(3))
	// The failed deal consumes nothing.
	assert.Equal(t, 2, deck.Remaining())
	assert.Len(t, deck.Deal(2), 2)
}

func TestDecksAreIndependent(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(11)))
	b := NewDeck(rand.New(rand.NewSource(12)))

	first := a.Deal(52)
	second := b.Deal(52)

	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical orderings")
}

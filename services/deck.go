package services

import (
	"math/rand"

	"github.com/lionbet-games/poker-backend/models"
)

// Deck is a shuffled standard 52-card deck dealt without replacement.
// Each round builds its own deck; nothing is shared between rounds.
type Deck struct {
	cards []models.Card
	next  int
}

// NewDeck builds a fresh deck and Fisher-Yates shuffles it with the
// given source.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]models.Card, 0, 52)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			cards = append(cards, models.Card{Rank: rank, Suit: suit})
		}
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// Deal draws the next n cards. Returns nil if fewer than n remain.
func (d *Deck) Deal(n int) []models.Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	dealt := make([]models.Card, n)
	copy(dealt, d.cards[d.next:d.next+n])
	d.next += n
	return dealt
}

// Remaining reports how many undealt cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

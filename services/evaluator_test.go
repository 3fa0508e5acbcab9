package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionbet-games/poker-backend/models"
)

func card(rank, suit string) models.Card {
	return models.Card{Rank: rank, Suit: suit}
}

// hand builds the 11-card evaluator input from 6 private cards plus the
// shared board.
func hand(private []models.Card, community []models.Card) []models.Card {
	combined := make([]models.Card, 0, len(private)+len(community))
	combined = append(combined, private...)
	combined = append(combined, community...)
	return combined
}

func TestEvaluateStrongerHandWins(t *testing.T) {
	eval := NewSolverEvaluator()

	community := []models.Card{
		card("2", "clubs"), card("3", "diamonds"), card("7", "spades"),
		card("8", "diamonds"), card("9", "clubs"),
	}
	// User 1 holds a royal flush in hearts; user 2's best is a straight
	// off the board.
	flush := []models.Card{
		card("A", "hearts"), card("K", "hearts"), card("Q", "hearts"),
		card("J", "hearts"), card("10", "hearts"), card("4", "clubs"),
	}
	straight := []models.Card{
		card("5", "diamonds"), card("6", "clubs"), card("2", "spades"),
		card("3", "clubs"), card("4", "diamonds"), card("K", "spades"),
	}

	result, err := eval.Evaluate(map[uint][]models.Card{
		1: hand(flush, community),
		2: hand(straight, community),
	})
	require.NoError(t, err)
	require.Equal(t, []uint{1}, result.Winners)
	assert.NotEmpty(t, result.HandNames[1])
	assert.NotEmpty(t, result.HandNames[2])
}

func TestEvaluateTieWhenBoardPlays(t *testing.T) {
	eval := NewSolverEvaluator()

	// The board itself is a royal flush, so neither player's private
	// cards can improve on it.
	community := []models.Card{
		card("A", "spades"), card("K", "spades"), card("Q", "spades"),
		card("J", "spades"), card("10", "spades"),
	}
	low1 := []models.Card{
		card("2", "hearts"), card("3", "hearts"), card("5", "clubs"),
		card("7", "diamonds"), card("8", "clubs"), card("9", "diamonds"),
	}
	low2 := []models.Card{
		card("2", "diamonds"), card("3", "clubs"), card("5", "hearts"),
		card("7", "clubs"), card("8", "diamonds"), card("9", "hearts"),
	}

	result, err := eval.Evaluate(map[uint][]models.Card{
		1: hand(low1, community),
		2: hand(low2, community),
	})
	require.NoError(t, err)
	assert.Len(t, result.Winners, 2)
	assert.Equal(t, result.HandNames[1], result.HandNames[2])
}

func TestEvaluateRejectsWrongCardCount(t *testing.T) {
	eval := NewSolverEvaluator()

	short := []models.Card{card("A", "hearts"), card("K", "hearts")}
	_, err := eval.Evaluate(map[uint][]models.Card{1: short})
	require.ErrorIs(t, err, ErrEvaluation)
}

func TestEvaluateRejectsEmptyInput(t *testing.T) {
	eval := NewSolverEvaluator()
	_, err := eval.Evaluate(map[uint][]models.Card{})
	require.ErrorIs(t, err, ErrEvaluation)
}

func TestEvaluateRejectsUnknownCard(t *testing.T) {
	eval := NewSolverEvaluator()

	cards := []models.Card{
		card("A", "hearts"), card("K", "hearts"), card("Q", "hearts"),
		card("J", "hearts"), card("10", "hearts"), card("9", "hearts"),
		card("8", "hearts"), card("7", "hearts"), card("6", "hearts"),
		card("5", "hearts"), card("X", "moons"),
	}
	_, err := eval.Evaluate(map[uint][]models.Card{1: cards})
	require.ErrorIs(t, err, ErrEvaluation)
}

func TestConvertCardRanks(t *testing.T) {
	for _, rank := range models.Ranks {
		for _, suit := range models.Suits {
			_, err := convertCard(card(rank, suit))
			assert.NoError(t, err, "rank %s suit %s", rank, suit)
		}
	}
}

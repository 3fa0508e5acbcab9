package services

import (
	"fmt"
	"strconv"

	"github.com/paulhankin/poker"

	"github.com/lionbet-games/poker-backend/models"
)

// evalHandSize is the contracted evaluator input arity per player:
// 6 private cards plus the 5 community cards.
const evalHandSize = models.HandSize + models.CommunitySize

// EvalResult names the round winner(s) and every player's best hand.
type EvalResult struct {
	Winners   []uint
	HandNames map[uint]string
}

// HandEvaluator ranks the players' combined hole+community cards.
// Every hand must hold exactly 11 cards; anything else is a dealing
// bug and returns ErrEvaluation.
type HandEvaluator interface {
	Evaluate(hands map[uint][]models.Card) (EvalResult, error)
}

type solverEvaluator struct{}

// NewSolverEvaluator returns the default evaluator, backed by the
// paulhankin/poker hand ranker.
func NewSolverEvaluator() HandEvaluator {
	return solverEvaluator{}
}

func (solverEvaluator) Evaluate(hands map[uint][]models.Card) (EvalResult, error) {
	if len(hands) == 0 {
		return EvalResult{}, fmt.Errorf("%w: no hands", ErrEvaluation)
	}

	result := EvalResult{HandNames: make(map[uint]string, len(hands))}
	scores := make(map[uint]int16, len(hands))
	var best int16
	first := true

	for userID, cards := range hands {
		if len(cards) != evalHandSize {
			return EvalResult{}, fmt.Errorf("%w: user %d has %d cards, want %d",
				ErrEvaluation, userID, len(cards), evalHandSize)
		}

		converted := make([]poker.Card, len(cards))
		for i, c := range cards {
			card, err := convertCard(c)
			if err != nil {
				return EvalResult{}, err
			}
			converted[i] = card
		}

		score, name, err := bestHand(converted)
		if err != nil {
			return EvalResult{}, err
		}
		scores[userID] = score
		result.HandNames[userID] = name

		if first || score > best {
			best = score
			first = false
		}
	}

	for userID, score := range scores {
		if score == best {
			result.Winners = append(result.Winners, userID)
		}
	}
	return result, nil
}

// bestHand scores the strongest 5-card hand in the 11 cards by ranking
// every 7-card subset; higher scores are stronger.
func bestHand(cards []poker.Card) (int16, string, error) {
	var (
		bestScore  int16
		bestSubset [7]poker.Card
		found      bool
		subset     [7]poker.Card
	)

	var pick func(start, depth int)
	pick = func(start, depth int) {
		if depth == 7 {
			score := poker.Eval7(&subset)
			if !found || score > bestScore {
				bestScore = score
				bestSubset = subset
				found = true
			}
			return
		}
		for i := start; i <= len(cards)-(7-depth); i++ {
			subset[depth] = cards[i]
			pick(i+1, depth+1)
		}
	}
	pick(0, 0)

	if !found {
		return 0, "", fmt.Errorf("%w: not enough cards to rank", ErrEvaluation)
	}

	name, err := poker.Describe(bestSubset[:])
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	return bestScore, name, nil
}

func convertCard(c models.Card) (poker.Card, error) {
	var zero poker.Card

	var suit poker.Suit
	switch c.Suit {
	case "hearts":
		suit = poker.Heart
	case "diamonds":
		suit = poker.Diamond
	case "clubs":
		suit = poker.Club
	case "spades":
		suit = poker.Spade
	default:
		return zero, fmt.Errorf("%w: unknown suit %q", ErrEvaluation, c.Suit)
	}

	var rank poker.Rank
	switch c.Rank {
	case "A":
		rank = 1
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	default:
		n, err := strconv.Atoi(c.Rank)
		if err != nil || n < 2 || n > 10 {
			return zero, fmt.Errorf("%w: unknown rank %q", ErrEvaluation, c.Rank)
		}
		rank = poker.Rank(n)
	}

	card, err := poker.MakeCard(suit, rank)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	return card, nil
}

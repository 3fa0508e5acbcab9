package models

// Card is a standard playing card. Rank is one of "2".."10", "J", "Q",
// "K", "A"; Suit is one of "hearts", "diamonds", "clubs", "spades".
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

var (
	Suits = []string{"hearts", "diamonds", "clubs", "spades"}
	Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

const (
	// CommunitySize is the number of shared cards dealt per round.
	CommunitySize = 5
	// HandSize is the number of private cards dealt to each player per round.
	HandSize = 6
)

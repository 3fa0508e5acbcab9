package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Round is a single deal within a game. Card columns are stored as JSON:
// CommunityCards holds 5 shared cards, PlayerCards maps user id to that
// player's 6 private cards.
type Round struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	GameID         uint           `gorm:"index" json:"game_id"`
	RoundNumber    int            `json:"round_number"` // 1, 2 or 3
	CommunityCards datatypes.JSON `json:"community_cards"`
	PlayerCards    datatypes.JSON `json:"player_cards"`
	WinnerID       *uint          `json:"winner_id"` // nil on tie
	WinningHand    *string        `json:"winning_hand"`
	IsTie          bool           `json:"is_tie"`
	StartedAt      time.Time      `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
}

// Community decodes the shared card column.
func (r *Round) Community() ([]Card, error) {
	var cards []Card
	if err := json.Unmarshal(r.CommunityCards, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Hands decodes the per-player private card column.
func (r *Round) Hands() (map[uint][]Card, error) {
	hands := make(map[uint][]Card)
	if err := json.Unmarshal(r.PlayerCards, &hands); err != nil {
		return nil, err
	}
	return hands, nil
}

// SetCards encodes both card columns. Each private hand must have
// exactly HandSize cards.
func (r *Round) SetCards(community []Card, hands map[uint][]Card) error {
	cc, err := json.Marshal(community)
	if err != nil {
		return err
	}
	pc, err := json.Marshal(hands)
	if err != nil {
		return err
	}
	r.CommunityCards = datatypes.JSON(cc)
	r.PlayerCards = datatypes.JSON(pc)
	return nil
}

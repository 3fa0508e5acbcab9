package models

import "time"

// GamePlayer is a user's participation record within one game.
type GamePlayer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GameID       uint      `gorm:"index:idx_game_user" json:"game_id"`
	UserID       uint      `gorm:"index:idx_game_user" json:"user_id"`
	SeatPosition int       `json:"seat_position"` // 0..maxPlayers-1
	RoundsWon    int       `json:"rounds_won"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	Winnings     float64   `json:"winnings"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

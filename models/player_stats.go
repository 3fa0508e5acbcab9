package models

import "time"

// PlayerStats is a lifetime aggregate per user, updated at game end.
type PlayerStats struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex" json:"user_id"`
	GamesPlayed  int       `json:"games_played"`
	GamesWon     int       `json:"games_won"`
	RoundsWon    int       `json:"rounds_won"`
	TotalWagered float64   `json:"total_wagered"`
	TotalWon     float64   `json:"total_won"`
	UpdatedAt    time.Time `json:"updated_at"`
}

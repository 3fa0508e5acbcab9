package models

import "time"

const (
	GameWaiting    = "waiting"
	GameInProgress = "in_progress"
	GameCompleted  = "completed"
)

// Game is one complete play-through at a table: up to three rounds,
// first player to win two rounds takes the pot.
type Game struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TableID      uint       `gorm:"index" json:"table_id"`
	Status       string     `gorm:"default:waiting" json:"status"` // waiting | in_progress | completed
	CurrentRound int        `json:"current_round"`                 // 0-3
	TotalPot     float64    `json:"total_pot"`
	Commission   float64    `json:"commission"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

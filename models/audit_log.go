package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EventType string         `gorm:"index" json:"event_type"` // game_started, round_started, round_winner, game_ended
	GameID    uint           `gorm:"index" json:"game_id"`
	UserID    *uint          `json:"user_id"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

package models

import "time"

// Table is a poker table configuration created by an administrator.
// Every round at the table costs each player StakeAmount.
type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	StakeAmount float64   `json:"stake_amount"`
	Password    string    `json:"-"`
	IsPrivate   bool      `json:"is_private"`
	MaxPlayers  int       `gorm:"default:6" json:"max_players"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package models

import "time"

// Settings holds the house configuration. CommissionRate is a
// percentage of the pot taken before payout, 2 decimal precision.
type Settings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CommissionRate float64   `gorm:"default:5" json:"commission_rate"`
	UpdatedAt      time.Time `json:"updated_at"`
}

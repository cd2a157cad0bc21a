package models

import "time"

// RateLimitConfig caps public submissions per IP. At most one active row;
// the newest active row wins when several exist.
type RateLimitConfig struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MaxRequests   int       `gorm:"not null" json:"max_requests"`
	WindowMinutes int       `gorm:"not null" json:"window_minutes"`
	Enabled       bool      `gorm:"not null;default:true" json:"enabled"`
	UpdatedBy     string    `json:"updated_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BlockedIP denies public submissions from an address. ExpiresAt nil means
// the block is permanent until removed.
type BlockedIP struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	IP        string     `gorm:"index;not null" json:"ip"`
	Reason    string     `json:"reason"`
	BlockedBy string     `json:"blocked_by"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

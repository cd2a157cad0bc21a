package models

import "time"

// AuditTrailEntry records one lifecycle action against a complaint.
// Append-only: rows are never updated or deleted. PerformedBy is nil for
// system and public actions (submission, dispute).
type AuditTrailEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID string    `gorm:"index;not null" json:"complaint_id"`
	Action      string    `gorm:"not null" json:"action"`
	PerformedBy *string   `json:"performed_by"`
	Details     string    `gorm:"type:text" json:"details"`
	CreatedAt   time.Time `json:"created_at"`
}

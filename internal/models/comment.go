package models

import "time"

// TicketComment is a discussion note on a complaint. Internal comments are
// staff-only and must never reach the public tracking view.
type TicketComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID string    `gorm:"index;not null" json:"complaint_id"`
	AuthorID    string    `gorm:"not null" json:"author_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsInternal  bool      `gorm:"not null;default:false" json:"is_internal"`
	CreatedAt   time.Time `json:"created_at"`
}

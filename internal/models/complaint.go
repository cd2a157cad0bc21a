package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a complaint. Writes go through the
// lifecycle service only; the column is never set directly by handlers.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusVerified   Status = "verified"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusBacklog    Status = "backlog"
	StatusResolved   Status = "resolved"
	StatusDisputed   Status = "disputed"
	StatusClosed     Status = "closed"
)

// Complaint is the central tracked entity. Submitter fields are immutable
// after intake; staff actions only touch status, remarks and the actor
// timestamp pairs.
type Complaint struct {
	ID              string `gorm:"primaryKey" json:"id"`
	ReferenceNumber string `gorm:"uniqueIndex;not null" json:"reference_number"`
	Status          Status `gorm:"index;not null" json:"status"`
	Category        string `gorm:"index;not null" json:"category"`

	Name          string `json:"name"`
	Email         string `json:"email"`
	StudentID     string `json:"student_id"`
	Description   string `gorm:"type:text;not null" json:"description"`
	IsAnonymous   bool   `json:"is_anonymous"`
	AttachmentURL string `json:"attachment_url"`

	AssignedDepartment string `gorm:"index" json:"assigned_department"`

	AdminRemarks       string `gorm:"type:text" json:"admin_remarks"`
	DepartmentRemarks  string `gorm:"type:text" json:"department_remarks"`
	ResolutionDetails  string `gorm:"type:text" json:"resolution_details"`
	ResolutionImageURL string `json:"resolution_image_url"`
	DisputeReason      string `gorm:"type:text" json:"dispute_reason"`

	VerifiedBy *string    `json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at"`
	StartedBy  *string    `json:"started_by"`
	StartedAt  *time.Time `json:"started_at"`
	ResolvedBy *string    `json:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the complaint if ID is not yet set.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

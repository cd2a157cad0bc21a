package models

import (
	"time"

	"github.com/lib/pq" // needed for pq.StringArray
)

// Department is a resolving unit complaints get assigned to. Code is the
// lowercase token stored in Complaint.AssignedDepartment. Deletion is a
// soft flip of IsActive; complaints keep stale codes on purpose.
type Department struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"`
	Description string         `gorm:"type:text" json:"description"`
	Categories  pq.StringArray `gorm:"type:text[]" json:"categories"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

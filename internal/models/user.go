package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values recognized by the access gate. Employee and faculty accounts
// are provisioned with RoleDepartment plus a department code.
type Role string

const (
	RoleStudent    Role = "student"
	RoleDepartment Role = "department"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// User is a staff or student account. Role and Department are looked up per
// request after token validation, never trusted from the token itself.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `gorm:"not null;default:'student'" json:"role"`
	Department   string    `gorm:"index" json:"department"` // set only for department staff
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the user if ID is not yet set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

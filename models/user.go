package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an account holder (reporter or staff)
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"type:varchar(16);not null;default:'USER'" json:"role"` // USER or ADMIN
	Department   *string        `json:"department"`
	Phone        *string        `json:"phone"`
	LineID       *string        `gorm:"index" json:"line_id"` // LINE user id, set on first LINE login
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has staff privileges
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

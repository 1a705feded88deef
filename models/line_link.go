package models

import "time"

// Link verification states
const (
	LinkStatusPending  = "PENDING"
	LinkStatusVerified = "VERIFIED"
)

// LineOALink ties a local user to a LINE platform identity
type LineOALink struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	LineUserID string     `gorm:"not null;uniqueIndex" json:"line_user_id"`
	Status     string     `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	VerifiedAt *time.Time `json:"verified_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the LineOALink model
func (LineOALink) TableName() string {
	return "line_oa_links"
}

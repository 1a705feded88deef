package models

import "time"

// Activity actions recorded against a ticket
const (
	ActionCreated          = "CREATED"
	ActionUpdated          = "UPDATED"
	ActionStatusChanged    = "STATUS_CHANGED"
	ActionAssigneesChanged = "ASSIGNEES_CHANGED"
	ActionCancelled        = "CANCELLED"
)

// TicketActivity is an append-only history entry for a ticket
type TicketActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	UserID    *uint     `gorm:"index" json:"user_id"` // actor; nil for system actions
	Actor     *User     `gorm:"foreignKey:UserID" json:"actor,omitempty"`
	Action    string    `gorm:"type:varchar(32);not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"` // JSON payload describing the change
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the TicketActivity model
func (TicketActivity) TableName() string {
	return "ticket_activities"
}

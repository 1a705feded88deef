package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket status values
const (
	StatusPending      = "PENDING"
	StatusInProgress   = "IN_PROGRESS"
	StatusWaitingParts = "WAITING_PARTS"
	StatusCompleted    = "COMPLETED"
	StatusCancelled    = "CANCELLED"
)

// Ticket urgency values
const (
	UrgencyLow    = "LOW"
	UrgencyMedium = "MEDIUM"
	UrgencyHigh   = "HIGH"
	UrgencyUrgent = "URGENT"
)

// TicketStatuses lists every status in display order
var TicketStatuses = []string{
	StatusPending,
	StatusInProgress,
	StatusWaitingParts,
	StatusCompleted,
	StatusCancelled,
}

// TicketUrgencies lists every urgency from lowest to highest
var TicketUrgencies = []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent}

// RepairTicket represents a repair request submitted by a user
type RepairTicket struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Code               string              `gorm:"size:32;uniqueIndex;not null" json:"code"`
	ReporterName       string              `gorm:"not null" json:"reporter_name"`
	ReporterEmail      *string             `json:"reporter_email"`
	ReporterPhone      *string             `json:"reporter_phone"`
	ReporterLineID     *string             `json:"reporter_line_id"`
	Department         *string             `json:"department"`
	ProblemCategory    string              `gorm:"not null" json:"problem_category"`
	ProblemTitle       string              `gorm:"not null" json:"problem_title"`
	ProblemDescription string              `gorm:"type:text" json:"problem_description"`
	Location           string              `gorm:"not null" json:"location"`
	Urgency            string              `gorm:"type:varchar(16);not null;default:'MEDIUM';index" json:"urgency"`
	Status             string              `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	UserID             uint                `gorm:"not null;index" json:"user_id"` // owner (reporter account)
	Owner              *User               `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	ScheduledAt        *time.Time          `gorm:"index" json:"scheduled_at"`
	CompletedAt        *time.Time          `json:"completed_at"`
	CancelledAt        *time.Time          `json:"cancelled_at"`
	Notes              *string             `gorm:"type:text" json:"notes"`
	RepairCost         decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"repair_cost"`
	Assignees          []TicketAssignee    `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"assignees"`
	Attachments        []Attachment        `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Activities         []TicketActivity    `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TableName specifies the table name for the RepairTicket model
func (RepairTicket) TableName() string {
	return "repair_tickets"
}

// HasAssignee reports whether userID is among the loaded assignees
func (t *RepairTicket) HasAssignee(userID uint) bool {
	for _, a := range t.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// Attachment is a file uploaded alongside a ticket
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TicketID   uint      `gorm:"not null;index" json:"ticket_id"`
	Filename   string    `gorm:"not null" json:"filename"`
	URL        string    `gorm:"not null" json:"url"`
	StorageKey string    `json:"-"`
	Size       int64     `json:"size"`
	MimeType   string    `gorm:"size:64" json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the Attachment model
func (Attachment) TableName() string {
	return "attachments"
}

// TicketAssignee links a staff user to a ticket
type TicketAssignee struct {
	TicketID   uint      `gorm:"primaryKey" json:"ticket_id"`
	UserID     uint      `gorm:"primaryKey;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

// TableName specifies the table name for the TicketAssignee model
func (TicketAssignee) TableName() string {
	return "ticket_assignees"
}

// IsValidStatus reports whether s is a known ticket status
func IsValidStatus(s string) bool {
	return contains(TicketStatuses, s)
}

// IsValidUrgency reports whether u is a known ticket urgency
func IsValidUrgency(u string) bool {
	return contains(TicketUrgencies, u)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

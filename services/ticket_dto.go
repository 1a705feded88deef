package services

import (
	"sort"
	"strings"
	"time"

	"github.com/guregu/null/v5"
	json "github.com/json-iterator/go"
	"github.com/kendall-kelly/repair-ticket-api/models"
	"github.com/shopspring/decimal"
)

// Viewer is the authenticated caller on whose behalf a query runs
type Viewer struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the viewer is staff
func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}

// CanView reports whether the viewer owns, is assigned to, or administers t
func (v Viewer) CanView(t *models.RepairTicket) bool {
	return v.IsAdmin() || t.UserID == v.ID || t.HasAssignee(v.ID)
}

// CreateTicketInput carries the fields of a new repair request. It binds from
// both multipart forms and JSON.
type CreateTicketInput struct {
	ReporterName       string     `form:"reporter_name" json:"reporter_name" binding:"required,max=255"`
	ReporterEmail      string     `form:"reporter_email" json:"reporter_email" binding:"omitempty,email"`
	ReporterPhone      string     `form:"reporter_phone" json:"reporter_phone" binding:"omitempty,max=32"`
	ReporterLineID     string     `form:"reporter_line_id" json:"reporter_line_id" binding:"omitempty,max=64"`
	Department         string     `form:"department" json:"department"`
	ProblemCategory    string     `form:"problem_category" json:"problem_category" binding:"required"`
	ProblemTitle       string     `form:"problem_title" json:"problem_title" binding:"required,max=255"`
	ProblemDescription string     `form:"problem_description" json:"problem_description"`
	Location           string     `form:"location" json:"location" binding:"required"`
	Urgency            string     `form:"urgency" json:"urgency"`
	ScheduledAt        *time.Time `form:"scheduled_at" json:"scheduled_at" time_format:"2006-01-02T15:04:05Z07:00"`
	Notes              string     `form:"notes" json:"notes"`
}

// CreateTicketResult is the created ticket plus the files that were skipped
type CreateTicketResult struct {
	Ticket   *models.RepairTicket `json:"ticket"`
	Rejected []RejectedFile       `json:"rejected_files"`
}

// RejectedFile describes an attachment that was not stored
type RejectedFile struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// TicketFilter holds the optional list filters
type TicketFilter struct {
	Status     string `form:"status"`
	Urgency    string `form:"urgency"`
	AssigneeID uint   `form:"assignee_id"`
	UserID     uint   `form:"user_id"`
	Limit      int    `form:"limit"`
}

// ScheduleFilter bounds the calendar view
type ScheduleFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ScheduleEntry is the reduced projection used by the calendar
type ScheduleEntry struct {
	ID           uint      `json:"id"`
	Code         string    `json:"code"`
	ProblemTitle string    `json:"problem_title"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
	Urgency      string    `json:"urgency"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

// TicketStatistics counts tickets per status
type TicketStatistics struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// StaffMember is the assignee-picker projection of an admin user
type StaffMember struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
}

// UpdateTicketInput is a partial update. A key absent from the JSON body is
// left untouched; an explicit null clears a nullable column.
type UpdateTicketInput struct {
	ReporterName       null.String         `json:"reporter_name"`
	ReporterEmail      null.String         `json:"reporter_email"`
	ReporterPhone      null.String         `json:"reporter_phone"`
	ReporterLineID     null.String         `json:"reporter_line_id"`
	Department         null.String         `json:"department"`
	ProblemCategory    null.String         `json:"problem_category"`
	ProblemTitle       null.String         `json:"problem_title"`
	ProblemDescription null.String         `json:"problem_description"`
	Location           null.String         `json:"location"`
	Urgency            null.String         `json:"urgency"`
	Status             null.String         `json:"status"`
	ScheduledAt        null.Time           `json:"scheduled_at"`
	CompletedAt        null.Time           `json:"completed_at"`
	CancelledAt        null.Time           `json:"cancelled_at"`
	Notes              null.String         `json:"notes"`
	RepairCost         decimal.NullDecimal `json:"repair_cost"`
	AssigneeIDs        []uint              `json:"assignee_ids"`

	present map[string]bool
}

// UnmarshalJSON decodes the body and remembers which keys were sent
func (in *UpdateTicketInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type plain UpdateTicketInput
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*in = UpdateTicketInput(decoded)
	in.present = make(map[string]bool, len(raw))
	for key := range raw {
		in.present[key] = true
	}
	return nil
}

// ParseUpdateTicketInput decodes a JSON patch body
func ParseUpdateTicketInput(data []byte) (UpdateTicketInput, error) {
	var in UpdateTicketInput
	err := json.Unmarshal(data, &in)
	return in, err
}

// Has reports whether the JSON key was present in the request
func (in *UpdateTicketInput) Has(key string) bool {
	return in.present[key]
}

// updatableFields are the keys an update can change
var updatableFields = map[string]bool{
	"reporter_name":       true,
	"reporter_email":      true,
	"reporter_phone":      true,
	"reporter_line_id":    true,
	"department":          true,
	"problem_category":    true,
	"problem_title":       true,
	"problem_description": true,
	"location":            true,
	"urgency":             true,
	"status":              true,
	"scheduled_at":        true,
	"completed_at":        true,
	"cancelled_at":        true,
	"notes":               true,
	"repair_cost":         true,
	"assignee_ids":        true,
}

// Fields returns the present updatable keys in sorted order. Unknown keys
// are ignored.
func (in *UpdateTicketInput) Fields() []string {
	keys := make([]string, 0, len(in.present))
	for k := range in.present {
		if updatableFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// columnUpdates converts present fields to a column map, validating enums and
// rejecting null for required columns.
func (in *UpdateTicketInput) columnUpdates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	required := []struct {
		key   string
		value null.String
	}{
		{"reporter_name", in.ReporterName},
		{"problem_category", in.ProblemCategory},
		{"problem_title", in.ProblemTitle},
		{"location", in.Location},
	}
	for _, f := range required {
		if !in.Has(f.key) {
			continue
		}
		if !f.value.Valid || strings.TrimSpace(f.value.String) == "" {
			return nil, NewValidationError("VALIDATION_ERROR", f.key+" cannot be empty")
		}
		updates[f.key] = f.value.String
	}

	nullable := []struct {
		key   string
		value null.String
	}{
		{"reporter_email", in.ReporterEmail},
		{"reporter_phone", in.ReporterPhone},
		{"reporter_line_id", in.ReporterLineID},
		{"department", in.Department},
		{"notes", in.Notes},
	}
	for _, f := range nullable {
		if in.Has(f.key) {
			updates[f.key] = f.value.Ptr()
		}
	}

	if in.Has("problem_description") {
		// not-null text column; null means empty
		updates["problem_description"] = in.ProblemDescription.String
	}

	if in.Has("urgency") {
		urgency := strings.ToUpper(in.Urgency.String)
		if !in.Urgency.Valid || !models.IsValidUrgency(urgency) {
			return nil, NewValidationError("INVALID_URGENCY", "urgency must be one of "+strings.Join(models.TicketUrgencies, ", "))
		}
		updates["urgency"] = urgency
	}

	if in.Has("status") {
		status := strings.ToUpper(in.Status.String)
		if !in.Status.Valid || !models.IsValidStatus(status) {
			return nil, NewValidationError("INVALID_STATUS", "status must be one of "+strings.Join(models.TicketStatuses, ", "))
		}
		updates["status"] = status
	}

	times := []struct {
		key   string
		value null.Time
	}{
		{"scheduled_at", in.ScheduledAt},
		{"completed_at", in.CompletedAt},
		{"cancelled_at", in.CancelledAt},
	}
	for _, f := range times {
		if in.Has(f.key) {
			updates[f.key] = utcTime(f.value.Ptr())
		}
	}

	if in.Has("repair_cost") {
		if in.RepairCost.Valid && in.RepairCost.Decimal.IsNegative() {
			return nil, NewValidationError("VALIDATION_ERROR", "repair_cost cannot be negative")
		}
		updates["repair_cost"] = in.RepairCost
	}

	return updates, nil
}

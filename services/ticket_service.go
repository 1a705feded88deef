package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/kendall-kelly/repair-ticket-api/models"
	"github.com/kendall-kelly/repair-ticket-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultTicketLimit = 100
	MaxTicketLimit     = 500
)

// errInvalidAssignee is returned when an assignee id does not reference a user
var errInvalidAssignee = NewValidationError("INVALID_ASSIGNEE", "ไม่พบผู้รับผิดชอบที่ระบุ กรุณาตรวจสอบรายชื่อผู้รับผิดชอบ")

// TicketService manages repair tickets and their attachments
type TicketService struct {
	db       *gorm.DB
	uploader *AttachmentUploader
	log      *zap.Logger
	now      func() time.Time
}

// NewTicketService creates a ticket service backed by db and storage
func NewTicketService(db *gorm.DB, storage Storage, log *zap.Logger) *TicketService {
	return &TicketService{
		db:       db,
		uploader: NewAttachmentUploader(storage),
		log:      log.Named("tickets"),
		now:      time.Now,
	}
}

// Create persists a new ticket owned by ownerID. Files that fail validation
// or upload are skipped and reported in the result; the ticket is still
// created with the accepted ones.
func (s *TicketService) Create(ctx context.Context, ownerID uint, input CreateTicketInput, files []*multipart.FileHeader) (*CreateTicketResult, error) {
	urgency := models.UrgencyMedium
	if input.Urgency != "" {
		urgency = strings.ToUpper(strings.TrimSpace(input.Urgency))
		if !models.IsValidUrgency(urgency) {
			return nil, NewValidationError("INVALID_URGENCY", "urgency must be one of "+strings.Join(models.TicketUrgencies, ", "))
		}
	}

	result := &CreateTicketResult{Rejected: []RejectedFile{}}
	attachments := make([]models.Attachment, 0, len(files))
	for i, fileHeader := range files {
		if i >= utils.MaxAttachmentsPerTicket {
			result.Rejected = append(result.Rejected, RejectedFile{
				Filename: fileHeader.Filename,
				Code:     "TOO_MANY_FILES",
				Message:  "A ticket can carry at most 5 attachments",
			})
			continue
		}

		attachment, err := s.uploader.Upload(ctx, fileHeader)
		if err != nil {
			rejected := RejectedFile{Filename: fileHeader.Filename, Code: "UPLOAD_FAILED", Message: "Failed to store file"}
			var uploadErr *utils.FileUploadError
			if errors.As(err, &uploadErr) {
				rejected.Code = uploadErr.Code
				rejected.Message = uploadErr.Message
			}
			s.log.Warn("skipping attachment",
				zap.String("filename", fileHeader.Filename),
				zap.String("code", rejected.Code),
				zap.Error(err))
			result.Rejected = append(result.Rejected, rejected)
			continue
		}
		attachments = append(attachments, *attachment)
	}

	ticket := models.RepairTicket{
		Code:               utils.GenerateTicketCode(s.now()),
		ReporterName:       strings.TrimSpace(input.ReporterName),
		ReporterEmail:      optional(input.ReporterEmail),
		ReporterPhone:      optional(input.ReporterPhone),
		ReporterLineID:     optional(input.ReporterLineID),
		Department:         optional(input.Department),
		ProblemCategory:    input.ProblemCategory,
		ProblemTitle:       input.ProblemTitle,
		ProblemDescription: input.ProblemDescription,
		Location:           input.Location,
		Urgency:            urgency,
		Status:             models.StatusPending,
		UserID:             ownerID,
		ScheduledAt:        utcTime(input.ScheduledAt),
		Notes:              optional(input.Notes),
		Attachments:        attachments,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}
		return recordActivity(tx, ticket.ID, &ownerID, models.ActionCreated, map[string]interface{}{
			"code":        ticket.Code,
			"attachments": len(attachments),
		})
	})
	if err != nil {
		for _, discardErr := range s.uploader.Discard(ctx, attachments) {
			s.log.Warn("failed to discard attachment", zap.Error(discardErr))
		}
		switch {
		case isDuplicateKey(err):
			return nil, NewConflictError("TICKET_CODE_CONFLICT", "Ticket code already exists, please retry")
		case isForeignKeyViolation(err):
			return nil, ErrUserNotFound
		}
		return nil, translateStoreError(err, ErrTicketNotFound, "create ticket")
	}

	s.log.Info("ticket created",
		zap.Uint("ticket_id", ticket.ID),
		zap.String("code", ticket.Code),
		zap.Int("attachments", len(attachments)),
		zap.Int("rejected", len(result.Rejected)))

	created, err := s.FindOne(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	result.Ticket = created
	return result, nil
}

func (s *TicketService) detailQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Assignees.User").
		Preload("Attachments").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Preload("Activities.Actor")
}

// FindOne loads a ticket with its full detail graph
func (s *TicketService) FindOne(ctx context.Context, id uint) (*models.RepairTicket, error) {
	var ticket models.RepairTicket
	if err := s.detailQuery(ctx).First(&ticket, id).Error; err != nil {
		return nil, translateStoreError(err, ErrTicketNotFound, "find ticket")
	}
	return &ticket, nil
}

// FindByCode loads a ticket by its public code
func (s *TicketService) FindByCode(ctx context.Context, code string) (*models.RepairTicket, error) {
	var ticket models.RepairTicket
	err := s.detailQuery(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&ticket).Error
	if err != nil {
		return nil, translateStoreError(err, ErrTicketNotFound, "find ticket by code")
	}
	return &ticket, nil
}

// FindAll lists tickets visible to viewer. Non-admins only ever see their
// own tickets, whatever owner filter they pass.
func (s *TicketService) FindAll(ctx context.Context, viewer Viewer, filter TicketFilter) ([]models.RepairTicket, error) {
	q := s.db.WithContext(ctx).
		Model(&models.RepairTicket{}).
		Preload("Owner").
		Preload("Assignees.User")

	if !viewer.IsAdmin() {
		q = q.Where("user_id = ?", viewer.ID)
	} else if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}

	if filter.Status != "" {
		status := strings.ToUpper(filter.Status)
		if !models.IsValidStatus(status) {
			return nil, NewValidationError("INVALID_STATUS", "status must be one of "+strings.Join(models.TicketStatuses, ", "))
		}
		q = q.Where("status = ?", status)
	}
	if filter.Urgency != "" {
		urgency := strings.ToUpper(filter.Urgency)
		if !models.IsValidUrgency(urgency) {
			return nil, NewValidationError("INVALID_URGENCY", "urgency must be one of "+strings.Join(models.TicketUrgencies, ", "))
		}
		q = q.Where("urgency = ?", urgency)
	}
	if filter.AssigneeID != 0 {
		assigned := s.db.Model(&models.TicketAssignee{}).Select("ticket_id").Where("user_id = ?", filter.AssigneeID)
		q = q.Where("id IN (?)", assigned)
	}

	tickets := []models.RepairTicket{}
	err := q.Order("created_at DESC").Order("id DESC").Limit(clampLimit(filter.Limit)).Find(&tickets).Error
	if err != nil {
		return nil, translateStoreError(err, ErrTicketNotFound, "list tickets")
	}
	return tickets, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultTicketLimit
	case limit > MaxTicketLimit:
		return MaxTicketLimit
	default:
		return limit
	}
}

// Update applies a partial update. When assignee_ids is present the assignee
// set is replaced wholesale. The column update, the assignee replacement and
// the activity entries commit together.
func (s *TicketService) Update(ctx context.Context, id uint, input UpdateTicketInput, actorID uint) (*models.RepairTicket, error) {
	updates, err := input.columnUpdates()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket models.RepairTicket
		if err := tx.First(&ticket, id).Error; err != nil {
			return err
		}
		previousStatus := ticket.Status

		if status, ok := updates["status"].(string); ok && status != previousStatus {
			if status == models.StatusCompleted && !input.Has("completed_at") {
				updates["completed_at"] = now
			}
			if status == models.StatusCancelled && !input.Has("cancelled_at") {
				updates["cancelled_at"] = now
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&ticket).Updates(updates).Error; err != nil {
				return err
			}

			fields := input.Fields()
			if err := recordActivity(tx, ticket.ID, &actorID, models.ActionUpdated, map[string]interface{}{"fields": fields}); err != nil {
				return err
			}
			if status, ok := updates["status"].(string); ok && status != previousStatus {
				if err := recordActivity(tx, ticket.ID, &actorID, models.ActionStatusChanged, map[string]interface{}{
					"from": previousStatus,
					"to":   status,
				}); err != nil {
					return err
				}
			}
		}

		if input.Has("assignee_ids") {
			if err := replaceAssignees(tx, ticket.ID, input.AssigneeIDs, now); err != nil {
				return err
			}
			if err := recordActivity(tx, ticket.ID, &actorID, models.ActionAssigneesChanged, map[string]interface{}{
				"assignee_ids": uniqueIDs(input.AssigneeIDs),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, errInvalidAssignee
		}
		return nil, translateStoreError(err, ErrTicketNotFound, "update ticket")
	}

	s.log.Info("ticket updated", zap.Uint("ticket_id", id), zap.Uint("actor_id", actorID), zap.Strings("fields", input.Fields()))
	return s.FindOne(ctx, id)
}

func replaceAssignees(tx *gorm.DB, ticketID uint, assigneeIDs []uint, now time.Time) error {
	if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.TicketAssignee{}).Error; err != nil {
		return err
	}

	ids := uniqueIDs(assigneeIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.TicketAssignee, 0, len(ids))
	for _, userID := range ids {
		rows = append(rows, models.TicketAssignee{TicketID: ticketID, UserID: userID, AssignedAt: now})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

// Remove cancels a ticket. Only its owner or an admin may do so.
func (s *TicketService) Remove(ctx context.Context, id uint, viewer Viewer) (*models.RepairTicket, error) {
	now := s.now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket models.RepairTicket
		if err := tx.First(&ticket, id).Error; err != nil {
			return err
		}
		if !viewer.IsAdmin() && ticket.UserID != viewer.ID {
			return NewForbiddenError("FORBIDDEN", "You can only cancel your own tickets")
		}

		previousStatus := ticket.Status
		if err := tx.Model(&ticket).Updates(map[string]interface{}{
			"status":       models.StatusCancelled,
			"cancelled_at": now,
		}).Error; err != nil {
			return err
		}
		return recordActivity(tx, ticket.ID, &viewer.ID, models.ActionCancelled, map[string]interface{}{"from": previousStatus})
	})
	if err != nil {
		return nil, translateStoreError(err, ErrTicketNotFound, "cancel ticket")
	}

	s.log.Info("ticket cancelled", zap.Uint("ticket_id", id), zap.Uint("actor_id", viewer.ID))
	return s.FindOne(ctx, id)
}

type statusCount struct {
	Status string
	Count  int64
}

// GetStatistics counts tickets per status. Every status is present in the
// result and the counts sum to Total.
func (s *TicketService) GetStatistics(ctx context.Context, viewer Viewer) (*TicketStatistics, error) {
	q := s.db.WithContext(ctx).
		Model(&models.RepairTicket{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if !viewer.IsAdmin() {
		q = q.Where("user_id = ?", viewer.ID)
	}

	var rows []statusCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translateStoreError(err, ErrTicketNotFound, "ticket statistics")
	}

	stats := &TicketStatistics{ByStatus: make(map[string]int64, len(models.TicketStatuses))}
	for _, status := range models.TicketStatuses {
		stats.ByStatus[status] = 0
	}
	for _, row := range rows {
		if _, known := stats.ByStatus[row.Status]; !known {
			continue
		}
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}
	return stats, nil
}

// GetSchedule returns scheduled tickets ordered by their appointment time
func (s *TicketService) GetSchedule(ctx context.Context, viewer Viewer, filter ScheduleFilter) ([]ScheduleEntry, error) {
	q := s.db.WithContext(ctx).
		Model(&models.RepairTicket{}).
		Select("id", "code", "problem_title", "location", "status", "urgency", "scheduled_at").
		Where("scheduled_at IS NOT NULL")
	if !viewer.IsAdmin() {
		q = q.Where("user_id = ?", viewer.ID)
	}
	// stored times are UTC; sqlite compares them as text
	if filter.From != nil {
		q = q.Where("scheduled_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("scheduled_at <= ?", filter.To.UTC())
	}

	var tickets []models.RepairTicket
	if err := q.Order("scheduled_at ASC").Order("id ASC").Find(&tickets).Error; err != nil {
		return nil, translateStoreError(err, ErrTicketNotFound, "ticket schedule")
	}

	entries := make([]ScheduleEntry, 0, len(tickets))
	for _, t := range tickets {
		if t.ScheduledAt == nil {
			continue
		}
		entries = append(entries, ScheduleEntry{
			ID:           t.ID,
			Code:         t.Code,
			ProblemTitle: t.ProblemTitle,
			Location:     t.Location,
			Status:       t.Status,
			Urgency:      t.Urgency,
			ScheduledAt:  *t.ScheduledAt,
		})
	}
	return entries, nil
}

// ListStaff returns the users who can be assigned to tickets
func (s *TicketService) ListStaff(ctx context.Context) ([]StaffMember, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, translateStoreError(err, ErrUserNotFound, "list staff")
	}

	staff := make([]StaffMember, 0, len(users))
	for _, u := range users {
		staff = append(staff, StaffMember{ID: u.ID, Name: u.Name, Email: u.Email, Department: u.Department})
	}
	return staff, nil
}

func recordActivity(tx *gorm.DB, ticketID uint, actorID *uint, action string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return tx.Create(&models.TicketActivity{
		TicketID: ticketID,
		UserID:   actorID,
		Action:   action,
		Details:  string(payload),
	}).Error
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func utcTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

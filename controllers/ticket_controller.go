package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-ticket-api/services"
	"go.uber.org/zap"
)

// TicketController serves the /tickets routes
type TicketController struct {
	tickets *services.TicketService
	log     *zap.Logger
}

// NewTicketController creates a ticket controller
func NewTicketController(tickets *services.TicketService, log *zap.Logger) *TicketController {
	return &TicketController{tickets: tickets, log: log}
}

// CreateTicket handles POST /api/v1/tickets - creates a ticket, with optional photos
// @Summary      Create a repair ticket
// @Description  Accepts multipart/form-data (fields plus up to 5 files under "attachments") or JSON without files. Invalid files are skipped and listed in rejected_files.
// @Tags         tickets
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reporter_name     formData  string  true   "Reporter name"
// @Param        problem_category  formData  string  true   "Problem category"
// @Param        problem_title     formData  string  true   "Problem title"
// @Param        location          formData  string  true   "Location"
// @Param        urgency           formData  string  false  "LOW, MEDIUM, HIGH or URGENT"
// @Param        attachments       formData  file    false  "Photos (jpeg, png, gif, webp; 5 MB each)"
// @Success      201  {object}  Response{data=services.CreateTicketResult}
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Router       /tickets [post]
func (tc *TicketController) CreateTicket(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var input services.CreateTicketInput
	if err := c.ShouldBind(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	if input.ScheduledAt != nil && input.ScheduledAt.IsZero() {
		input.ScheduledAt = nil
	}

	var files []*multipart.FileHeader
	if form := c.Request.MultipartForm; form != nil {
		files = form.File["attachments"]
	}

	result, err := tc.tickets.Create(c.Request.Context(), viewer.ID, input, files)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}

	respondOK(c, http.StatusCreated, result)
}

// ListTickets handles GET /api/v1/tickets
// @Summary      List tickets
// @Description  Admins see every ticket and may filter by owner; other users only see their own tickets.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status       query  string  false  "Status filter"
// @Param        urgency      query  string  false  "Urgency filter"
// @Param        assignee_id  query  int     false  "Assigned staff user id"
// @Param        user_id      query  int     false  "Owner id (admins only)"
// @Param        limit        query  int     false  "Max results (default 100, max 500)"
// @Success      200  {object}  Response{data=[]models.RepairTicket}
// @Failure      400  {object}  Response
// @Router       /tickets [get]
func (tc *TicketController) ListTickets(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var filter services.TicketFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	tickets, err := tc.tickets.FindAll(c.Request.Context(), viewer, filter)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}

	respondOK(c, http.StatusOK, tickets)
}

// GetStatistics handles GET /api/v1/tickets/statistics
// @Summary      Ticket counts per status
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=services.TicketStatistics}
// @Router       /tickets/statistics [get]
func (tc *TicketController) GetStatistics(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	stats, err := tc.tickets.GetStatistics(c.Request.Context(), viewer)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}

	respondOK(c, http.StatusOK, stats)
}

// GetSchedule handles GET /api/v1/tickets/schedule
// @Summary      Scheduled tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        from  query  string  false  "RFC3339 lower bound"
// @Param        to    query  string  false  "RFC3339 upper bound"
// @Success      200  {object}  Response{data=[]services.ScheduleEntry}
// @Router       /tickets/schedule [get]
func (tc *TicketController) GetSchedule(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var filter services.ScheduleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	entries, err := tc.tickets.GetSchedule(c.Request.Context(), viewer, filter)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}

	respondOK(c, http.StatusOK, entries)
}

// GetTicketByCode handles GET /api/v1/tickets/code/:code
// @Summary      Get a ticket by code
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        code  path  string  true  "Ticket code"
// @Success      200  {object}  Response{data=models.RepairTicket}
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Router       /tickets/code/{code} [get]
func (tc *TicketController) GetTicketByCode(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, http.StatusBadRequest, "INVALID_CODE", "Ticket code is required")
		return
	}

	ticket, err := tc.tickets.FindByCode(c.Request.Context(), code)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}
	if !viewer.CanView(ticket) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to view this ticket")
		return
	}

	respondOK(c, http.StatusOK, ticket)
}

// GetTicket handles GET /api/v1/tickets/:id
// @Summary      Get a ticket
// @Description  Visible to the owner, assigned staff and admins.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Ticket ID"
// @Success      200  {object}  Response{data=models.RepairTicket}
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Router       /tickets/{id} [get]
func (tc *TicketController) GetTicket(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	ticket, err := tc.tickets.FindOne(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}
	if !viewer.CanView(ticket) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to view this ticket")
		return
	}

	respondOK(c, http.StatusOK, ticket)
}

// UpdateTicket handles PATCH /api/v1/tickets/:id (admins only)
// @Summary      Update a ticket
// @Description  Only keys present in the body change. null clears nullable fields; assignee_ids replaces the whole assignee set.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                         true  "Ticket ID"
// @Param        payload  body  services.UpdateTicketInput  true  "Fields to change"
// @Success      200  {object}  Response{data=models.RepairTicket}
// @Failure      400  {object}  Response
// @Failure      404  {object}  Response
// @Router       /tickets/{id} [patch]
func (tc *TicketController) UpdateTicket(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondValidationError(c, err)
		return
	}
	input, err := services.ParseUpdateTicketInput(body)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	ticket, err := tc.tickets.Update(c.Request.Context(), id, input, viewer.ID)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}

	respondOK(c, http.StatusOK, ticket)
}

// CancelTicket handles DELETE /api/v1/tickets/:id
// @Summary      Cancel a ticket
// @Description  Sets the status to CANCELLED. Owners may cancel their own tickets, admins any ticket.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Ticket ID"
// @Success      200  {object}  Response{data=models.RepairTicket}
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Router       /tickets/{id} [delete]
func (tc *TicketController) CancelTicket(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	ticket, err := tc.tickets.Remove(c.Request.Context(), id, viewer)
	if err != nil {
		handleServiceError(c, tc.log, err)
		return
	}

	respondOK(c, http.StatusOK, ticket)
}

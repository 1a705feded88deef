package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-ticket-api/services"
	"go.uber.org/zap"
)

// UserController serves the /users routes
type UserController struct {
	tickets *services.TicketService
	log     *zap.Logger
}

// NewUserController creates a user controller
func NewUserController(tickets *services.TicketService, log *zap.Logger) *UserController {
	return &UserController{tickets: tickets, log: log}
}

// ListStaff handles GET /api/v1/users/staff - users that tickets can be assigned to
// @Summary      List staff
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]services.StaffMember}
// @Failure      403  {object}  Response
// @Router       /users/staff [get]
func (uc *UserController) ListStaff(c *gin.Context) {
	staff, err := uc.tickets.ListStaff(c.Request.Context())
	if err != nil {
		handleServiceError(c, uc.log, err)
		return
	}

	respondOK(c, http.StatusOK, staff)
}

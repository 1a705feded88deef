package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-ticket-api/middleware"
	"github.com/kendall-kelly/repair-ticket-api/services"
	"go.uber.org/zap"
)

// AuthController serves the /auth routes
type AuthController struct {
	auth *services.AuthService
	log  *zap.Logger
}

// NewAuthController creates an auth controller
func NewAuthController(auth *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{auth: auth, log: log}
}

// Register handles POST /api/v1/auth/register
// @Summary      Register a local account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  services.RegisterInput  true  "Account details"
// @Success      201  {object}  Response{data=services.Profile}
// @Failure      400  {object}  Response
// @Failure      409  {object}  Response
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	profile, err := ac.auth.Register(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, ac.log, err)
		return
	}

	respondOK(c, http.StatusCreated, profile)
}

// Login handles POST /api/v1/auth/login
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  services.LoginInput  true  "Credentials"
// @Success      200  {object}  Response{data=services.AuthResult}
// @Failure      401  {object}  Response
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		handleServiceError(c, ac.log, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// LineAuthURL handles GET /api/v1/auth/line
// @Summary      Start LINE login
// @Description  Returns the LINE authorize URL, or redirects to it when redirect=true.
// @Tags         auth
// @Produce      json
// @Param        redirect  query  bool  false  "Redirect instead of returning JSON"
// @Success      200  {object}  Response
// @Success      302
// @Router       /auth/line [get]
func (ac *AuthController) LineAuthURL(c *gin.Context) {
	authURL, err := ac.auth.GetLineAuthURL(c.Request.Context())
	if err != nil {
		handleServiceError(c, ac.log, err)
		return
	}

	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusFound, authURL)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"auth_url": authURL})
}

// LineCallback handles GET /api/v1/auth/line/callback
// @Summary      Complete LINE login
// @Tags         auth
// @Produce      json
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "State from the authorize step"
// @Success      200  {object}  Response{data=services.AuthResult}
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Router       /auth/line/callback [get]
func (ac *AuthController) LineCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		respondError(c, http.StatusBadRequest, "LINE_LOGIN_CANCELLED", "LINE login was not completed: "+reason)
		return
	}

	result, err := ac.auth.LineCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		handleServiceError(c, ac.log, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// GetProfile handles GET /api/v1/auth/profile
// @Summary      Current user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=services.Profile}
// @Failure      404  {object}  Response
// @Router       /auth/profile [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	profile, err := ac.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, ac.log, err)
		return
	}

	respondOK(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/auth/profile
// @Summary      Update the current user's profile
// @Description  Empty fields are ignored.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  services.UpdateProfileInput  true  "Profile changes"
// @Success      200  {object}  Response{data=services.Profile}
// @Failure      400  {object}  Response
// @Router       /auth/profile [put]
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var input services.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	profile, err := ac.auth.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(c, ac.log, err)
		return
	}

	respondOK(c, http.StatusOK, profile)
}

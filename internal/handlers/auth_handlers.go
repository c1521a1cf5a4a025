package handlers

import (
	"net/http"

	"canchas_backend/internal/middleware"
	"canchas_backend/internal/models"
	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login handles administrator login.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respondBindError(c, err, "Login")
		return
	}

	authResp, err := h.authService.Login(c.Request.Context(), creds)
	if err != nil {
		respondServiceError(c, err, "Login")
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// RegisterAdministrator lets an authenticated administrator add another one.
func (h *AuthHandler) RegisterAdministrator(c *gin.Context) {
	var req services.RegisterAdministratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "RegisterAdministrator")
		return
	}
	admin, err := h.authService.RegisterAdministrator(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "RegisterAdministrator")
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// GetCurrentUser retrieves the profile of the currently authenticated administrator.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	adminID := c.GetInt64(middleware.ContextUserID)
	if adminID == 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"User not authenticated.", "Missing user ID in context"))
		return
	}

	admin, err := h.authService.GetProfile(c.Request.Context(), adminID)
	if err != nil {
		respondServiceError(c, err, "GetCurrentUser")
		return
	}
	c.JSON(http.StatusOK, admin)
}

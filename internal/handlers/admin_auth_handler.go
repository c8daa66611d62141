package handlers

import (
	"errors"
	"log"
	"net/http"

	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminAuthHandler serves the admin dashboard identity lifecycle. Admin
// sessions record the requester's IP and user agent and live for 8 hours.
type AdminAuthHandler struct {
	adminService *services.AdminService
}

func NewAdminAuthHandler(adminService *services.AdminService) *AdminAuthHandler {
	return &AdminAuthHandler{adminService: adminService}
}

type AdminLoginResponse struct {
	Token string       `json:"token"`
	Admin AdminProfile `json:"admin"`
}

// Login authenticates an admin
// @Summary Admin login
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AdminLoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/admin/auth/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, role, session, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{Token: session.Token, Admin: toAdminProfile(admin, role)})
}

func (h *AdminAuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	if err := h.adminService.Logout(c.Request.Context(), token); err != nil {
		log.Printf("Admin logout for absent session: %v", err)
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (h *AdminAuthHandler) Me(c *gin.Context) {
	admin := c.MustGet(middleware.CtxAdmin).(*models.Admin)
	role := c.MustGet(middleware.CtxAdminRole).(*models.AdminRole)
	c.JSON(http.StatusOK, gin.H{"admin": toAdminProfile(admin, role)})
}

package handlers

import (
	"errors"
	"log"
	"net/http"

	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the client portal identity lifecycle.
type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token  string        `json:"token"`
	Client ClientProfile `json:"client"`
}

// Register creates a client account and opens a session
// @Summary Register a new client
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Client registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	client, session, err := h.authService.Register(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password, req.Company, req.Phone)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: session.Token, Client: toClientProfile(client)})
}

// Login verifies credentials and opens a session
// @Summary Client login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	client, session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: session.Token, Client: toClientProfile(client)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		// A token that is already gone is a successful logout.
		log.Printf("Logout for absent session: %v", err)
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	client := c.MustGet(middleware.CtxClient).(*models.Client)
	c.JSON(http.StatusOK, gin.H{"client": toClientProfile(client)})
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// RequestPasswordReset always answers the same way whether or not the email
// exists, so accounts cannot be enumerated. The token is delivered out of
// band; here it is only logged.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err == nil {
		// TODO: deliver the token via the transactional email sender once it
		// lands. The token itself must never reach the logs.
		log.Printf("Password reset token issued for %s", req.Email)
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "If the account exists, a reset link has been sent"})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirm
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid or expired reset token"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Password updated"})
}

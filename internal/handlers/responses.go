package handlers

import (
	"errors"
	"net/http"
	"time"

	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// bindJSON parses and validates the request body, answering a 400 with
// field-level errors on failure. Returns false when the request was rejected.
func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+": failed on '"+fe.Tag()+"'")
			}
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Errors: fields})
			return false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return false
	}
	return true
}

// storageError maps storage sentinel errors onto the response taxonomy.
func storageError(c *gin.Context, err error, subject string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: subject + " not found"})
	case errors.Is(err, storage.ErrDuplicate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: subject + " already exists"})
	case errors.Is(err, storage.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Message: subject + " is in use"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// ClientProfile is the public shape of a client account. The password hash
// never leaves the server.
type ClientProfile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toClientProfile(c *models.Client) ClientProfile {
	return ClientProfile{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Company:   c.Company,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

type AdminProfile struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	RoleID      string     `json:"roleId"`
	RoleName    string     `json:"roleName,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toAdminProfile(a *models.Admin, role *models.AdminRole) AdminProfile {
	p := AdminProfile{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		RoleID:      a.RoleID,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
	if role != nil {
		p.RoleName = role.Name
		p.Permissions = role.Permissions
	}
	return p
}

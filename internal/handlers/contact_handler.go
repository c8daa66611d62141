package handlers

import (
	"net/http"

	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

// ContactHandler takes public contact form submissions and exposes them to
// staff. Submissions are append-only; there is no update or delete path.
type ContactHandler struct {
	store storage.Storage
}

func NewContactHandler(store storage.Storage) *ContactHandler {
	return &ContactHandler{store: store}
}

type ContactRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Service   string `json:"service"`
	Message   string `json:"message" binding:"required"`
}

// Submit records a contact form submission
// @Summary Submit contact form
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact form data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	submission := &models.ContactSubmission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Service:   req.Service,
		Message:   req.Message,
	}
	if err := h.store.CreateContactSubmission(c.Request.Context(), submission); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to submit"})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Thanks for reaching out, we'll get back to you shortly"})
}

func (h *ContactHandler) List(c *gin.Context) {
	submissions, err := h.store.ListContactSubmissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

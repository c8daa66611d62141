package handlers

import (
	"net/http"

	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves a client's notification feed. Ownership is
// enforced on every row: one client can never touch another's notifications.
type NotificationHandler struct {
	store storage.Storage
}

func NewNotificationHandler(store storage.Storage) *NotificationHandler {
	return &NotificationHandler{store: store}
}

func (h *NotificationHandler) List(c *gin.Context) {
	client := c.MustGet(middleware.CtxClient).(*models.Client)

	notifications, err := h.store.ListNotificationsByUser(c.Request.Context(), client.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	client := c.MustGet(middleware.CtxClient).(*models.Client)

	notification, err := h.store.GetNotification(c.Request.Context(), c.Param("id"))
	if err != nil || notification.UserID != client.ID {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Notification not found"})
		return
	}

	notification, err = h.store.MarkNotificationRead(c.Request.Context(), notification.ID)
	if err != nil {
		storageError(c, err, "Notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	client := c.MustGet(middleware.CtxClient).(*models.Client)

	notification, err := h.store.GetNotification(c.Request.Context(), c.Param("id"))
	if err != nil || notification.UserID != client.ID {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Notification not found"})
		return
	}

	if err := h.store.DeleteNotification(c.Request.Context(), notification.ID); err != nil {
		storageError(c, err, "Notification")
		return
	}
	c.Status(http.StatusNoContent)
}

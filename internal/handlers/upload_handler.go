package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tutsin-digital/configs"
	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".pdf": true, ".doc": true, ".docx": true, ".txt": true,
}

// UploadHandler stores admin file uploads on disk with a record in storage.
type UploadHandler struct {
	store storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload accepts one multipart file up to the configured size cap
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/files/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	admin := c.MustGet(middleware.CtxAdmin).(*models.Admin)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "File is required"})
		return
	}
	if file.Size > configs.AppConfig.MaxUploadSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("File exceeds the %d byte limit", configs.AppConfig.MaxUploadSize),
		})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "File type not allowed"})
		return
	}

	if err := os.MkdirAll(configs.AppConfig.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to store file"})
		return
	}
	storedName := uuid.New().String() + ext
	dst := filepath.Join(configs.AppConfig.UploadDir, storedName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to store file"})
		return
	}

	upload := &models.FileUpload{
		FileName:     storedName,
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		Size:         file.Size,
		Path:         dst,
		UploadedBy:   admin.ID,
	}
	if err := h.store.CreateFileUpload(c.Request.Context(), upload); err != nil {
		os.Remove(dst)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": upload})
}

func (h *UploadHandler) List(c *gin.Context) {
	files, err := h.store.ListFileUploads(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *UploadHandler) Delete(c *gin.Context) {
	upload, err := h.store.GetFileUpload(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "File")
		return
	}

	if err := h.store.DeleteFileUpload(c.Request.Context(), upload.ID); err != nil {
		storageError(c, err, "File")
		return
	}
	if err := os.Remove(upload.Path); err != nil && !os.IsNotExist(err) {
		// Record is gone; an orphaned file on disk is the lesser problem.
		log.Printf("Failed to remove uploaded file: %v", err)
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	store storage.Storage
}

func NewBlogHandler(store storage.Storage) *BlogHandler {
	return &BlogHandler{store: store}
}

type CreateBlogPostRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Excerpt   string `json:"excerpt"`
	Category  string `json:"category"`
	ImageURL  string `json:"imageUrl"`
	Published bool   `json:"published"`
}

type UpdateBlogPostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Excerpt   *string `json:"excerpt"`
	Category  *string `json:"category"`
	ImageURL  *string `json:"imageUrl"`
	Published *bool   `json:"published"`
}

// ListPublished serves the public blog: published posts only.
func (h *BlogHandler) ListPublished(c *gin.Context) {
	posts, err := h.store.ListBlogPosts(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPublished returns one public post; unpublished posts are absent here.
func (h *BlogHandler) GetPublished(c *gin.Context) {
	post, err := h.store.GetBlogPost(c.Request.Context(), c.Param("id"))
	if err != nil || !post.Published {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// ListAll is the admin view and includes unpublished drafts.
func (h *BlogHandler) ListAll(c *gin.Context) {
	posts, err := h.store.ListBlogPosts(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.store.GetBlogPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req CreateBlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post := &models.BlogPost{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	}
	if err := h.store.CreateBlogPost(c.Request.Context(), post); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req UpdateBlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.store.UpdateBlogPost(c.Request.Context(), c.Param("id"), storage.BlogPostUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		storageError(c, err, "Post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteBlogPost(c.Request.Context(), c.Param("id")); err != nil {
		storageError(c, err, "Post")
		return
	}
	c.Status(http.StatusNoContent)
}

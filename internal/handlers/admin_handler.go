package handlers

import (
	"net/http"

	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

// AdminHandler manages admin accounts, roles and the client directory.
type AdminHandler struct {
	store storage.Storage
}

func NewAdminHandler(store storage.Storage) *AdminHandler {
	return &AdminHandler{store: store}
}

type CreateAdminRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	RoleID    string `json:"roleId" binding:"required"`
}

type UpdateAdminRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	RoleID    *string `json:"roleId"`
	IsActive  *bool   `json:"isActive"`
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.store.ListAdmins(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list admins"})
		return
	}
	roles, err := h.store.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list admins"})
		return
	}
	byID := make(map[string]*models.AdminRole, len(roles))
	for i := range roles {
		byID[roles[i].ID] = &roles[i]
	}

	out := make([]AdminProfile, 0, len(admins))
	for i := range admins {
		out = append(out, toAdminProfile(&admins[i], byID[admins[i].RoleID]))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

func (h *AdminHandler) GetAdmin(c *gin.Context) {
	admin, err := h.store.GetAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Admin")
		return
	}
	role, _ := h.store.GetRole(c.Request.Context(), admin.RoleID)
	c.JSON(http.StatusOK, gin.H{"admin": toAdminProfile(admin, role)})
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.store.GetRole(c.Request.Context(), req.RoleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unknown role"})
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to create admin"})
		return
	}

	admin := &models.Admin{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hashed,
		RoleID:    role.ID,
		IsActive:  true,
	}
	if err := h.store.CreateAdmin(c.Request.Context(), admin); err != nil {
		storageError(c, err, "Admin")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"admin": toAdminProfile(admin, role)})
}

func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	var req UpdateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	update := storage.AdminUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		RoleID:    req.RoleID,
		IsActive:  req.IsActive,
	}
	if req.Password != nil {
		// The guard keeps an already-hashed value from being hashed twice.
		prepared, err := services.PreparePassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to update admin"})
			return
		}
		update.Password = &prepared
	}
	if req.RoleID != nil {
		if _, err := h.store.GetRole(c.Request.Context(), *req.RoleID); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unknown role"})
			return
		}
	}

	admin, err := h.store.UpdateAdmin(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		storageError(c, err, "Admin")
		return
	}
	role, _ := h.store.GetRole(c.Request.Context(), admin.RoleID)
	c.JSON(http.StatusOK, gin.H{"admin": toAdminProfile(admin, role)})
}

func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	self := c.MustGet(middleware.CtxAdmin).(*models.Admin)
	id := c.Param("id")
	if id == self.ID {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cannot delete your own account"})
		return
	}

	if err := h.store.DeleteAdmin(c.Request.Context(), id); err != nil {
		storageError(c, err, "Admin")
		return
	}
	c.Status(http.StatusNoContent)
}

// Roles

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

func validPermissions(perms []string) bool {
	known := make(map[string]bool)
	for _, p := range models.AllPermissions() {
		known[p] = true
	}
	for _, p := range perms {
		if !known[p] {
			return false
		}
	}
	return true
}

func (h *AdminHandler) ListRoles(c *gin.Context) {
	roles, err := h.store.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles, "permissions": models.AllPermissions()})
}

func (h *AdminHandler) GetRole(c *gin.Context) {
	role, err := h.store.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *AdminHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validPermissions(req.Permissions) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unknown permission name"})
		return
	}

	role := &models.AdminRole{
		Name:        req.Name,
		Description: req.Description,
		Kind:        models.RoleKindStandard,
		Permissions: models.StringList(req.Permissions),
	}
	if err := h.store.CreateRole(c.Request.Context(), role); err != nil {
		storageError(c, err, "Role")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"role": role})
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	update := storage.RoleUpdate{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Permissions != nil {
		if !validPermissions(*req.Permissions) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unknown permission name"})
			return
		}
		perms := models.StringList(*req.Permissions)
		update.Permissions = &perms
	}

	role, err := h.store.UpdateRole(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		storageError(c, err, "Role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *AdminHandler) DeleteRole(c *gin.Context) {
	if err := h.store.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		storageError(c, err, "Role")
		return
	}
	c.Status(http.StatusNoContent)
}

// Clients directory (admin view)

func (h *AdminHandler) ListClients(c *gin.Context) {
	clients, err := h.store.ListClients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list clients"})
		return
	}
	out := make([]ClientProfile, 0, len(clients))
	for i := range clients {
		out = append(out, toClientProfile(&clients[i]))
	}
	c.JSON(http.StatusOK, gin.H{"clients": out})
}

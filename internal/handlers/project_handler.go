package handlers

import (
	"net/http"
	"time"

	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

// ProjectHandler serves the project/milestone/task/comment domain for both
// surfaces: clients see their own projects, admins with manage_projects see
// and mutate everything.
type ProjectHandler struct {
	store    storage.Storage
	notifier *services.NotificationService
}

func NewProjectHandler(store storage.Storage, notifier *services.NotificationService) *ProjectHandler {
	return &ProjectHandler{store: store, notifier: notifier}
}

// actor is whichever identity the auth middleware resolved.
type actor struct {
	client *models.Client
	admin  *models.Admin
	role   *models.AdminRole
}

func currentActor(c *gin.Context) actor {
	var a actor
	if v, ok := c.Get(middleware.CtxClient); ok {
		a.client = v.(*models.Client)
	}
	if v, ok := c.Get(middleware.CtxAdmin); ok {
		a.admin = v.(*models.Admin)
	}
	if v, ok := c.Get(middleware.CtxAdminRole); ok {
		a.role = v.(*models.AdminRole)
	}
	return a
}

func (a actor) canManageProjects() bool {
	return a.admin != nil && services.HasPermission(a.role, models.PermManageProjects)
}

func (a actor) ownsProject(p *models.Project) bool {
	return a.client != nil && p.ClientID == a.client.ID
}

// loadProjectFor fetches the project and answers 404/403 when the actor may
// not see it. Clients get 404 (not 403) for foreign projects so project IDs
// are not probeable.
func (h *ProjectHandler) loadProjectFor(c *gin.Context, a actor, projectID string) (*models.Project, bool) {
	project, err := h.store.GetProject(c.Request.Context(), projectID)
	if err != nil {
		storageError(c, err, "Project")
		return nil, false
	}
	if !a.canManageProjects() && !a.ownsProject(project) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Project not found"})
		return nil, false
	}
	return project, true
}

type ProjectResponse struct {
	models.Project
	Progress int `json:"progress"`
}

func (h *ProjectHandler) withProgress(c *gin.Context, p models.Project) ProjectResponse {
	tasks, _ := h.store.ListTasksByProject(c.Request.Context(), p.ID, nil)
	milestones, _ := h.store.ListMilestonesByProject(c.Request.Context(), p.ID)
	return ProjectResponse{Project: p, Progress: services.ProjectProgress(tasks, milestones)}
}

type CreateProjectRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ClientID    string     `json:"clientId" binding:"required"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Budget      int64      `json:"budget"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type UpdateProjectRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Budget      *int64     `json:"budget"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// ListProjects returns the actor's visible projects with derived progress
// @Summary List projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	a := currentActor(c)

	var (
		projects []models.Project
		err      error
	)
	switch {
	case a.canManageProjects():
		projects, err = h.store.ListProjects(c.Request.Context())
	case a.client != nil:
		projects, err = h.store.ListProjectsByClient(c.Request.Context(), a.client.ID)
	default:
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list projects"})
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, h.withProgress(c, p))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	a := currentActor(c)
	project, ok := h.loadProjectFor(c, a, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": h.withProgress(c, *project)})
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	status := models.ProjectActive
	if req.Status != "" {
		status = models.ProjectStatus(req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid project status"})
			return
		}
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid priority"})
			return
		}
	}
	if _, err := h.store.GetClient(c.Request.Context(), req.ClientID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unknown client"})
		return
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      status,
		Priority:    priority,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if status == models.ProjectCompleted {
		now := time.Now()
		project.CompletedAt = &now
	}
	if err := h.store.CreateProject(c.Request.Context(), project); err != nil {
		storageError(c, err, "Project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	update := storage.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid project status"})
			return
		}
		services.ApplyProjectStatus(&update, status)
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid priority"})
			return
		}
		update.Priority = &priority
	}

	project, err := h.store.UpdateProject(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		storageError(c, err, "Project")
		return
	}

	if req.Status != nil && project.Status == models.ProjectCompleted {
		h.notifier.Notify(c.Request.Context(), project.ClientID,
			"Project completed", "Your project \""+project.Title+"\" has been completed.",
			"/portal/projects/"+project.ID)
	}

	c.JSON(http.StatusOK, gin.H{"project": h.withProgress(c, *project)})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	if err := h.store.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		storageError(c, err, "Project")
		return
	}
	c.Status(http.StatusNoContent)
}

// Milestones

type CreateMilestoneRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	SortOrder   int        `json:"order"`
}

type UpdateMilestoneRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	SortOrder   *int       `json:"order"`
}

func (h *ProjectHandler) ListMilestones(c *gin.Context) {
	a := currentActor(c)
	project, ok := h.loadProjectFor(c, a, c.Param("id"))
	if !ok {
		return
	}

	milestones, err := h.store.ListMilestonesByProject(c.Request.Context(), project.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list milestones"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

func (h *ProjectHandler) CreateMilestone(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	var req CreateMilestoneRequest
	if !bindJSON(c, &req) {
		return
	}

	status := models.MilestonePending
	if req.Status != "" {
		status = models.MilestoneStatus(req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid milestone status"})
			return
		}
	}

	milestone := &models.ProjectMilestone{
		ProjectID:   c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
		SortOrder:   req.SortOrder,
	}
	if status == models.MilestoneCompleted {
		now := time.Now()
		milestone.CompletedAt = &now
	}
	if err := h.store.CreateMilestone(c.Request.Context(), milestone); err != nil {
		storageError(c, err, "Project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"milestone": milestone})
}

func (h *ProjectHandler) UpdateMilestone(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	var req UpdateMilestoneRequest
	if !bindJSON(c, &req) {
		return
	}

	update := storage.MilestoneUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		SortOrder:   req.SortOrder,
	}
	if req.Status != nil {
		status := models.MilestoneStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid milestone status"})
			return
		}
		services.ApplyMilestoneStatus(&update, status)
	}

	milestone, err := h.store.UpdateMilestone(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		storageError(c, err, "Milestone")
		return
	}

	if req.Status != nil && milestone.Status == models.MilestoneCompleted {
		if project, err := h.store.GetProject(c.Request.Context(), milestone.ProjectID); err == nil {
			h.notifier.Notify(c.Request.Context(), project.ClientID,
				"Milestone completed", "Milestone \""+milestone.Title+"\" has been completed.",
				"/portal/projects/"+project.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"milestone": milestone})
}

func (h *ProjectHandler) DeleteMilestone(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	if err := h.store.DeleteMilestone(c.Request.Context(), c.Param("id")); err != nil {
		storageError(c, err, "Milestone")
		return
	}
	c.Status(http.StatusNoContent)
}

// Tasks

type CreateTaskRequest struct {
	MilestoneID    *string    `json:"milestoneId"`
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	EstimatedHours int        `json:"estimatedHours"`
	DueDate        *time.Time `json:"dueDate"`
	SortOrder      int        `json:"order"`
}

type UpdateTaskRequest struct {
	MilestoneID    *string    `json:"milestoneId"`
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	EstimatedHours *int       `json:"estimatedHours"`
	ActualHours    *int       `json:"actualHours"`
	DueDate        *time.Time `json:"dueDate"`
	SortOrder      *int       `json:"order"`
}

func (h *ProjectHandler) ListTasks(c *gin.Context) {
	a := currentActor(c)
	project, ok := h.loadProjectFor(c, a, c.Param("id"))
	if !ok {
		return
	}

	var milestoneID *string
	if v := c.Query("milestoneId"); v != "" {
		milestoneID = &v
	}

	tasks, err := h.store.ListTasksByProject(c.Request.Context(), project.ID, milestoneID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *ProjectHandler) CreateTask(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	status := models.TaskTodo
	if req.Status != "" {
		status = models.TaskStatus(req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid task status"})
			return
		}
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid priority"})
			return
		}
	}
	if req.MilestoneID != nil {
		milestone, err := h.store.GetMilestone(c.Request.Context(), *req.MilestoneID)
		if err != nil || milestone.ProjectID != c.Param("id") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unknown milestone"})
			return
		}
	}

	task := &models.ProjectTask{
		ProjectID:      c.Param("id"),
		MilestoneID:    req.MilestoneID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		EstimatedHours: req.EstimatedHours,
		DueDate:        req.DueDate,
		SortOrder:      req.SortOrder,
	}
	if status == models.TaskCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}
	if err := h.store.CreateTask(c.Request.Context(), task); err != nil {
		storageError(c, err, "Project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// UpdateTask allows full edits for admins with manage_projects; the owning
// client may only move the task's status.
func (h *ProjectHandler) UpdateTask(c *gin.Context) {
	a := currentActor(c)

	task, err := h.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Task")
		return
	}
	project, ok := h.loadProjectFor(c, a, task.ProjectID)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	var update storage.TaskUpdate
	if a.canManageProjects() {
		update = storage.TaskUpdate{
			MilestoneID:    req.MilestoneID,
			Title:          req.Title,
			Description:    req.Description,
			EstimatedHours: req.EstimatedHours,
			ActualHours:    req.ActualHours,
			DueDate:        req.DueDate,
			SortOrder:      req.SortOrder,
		}
		if req.Priority != nil {
			priority := models.Priority(*req.Priority)
			if !priority.Valid() {
				c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid priority"})
				return
			}
			update.Priority = &priority
		}
	} else if req.Title != nil || req.Description != nil || req.MilestoneID != nil ||
		req.Priority != nil || req.EstimatedHours != nil || req.ActualHours != nil ||
		req.DueDate != nil || req.SortOrder != nil {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Clients may only update task status"})
		return
	}

	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid task status"})
			return
		}
		services.ApplyTaskStatus(&update, status)
	}

	task, err = h.store.UpdateTask(c.Request.Context(), task.ID, update)
	if err != nil {
		storageError(c, err, "Task")
		return
	}

	if a.canManageProjects() && req.Status != nil && task.Status == models.TaskCompleted {
		h.notifier.Notify(c.Request.Context(), project.ClientID,
			"Task completed", "Task \""+task.Title+"\" has been completed.",
			"/portal/projects/"+project.ID)
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *ProjectHandler) GetTask(c *gin.Context) {
	a := currentActor(c)
	task, err := h.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Task")
		return
	}
	if _, ok := h.loadProjectFor(c, a, task.ProjectID); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *ProjectHandler) GetMilestone(c *gin.Context) {
	a := currentActor(c)
	milestone, err := h.store.GetMilestone(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Milestone")
		return
	}
	if _, ok := h.loadProjectFor(c, a, milestone.ProjectID); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestone": milestone})
}

func (h *ProjectHandler) DeleteTask(c *gin.Context) {
	a := currentActor(c)
	if !a.canManageProjects() {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	if err := h.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		storageError(c, err, "Task")
		return
	}
	c.Status(http.StatusNoContent)
}

// Comments

type CreateCommentRequest struct {
	TaskID      *string `json:"taskId"`
	MilestoneID *string `json:"milestoneId"`
	Content     string  `json:"content" binding:"required"`
	IsInternal  bool    `json:"isInternal"`
}

func (h *ProjectHandler) ListComments(c *gin.Context) {
	a := currentActor(c)
	project, ok := h.loadProjectFor(c, a, c.Param("id"))
	if !ok {
		return
	}

	filter := storage.CommentFilter{ProjectID: project.ID}
	if v := c.Query("taskId"); v != "" {
		filter.TaskID = &v
	}
	if v := c.Query("milestoneId"); v != "" {
		filter.MilestoneID = &v
	}
	// Only staff may see internal comments, regardless of the query flag.
	filter.IncludeInternal = a.admin != nil && c.Query("includeInternal") == "true"

	comments, err := h.store.ListComments(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to list comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *ProjectHandler) CreateComment(c *gin.Context) {
	a := currentActor(c)
	project, ok := h.loadProjectFor(c, a, c.Param("id"))
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.TaskID != nil && req.MilestoneID != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Comment may attach to a task or a milestone, not both"})
		return
	}

	comment := &models.ProjectComment{
		ProjectID:   project.ID,
		TaskID:      req.TaskID,
		MilestoneID: req.MilestoneID,
		Content:     req.Content,
	}
	switch {
	case a.admin != nil:
		comment.AuthorID = a.admin.ID
		comment.IsInternal = req.IsInternal
	default:
		comment.AuthorID = a.client.ID
		// Clients cannot write internal comments.
		comment.IsInternal = false
	}

	if err := h.store.CreateComment(c.Request.Context(), comment); err != nil {
		storageError(c, err, "Project")
		return
	}

	if a.admin != nil && !comment.IsInternal {
		h.notifier.Notify(c.Request.Context(), project.ClientID,
			"New comment", "A new comment was posted on \""+project.Title+"\".",
			"/portal/projects/"+project.ID)
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

type UpdateCommentRequest struct {
	Content    *string `json:"content"`
	IsInternal *bool   `json:"isInternal"`
}

// UpdateComment lets the author (or staff) edit a comment. The internal flag
// is staff-only, like on create.
func (h *ProjectHandler) UpdateComment(c *gin.Context) {
	a := currentActor(c)
	comment, err := h.store.GetComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Comment")
		return
	}

	authorized := a.canManageProjects() || (a.client != nil && comment.AuthorID == a.client.ID)
	if !authorized {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	var req UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	update := storage.CommentUpdate{Content: req.Content}
	if a.admin != nil {
		update.IsInternal = req.IsInternal
	}

	comment, err = h.store.UpdateComment(c.Request.Context(), comment.ID, update)
	if err != nil {
		storageError(c, err, "Comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *ProjectHandler) DeleteComment(c *gin.Context) {
	a := currentActor(c)
	comment, err := h.store.GetComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, err, "Comment")
		return
	}

	authorized := a.canManageProjects() || (a.client != nil && comment.AuthorID == a.client.ID)
	if !authorized {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return
	}

	if err := h.store.DeleteComment(c.Request.Context(), comment.ID); err != nil {
		storageError(c, err, "Comment")
		return
	}
	c.Status(http.StatusNoContent)
}

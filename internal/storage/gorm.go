package storage

import (
	"context"
	"errors"
	"time"

	"tutsin-digital/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStorage is the production backend. Row-level atomicity only; no
// multi-statement transactions (last write wins on concurrent updates).
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *GormStorage) deleteByID(ctx context.Context, model interface{}, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clients

func (g *GormStorage) CreateClient(ctx context.Context, c *models.Client) error {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Client{}).Where("email = ?", c.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	c.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(c).Error
}

func (g *GormStorage) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := g.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStorage) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	if err := g.db.WithContext(ctx).First(&c, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStorage) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	err := g.db.WithContext(ctx).Order("created_at").Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateClient(ctx context.Context, id string, u ClientUpdate) (*models.Client, error) {
	updates := map[string]interface{}{}
	if u.FirstName != nil {
		updates["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		updates["last_name"] = *u.LastName
	}
	if u.Password != nil {
		updates["password"] = *u.Password
	}
	if u.Company != nil {
		updates["company"] = *u.Company
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if err := g.applyUpdates(ctx, &models.Client{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetClient(ctx, id)
}

func (g *GormStorage) DeleteClient(ctx context.Context, id string) error {
	return g.deleteByID(ctx, &models.Client{}, id)
}

func (g *GormStorage) applyUpdates(ctx context.Context, model interface{}, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		// Touch nothing; the caller re-reads the row.
		var count int64
		if err := g.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	}
	res := g.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Client sessions

func (g *GormStorage) CreateClientSession(ctx context.Context, s *models.ClientSession) error {
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *GormStorage) GetClientSession(ctx context.Context, token string) (*models.ClientSession, error) {
	var s models.ClientSession
	err := g.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *GormStorage) DeleteClientSession(ctx context.Context, token string) error {
	res := g.db.WithContext(ctx).Where("token = ?", token).Delete(&models.ClientSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Admins

func (g *GormStorage) CreateAdmin(ctx context.Context, a *models.Admin) error {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Admin{}).Where("email = ?", a.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	a.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(a).Error
}

func (g *GormStorage) GetAdmin(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	if err := g.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (g *GormStorage) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := g.db.WithContext(ctx).First(&a, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (g *GormStorage) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var out []models.Admin
	err := g.db.WithContext(ctx).Order("created_at").Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateAdmin(ctx context.Context, id string, u AdminUpdate) (*models.Admin, error) {
	updates := map[string]interface{}{}
	if u.Email != nil {
		var count int64
		if err := g.db.WithContext(ctx).Model(&models.Admin{}).
			Where("email = ? AND id <> ?", *u.Email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicate
		}
		updates["email"] = *u.Email
	}
	if u.FirstName != nil {
		updates["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		updates["last_name"] = *u.LastName
	}
	if u.Password != nil {
		updates["password"] = *u.Password
	}
	if u.RoleID != nil {
		updates["role_id"] = *u.RoleID
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.LastLoginAt != nil {
		updates["last_login_at"] = *u.LastLoginAt
	}
	if err := g.applyUpdates(ctx, &models.Admin{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetAdmin(ctx, id)
}

func (g *GormStorage) DeleteAdmin(ctx context.Context, id string) error {
	return g.deleteByID(ctx, &models.Admin{}, id)
}

// Admin roles

func (g *GormStorage) CreateRole(ctx context.Context, r *models.AdminRole) error {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.AdminRole{}).Where("name = ?", r.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	r.ID = uuid.New().String()
	if r.Kind == "" {
		r.Kind = models.RoleKindStandard
	}
	return g.db.WithContext(ctx).Create(r).Error
}

func (g *GormStorage) GetRole(ctx context.Context, id string) (*models.AdminRole, error) {
	var r models.AdminRole
	if err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *GormStorage) GetRoleByName(ctx context.Context, name string) (*models.AdminRole, error) {
	var r models.AdminRole
	if err := g.db.WithContext(ctx).First(&r, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *GormStorage) ListRoles(ctx context.Context) ([]models.AdminRole, error) {
	var out []models.AdminRole
	err := g.db.WithContext(ctx).Order("created_at").Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateRole(ctx context.Context, id string, u RoleUpdate) (*models.AdminRole, error) {
	role, err := g.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.Kind == models.RoleKindSuper && (u.Name != nil || u.Permissions != nil) {
		return nil, ErrConflict
	}
	updates := map[string]interface{}{}
	if u.Name != nil && *u.Name != role.Name {
		var count int64
		if err := g.db.WithContext(ctx).Model(&models.AdminRole{}).
			Where("name = ? AND id <> ?", *u.Name, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicate
		}
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Permissions != nil {
		updates["permissions"] = *u.Permissions
	}
	if err := g.applyUpdates(ctx, &models.AdminRole{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetRole(ctx, id)
}

func (g *GormStorage) DeleteRole(ctx context.Context, id string) error {
	role, err := g.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if role.Kind == models.RoleKindSuper {
		return ErrConflict
	}
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Admin{}).Where("role_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return g.deleteByID(ctx, &models.AdminRole{}, id)
}

// Admin sessions

func (g *GormStorage) CreateAdminSession(ctx context.Context, s *models.AdminSession) error {
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *GormStorage) GetAdminSession(ctx context.Context, token string) (*models.AdminSession, error) {
	var s models.AdminSession
	err := g.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *GormStorage) DeleteAdminSession(ctx context.Context, token string) error {
	res := g.db.WithContext(ctx).Where("token = ?", token).Delete(&models.AdminSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	purged := 0
	res := g.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.ClientSession{})
	if res.Error != nil {
		return purged, res.Error
	}
	purged += int(res.RowsAffected)
	res = g.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.AdminSession{})
	if res.Error != nil {
		return purged, res.Error
	}
	purged += int(res.RowsAffected)
	return purged, nil
}

// Blog

func (g *GormStorage) CreateBlogPost(ctx context.Context, p *models.BlogPost) error {
	p.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *GormStorage) GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error) {
	var p models.BlogPost
	if err := g.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *GormStorage) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	var out []models.BlogPost
	q := g.db.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateBlogPost(ctx context.Context, id string, u BlogPostUpdate) (*models.BlogPost, error) {
	updates := map[string]interface{}{}
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.Excerpt != nil {
		updates["excerpt"] = *u.Excerpt
	}
	if u.Category != nil {
		updates["category"] = *u.Category
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.Published != nil {
		updates["published"] = *u.Published
	}
	if err := g.applyUpdates(ctx, &models.BlogPost{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetBlogPost(ctx, id)
}

func (g *GormStorage) DeleteBlogPost(ctx context.Context, id string) error {
	return g.deleteByID(ctx, &models.BlogPost{}, id)
}

// Contact submissions

func (g *GormStorage) CreateContactSubmission(ctx context.Context, s *models.ContactSubmission) error {
	s.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *GormStorage) ListContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	var out []models.ContactSubmission
	err := g.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// Projects

func (g *GormStorage) CreateProject(ctx context.Context, p *models.Project) error {
	p.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *GormStorage) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := g.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *GormStorage) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := g.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (g *GormStorage) ListProjectsByClient(ctx context.Context, clientID string) ([]models.Project, error) {
	var out []models.Project
	err := g.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateProject(ctx context.Context, id string, u ProjectUpdate) (*models.Project, error) {
	updates := map[string]interface{}{}
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Priority != nil {
		updates["priority"] = *u.Priority
	}
	if u.Budget != nil {
		updates["budget"] = *u.Budget
	}
	if u.StartDate != nil {
		updates["start_date"] = *u.StartDate
	}
	if u.EndDate != nil {
		updates["end_date"] = *u.EndDate
	}
	if u.CompletedAt != nil {
		updates["completed_at"] = *u.CompletedAt
	} else if u.ClearCompletedAt {
		updates["completed_at"] = nil
	}
	if err := g.applyUpdates(ctx, &models.Project{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetProject(ctx, id)
}

func (g *GormStorage) DeleteProject(ctx context.Context, id string) error {
	if err := g.deleteByID(ctx, &models.Project{}, id); err != nil {
		return err
	}
	g.db.WithContext(ctx).Where("project_id = ?", id).Delete(&models.ProjectMilestone{})
	g.db.WithContext(ctx).Where("project_id = ?", id).Delete(&models.ProjectTask{})
	g.db.WithContext(ctx).Where("project_id = ?", id).Delete(&models.ProjectComment{})
	return nil
}

// Milestones

func (g *GormStorage) CreateMilestone(ctx context.Context, m *models.ProjectMilestone) error {
	if _, err := g.GetProject(ctx, m.ProjectID); err != nil {
		return err
	}
	m.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(m).Error
}

func (g *GormStorage) GetMilestone(ctx context.Context, id string) (*models.ProjectMilestone, error) {
	var m models.ProjectMilestone
	if err := g.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (g *GormStorage) ListMilestonesByProject(ctx context.Context, projectID string) ([]models.ProjectMilestone, error) {
	var out []models.ProjectMilestone
	err := g.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order, created_at").
		Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateMilestone(ctx context.Context, id string, u MilestoneUpdate) (*models.ProjectMilestone, error) {
	updates := map[string]interface{}{}
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.DueDate != nil {
		updates["due_date"] = *u.DueDate
	}
	if u.SortOrder != nil {
		updates["sort_order"] = *u.SortOrder
	}
	if u.CompletedAt != nil {
		updates["completed_at"] = *u.CompletedAt
	} else if u.ClearCompletedAt {
		updates["completed_at"] = nil
	}
	if err := g.applyUpdates(ctx, &models.ProjectMilestone{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetMilestone(ctx, id)
}

func (g *GormStorage) DeleteMilestone(ctx context.Context, id string) error {
	if err := g.deleteByID(ctx, &models.ProjectMilestone{}, id); err != nil {
		return err
	}
	g.db.WithContext(ctx).Model(&models.ProjectTask{}).
		Where("milestone_id = ?", id).
		Update("milestone_id", nil)
	return nil
}

// Tasks

func (g *GormStorage) CreateTask(ctx context.Context, t *models.ProjectTask) error {
	if _, err := g.GetProject(ctx, t.ProjectID); err != nil {
		return err
	}
	t.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(t).Error
}

func (g *GormStorage) GetTask(ctx context.Context, id string) (*models.ProjectTask, error) {
	var t models.ProjectTask
	if err := g.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (g *GormStorage) ListTasksByProject(ctx context.Context, projectID string, milestoneID *string) ([]models.ProjectTask, error) {
	var out []models.ProjectTask
	q := g.db.WithContext(ctx).Where("project_id = ?", projectID)
	if milestoneID != nil {
		q = q.Where("milestone_id = ?", *milestoneID)
	}
	err := q.Order("sort_order, created_at").Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateTask(ctx context.Context, id string, u TaskUpdate) (*models.ProjectTask, error) {
	updates := map[string]interface{}{}
	if u.MilestoneID != nil {
		updates["milestone_id"] = *u.MilestoneID
	}
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Priority != nil {
		updates["priority"] = *u.Priority
	}
	if u.EstimatedHours != nil {
		updates["estimated_hours"] = *u.EstimatedHours
	}
	if u.ActualHours != nil {
		updates["actual_hours"] = *u.ActualHours
	}
	if u.DueDate != nil {
		updates["due_date"] = *u.DueDate
	}
	if u.SortOrder != nil {
		updates["sort_order"] = *u.SortOrder
	}
	if u.CompletedAt != nil {
		updates["completed_at"] = *u.CompletedAt
	} else if u.ClearCompletedAt {
		updates["completed_at"] = nil
	}
	if err := g.applyUpdates(ctx, &models.ProjectTask{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetTask(ctx, id)
}

func (g *GormStorage) DeleteTask(ctx context.Context, id string) error {
	return g.deleteByID(ctx, &models.ProjectTask{}, id)
}

// Comments

func (g *GormStorage) CreateComment(ctx context.Context, c *models.ProjectComment) error {
	if _, err := g.GetProject(ctx, c.ProjectID); err != nil {
		return err
	}
	c.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(c).Error
}

func (g *GormStorage) GetComment(ctx context.Context, id string) (*models.ProjectComment, error) {
	var c models.ProjectComment
	if err := g.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStorage) ListComments(ctx context.Context, f CommentFilter) ([]models.ProjectComment, error) {
	var out []models.ProjectComment
	q := g.db.WithContext(ctx).Where("project_id = ?", f.ProjectID)
	if f.TaskID != nil {
		q = q.Where("task_id = ?", *f.TaskID)
	}
	if f.MilestoneID != nil {
		q = q.Where("milestone_id = ?", *f.MilestoneID)
	}
	// Confidentiality boundary: internal comments never leave the storage
	// layer unless explicitly requested by staff-facing callers.
	if !f.IncludeInternal {
		q = q.Where("is_internal = ?", false)
	}
	err := q.Order("created_at").Find(&out).Error
	return out, err
}

func (g *GormStorage) UpdateComment(ctx context.Context, id string, u CommentUpdate) (*models.ProjectComment, error) {
	updates := map[string]interface{}{}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.IsInternal != nil {
		updates["is_internal"] = *u.IsInternal
	}
	if err := g.applyUpdates(ctx, &models.ProjectComment{}, id, updates); err != nil {
		return nil, err
	}
	return g.GetComment(ctx, id)
}

func (g *GormStorage) DeleteComment(ctx context.Context, id string) error {
	return g.deleteByID(ctx, &models.ProjectComment{}, id)
}

// Website metrics

func (g *GormStorage) UpsertWebsiteMetrics(ctx context.Context, m *models.WebsiteMetrics) error {
	var existing models.WebsiteMetrics
	err := g.db.WithContext(ctx).First(&existing, "date = ?", m.Date).Error
	if err == nil {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		return g.db.WithContext(ctx).Save(m).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	m.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(m).Error
}

func (g *GormStorage) GetWebsiteMetricsByDate(ctx context.Context, date string) (*models.WebsiteMetrics, error) {
	var m models.WebsiteMetrics
	if err := g.db.WithContext(ctx).First(&m, "date = ?", date).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (g *GormStorage) ListWebsiteMetrics(ctx context.Context, limit int) ([]models.WebsiteMetrics, error) {
	var out []models.WebsiteMetrics
	q := g.db.WithContext(ctx).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// Notifications

func (g *GormStorage) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(n).Error
}

func (g *GormStorage) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := g.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (g *GormStorage) ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (g *GormStorage) MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error) {
	n, err := g.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	if err := g.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error; err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

func (g *GormStorage) DeleteNotification(ctx context.Context, id string) error {
	return g.deleteByID(ctx, &models.Notification{}, id)
}

// File uploads

func (g *GormStorage) CreateFileUpload(ctx context.Context, f *models.FileUpload) error {
	f.ID = uuid.New().String()
	return g.db.WithContext(ctx).Create(f).Error
}

func (g *GormStorage) GetFileUpload(ctx context.Context, id string) (*models.FileUpload, error) {
	var f models.FileUpload
	if err := g.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (g *GormStorage) ListFileUploads(ctx context.Context) ([]models.FileUpload, error) {
	var out []models.FileUpload
	err := g.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (g *GormStorage) DeleteFileUpload(ctx context.Context, id string) error {
	return g.deleteByID(ctx, &models.FileUpload{}, id)
}

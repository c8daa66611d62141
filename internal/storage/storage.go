package storage

import (
	"context"
	"errors"
	"time"

	"tutsin-digital/internal/models"
)

var (
	// ErrNotFound is returned for a missing entity and for an expired session.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique field (email, role name, metrics
	// date) would collide.
	ErrDuplicate = errors.New("duplicate value")
	// ErrConflict is returned when a delete would break a reference, e.g. a
	// role still assigned to admins or the seeded super role.
	ErrConflict = errors.New("conflict")
)

// Partial updates: nil pointer fields are left untouched. Identity fields
// (IDs, parent IDs, creation timestamps) are never updatable.

type ClientUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string // already hashed by the caller
	Company   *string
	Phone     *string
}

type AdminUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Password    *string
	RoleID      *string
	IsActive    *bool
	LastLoginAt *time.Time
}

type RoleUpdate struct {
	Name        *string
	Description *string
	Permissions *models.StringList
}

type BlogPostUpdate struct {
	Title     *string
	Content   *string
	Excerpt   *string
	Category  *string
	ImageURL  *string
	Published *bool
}

type ProjectUpdate struct {
	Title       *string
	Description *string
	Status      *models.ProjectStatus
	Priority    *models.Priority
	Budget      *int64
	StartDate   *time.Time
	EndDate     *time.Time
	// CompletedAt travels with Status; services set it through the status
	// transition helpers so the pair stays consistent.
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

type MilestoneUpdate struct {
	Title            *string
	Description      *string
	Status           *models.MilestoneStatus
	DueDate          *time.Time
	SortOrder        *int
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

type TaskUpdate struct {
	MilestoneID      *string
	Title            *string
	Description      *string
	Status           *models.TaskStatus
	Priority         *models.Priority
	EstimatedHours   *int
	ActualHours      *int
	DueDate          *time.Time
	SortOrder        *int
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

type CommentUpdate struct {
	Content    *string
	IsInternal *bool
}

// CommentFilter scopes a comment listing. ProjectID is required; TaskID and
// MilestoneID narrow further. IncludeInternal=false is the client-facing
// confidentiality boundary and is enforced here, not in handlers.
type CommentFilter struct {
	ProjectID       string
	TaskID          *string
	MilestoneID     *string
	IncludeInternal bool
}

// Storage is the uniform CRUD contract shared by the in-memory backend
// (development, tests) and the gorm backend (production). Both assign fresh
// IDs and creation timestamps on create, merge partial updates, and treat
// expired sessions as absent.
type Storage interface {
	// Clients
	CreateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, id string, u ClientUpdate) (*models.Client, error)
	DeleteClient(ctx context.Context, id string) error

	// Client sessions
	CreateClientSession(ctx context.Context, s *models.ClientSession) error
	GetClientSession(ctx context.Context, token string) (*models.ClientSession, error)
	DeleteClientSession(ctx context.Context, token string) error

	// Admins
	CreateAdmin(ctx context.Context, a *models.Admin) error
	GetAdmin(ctx context.Context, id string) (*models.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	UpdateAdmin(ctx context.Context, id string, u AdminUpdate) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, id string) error

	// Admin roles
	CreateRole(ctx context.Context, r *models.AdminRole) error
	GetRole(ctx context.Context, id string) (*models.AdminRole, error)
	GetRoleByName(ctx context.Context, name string) (*models.AdminRole, error)
	ListRoles(ctx context.Context) ([]models.AdminRole, error)
	UpdateRole(ctx context.Context, id string, u RoleUpdate) (*models.AdminRole, error)
	DeleteRole(ctx context.Context, id string) error

	// Admin sessions
	CreateAdminSession(ctx context.Context, s *models.AdminSession) error
	GetAdminSession(ctx context.Context, token string) (*models.AdminSession, error)
	DeleteAdminSession(ctx context.Context, token string) error

	// DeleteExpiredSessions removes client and admin sessions whose expiry
	// is at or before now, returning how many rows were purged.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Blog
	CreateBlogPost(ctx context.Context, p *models.BlogPost) error
	GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error)
	ListBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, u BlogPostUpdate) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error

	// Contact (append-only)
	CreateContactSubmission(ctx context.Context, s *models.ContactSubmission) error
	ListContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error)

	// Projects
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListProjectsByClient(ctx context.Context, clientID string) ([]models.Project, error)
	UpdateProject(ctx context.Context, id string, u ProjectUpdate) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Milestones
	CreateMilestone(ctx context.Context, m *models.ProjectMilestone) error
	GetMilestone(ctx context.Context, id string) (*models.ProjectMilestone, error)
	ListMilestonesByProject(ctx context.Context, projectID string) ([]models.ProjectMilestone, error)
	UpdateMilestone(ctx context.Context, id string, u MilestoneUpdate) (*models.ProjectMilestone, error)
	DeleteMilestone(ctx context.Context, id string) error

	// Tasks
	CreateTask(ctx context.Context, t *models.ProjectTask) error
	GetTask(ctx context.Context, id string) (*models.ProjectTask, error)
	ListTasksByProject(ctx context.Context, projectID string, milestoneID *string) ([]models.ProjectTask, error)
	UpdateTask(ctx context.Context, id string, u TaskUpdate) (*models.ProjectTask, error)
	DeleteTask(ctx context.Context, id string) error

	// Comments
	CreateComment(ctx context.Context, c *models.ProjectComment) error
	GetComment(ctx context.Context, id string) (*models.ProjectComment, error)
	ListComments(ctx context.Context, f CommentFilter) ([]models.ProjectComment, error)
	UpdateComment(ctx context.Context, id string, u CommentUpdate) (*models.ProjectComment, error)
	DeleteComment(ctx context.Context, id string) error

	// Website metrics (upsert keyed by date)
	UpsertWebsiteMetrics(ctx context.Context, m *models.WebsiteMetrics) error
	GetWebsiteMetricsByDate(ctx context.Context, date string) (*models.WebsiteMetrics, error)
	ListWebsiteMetrics(ctx context.Context, limit int) ([]models.WebsiteMetrics, error)

	// Notifications
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error)
	DeleteNotification(ctx context.Context, id string) error

	// File uploads
	CreateFileUpload(ctx context.Context, f *models.FileUpload) error
	GetFileUpload(ctx context.Context, id string) (*models.FileUpload, error)
	ListFileUploads(ctx context.Context) ([]models.FileUpload, error)
	DeleteFileUpload(ctx context.Context, id string) error
}

// SeedDefaultRoles ensures the built-in roles exist. The super_admin role is
// the only RoleKindSuper row and must survive for the lifetime of the system.
func SeedDefaultRoles(ctx context.Context, s Storage) error {
	seed := []models.AdminRole{
		{
			Name:        models.SuperAdminRoleName,
			Description: "Full access to every administrative capability",
			Kind:        models.RoleKindSuper,
			Permissions: models.StringList(models.AllPermissions()),
		},
		{
			Name:        "admin",
			Description: "Day-to-day administration",
			Kind:        models.RoleKindStandard,
			Permissions: models.StringList{
				models.PermManageClients,
				models.PermManageContent,
				models.PermManageProjects,
				models.PermViewAnalytics,
			},
		},
		{
			Name:        "moderator",
			Description: "Content moderation only",
			Kind:        models.RoleKindStandard,
			Permissions: models.StringList{models.PermManageContent},
		},
	}

	for i := range seed {
		if _, err := s.GetRoleByName(ctx, seed[i].Name); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := s.CreateRole(ctx, &seed[i]); err != nil {
			return err
		}
	}
	return nil
}

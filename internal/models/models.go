package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("cannot scan %T into StringList", value)
}

// Clients (portal users)
type Client struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string `gorm:"type:varchar(255);not null"` // bcrypt hash, never plaintext
	Company   string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Client) TableName() string {
	return "clients"
}

type ClientSession struct {
	Token     string    `gorm:"type:varchar(64);primaryKey"`
	ClientID  string    `gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (ClientSession) TableName() string {
	return "client_sessions"
}

type Admin struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	FirstName   string `gorm:"type:varchar(100);not null"`
	LastName    string `gorm:"type:varchar(100);not null"`
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string `gorm:"type:varchar(255);not null"`
	RoleID      string `gorm:"type:varchar(36);index;not null"`
	IsActive    bool   `gorm:"default:true"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Admin) TableName() string {
	return "admins"
}

// RoleKind makes the permission bypass an explicit variant instead of a
// magic role-name comparison. A super role ignores its permission list.
type RoleKind string

const (
	RoleKindStandard RoleKind = "standard"
	RoleKindSuper    RoleKind = "super"
)

type AdminRole struct {
	ID          string     `gorm:"type:varchar(36);primaryKey"`
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string     `gorm:"type:text"`
	Kind        RoleKind   `gorm:"type:varchar(20);not null;default:'standard'"`
	Permissions StringList `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AdminRole) TableName() string {
	return "admin_roles"
}

// SuperAdminRoleName is the seeded super role; it cannot be deleted and its
// permission list cannot be stripped.
const SuperAdminRoleName = "super_admin"

type AdminSession struct {
	Token     string    `gorm:"type:varchar(64);primaryKey"`
	AdminID   string    `gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	IPAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:varchar(500)"`
	CreatedAt time.Time
}

func (AdminSession) TableName() string {
	return "admin_sessions"
}

// Permission catalog. Roles reference these by name.
const (
	PermManageAdmins   = "manage_admins"
	PermManageRoles    = "manage_roles"
	PermManageClients  = "manage_clients"
	PermManageContent  = "manage_content"
	PermManageProjects = "manage_projects"
	PermViewAnalytics  = "view_analytics"
	PermSystemSettings = "system_settings"
)

func AllPermissions() []string {
	return []string{
		PermManageAdmins,
		PermManageRoles,
		PermManageClients,
		PermManageContent,
		PermManageProjects,
		PermViewAnalytics,
		PermSystemSettings,
	}
}

type BlogPost struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Title     string `gorm:"type:varchar(255);not null"`
	Content   string `gorm:"type:text;not null"`
	Excerpt   string `gorm:"type:text"`
	Category  string `gorm:"type:varchar(100);index"`
	ImageURL  string `gorm:"type:varchar(500)"`
	Published bool   `gorm:"default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// ContactSubmission is append-only; no update or delete path exists.
type ContactSubmission struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(255);not null"`
	Service   string `gorm:"type:varchar(100)"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectPaused, ProjectCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Project struct {
	ID          string        `gorm:"type:varchar(36);primaryKey"`
	Title       string        `gorm:"type:varchar(255);not null"`
	Description string        `gorm:"type:text"`
	ClientID    string        `gorm:"type:varchar(36);index;not null"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Priority    Priority      `gorm:"type:varchar(20);not null;default:'medium'"`
	Budget      int64         `gorm:"not null;default:0"` // integer cents
	StartDate   *time.Time
	EndDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Project) TableName() string {
	return "projects"
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted:
		return true
	}
	return false
}

type ProjectMilestone struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	ProjectID   string          `gorm:"type:varchar(36);index;not null"`
	Title       string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Status      MilestoneStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	DueDate     *time.Time
	CompletedAt *time.Time
	SortOrder   int `gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProjectMilestone) TableName() string {
	return "project_milestones"
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted, TaskBlocked:
		return true
	}
	return false
}

type ProjectTask struct {
	ID             string     `gorm:"type:varchar(36);primaryKey"`
	ProjectID      string     `gorm:"type:varchar(36);index;not null"`
	MilestoneID    *string    `gorm:"type:varchar(36);index"`
	Title          string     `gorm:"type:varchar(255);not null"`
	Description    string     `gorm:"type:text"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'todo'"`
	Priority       Priority   `gorm:"type:varchar(20);not null;default:'medium'"`
	EstimatedHours int        `gorm:"not null;default:0"`
	ActualHours    int        `gorm:"not null;default:0"`
	DueDate        *time.Time
	CompletedAt    *time.Time
	SortOrder      int `gorm:"column:sort_order;not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProjectTask) TableName() string {
	return "project_tasks"
}

// ProjectComment attaches to a project and optionally to one task or one
// milestone within it. Internal comments are a confidentiality boundary:
// they must never reach client-facing listings.
type ProjectComment struct {
	ID          string  `gorm:"type:varchar(36);primaryKey"`
	ProjectID   string  `gorm:"type:varchar(36);index;not null"`
	TaskID      *string `gorm:"type:varchar(36);index"`
	MilestoneID *string `gorm:"type:varchar(36);index"`
	AuthorID    string  `gorm:"type:varchar(36);not null"`
	Content     string  `gorm:"type:text;not null"`
	IsInternal  bool    `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProjectComment) TableName() string {
	return "project_comments"
}

type WebsiteMetrics struct {
	ID                 string     `gorm:"type:varchar(36);primaryKey"`
	Date               string     `gorm:"type:varchar(10);uniqueIndex;not null"` // YYYY-MM-DD
	TotalViews         int        `gorm:"not null;default:0"`
	UniqueVisitors     int        `gorm:"not null;default:0"`
	BounceRate         float64    `gorm:"not null;default:0"` // percent
	AvgSessionDuration int        `gorm:"not null;default:0"` // seconds
	TopPages           StringList `gorm:"type:text"`
	TopReferrers       StringList `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (WebsiteMetrics) TableName() string {
	return "website_metrics"
}

type Notification struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	UserID    string `gorm:"type:varchar(36);index;not null"`
	Title     string `gorm:"type:varchar(255);not null"`
	Body      string `gorm:"type:text"`
	Link      string `gorm:"type:varchar(500)"`
	Read      bool   `gorm:"default:false"`
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

type FileUpload struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	FileName     string `gorm:"type:varchar(255);not null"` // stored name on disk
	OriginalName string `gorm:"type:varchar(255);not null"`
	MimeType     string `gorm:"type:varchar(100)"`
	Size         int64  `gorm:"not null;default:0"`
	Path         string `gorm:"type:varchar(500);not null"`
	UploadedBy   string `gorm:"type:varchar(36);index;not null"` // admin id
	CreatedAt    time.Time
}

func (FileUpload) TableName() string {
	return "file_uploads"
}

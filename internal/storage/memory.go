package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"tutsin-digital/internal/models"

	"github.com/google/uuid"
)

// MemoryStorage is the development/test backend: plain maps behind a mutex.
// It mirrors the gorm backend's observable behavior exactly (fresh IDs and
// timestamps on create, merged partial updates, expired sessions absent).
type MemoryStorage struct {
	mu             sync.RWMutex
	clients        map[string]models.Client
	clientSessions map[string]models.ClientSession
	admins         map[string]models.Admin
	roles          map[string]models.AdminRole
	adminSessions  map[string]models.AdminSession
	blogPosts      map[string]models.BlogPost
	contacts       map[string]models.ContactSubmission
	projects       map[string]models.Project
	milestones     map[string]models.ProjectMilestone
	tasks          map[string]models.ProjectTask
	comments       map[string]models.ProjectComment
	metrics        map[string]models.WebsiteMetrics // keyed by id
	metricsByDate  map[string]string                // date -> id
	notifications  map[string]models.Notification
	files          map[string]models.FileUpload
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		clients:        make(map[string]models.Client),
		clientSessions: make(map[string]models.ClientSession),
		admins:         make(map[string]models.Admin),
		roles:          make(map[string]models.AdminRole),
		adminSessions:  make(map[string]models.AdminSession),
		blogPosts:      make(map[string]models.BlogPost),
		contacts:       make(map[string]models.ContactSubmission),
		projects:       make(map[string]models.Project),
		milestones:     make(map[string]models.ProjectMilestone),
		tasks:          make(map[string]models.ProjectTask),
		comments:       make(map[string]models.ProjectComment),
		metrics:        make(map[string]models.WebsiteMetrics),
		metricsByDate:  make(map[string]string),
		notifications:  make(map[string]models.Notification),
		files:          make(map[string]models.FileUpload),
	}
}

func newID() string {
	return uuid.New().String()
}

// Clients

func (m *MemoryStorage) CreateClient(ctx context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.clients {
		if existing.Email == c.Email {
			return ErrDuplicate
		}
	}

	c.ID = newID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.clients[c.ID] = *c
	return nil
}

func (m *MemoryStorage) GetClient(ctx context.Context, id string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStorage) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		if c.Email == email {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) ListClients(ctx context.Context) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) UpdateClient(ctx context.Context, id string, u ClientUpdate) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.FirstName != nil {
		c.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		c.LastName = *u.LastName
	}
	if u.Password != nil {
		c.Password = *u.Password
	}
	if u.Company != nil {
		c.Company = *u.Company
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	c.UpdatedAt = time.Now()
	m.clients[id] = c
	return &c, nil
}

func (m *MemoryStorage) DeleteClient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

// Client sessions

func (m *MemoryStorage) CreateClientSession(ctx context.Context, s *models.ClientSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.CreatedAt = time.Now()
	m.clientSessions[s.Token] = *s
	return nil
}

func (m *MemoryStorage) GetClientSession(ctx context.Context, token string) (*models.ClientSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.clientSessions[token]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStorage) DeleteClientSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clientSessions[token]; !ok {
		return ErrNotFound
	}
	delete(m.clientSessions, token)
	return nil
}

// Admins

func (m *MemoryStorage) CreateAdmin(ctx context.Context, a *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.admins {
		if existing.Email == a.Email {
			return ErrDuplicate
		}
	}

	a.ID = newID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.admins[a.ID] = *a
	return nil
}

func (m *MemoryStorage) GetAdmin(ctx context.Context, id string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStorage) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.admins {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Admin, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) UpdateAdmin(ctx context.Context, id string, u AdminUpdate) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Email != nil && *u.Email != a.Email {
		for _, existing := range m.admins {
			if existing.Email == *u.Email {
				return nil, ErrDuplicate
			}
		}
		a.Email = *u.Email
	}
	if u.FirstName != nil {
		a.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		a.LastName = *u.LastName
	}
	if u.Password != nil {
		a.Password = *u.Password
	}
	if u.RoleID != nil {
		a.RoleID = *u.RoleID
	}
	if u.IsActive != nil {
		a.IsActive = *u.IsActive
	}
	if u.LastLoginAt != nil {
		a.LastLoginAt = u.LastLoginAt
	}
	a.UpdatedAt = time.Now()
	m.admins[id] = a
	return &a, nil
}

func (m *MemoryStorage) DeleteAdmin(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[id]; !ok {
		return ErrNotFound
	}
	delete(m.admins, id)
	return nil
}

// Admin roles

func (m *MemoryStorage) CreateRole(ctx context.Context, r *models.AdminRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.roles {
		if existing.Name == r.Name {
			return ErrDuplicate
		}
	}

	r.ID = newID()
	if r.Kind == "" {
		r.Kind = models.RoleKindStandard
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.roles[r.ID] = *r
	return nil
}

func (m *MemoryStorage) GetRole(ctx context.Context, id string) (*models.AdminRole, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStorage) GetRoleByName(ctx context.Context, name string) (*models.AdminRole, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.roles {
		if r.Name == name {
			out := r
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) ListRoles(ctx context.Context) ([]models.AdminRole, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.AdminRole, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) UpdateRole(ctx context.Context, id string, u RoleUpdate) (*models.AdminRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	// The super role keeps its name and full permission set.
	if r.Kind == models.RoleKindSuper && (u.Name != nil || u.Permissions != nil) {
		return nil, ErrConflict
	}
	if u.Name != nil && *u.Name != r.Name {
		for _, existing := range m.roles {
			if existing.Name == *u.Name {
				return nil, ErrDuplicate
			}
		}
		r.Name = *u.Name
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Permissions != nil {
		r.Permissions = *u.Permissions
	}
	r.UpdatedAt = time.Now()
	m.roles[id] = r
	return &r, nil
}

func (m *MemoryStorage) DeleteRole(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.roles[id]
	if !ok {
		return ErrNotFound
	}
	if r.Kind == models.RoleKindSuper {
		return ErrConflict
	}
	for _, a := range m.admins {
		if a.RoleID == id {
			return ErrConflict
		}
	}
	delete(m.roles, id)
	return nil
}

// Admin sessions

func (m *MemoryStorage) CreateAdminSession(ctx context.Context, s *models.AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.CreatedAt = time.Now()
	m.adminSessions[s.Token] = *s
	return nil
}

func (m *MemoryStorage) GetAdminSession(ctx context.Context, token string) (*models.AdminSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.adminSessions[token]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStorage) DeleteAdminSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.adminSessions[token]; !ok {
		return ErrNotFound
	}
	delete(m.adminSessions, token)
	return nil
}

func (m *MemoryStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for token, s := range m.clientSessions {
		if !s.ExpiresAt.After(now) {
			delete(m.clientSessions, token)
			purged++
		}
	}
	for token, s := range m.adminSessions {
		if !s.ExpiresAt.After(now) {
			delete(m.adminSessions, token)
			purged++
		}
	}
	return purged, nil
}

// Blog

func (m *MemoryStorage) CreateBlogPost(ctx context.Context, p *models.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = newID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.blogPosts[p.ID] = *p
	return nil
}

func (m *MemoryStorage) GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.blogPosts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.BlogPost, 0, len(m.blogPosts))
	for _, p := range m.blogPosts {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) UpdateBlogPost(ctx context.Context, id string, u BlogPostUpdate) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.blogPosts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Excerpt != nil {
		p.Excerpt = *u.Excerpt
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.Published != nil {
		p.Published = *u.Published
	}
	p.UpdatedAt = time.Now()
	m.blogPosts[id] = p
	return &p, nil
}

func (m *MemoryStorage) DeleteBlogPost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blogPosts[id]; !ok {
		return ErrNotFound
	}
	delete(m.blogPosts, id)
	return nil
}

// Contact submissions

func (m *MemoryStorage) CreateContactSubmission(ctx context.Context, s *models.ContactSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = newID()
	s.CreatedAt = time.Now()
	m.contacts[s.ID] = *s
	return nil
}

func (m *MemoryStorage) ListContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ContactSubmission, 0, len(m.contacts))
	for _, s := range m.contacts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Projects

func (m *MemoryStorage) CreateProject(ctx context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = newID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.projects[p.ID] = *p
	return nil
}

func (m *MemoryStorage) GetProject(ctx context.Context, id string) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) ListProjects(ctx context.Context) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) ListProjectsByClient(ctx context.Context, clientID string) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Project, 0)
	for _, p := range m.projects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) UpdateProject(ctx context.Context, id string, u ProjectUpdate) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Priority != nil {
		p.Priority = *u.Priority
	}
	if u.Budget != nil {
		p.Budget = *u.Budget
	}
	if u.StartDate != nil {
		p.StartDate = u.StartDate
	}
	if u.EndDate != nil {
		p.EndDate = u.EndDate
	}
	if u.CompletedAt != nil {
		p.CompletedAt = u.CompletedAt
	} else if u.ClearCompletedAt {
		p.CompletedAt = nil
	}
	p.UpdatedAt = time.Now()
	m.projects[id] = p
	return &p, nil
}

func (m *MemoryStorage) DeleteProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return ErrNotFound
	}
	delete(m.projects, id)
	// Children go with the project.
	for mid, ms := range m.milestones {
		if ms.ProjectID == id {
			delete(m.milestones, mid)
		}
	}
	for tid, t := range m.tasks {
		if t.ProjectID == id {
			delete(m.tasks, tid)
		}
	}
	for cid, c := range m.comments {
		if c.ProjectID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

// Milestones

func (m *MemoryStorage) CreateMilestone(ctx context.Context, ms *models.ProjectMilestone) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[ms.ProjectID]; !ok {
		return ErrNotFound
	}
	ms.ID = newID()
	ms.CreatedAt = time.Now()
	ms.UpdatedAt = ms.CreatedAt
	m.milestones[ms.ID] = *ms
	return nil
}

func (m *MemoryStorage) GetMilestone(ctx context.Context, id string) (*models.ProjectMilestone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ms, ok := m.milestones[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ms, nil
}

func (m *MemoryStorage) ListMilestonesByProject(ctx context.Context, projectID string) ([]models.ProjectMilestone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ProjectMilestone, 0)
	for _, ms := range m.milestones {
		if ms.ProjectID == projectID {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStorage) UpdateMilestone(ctx context.Context, id string, u MilestoneUpdate) (*models.ProjectMilestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.milestones[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Title != nil {
		ms.Title = *u.Title
	}
	if u.Description != nil {
		ms.Description = *u.Description
	}
	if u.Status != nil {
		ms.Status = *u.Status
	}
	if u.DueDate != nil {
		ms.DueDate = u.DueDate
	}
	if u.SortOrder != nil {
		ms.SortOrder = *u.SortOrder
	}
	if u.CompletedAt != nil {
		ms.CompletedAt = u.CompletedAt
	} else if u.ClearCompletedAt {
		ms.CompletedAt = nil
	}
	ms.UpdatedAt = time.Now()
	m.milestones[id] = ms
	return &ms, nil
}

func (m *MemoryStorage) DeleteMilestone(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.milestones[id]; !ok {
		return ErrNotFound
	}
	delete(m.milestones, id)
	// Detach tasks that referenced the milestone.
	for tid, t := range m.tasks {
		if t.MilestoneID != nil && *t.MilestoneID == id {
			t.MilestoneID = nil
			m.tasks[tid] = t
		}
	}
	return nil
}

// Tasks

func (m *MemoryStorage) CreateTask(ctx context.Context, t *models.ProjectTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[t.ProjectID]; !ok {
		return ErrNotFound
	}
	t.ID = newID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.tasks[t.ID] = *t
	return nil
}

func (m *MemoryStorage) GetTask(ctx context.Context, id string) (*models.ProjectTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *MemoryStorage) ListTasksByProject(ctx context.Context, projectID string, milestoneID *string) ([]models.ProjectTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ProjectTask, 0)
	for _, t := range m.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if milestoneID != nil && (t.MilestoneID == nil || *t.MilestoneID != *milestoneID) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStorage) UpdateTask(ctx context.Context, id string, u TaskUpdate) (*models.ProjectTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.MilestoneID != nil {
		t.MilestoneID = u.MilestoneID
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.EstimatedHours != nil {
		t.EstimatedHours = *u.EstimatedHours
	}
	if u.ActualHours != nil {
		t.ActualHours = *u.ActualHours
	}
	if u.DueDate != nil {
		t.DueDate = u.DueDate
	}
	if u.SortOrder != nil {
		t.SortOrder = *u.SortOrder
	}
	if u.CompletedAt != nil {
		t.CompletedAt = u.CompletedAt
	} else if u.ClearCompletedAt {
		t.CompletedAt = nil
	}
	t.UpdatedAt = time.Now()
	m.tasks[id] = t
	return &t, nil
}

func (m *MemoryStorage) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Comments

func (m *MemoryStorage) CreateComment(ctx context.Context, c *models.ProjectComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[c.ProjectID]; !ok {
		return ErrNotFound
	}
	c.ID = newID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.comments[c.ID] = *c
	return nil
}

func (m *MemoryStorage) GetComment(ctx context.Context, id string) (*models.ProjectComment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStorage) ListComments(ctx context.Context, f CommentFilter) ([]models.ProjectComment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ProjectComment, 0)
	for _, c := range m.comments {
		if c.ProjectID != f.ProjectID {
			continue
		}
		if f.TaskID != nil && (c.TaskID == nil || *c.TaskID != *f.TaskID) {
			continue
		}
		if f.MilestoneID != nil && (c.MilestoneID == nil || *c.MilestoneID != *f.MilestoneID) {
			continue
		}
		if !f.IncludeInternal && c.IsInternal {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) UpdateComment(ctx context.Context, id string, u CommentUpdate) (*models.ProjectComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Content != nil {
		c.Content = *u.Content
	}
	if u.IsInternal != nil {
		c.IsInternal = *u.IsInternal
	}
	c.UpdatedAt = time.Now()
	m.comments[id] = c
	return &c, nil
}

func (m *MemoryStorage) DeleteComment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// Website metrics

func (m *MemoryStorage) UpsertWebsiteMetrics(ctx context.Context, wm *models.WebsiteMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.metricsByDate[wm.Date]; ok {
		existing := m.metrics[id]
		wm.ID = existing.ID
		wm.CreatedAt = existing.CreatedAt
		wm.UpdatedAt = time.Now()
		m.metrics[id] = *wm
		return nil
	}
	wm.ID = newID()
	wm.CreatedAt = time.Now()
	wm.UpdatedAt = wm.CreatedAt
	m.metrics[wm.ID] = *wm
	m.metricsByDate[wm.Date] = wm.ID
	return nil
}

func (m *MemoryStorage) GetWebsiteMetricsByDate(ctx context.Context, date string) (*models.WebsiteMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.metricsByDate[date]
	if !ok {
		return nil, ErrNotFound
	}
	wm := m.metrics[id]
	return &wm, nil
}

func (m *MemoryStorage) ListWebsiteMetrics(ctx context.Context, limit int) ([]models.WebsiteMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.WebsiteMetrics, 0, len(m.metrics))
	for _, wm := range m.metrics {
		out = append(out, wm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Notifications

func (m *MemoryStorage) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = newID()
	n.CreatedAt = time.Now()
	m.notifications[n.ID] = *n
	return nil
}

func (m *MemoryStorage) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (m *MemoryStorage) ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Notification, 0)
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	n.Read = true
	m.notifications[id] = n
	return &n, nil
}

func (m *MemoryStorage) DeleteNotification(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notifications[id]; !ok {
		return ErrNotFound
	}
	delete(m.notifications, id)
	return nil
}

// File uploads

func (m *MemoryStorage) CreateFileUpload(ctx context.Context, f *models.FileUpload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f.ID = newID()
	f.CreatedAt = time.Now()
	m.files[f.ID] = *f
	return nil
}

func (m *MemoryStorage) GetFileUpload(ctx context.Context, id string) (*models.FileUpload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *MemoryStorage) ListFileUploads(ctx context.Context) ([]models.FileUpload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.FileUpload, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStorage) DeleteFileUpload(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return ErrNotFound
	}
	delete(m.files, id)
	return nil
}

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutsin-digital/internal/models"
)

func TestClientCRUD(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	client := &models.Client{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "hashed",
	}
	if err := store.CreateClient(ctx, client); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if client.ID == "" {
		t.Fatal("create should assign an ID")
	}
	if client.CreatedAt.IsZero() {
		t.Error("create should stamp CreatedAt")
	}

	got, err := store.GetClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("unexpected email %q", got.Email)
	}

	byEmail, err := store.GetClientByEmail(ctx, "ada@example.com")
	if err != nil || byEmail.ID != client.ID {
		t.Errorf("lookup by email failed: %v", err)
	}

	dup := &models.Client{Email: "ada@example.com", Password: "x"}
	if err := store.CreateClient(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email should fail with ErrDuplicate, got %v", err)
	}

	company := "Analytical Engines Ltd"
	updated, err := store.UpdateClient(ctx, client.ID, ClientUpdate{Company: &company})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Company != company {
		t.Error("partial update did not apply")
	}
	if updated.FirstName != "Ada" {
		t.Error("partial update clobbered an untouched field")
	}

	if err := store.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.GetClient(ctx, client.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted client should be gone, got %v", err)
	}
}

func TestRoleGuards(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	if err := SeedDefaultRoles(ctx, store); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	superRole, err := store.GetRoleByName(ctx, models.SuperAdminRoleName)
	if err != nil {
		t.Fatalf("super role missing: %v", err)
	}
	moderator, err := store.GetRoleByName(ctx, "moderator")
	if err != nil {
		t.Fatalf("moderator role missing: %v", err)
	}

	// The super role can never be deleted or stripped.
	if err := store.DeleteRole(ctx, superRole.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("deleting the super role should conflict, got %v", err)
	}
	name := "renamed"
	if _, err := store.UpdateRole(ctx, superRole.ID, RoleUpdate{Name: &name}); !errors.Is(err, ErrConflict) {
		t.Errorf("renaming the super role should conflict, got %v", err)
	}
	perms := models.StringList{models.PermManageContent}
	if _, err := store.UpdateRole(ctx, superRole.ID, RoleUpdate{Permissions: &perms}); !errors.Is(err, ErrConflict) {
		t.Errorf("stripping the super role should conflict, got %v", err)
	}

	// A role still assigned to an admin cannot be deleted.
	admin := &models.Admin{Email: "mod@example.com", Password: "x", RoleID: moderator.ID, IsActive: true}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if err := store.DeleteRole(ctx, moderator.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("deleting a referenced role should conflict, got %v", err)
	}
	if err := store.DeleteAdmin(ctx, admin.ID); err != nil {
		t.Fatalf("delete admin failed: %v", err)
	}
	if err := store.DeleteRole(ctx, moderator.ID); err != nil {
		t.Errorf("unreferenced standard role should delete cleanly, got %v", err)
	}

	dup := &models.AdminRole{Name: models.SuperAdminRoleName}
	if err := store.CreateRole(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate role name should fail with ErrDuplicate, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	live := &models.ClientSession{Token: "live", ClientID: "c1", ExpiresAt: time.Now().Add(time.Hour)}
	dead := &models.ClientSession{Token: "dead", ClientID: "c1", ExpiresAt: time.Now().Add(-time.Hour)}
	for _, s := range []*models.ClientSession{live, dead} {
		if err := store.CreateClientSession(ctx, s); err != nil {
			t.Fatalf("create session failed: %v", err)
		}
	}
	adminDead := &models.AdminSession{Token: "admin-dead", AdminID: "a1", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.CreateAdminSession(ctx, adminDead); err != nil {
		t.Fatalf("create admin session failed: %v", err)
	}

	if _, err := store.GetClientSession(ctx, "live"); err != nil {
		t.Errorf("live session should resolve: %v", err)
	}
	if _, err := store.GetClientSession(ctx, "dead"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session should read as absent, got %v", err)
	}
	if _, err := store.GetAdminSession(ctx, "admin-dead"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired admin session should read as absent, got %v", err)
	}

	purged, err := store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("expected 2 purged sessions, got %d", purged)
	}
	if _, err := store.GetClientSession(ctx, "live"); err != nil {
		t.Errorf("sweep should not touch live sessions: %v", err)
	}
}

func TestProjectCascadeDelete(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	project := &models.Project{ClientID: "c1", Title: "Site relaunch", Status: models.ProjectActive}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	milestone := &models.ProjectMilestone{ProjectID: project.ID, Title: "Design", Status: models.MilestonePending}
	if err := store.CreateMilestone(ctx, milestone); err != nil {
		t.Fatalf("create milestone failed: %v", err)
	}
	task := &models.ProjectTask{ProjectID: project.ID, MilestoneID: &milestone.ID, Title: "Wireframes", Status: models.TaskTodo}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	comment := &models.ProjectComment{ProjectID: project.ID, AuthorID: "c1", Content: "hi"}
	if err := store.CreateComment(ctx, comment); err != nil {
		t.Fatalf("create comment failed: %v", err)
	}

	if err := store.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("delete project failed: %v", err)
	}
	if _, err := store.GetMilestone(ctx, milestone.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("milestone should cascade, got %v", err)
	}
	if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("task should cascade, got %v", err)
	}
	if _, err := store.GetComment(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("comment should cascade, got %v", err)
	}
}

func TestDeleteMilestoneDetachesTasks(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	project := &models.Project{ClientID: "c1", Title: "Site relaunch", Status: models.ProjectActive}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	milestone := &models.ProjectMilestone{ProjectID: project.ID, Title: "Design", Status: models.MilestonePending}
	if err := store.CreateMilestone(ctx, milestone); err != nil {
		t.Fatalf("create milestone failed: %v", err)
	}
	task := &models.ProjectTask{ProjectID: project.ID, MilestoneID: &milestone.ID, Title: "Wireframes", Status: models.TaskTodo}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task failed: %v", err)
	}

	if err := store.DeleteMilestone(ctx, milestone.ID); err != nil {
		t.Fatalf("delete milestone failed: %v", err)
	}
	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("task should survive its milestone: %v", err)
	}
	if got.MilestoneID != nil {
		t.Error("task should be detached from the deleted milestone")
	}
}

func TestCommentFilter(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	project := &models.Project{ClientID: "c1", Title: "Site relaunch", Status: models.ProjectActive}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	task := &models.ProjectTask{ProjectID: project.ID, Title: "Wireframes", Status: models.TaskTodo}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task failed: %v", err)
	}

	public := &models.ProjectComment{ProjectID: project.ID, AuthorID: "c1", Content: "looks good"}
	internal := &models.ProjectComment{ProjectID: project.ID, AuthorID: "a1", Content: "scope creep risk", IsInternal: true}
	onTask := &models.ProjectComment{ProjectID: project.ID, TaskID: &task.ID, AuthorID: "a1", Content: "done tomorrow"}
	for _, c := range []*models.ProjectComment{public, internal, onTask} {
		if err := store.CreateComment(ctx, c); err != nil {
			t.Fatalf("create comment failed: %v", err)
		}
	}

	visible, err := store.ListComments(ctx, CommentFilter{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(visible) != 2 {
		t.Errorf("clients should see 2 comments, got %d", len(visible))
	}
	for _, c := range visible {
		if c.IsInternal {
			t.Error("internal comment leaked past the filter")
		}
	}

	all, err := store.ListComments(ctx, CommentFilter{ProjectID: project.ID, IncludeInternal: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("staff should see all 3 comments, got %d", len(all))
	}

	taskOnly, err := store.ListComments(ctx, CommentFilter{ProjectID: project.ID, TaskID: &task.ID, IncludeInternal: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(taskOnly) != 1 || taskOnly[0].ID != onTask.ID {
		t.Errorf("task filter should return only the task comment, got %d", len(taskOnly))
	}
}

func TestMetricsUpsert(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	first := &models.WebsiteMetrics{Date: "2026-08-28", TotalViews: 100, UniqueVisitors: 40}
	if err := store.UpsertWebsiteMetrics(ctx, first); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	second := &models.WebsiteMetrics{Date: "2026-08-28", TotalViews: 250, UniqueVisitors: 90}
	if err := store.UpsertWebsiteMetrics(ctx, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := store.GetWebsiteMetricsByDate(ctx, "2026-08-28")
	if err != nil {
		t.Fatalf("get by date failed: %v", err)
	}
	if got.TotalViews != 250 {
		t.Errorf("upsert should replace the day's numbers, got %d views", got.TotalViews)
	}

	rows, err := store.ListWebsiteMetrics(ctx, 30)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("upsert by date must not create a second row, got %d", len(rows))
	}
}

func TestNotificationLifecycle(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	n := &models.Notification{UserID: "c1", Title: "Task completed", Body: "Wireframes are done"}
	if err := store.CreateNotification(ctx, n); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if n.Read {
		t.Error("notifications start unread")
	}

	marked, err := store.MarkNotificationRead(ctx, n.ID)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if !marked.Read {
		t.Error("mark read did not stick")
	}

	mine, err := store.ListNotificationsByUser(ctx, "c1")
	if err != nil || len(mine) != 1 {
		t.Fatalf("list by user failed: %v (%d rows)", err, len(mine))
	}
	theirs, err := store.ListNotificationsByUser(ctx, "c2")
	if err != nil || len(theirs) != 0 {
		t.Errorf("another user's feed should be empty, got %d rows", len(theirs))
	}
}

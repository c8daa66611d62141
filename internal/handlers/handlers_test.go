package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"tutsin-digital/internal/cache"
	"tutsin-digital/internal/middleware"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"
	"tutsin-digital/internal/storage"

	"github.com/gin-gonic/gin"
)

// testApp wires the handlers against the in-memory backend, mirroring the
// route table the server builds at startup.
type testApp struct {
	router *gin.Engine
	store  storage.Storage
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStorage()
	if err := storage.SeedDefaultRoles(context.Background(), store); err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}

	cacheMgr := cache.GetCacheManager()
	authService := services.NewAuthService(store)
	adminService := services.NewAdminService(store)
	notificationService := services.NewNotificationService(store, cacheMgr)

	authHandler := NewAuthHandler(authService)
	adminAuthHandler := NewAdminAuthHandler(adminService)
	adminHandler := NewAdminHandler(store)
	projectHandler := NewProjectHandler(store, notificationService)
	blogHandler := NewBlogHandler(store)
	contactHandler := NewContactHandler(store)
	notificationHandler := NewNotificationHandler(store)

	router := gin.New()

	router.POST("/api/contact", contactHandler.Submit)
	router.GET("/api/blog/posts", blogHandler.ListPublished)
	router.GET("/api/blog/posts/:id", blogHandler.GetPublished)

	auth := router.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password-reset/request", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	auth.POST("/logout", middleware.ClientAuth(authService), authHandler.Logout)
	auth.GET("/me", middleware.ClientAuth(authService), authHandler.Me)

	portal := router.Group("/api")
	portal.Use(middleware.ActorAuth(authService, adminService))
	portal.GET("/projects", projectHandler.ListProjects)
	portal.POST("/projects", projectHandler.CreateProject)
	portal.GET("/projects/:id", projectHandler.GetProject)
	portal.PUT("/projects/:id", projectHandler.UpdateProject)
	portal.DELETE("/projects/:id", projectHandler.DeleteProject)
	portal.GET("/projects/:id/tasks", projectHandler.ListTasks)
	portal.POST("/projects/:id/tasks", projectHandler.CreateTask)
	portal.PUT("/tasks/:id", projectHandler.UpdateTask)
	portal.GET("/projects/:id/comments", projectHandler.ListComments)
	portal.POST("/projects/:id/comments", projectHandler.CreateComment)

	notifications := router.Group("/api/notifications")
	notifications.Use(middleware.ClientAuth(authService))
	notifications.GET("", notificationHandler.List)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	router.POST("/api/admin/auth/login", adminAuthHandler.Login)
	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuth(adminService))
	admins := admin.Group("/admins", middleware.RequirePermission(models.PermManageAdmins))
	admins.POST("", adminHandler.CreateAdmin)
	admins.DELETE("/:id", adminHandler.DeleteAdmin)
	roles := admin.Group("/roles", middleware.RequirePermission(models.PermManageRoles))
	roles.POST("", adminHandler.CreateRole)
	roles.DELETE("/:id", adminHandler.DeleteRole)
	blog := admin.Group("/blog/posts", middleware.RequirePermission(models.PermManageContent))
	blog.POST("", blogHandler.Create)
	blog.GET("/:id", blogHandler.Get)

	return &testApp{router: router, store: store}
}

func (app *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

// registerClient registers a portal client and returns its id and token.
func (app *testApp) registerClient(t *testing.T, email string) (string, string) {
	t.Helper()

	w := app.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Test",
		"lastName":  "Client",
		"email":     email,
		"password":  "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}
	var resp AuthResponse
	decode(t, w, &resp)
	return resp.Client.ID, resp.Token
}

// loginSuperAdmin seeds a super admin directly and logs it in.
func (app *testApp) loginSuperAdmin(t *testing.T, email string) (string, string) {
	t.Helper()
	ctx := context.Background()

	role, err := app.store.GetRoleByName(ctx, models.SuperAdminRoleName)
	if err != nil {
		t.Fatalf("super role missing: %v", err)
	}
	hashed, err := services.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := &models.Admin{
		FirstName: "Site",
		LastName:  "Owner",
		Email:     email,
		Password:  hashed,
		RoleID:    role.ID,
		IsActive:  true,
	}
	if err := app.store.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	w := app.request(t, http.MethodPost, "/api/admin/auth/login", "", gin.H{
		"email":    email,
		"password": "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login failed: %d %s", w.Code, w.Body.String())
	}
	var resp AdminLoginResponse
	decode(t, w, &resp)
	return admin.ID, resp.Token
}

func TestRegisterAndDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	_, token := app.registerClient(t, "ada@example.com")
	if token == "" {
		t.Fatal("register should return a session token")
	}

	w := app.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Ada",
		"lastName":  "Again",
		"email":     "ada@example.com",
		"password":  "other456",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", w.Code)
	}
	var resp ErrorResponse
	decode(t, w, &resp)
	if resp.Message != "Email already registered" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "not-an-email",
		"password":  "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", w.Code)
	}
	var resp ErrorResponse
	decode(t, w, &resp)
	if len(resp.Errors) == 0 {
		t.Error("validation failure should list the offending fields")
	}
}

func TestMeRequiresToken(t *testing.T) {
	app := newTestApp(t)

	if w := app.request(t, http.MethodGet, "/api/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
	if w := app.request(t, http.MethodGet, "/api/auth/me", "bogus", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a bogus token, got %d", w.Code)
	}

	_, token := app.registerClient(t, "ada@example.com")
	w := app.request(t, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me failed: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Client ClientProfile `json:"client"`
	}
	decode(t, w, &resp)
	if resp.Client.Email != "ada@example.com" {
		t.Errorf("me returned the wrong client: %q", resp.Client.Email)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerClient(t, "ada@example.com")

	if w := app.request(t, http.MethodPost, "/api/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}
	if w := app.request(t, http.MethodGet, "/api/auth/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("token should stop working after logout, got %d", w.Code)
	}
}

// The issuance log line stands in for email delivery; the token itself is a
// credential and must stay out of the logs.
func TestPasswordResetTokenNotLogged(t *testing.T) {
	app := newTestApp(t)
	app.registerClient(t, "ada@example.com")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	w := app.request(t, http.MethodPost, "/api/auth/password-reset/request", "", gin.H{
		"email": "ada@example.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reset request failed: %d %s", w.Code, w.Body.String())
	}

	logged := buf.String()
	if !strings.Contains(logged, "Password reset token issued for ada@example.com") {
		t.Fatalf("expected an issuance log line, got %q", logged)
	}
	// Signed reset tokens always start with the encoded JWT header.
	if strings.Contains(logged, "eyJ") {
		t.Error("the reset token value must never reach the logs")
	}
}

func TestClientsCannotCreateProjects(t *testing.T) {
	app := newTestApp(t)
	clientID, token := app.registerClient(t, "ada@example.com")

	w := app.request(t, http.MethodPost, "/api/projects", token, gin.H{
		"title":    "My own project",
		"clientId": clientID,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("clients must not create projects, got %d", w.Code)
	}
}

func TestProjectVisibilityAndProgress(t *testing.T) {
	app := newTestApp(t)
	clientID, clientToken := app.registerClient(t, "ada@example.com")
	_, otherToken := app.registerClient(t, "eve@example.com")
	_, adminToken := app.loginSuperAdmin(t, "owner@example.com")

	// Admin creates a project for the first client.
	w := app.request(t, http.MethodPost, "/api/projects", adminToken, gin.H{
		"title":    "Site relaunch",
		"clientId": clientID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project failed: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Project models.Project `json:"project"`
	}
	decode(t, w, &created)
	projectID := created.Project.ID

	// Four tasks, none done.
	var taskIDs []string
	for _, title := range []string{"Wireframes", "Copy", "Build", "Launch"} {
		w = app.request(t, http.MethodPost, "/api/projects/"+projectID+"/tasks", adminToken, gin.H{"title": title})
		if w.Code != http.StatusCreated {
			t.Fatalf("create task failed: %d %s", w.Code, w.Body.String())
		}
		var taskResp struct {
			Task models.ProjectTask `json:"task"`
		}
		decode(t, w, &taskResp)
		taskIDs = append(taskIDs, taskResp.Task.ID)
	}

	// The owning client sees the project at 0 progress.
	w = app.request(t, http.MethodGet, "/api/projects/"+projectID, clientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("client get project failed: %d", w.Code)
	}
	var got struct {
		Project ProjectResponse `json:"project"`
	}
	decode(t, w, &got)
	if got.Project.Progress != 0 {
		t.Errorf("expected 0 progress, got %d", got.Project.Progress)
	}

	// A different client gets a 404, not a 403.
	w = app.request(t, http.MethodGet, "/api/projects/"+projectID, otherToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign project should read as absent, got %d", w.Code)
	}

	// The owning client completes one task via a status-only update.
	w = app.request(t, http.MethodPut, "/api/tasks/"+taskIDs[0], clientToken, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("client task status update failed: %d %s", w.Code, w.Body.String())
	}
	var taskResp struct {
		Task models.ProjectTask `json:"task"`
	}
	decode(t, w, &taskResp)
	if taskResp.Task.CompletedAt == nil {
		t.Error("completing a task should stamp CompletedAt")
	}

	w = app.request(t, http.MethodGet, "/api/projects/"+projectID, clientToken, nil)
	decode(t, w, &got)
	if got.Project.Progress != 25 {
		t.Errorf("expected 25 progress after 1 of 4 tasks, got %d", got.Project.Progress)
	}

	// The client may not edit anything beyond status.
	w = app.request(t, http.MethodPut, "/api/tasks/"+taskIDs[1], clientToken, gin.H{"title": "Renamed"})
	if w.Code != http.StatusForbidden {
		t.Errorf("clients editing task fields should get 403, got %d", w.Code)
	}
}

func TestInternalCommentsHiddenFromClients(t *testing.T) {
	app := newTestApp(t)
	clientID, clientToken := app.registerClient(t, "ada@example.com")
	_, adminToken := app.loginSuperAdmin(t, "owner@example.com")

	w := app.request(t, http.MethodPost, "/api/projects", adminToken, gin.H{
		"title":    "Site relaunch",
		"clientId": clientID,
	})
	var created struct {
		Project models.Project `json:"project"`
	}
	decode(t, w, &created)
	projectID := created.Project.ID

	app.request(t, http.MethodPost, "/api/projects/"+projectID+"/comments", adminToken,
		gin.H{"content": "Kickoff next week", "isInternal": false})
	app.request(t, http.MethodPost, "/api/projects/"+projectID+"/comments", adminToken,
		gin.H{"content": "Client is difficult", "isInternal": true})

	// A client asking for internal comments still does not get them.
	w = app.request(t, http.MethodGet, "/api/projects/"+projectID+"/comments?includeInternal=true", clientToken, nil)
	var list struct {
		Comments []models.ProjectComment `json:"comments"`
	}
	decode(t, w, &list)
	if len(list.Comments) != 1 {
		t.Fatalf("client should see 1 comment, got %d", len(list.Comments))
	}
	if list.Comments[0].IsInternal {
		t.Error("internal comment leaked to a client")
	}

	w = app.request(t, http.MethodGet, "/api/projects/"+projectID+"/comments?includeInternal=true", adminToken, nil)
	decode(t, w, &list)
	if len(list.Comments) != 2 {
		t.Errorf("admin should see both comments, got %d", len(list.Comments))
	}

	// Clients cannot mark their own comments internal.
	w = app.request(t, http.MethodPost, "/api/projects/"+projectID+"/comments", clientToken,
		gin.H{"content": "Looks great", "isInternal": true})
	var commentResp struct {
		Comment models.ProjectComment `json:"comment"`
	}
	decode(t, w, &commentResp)
	if commentResp.Comment.IsInternal {
		t.Error("a client comment must never be internal")
	}
}

func TestCommentNotifiesClient(t *testing.T) {
	app := newTestApp(t)
	clientID, clientToken := app.registerClient(t, "ada@example.com")
	_, adminToken := app.loginSuperAdmin(t, "owner@example.com")

	w := app.request(t, http.MethodPost, "/api/projects", adminToken, gin.H{
		"title":    "Site relaunch",
		"clientId": clientID,
	})
	var created struct {
		Project models.Project `json:"project"`
	}
	decode(t, w, &created)

	app.request(t, http.MethodPost, "/api/projects/"+created.Project.ID+"/comments", adminToken,
		gin.H{"content": "Kickoff next week"})
	// Internal chatter must not notify the client.
	app.request(t, http.MethodPost, "/api/projects/"+created.Project.ID+"/comments", adminToken,
		gin.H{"content": "Margin is thin", "isInternal": true})

	w = app.request(t, http.MethodGet, "/api/notifications", clientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list notifications failed: %d", w.Code)
	}
	var list struct {
		Notifications []models.Notification `json:"notifications"`
	}
	decode(t, w, &list)
	if len(list.Notifications) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(list.Notifications))
	}

	w = app.request(t, http.MethodPut, "/api/notifications/"+list.Notifications[0].ID+"/read", clientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("mark read failed: %d", w.Code)
	}
	var marked struct {
		Notification models.Notification `json:"notification"`
	}
	decode(t, w, &marked)
	if !marked.Notification.Read {
		t.Error("notification should be read after the call")
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	app := newTestApp(t)
	adminID, adminToken := app.loginSuperAdmin(t, "owner@example.com")

	w := app.request(t, http.MethodDelete, "/api/admin/admins/"+adminID, adminToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self-delete should be a 400, got %d", w.Code)
	}
	var resp ErrorResponse
	decode(t, w, &resp)
	if resp.Message != "Cannot delete your own account" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestPermissionGate(t *testing.T) {
	app := newTestApp(t)
	_, superToken := app.loginSuperAdmin(t, "owner@example.com")

	// A moderator can manage content but not admins.
	role, err := app.store.GetRoleByName(context.Background(), "moderator")
	if err != nil {
		t.Fatalf("moderator role missing: %v", err)
	}
	w := app.request(t, http.MethodPost, "/api/admin/admins", superToken, gin.H{
		"firstName": "Mod",
		"lastName":  "Erator",
		"email":     "mod@example.com",
		"password":  "longenough",
		"roleId":    role.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create moderator failed: %d %s", w.Code, w.Body.String())
	}

	w = app.request(t, http.MethodPost, "/api/admin/auth/login", "", gin.H{
		"email":    "mod@example.com",
		"password": "longenough",
	})
	var login AdminLoginResponse
	decode(t, w, &login)

	w = app.request(t, http.MethodPost, "/api/admin/admins", login.Token, gin.H{
		"firstName": "Sneaky",
		"lastName":  "Escalation",
		"email":     "sneak@example.com",
		"password":  "longenough",
		"roleId":    role.ID,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("moderator creating admins should get 403, got %d", w.Code)
	}

	w = app.request(t, http.MethodPost, "/api/admin/blog/posts", login.Token, gin.H{
		"title":   "Hello",
		"content": "World",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("moderator should be able to create blog posts, got %d %s", w.Code, w.Body.String())
	}
}

func TestRoleDeleteGuards(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.loginSuperAdmin(t, "owner@example.com")
	ctx := context.Background()

	superRole, err := app.store.GetRoleByName(ctx, models.SuperAdminRoleName)
	if err != nil {
		t.Fatalf("super role missing: %v", err)
	}
	w := app.request(t, http.MethodDelete, "/api/admin/roles/"+superRole.ID, adminToken, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("deleting the super role should be a 409, got %d", w.Code)
	}

	w = app.request(t, http.MethodPost, "/api/admin/roles", adminToken, gin.H{
		"name":        "billing",
		"permissions": []string{models.PermViewAnalytics},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create role failed: %d %s", w.Code, w.Body.String())
	}
	var roleResp struct {
		Role models.AdminRole `json:"role"`
	}
	decode(t, w, &roleResp)
	if roleResp.Role.Kind != models.RoleKindStandard {
		t.Error("created roles must always be standard kind")
	}

	w = app.request(t, http.MethodPost, "/api/admin/roles", adminToken, gin.H{
		"name":        "bogus",
		"permissions": []string{"made_up_permission"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown permission names should be rejected, got %d", w.Code)
	}
}

func TestBlogPublishedVisibility(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.loginSuperAdmin(t, "owner@example.com")

	w := app.request(t, http.MethodPost, "/api/admin/blog/posts", adminToken, gin.H{
		"title":     "Draft post",
		"content":   "Not ready yet",
		"published": false,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post failed: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Post models.BlogPost `json:"post"`
	}
	decode(t, w, &created)

	// The draft is invisible publicly but reachable for staff.
	if w = app.request(t, http.MethodGet, "/api/blog/posts/"+created.Post.ID, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unpublished post should 404 publicly, got %d", w.Code)
	}
	if w = app.request(t, http.MethodGet, "/api/admin/blog/posts/"+created.Post.ID, adminToken, nil); w.Code != http.StatusOK {
		t.Errorf("staff should read the draft, got %d", w.Code)
	}

	w = app.request(t, http.MethodGet, "/api/blog/posts", "", nil)
	var list struct {
		Posts []models.BlogPost `json:"posts"`
	}
	decode(t, w, &list)
	if len(list.Posts) != 0 {
		t.Errorf("public listing should omit drafts, got %d posts", len(list.Posts))
	}
}

func TestContactSubmission(t *testing.T) {
	app := newTestApp(t)

	w := app.request(t, http.MethodPost, "/api/contact", "", gin.H{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "grace@example.com",
		"service":   "web-development",
		"message":   "I need a website",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("contact submit failed: %d %s", w.Code, w.Body.String())
	}

	w = app.request(t, http.MethodPost, "/api/contact", "", gin.H{
		"firstName": "Grace",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete submission should be a 400, got %d", w.Code)
	}
}

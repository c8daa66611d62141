package services

import (
	"context"
	"errors"
	"testing"

	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"
)

func TestHasPermission(t *testing.T) {
	standard := &models.AdminRole{
		Kind:        models.RoleKindStandard,
		Permissions: models.StringList{models.PermManageContent, models.PermViewAnalytics},
	}
	super := &models.AdminRole{Kind: models.RoleKindSuper}

	if !HasPermission(standard, models.PermManageContent) {
		t.Error("standard role should hold its listed permissions")
	}
	if HasPermission(standard, models.PermManageAdmins) {
		t.Error("standard role should not hold unlisted permissions")
	}
	if !HasPermission(super, models.PermManageAdmins) {
		t.Error("super role should hold every permission")
	}
	if !HasPermission(super, "some_future_permission") {
		t.Error("super role should hold permissions minted after it was stored")
	}
	if HasPermission(nil, models.PermManageContent) {
		t.Error("nil role holds nothing")
	}
}

func seedAdmin(t *testing.T, store storage.Storage, email, password string, active bool) *models.Admin {
	t.Helper()
	ctx := context.Background()

	if err := storage.SeedDefaultRoles(ctx, store); err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}
	role, err := store.GetRoleByName(ctx, models.SuperAdminRoleName)
	if err != nil {
		t.Fatalf("super role missing: %v", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := &models.Admin{
		FirstName: "Site",
		LastName:  "Owner",
		Email:     email,
		Password:  hashed,
		RoleID:    role.ID,
		IsActive:  active,
	}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	return admin
}

func TestAdminLogin(t *testing.T) {
	store := storage.NewMemoryStorage()
	svc := NewAdminService(store)
	ctx := context.Background()

	seedAdmin(t, store, "owner@example.com", "hunter22", true)

	admin, role, session, err := svc.Login(ctx, "owner@example.com", "hunter22", "10.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if admin.LastLoginAt == nil {
		t.Error("login should stamp lastLoginAt")
	}
	if role.Kind != models.RoleKindSuper {
		t.Errorf("expected the super role, got %q", role.Name)
	}
	if session.IPAddress != "10.0.0.1" || session.UserAgent != "go-test" {
		t.Error("session should record IP and user agent")
	}

	got, gotRole, err := svc.GetAdminByToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("token should resolve: %v", err)
	}
	if got.ID != admin.ID || gotRole.ID != role.ID {
		t.Error("token resolved to the wrong admin")
	}
}

func TestAdminLoginInactive(t *testing.T) {
	store := storage.NewMemoryStorage()
	svc := NewAdminService(store)

	seedAdmin(t, store, "former@example.com", "hunter22", false)

	_, _, _, err := svc.Login(context.Background(), "former@example.com", "hunter22", "", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive admin should get ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminTokenRejectedAfterDeactivation(t *testing.T) {
	store := storage.NewMemoryStorage()
	svc := NewAdminService(store)
	ctx := context.Background()

	admin := seedAdmin(t, store, "owner@example.com", "hunter22", true)
	_, _, session, err := svc.Login(ctx, "owner@example.com", "hunter22", "", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	inactive := false
	if _, err := store.UpdateAdmin(ctx, admin.ID, storage.AdminUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, _, err := svc.GetAdminByToken(ctx, session.Token); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deactivated admin's token should stop resolving, got %v", err)
	}
}

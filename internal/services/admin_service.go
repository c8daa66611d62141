package services

import (
	"context"
	"fmt"
	"time"

	"tutsin-digital/configs"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"
)

type AdminService struct {
	store storage.Storage
}

func NewAdminService(store storage.Storage) *AdminService {
	return &AdminService{store: store}
}

// Login verifies credentials and the active flag, stamps lastLoginAt and
// opens a session that records the requester's IP and user agent. All
// failure modes collapse into ErrInvalidCredentials.
func (s *AdminService) Login(ctx context.Context, email, password, ip, userAgent string) (*models.Admin, *models.AdminRole, *models.AdminSession, error) {
	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, nil, nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, nil, nil, ErrInvalidCredentials
	}
	if !CheckPassword(password, admin.Password) {
		return nil, nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	admin, err = s.store.UpdateAdmin(ctx, admin.ID, storage.AdminUpdate{LastLoginAt: &now})
	if err != nil {
		return nil, nil, nil, err
	}

	role, err := s.store.GetRole(ctx, admin.RoleID)
	if err != nil {
		return nil, nil, nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	session := &models.AdminSession{
		Token:     token,
		AdminID:   admin.ID,
		ExpiresAt: now.Add(configs.AppConfig.AdminSessionTTL),
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.store.CreateAdminSession(ctx, session); err != nil {
		return nil, nil, nil, err
	}
	return admin, role, session, nil
}

func (s *AdminService) GetAdminByToken(ctx context.Context, token string) (*models.Admin, *models.AdminRole, error) {
	session, err := s.store.GetAdminSession(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	admin, err := s.store.GetAdmin(ctx, session.AdminID)
	if err != nil {
		return nil, nil, err
	}
	if !admin.IsActive {
		return nil, nil, storage.ErrNotFound
	}
	role, err := s.store.GetRole(ctx, admin.RoleID)
	if err != nil {
		return nil, nil, err
	}
	return admin, role, nil
}

func (s *AdminService) Logout(ctx context.Context, token string) error {
	return s.store.DeleteAdminSession(ctx, token)
}

// HasPermission is a pure function of the role and requested permission. A
// super role permits everything, including permission names minted after the
// role was stored.
func HasPermission(role *models.AdminRole, permission string) bool {
	if role == nil {
		return false
	}
	if role.Kind == models.RoleKindSuper {
		return true
	}
	for _, p := range role.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutsin-digital/configs"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// ErrInvalidCredentials is returned for unknown accounts, wrong passwords and
// inactive accounts alike so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	store storage.Storage
}

func NewAuthService(store storage.Storage) *AuthService {
	return &AuthService{store: store}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// isHashed guards against double-hashing when an update hands us a value that
// is already a bcrypt digest.
func isHashed(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// PreparePassword hashes a password for storage unless it already is a hash.
func PreparePassword(password string) (string, error) {
	if isHashed(password) {
		return password, nil
	}
	return HashPassword(password)
}

func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password, company, phone string) (*models.Client, *models.ClientSession, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	client := &models.Client{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hashed,
		Company:   company,
		Phone:     phone,
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, client.ID)
	if err != nil {
		return nil, nil, err
	}
	return client, session, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Client, *models.ClientSession, error) {
	client, err := s.store.GetClientByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !CheckPassword(password, client.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, client.ID)
	if err != nil {
		return nil, nil, err
	}
	return client, session, nil
}

func (s *AuthService) createSession(ctx context.Context, clientID string) (*models.ClientSession, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	session := &models.ClientSession{
		Token:     token,
		ClientID:  clientID,
		ExpiresAt: time.Now().Add(configs.AppConfig.ClientSessionTTL),
	}
	if err := s.store.CreateClientSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetClientByToken resolves a bearer token to its client. An expired or
// unknown token resolves to storage.ErrNotFound, never to a stale session.
func (s *AuthService) GetClientByToken(ctx context.Context, token string) (*models.Client, error) {
	session, err := s.store.GetClientSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.store.GetClient(ctx, session.ClientID)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.store.DeleteClientSession(ctx, token)
}

// Password reset uses short-lived signed tokens instead of session rows: the
// token travels by email and must stay valid without server state.
type resetClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

func (s *AuthService) GenerateResetToken(clientID string) (string, error) {
	claims := &resetClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tutsin-digital",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.AppConfig.JWTSecret))
}

func (s *AuthService) parseResetToken(tokenString string) (*resetClaims, error) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(configs.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequestPasswordReset returns a reset token for the account, or an error the
// handler must not surface differently from the success path (enumeration).
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	client, err := s.store.GetClientByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return s.GenerateResetToken(client.ID)
}

func (s *AuthService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	claims, err := s.parseResetToken(tokenString)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.store.UpdateClient(ctx, claims.ClientID, storage.ClientUpdate{Password: &hashed})
	return err
}

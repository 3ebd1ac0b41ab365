// services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clientconnect-backend/metrics"
	"clientconnect-backend/models"
	"clientconnect-backend/store"
	"clientconnect-backend/utils"

	"github.com/google/uuid"
)

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users       store.UserStore
	revocations store.RevocationStore
	tokens      *utils.TokenManager
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

func NewAuthService(users store.UserStore, revocations store.RevocationStore, tokens *utils.TokenManager, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput holds the registration fields. Username and Phone are
// optional.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Username string
	Phone    string
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	password := input.Password
	if err := utils.ValidateEmail(email); err != nil {
		return nil, models.ErrInvalidInput(err.Error())
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, models.ErrInvalidInput(err.Error())
	}

	var username *string
	if u := strings.TrimSpace(input.Username); u != "" {
		if err := utils.ValidateUsername(u); err != nil {
			return nil, models.ErrInvalidInput(err.Error())
		}
		username = &u
	}
	phone := strings.TrimSpace(input.Phone)
	if phone != "" {
		if err := utils.ValidatePhone(phone); err != nil {
			return nil, models.ErrInvalidInput(err.Error())
		}
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Username:     username,
		Phone:        phone,
		PasswordHash: hashed,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.metrics.UsersRegistered.Inc()
	s.logger.Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login checks credentials. Unknown emails and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrInvalidInput("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, s.loginFailed(email)
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, s.loginFailed(email)
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issue(user)
}

func (s *AuthService) loginFailed(email string) error {
	s.metrics.AuthFailures.Inc()
	s.logger.Warn("login failed", "email", email)
	return models.ErrUnauthorizedWithMsg("invalid email or password")
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return models.ErrUnauthorizedWithMsg("invalid token")
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.logger.Info("user logged out", "user_id", claims.Subject)
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, claims, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

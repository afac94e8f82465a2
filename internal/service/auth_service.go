package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/auth"
	apperrors "gamereviews/internal/errors"
	"gamereviews/internal/model"
	"gamereviews/internal/repository"
)

// Messages returned to auth callers.
const (
	MsgCredentialsRequired = "Username and password are required."
	MsgUsernameTaken       = "Username already exists."
	MsgRegistered          = "Registration successful."
	MsgLoggedIn            = "Login successful."
	MsgLoggedOut           = "Logout successful."
)

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, username, password string) (token, message string, err error)
	Login(ctx context.Context, username, password string) (token, message string, err error)
	Logout(ctx context.Context, principal *auth.Principal) error
}

type authService struct {
	userRepo      repository.UserRepository
	jwtService    *auth.JWTService
	hasher        *auth.PasswordHasher
	tokenStore    auth.TokenStoreInterface
	caseSensitive bool
	logger        *zap.Logger
}

// NewAuthService creates a new authentication service. caseSensitive selects
// whether usernames differing only in case are distinct accounts.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	tokenStore auth.TokenStoreInterface,
	caseSensitive bool,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtService:    jwtService,
		hasher:        hasher,
		tokenStore:    tokenStore,
		caseSensitive: caseSensitive,
		logger:        logger,
	}
}

// Register creates a User-role account and returns a token for it.
func (s *authService) Register(ctx context.Context, username, password string) (string, string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return "", "", apperrors.Validation(MsgCredentialsRequired)
	}

	existing, err := s.userRepo.FindByUsername(ctx, username, s.caseSensitive)
	if err == nil && existing != nil {
		return "", "", apperrors.Validation(MsgUsernameTaken)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", fmt.Errorf("check username: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: digest,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", "", apperrors.Validation(MsgUsernameTaken)
		}
		return "", "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return token, MsgRegistered, nil
}

// Login verifies credentials and returns a fresh token.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return "", "", apperrors.Validation(MsgCredentialsRequired)
	}

	user, err := s.userRepo.FindByUsername(ctx, username, s.caseSensitive)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
		}
		return "", "", apperrors.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	return token, MsgLoggedIn, nil
}

// Logout revokes the caller's token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil {
		return apperrors.Unauthenticated("Authentication is required.")
	}

	ttl := time.Until(principal.ExpiresAt)
	if err := s.tokenStore.RevokeToken(ctx, principal.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("token revoked", zap.String("user_id", principal.Subject), zap.String("jti", principal.TokenID))
	return nil
}

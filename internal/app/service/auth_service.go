package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rbac_system/internal/common"
	"rbac_system/internal/common/security"
	"rbac_system/internal/domain/model"
	"rbac_system/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
	cache    *IdentityCache
	tokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cache *IdentityCache, tokenTTL time.Duration) *AuthService {
	return &AuthService{userRepo: userRepo, cache: cache, tokenTTL: tokenTTL}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies the credentials and issues a bearer token whose
// subject is the user's email. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	email := NormalizeEmail(req.Email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.Email, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// ResolveIdentity materializes the user record behind a validated
// token subject. A record deleted after issuance no longer resolves,
// which is the only way an unexpired token ceases to work.
func (s *AuthService) ResolveIdentity(ctx context.Context, subject string) (*model.User, error) {
	if user, ok := s.cache.Get(ctx, subject); ok {
		return user, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	s.cache.Set(ctx, user)
	return user, nil
}

// NormalizeEmail lower-cases an email so lookups and storage agree on
// one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

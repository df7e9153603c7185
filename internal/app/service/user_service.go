package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"rbac_system/internal/common"
	"rbac_system/internal/common/security"
	"rbac_system/internal/domain/model"
	"rbac_system/internal/domain/repository"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo repository.UserRepository
	cache    *IdentityCache
}

func NewUserService(userRepo repository.UserRepository, cache *IdentityCache) *UserService {
	return &UserService{userRepo: userRepo, cache: cache}
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type ListUsersQuery struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

type UserPage struct {
	Users      []*model.User `json:"users"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

func (s *UserService) List(ctx context.Context, q ListUsersQuery) (*UserPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 10
	}

	filter := repository.ListFilter{
		Search: q.Search,
		Role:   model.Role(strings.ToLower(q.Role)), // filter is lower-cased, not validated
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	}
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*model.User{}
	}

	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a unique violation race
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", common.ErrMalformedID)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldEmail := user.Email

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hashedPassword, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashedPassword
	}
	if req.Role != nil {
		role, err := model.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, oldEmail, user.Email)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid user ID: %w", common.ErrMalformedID)
	}

	// Load first so the cache entry can be dropped by email.
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, user.Email)
	return nil
}

// SeedDefaults creates the stock principal/teacher/student accounts on
// an empty directory. A populated directory is left untouched.
func (s *UserService) SeedDefaults(ctx context.Context) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name     string
		email    string
		password string
		role     model.Role
	}{
		{"Principal User", "principal@school.com", "principal123", model.RolePrincipal},
		{"Teacher User", "teacher@school.com", "teacher123", model.RoleTeacher},
		{"Student User", "student@school.com", "student123", model.RoleStudent},
	}
	for _, d := range defaults {
		hashedPassword, err := security.HashPassword(d.password)
		if err != nil {
			return fmt.Errorf("failed to hash default password: %w", err)
		}
		user := &model.User{
			ID:             uuid.NewString(),
			Name:           d.name,
			Email:          d.email,
			HashedPassword: hashedPassword,
			Role:           d.role,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", d.email, err)
		}
	}
	log.Println("Default users created successfully")
	return nil
}

package model

import (
	"time"

	"rbac_system/internal/common"
)

// Role is a closed set: values outside the known constants are
// rejected at ingestion, not at read time.
type Role string

const (
	RolePrincipal Role = "principal" // administrator tier
	RoleTeacher   Role = "teacher"
	RoleStudent   Role = "student"
)

// ParseRole validates a raw role string. An empty string defaults to
// RoleStudent.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RolePrincipal, RoleTeacher, RoleStudent:
		return Role(raw), nil
	case "":
		return RoleStudent, nil
	}
	return "", common.Errorf("unknown role %q: %w", raw, common.ErrBadRequest)
}

func (r Role) String() string { return string(r) }

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

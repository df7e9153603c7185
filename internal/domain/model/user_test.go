package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"rbac_system/internal/common"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Role{
		"principal": RolePrincipal,
		"teacher":   RoleTeacher,
		"student":   RoleStudent,
		"":          RoleStudent, // default
	} {
		got, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseRole_Unknown(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"admin", "Principal", "superuser"} {
		if _, err := ParseRole(raw); !errors.Is(err, common.ErrBadRequest) {
			t.Fatalf("ParseRole(%q): expected ErrBadRequest, got %v", raw, err)
		}
	}
}

func TestUser_JSONOmitsHash(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:             "id-1",
		Name:           "Teacher User",
		Email:          "teacher@school.com",
		HashedPassword: "$2a$10$secret-hash",
		Role:           RoleTeacher,
	}
	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") {
		t.Fatalf("serialized user leaks password hash: %s", data)
	}
}

package security

import (
	"rbac_system/internal/common"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt hash of the plaintext password.
// Each call embeds a fresh random salt, so hashing the same password
// twice yields different strings.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", common.Errorf("password must not be empty: %w", common.ErrBadRequest)
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether the plaintext password matches the
// stored hash. bcrypt's comparison is constant-time.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"rbac_system/internal/common"
	"rbac_system/internal/platform/config"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-signing-key")}
	InitJWT()
}

func TestGenerateAndValidate_Success(t *testing.T) {
	initTestJWT(t)

	tok, err := GenerateToken("teacher@school.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	subject, err := ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken error: %v", err)
	}
	if subject != "teacher@school.com" {
		t.Fatalf("subject mismatch: got %q", subject)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	initTestJWT(t)

	// Expired well beyond the clock-skew leeway.
	tok, err := GenerateToken("teacher@school.com", -ClockSkewLeeway-5*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ValidateToken(tok)
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}

func TestValidateToken_ExpiredWithinLeeway(t *testing.T) {
	initTestJWT(t)

	// Just past expiry but inside the leeway window still validates,
	// so hosts with slightly skewed clocks agree on live tokens.
	tok, err := GenerateToken("teacher@school.com", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ValidateToken(tok); err != nil {
		t.Fatalf("token inside leeway window rejected: %v", err)
	}
}

func TestValidateToken_TamperedPayload(t *testing.T) {
	initTestJWT(t)

	tok, err := GenerateToken("teacher@school.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	parts[1] = flipFirstByte(parts[1])

	_, err = ValidateToken(strings.Join(parts, "."))
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for tampered payload, got %v", err)
	}
}

func TestValidateToken_TamperedSignature(t *testing.T) {
	initTestJWT(t)

	tok, err := GenerateToken("teacher@school.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	parts := strings.Split(tok, ".")
	parts[2] = flipFirstByte(parts[2])

	_, err = ValidateToken(strings.Join(parts, "."))
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for tampered signature, got %v", err)
	}
}

func TestValidateToken_Malformed(t *testing.T) {
	initTestJWT(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b", "a.b.c"} {
		if _, err := ValidateToken(tok); !errors.Is(err, common.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %q, got %v", tok, err)
		}
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	initTestJWT(t)
	tok, err := GenerateToken("teacher@school.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	config.AppConfig = &config.Config{JWTKey: []byte("some-other-key")}
	InitJWT()

	if _, err := ValidateToken(tok); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong key, got %v", err)
	}
}

func flipFirstByte(s string) string {
	if s == "" {
		return "x"
	}
	if s[0] == 'A' {
		return "B" + s[1:]
	}
	return "A" + s[1:]
}

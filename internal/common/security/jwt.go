package security

import (
	"errors"
	"time"

	"rbac_system/internal/common"
	"rbac_system/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
)

// ClockSkewLeeway is the tolerance applied to expiry checks so a token
// issued by a host with a slightly different clock is not rejected at
// the boundary.
const ClockSkewLeeway = 5 * time.Second

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil,
		jwxjwt.WithAcceptableSkew(ClockSkewLeeway))
}

// GenerateToken issues a signed bearer token for the given subject
// (the user's email), valid for ttl from now.
func GenerateToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// ValidateToken verifies the signature and expiry of tokenString and
// returns its subject. Every failure mode (bad signature, malformed
// payload, expiry, missing subject) collapses to ErrInvalidCredentials
// so callers cannot tell which check rejected the token.
func ValidateToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		return "", common.ErrInvalidCredentials
	}
	subject := token.Subject()
	if subject == "" {
		return "", common.ErrInvalidCredentials
	}
	return subject, nil
}

// SubjectFromClaims extracts the subject claim placed in the request
// context by the jwtauth verifier middleware.
func SubjectFromClaims(claims map[string]interface{}) (string, error) {
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", errors.New("sub claim is missing or not a string")
	}
	return subject, nil
}

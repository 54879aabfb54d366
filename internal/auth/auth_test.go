package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cosmicquirks/server/internal/config"
)

func testService() *Service {
	return NewService(&config.Config{JWTSecret: "test-secret"})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	s := testService()

	token, err := s.GenerateJWT("user-123", "ada@example.com", "premium", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ValidateJWT(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "premium", claims.PlanType)
	assert.False(t, claims.IsAdmin)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := testService().GenerateJWT("user-123", "ada@example.com", "registered", false)
	require.NoError(t, err)

	other := NewService(&config.Config{JWTSecret: "different-secret"})

	_, err = other.ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	s := testService()

	claims := Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := testService().ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	s := NewService(&config.Config{})

	_, err := s.GenerateJWT("user-123", "ada@example.com", "registered", false)
	assert.Error(t, err)
}

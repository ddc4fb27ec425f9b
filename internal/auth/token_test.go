package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-portal/internal/domain"
)

func testStaff() *domain.StaffMember {
	return &domain.StaffMember{
		ID:       "staff-3",
		Username: "staff",
		Email:    "staff@example.com",
		Role:     domain.StaffRoleStaff,
		Status:   domain.StaffStatusActive,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	token, exp, err := tm.GenerateToken(testStaff())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-3", claims.StaffID)
	assert.Equal(t, "staff-3", claims.Subject)
	assert.Equal(t, "staff", claims.Username)
	assert.Equal(t, domain.StaffRoleStaff, claims.Role)
	assert.Equal(t, "staff@example.com", claims.Email)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestParseRejectsOtherSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-1", time.Hour).GenerateToken(testStaff())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-2", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return issued }
	token, _, err := tm.GenerateToken(testStaff())
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsOtherAlgorithm(t *testing.T) {
	claims := &Claims{StaffID: "x", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/app/models"
)

func testJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    exp,
		TokenIssuer: "hooprun.test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "hooper",
		IsAdmin:  true,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := testUser()

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "hooper", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testJWTService(-time.Minute)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := testJWTService(time.Hour).GenerateToken(testUser())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "different", TokenExp: time.Hour, TokenIssuer: "hooprun.test"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenEmpty(t *testing.T) {
	_, err := testJWTService(time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("abc.def.ghi")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

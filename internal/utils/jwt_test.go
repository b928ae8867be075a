package utils

import (
	"testing"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret          = "test-secret-key-for-jwt-testing"
	testWrongSecret     = "wrong-secret-key-for-jwt-testing"
	testTokenDuration   = 1 * time.Hour
	testExpiredDuration = -1 * time.Hour
)

func createTestUser(role models.Role) *models.User {
	return &models.User{
		ID:    uuid.NewString(),
		Email: "test@example.com",
		Role:  role,
	}
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	for _, role := range []models.Role{models.RoleUser, models.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			user := createTestUser(role)

			token, err := GenerateToken(user, testSecret, testTokenDuration)
			require.NoError(t, err)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, user.ID, claims.Subject)
			assert.Equal(t, user.Email, claims.Email)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, PurposeAccess, claims.Purpose)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken(createTestUser(models.RoleUser), testSecret, testExpiredDuration)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Invalid(t *testing.T) {
	user := createTestUser(models.RoleUser)
	valid, err := GenerateToken(user, testSecret, testTokenDuration)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		token  string
		secret string
	}{
		{"empty", "", testSecret},
		{"garbage", "not-a-jwt-token", testSecret},
		{"incomplete", "a.b", testSecret},
		{"wrong_secret", valid, testWrongSecret},
		{"tampered", valid[:len(valid)-5] + "XXXXX", testSecret},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := ValidateToken(tc.token, tc.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestPurposeToken_NotAcceptedAsSession(t *testing.T) {
	user := createTestUser(models.RoleUser)
	token, err := GeneratePurposeToken(user, PurposePasswordReset, testSecret, testTokenDuration)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	_, err = ValidatePurposeToken(token, testSecret, PurposeEmailConfirmation)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	claims, err := ValidatePurposeToken(token, testSecret, PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Empty(t, claims.Role, "purpose tokens carry no role")
}

func BenchmarkValidateToken(b *testing.B) {
	token, _ := GenerateToken(createTestUser(models.RoleUser), testSecret, testTokenDuration)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ValidateToken(token, testSecret)
	}
}

package auth

import (
	"strings"
	"testing"
	"time"

	"onversed_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokensDifferWithinOneSecond(t *testing.T) {
	first, err := NewAccessToken(testSecret, "onversed", time.Hour, "user-1", Claims{Email: "a@b.com"})
	require.NoError(t, err)
	second, err := NewAccessToken(testSecret, "onversed", time.Hour, "user-1", Claims{Email: "a@b.com"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	a, err := ParseToken(testSecret, first)
	require.NoError(t, err)
	b, err := ParseToken(testSecret, second)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken(testSecret, "onversed", time.Hour, "user-1", Claims{
		Email:       "a@b.com",
		Profiles:    []string{"p-1"},
		MobilePhone: "+34600000000",
		Roles:       []string{"CUSTOMER"},
	})
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, []string{"p-1"}, claims.Profiles)
	assert.Equal(t, []string{"CUSTOMER"}, claims.Roles)
	assert.Equal(t, "onversed", claims.Issuer)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	token, err := NewAccessToken(testSecret, "onversed", time.Hour, "user-1", Claims{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = ParseToken(testSecret, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := NewAccessToken(testSecret, "onversed", -time.Minute, "user-1", Claims{})
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsNonHMAC(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenHash(t *testing.T) {
	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.Equal(t, HashToken(a), HashToken(a))
	assert.NotEqual(t, HashToken(a), HashToken(b))
	assert.NotEqual(t, a, HashToken(a))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("Secret1!", hash))
	assert.False(t, CheckPasswordHash("secret1!", hash))
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pwd, err := GeneratePassword(EmployeePasswordLength)
		require.NoError(t, err)
		require.Len(t, pwd, EmployeePasswordLength)

		assert.True(t, strings.ContainsAny(pwd, upperChars), pwd)
		assert.True(t, strings.ContainsAny(pwd, lowerChars), pwd)
		assert.True(t, strings.ContainsAny(pwd, digitChars), pwd)
		assert.True(t, strings.ContainsAny(pwd, specialChars), pwd)
	}

	_, err := GeneratePassword(3)
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	customer := &models.Profile{IsCustomer: true}
	staff := &models.Profile{IsStaff: true, Roles: []models.Role{{Name: "Designer"}}}

	tests := []struct {
		name     string
		profile  *models.Profile
		required []string
		want     bool
	}{
		{"empty requirement passes", &models.Profile{}, nil, true},
		{"nil profile with requirement", nil, []string{RoleCustomer}, false},
		{"customer flag", customer, []string{RoleCustomer}, true},
		{"case insensitive", customer, []string{"customer"}, true},
		{"missing role", customer, []string{RoleStaff}, false},
		{"named role", staff, []string{"designer"}, true},
		{"any of", staff, []string{RoleCustomer, RoleStaff}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasRole(tt.profile, tt.required...))
		})
	}
}

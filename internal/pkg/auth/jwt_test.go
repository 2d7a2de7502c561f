package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-ordering-backend/internal/config"
)

const testSecret = "test-secret-that-is-at-least-32-bytes!"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:            testSecret,
		Audience:          "authenticated",
		AccessTokenExpiry: time.Hour,
	}}
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestGenerateAndResolve(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken("user-123", "alice@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)

	identity, err := manager.ResolveIdentity("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity)

	identity, err = manager.ResolveIdentity("bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity)
}

func TestResolveIdentityRejects(t *testing.T) {
	manager := NewJWTManager(testConfig())
	now := time.Now()

	valid := func() Claims {
		return Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	noSubject := valid()
	noSubject.Subject = ""

	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	testCases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", ErrMissingToken},
		{"not bearer", "Basic dXNlcjpwYXNz", ErrMissingToken},
		{"garbage", "Bearer not-a-jwt", ErrInvalidToken},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-123"), valid()), ErrInvalidToken},
		{"wrong algorithm", "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(testSecret), valid()), ErrInvalidToken},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), expired), ErrInvalidToken},
		{"no subject", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject), ErrInvalidToken},
		{"wrong audience", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAudience), ErrInvalidToken},
		{"no expiry", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry), ErrInvalidToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manager.ResolveIdentity(tc.header)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestIssuerIsCheckedWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Issuer = "https://auth.example.com"
	manager := NewJWTManager(cfg)

	token, err := manager.GenerateAccessToken("user-123", "")
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(token)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Issuer = "https://elsewhere.example.com"
	foreign, err := NewJWTManager(other).GenerateAccessToken("user-123", "")
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)
}

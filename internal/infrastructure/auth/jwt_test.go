package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        2,
	}
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{UserID: 42, Username: "operator1", Role: "OPERATOR"}
}

func TestNewJWTService_RefreshSecretFallsBackToSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret", AccessTokenExpiration: time.Minute})
	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
	assert.Equal(t, time.Minute, svc.GetAccessTokenExpiration())
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "operator1", claims.Username)
	assert.Equal(t, "OPERATOR", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestValidateToken_WrongType(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	// access token signed with the access secret must not pass as a refresh token
	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// same secret for both, so the type check is what rejects it
	shared := NewJWTService(config.JWTConfig{Secret: "same", AccessTokenExpiration: time.Minute, RefreshTokenExpiration: time.Hour})
	pair, err = shared.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	_, err = shared.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessTokenExpiration: -time.Minute, RefreshTokenExpiration: time.Hour})
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_RejectsOtherSigningMethod(t *testing.T) {
	svc := newTestJWTService()
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, TokenType: TokenTypeAccess})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := newTestJWTService().ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, "MANAGER")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", claims.Role)

	rc, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, rc.RefreshCount)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	token := pair.RefreshToken
	for i := 0; i < 2; i++ {
		next, err := svc.RefreshTokenPair(token, "OPERATOR")
		require.NoError(t, err)
		token = next.RefreshToken
	}
	_, err = svc.RefreshTokenPair(token, "OPERATOR")
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

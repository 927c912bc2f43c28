// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "vidora.app")
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_SecretRules verifies empty or identical secrets are rejected.
*/
func TestNewTokenService_SecretRules(t *testing.T) {
	_, err := sec.NewTokenService("", "b", "iss")
	assert.Error(t, err)

	_, err = sec.NewTokenService("a", "", "iss")
	assert.Error(t, err)

	_, err = sec.NewTokenService("same", "same", "iss")
	assert.Error(t, err)
}

/*
TestAccessToken_RoundTrip verifies the full identity payload survives
generation and verification.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	identity := sec.AuthClaims{
		UserID:      "user-123",
		ChannelName: "Tech With Maria",
		Email:       "maria@example.com",
		Phone:       "+84901234567",
		LogoURL:     "https://cdn.test/logos/maria.png",
		Role:        string(sec.RoleAdmin),
	}

	token, err := service.GenerateAccessToken(identity, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "Tech With Maria", claims.ChannelName)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)
	assert.Equal(t, "vidora.app", claims.Issuer)
	assert.Equal(t, "user-123", claims.Subject)
}

/*
TestAccessToken_Expiry verifies an expired token fails verification.
*/
func TestAccessToken_Expiry(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken(sec.AuthClaims{UserID: "user-123"}, -1*time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestTokens_IndependentSecrets verifies a refresh token can never pass access
token verification and vice versa.
*/
func TestTokens_IndependentSecrets(t *testing.T) {
	service := newTokenService(t)

	refreshToken, err := service.GenerateRefreshToken("user-123", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.Error(t, err)

	accessToken, err := service.GenerateAccessToken(sec.AuthClaims{UserID: "user-123"}, time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.Error(t, err)
}

/*
TestRefreshToken_RoundTrip verifies the minimal refresh payload.
*/
func TestRefreshToken_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateRefreshToken("user-123", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
}

/*
TestPasswordHashing verifies bcrypt round-trip and mismatch behavior.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}

/*
TestParseRole verifies the closed role set.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		raw    string
		want   sec.UserRole
		wantOK bool
	}{
		{"user", sec.RoleUser, true},
		{"admin", sec.RoleAdmin, true},
		{"superadmin", sec.RoleSuperAdmin, true},
		{"overlord", "", false},
		{"", "", false},
		{"Admin", "", false},
	}

	for _, tt := range tests {
		t.Run("parse_"+tt.raw, func(t *testing.T) {
			role, ok := sec.ParseRole(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, role)
		})
	}
}

/*
TestRoleHierarchy verifies the AtLeast comparison matrix.
*/
func TestRoleHierarchy(t *testing.T) {
	assert.True(t, sec.RoleSuperAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleSuperAdmin.AtLeast(sec.RoleSuperAdmin))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.False(t, sec.RoleAdmin.AtLeast(sec.RoleSuperAdmin))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("unknown").AtLeast(sec.RoleUser))
}

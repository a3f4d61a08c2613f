package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "1234.apps.googleusercontent.com"

func validClaims(now time.Time) *GoogleIDClaims {
	return &GoogleIDClaims{
		Iss:   "https://accounts.google.com",
		Sub:   "110169484474386276334",
		Aud:   testClientID,
		Iat:   now.Add(-time.Minute).Unix(),
		Exp:   now.Add(time.Hour).Unix(),
		Email: "user@example.com",
	}
}

func TestValidateGoogleClaims(t *testing.T) {
	now := time.Now()
	require.NoError(t, validateGoogleClaims(validClaims(now), testClientID, now))
}

func TestValidateGoogleClaimsBareIssuer(t *testing.T) {
	now := time.Now()
	claims := validClaims(now)
	claims.Iss = "accounts.google.com"
	require.NoError(t, validateGoogleClaims(claims, testClientID, now))
}

func TestValidateGoogleClaimsWrongIssuer(t *testing.T) {
	now := time.Now()
	claims := validClaims(now)
	claims.Iss = "https://evil.example.com"
	err := validateGoogleClaims(claims, testClientID, now)
	assert.ErrorContains(t, err, "invalid issuer")
}

func TestValidateGoogleClaimsWrongAudience(t *testing.T) {
	now := time.Now()
	claims := validClaims(now)
	claims.Aud = "other-client.apps.googleusercontent.com"
	err := validateGoogleClaims(claims, testClientID, now)
	assert.ErrorContains(t, err, "invalid audience")
}

func TestValidateGoogleClaimsExpired(t *testing.T) {
	now := time.Now()
	claims := validClaims(now)
	claims.Exp = now.Add(-time.Minute).Unix()
	err := validateGoogleClaims(claims, testClientID, now)
	assert.ErrorContains(t, err, "expired")
}

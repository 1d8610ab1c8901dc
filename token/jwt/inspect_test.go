package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/bearer-token-cli/token/jwt"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("1234"))
	require.NoError(t, err)
	return raw
}

func TestInspect(t *testing.T) {
	iat := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := iat.Add(time.Hour)

	raw := signed(t, jwtlib.MapClaims{
		"sub":       "billing-service",
		"iss":       "https://auth.example.com",
		"aud":       []string{"api", "reports"},
		"client_id": "billing",
		"scope":     "api.read",
		"iat":       iat.Unix(),
		"exp":       exp.Unix(),
	})

	s, err := jwt.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, "billing-service", s.Subject)
	require.Equal(t, "https://auth.example.com", s.Issuer)
	require.Equal(t, []string{"api", "reports"}, s.Audience)
	require.Equal(t, "billing", s.ClientID)
	require.Equal(t, "api.read", s.Scope)
	require.True(t, s.IssuedAt.Equal(iat))
	require.True(t, s.ExpiresAt.Equal(exp))

	require.False(t, s.Expired(iat))
	require.True(t, s.Expired(exp.Add(time.Second)))
}

func TestInspect_AzpAndNoExpiry(t *testing.T) {
	s, err := jwt.Inspect(signed(t, jwtlib.MapClaims{"azp": "cli", "aud": "api"}))
	require.NoError(t, err)
	require.Equal(t, "cli", s.ClientID)
	require.Equal(t, []string{"api"}, s.Audience)
	require.Nil(t, s.ExpiresAt)
	require.False(t, s.Expired(time.Now()))
}

func TestInspect_Opaque(t *testing.T) {
	for _, raw := range []string{"abc123", "", "a.b", "not.a.jwt"} {
		_, err := jwt.Inspect(raw)
		require.ErrorIs(t, err, jwt.ErrNotJWT, raw)
	}
}

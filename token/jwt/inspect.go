package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrNotJWT = errors.New("access token is not a jwt")

// Summary is what a client can learn from a JWT access token without the
// issuer's keys. None of it is verified.
type Summary struct {
	Subject   string
	Issuer    string
	Audience  []string
	ClientID  string
	Scope     string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Inspect decodes the claims of rawToken without checking its signature.
// Opaque tokens return ErrNotJWT.
func Inspect(rawToken string) (*Summary, error) {
	if strings.Count(rawToken, ".") != 2 {
		return nil, ErrNotJWT
	}

	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, errors.Join(ErrNotJWT, err)
	}

	s := &Summary{}
	s.Subject, _ = claims.GetSubject()
	s.Issuer, _ = claims.GetIssuer()
	if aud, err := claims.GetAudience(); err == nil {
		s.Audience = aud
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		s.IssuedAt = &iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = &exp.Time
	}

	// Cognito and Keycloak put the client in client_id, Auth0 in azp.
	if id, ok := claims["client_id"].(string); ok {
		s.ClientID = id
	} else if azp, ok := claims["azp"].(string); ok {
		s.ClientID = azp
	}
	s.Scope, _ = claims["scope"].(string)

	return s, nil
}

// Expired reports whether the token's exp claim is before now. Tokens without
// exp never expire.
func (s *Summary) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

package oauthmodel

// TokenResponse represents the JSON body returned from an OAuth2 token endpoint.
// This is the standard response format as defined in RFC 6749 section 5.1.
// access_token is deliberately absent: it is read from the raw object so that
// a non-string value does not stop these informational fields from decoding.
type TokenResponse struct {
	// TokenType indicates how to use the access token.
	// Example: "bearer" or "Bearer"
	// Standard: OAuth2 spec requires this field, many servers still omit it
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Example: 3600
	// Note: This is a hint, a JWT access token carries the real expiry in "exp"
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// Scope indicates the access token's granted permissions.
	// Example: "api.read api.write"
	// Note: May be less than requested if some scopes were denied
	Scope string `json:"scope,omitempty"`
}

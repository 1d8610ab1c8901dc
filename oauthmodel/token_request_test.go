package oauthmodel_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/jrsteele09/bearer-token-cli/oauthmodel"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
)

func TestBuildAuthURL(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		scheme   string
		host     string
		path     string
		expected string
	}{
		{
			name:     "https with path",
			rawURL:   "https://auth.example.com/oauth2/token",
			scheme:   "https",
			host:     "auth.example.com",
			path:     "/oauth2/token",
			expected: "https://auth.example.com/oauth2/token?grant_type=client_credentials&client_id=test-client-1&client_secret=test-secret-1",
		},
		{
			name:     "port is kept",
			rawURL:   "http://localhost:8080/token",
			scheme:   "http",
			host:     "localhost:8080",
			path:     "/token",
			expected: "http://localhost:8080/token?grant_type=client_credentials&client_id=test-client-1&client_secret=test-secret-1",
		},
		{
			name:     "existing query and fragment are dropped",
			rawURL:   "https://auth.example.com/token?scope=api&grant_type=password#frag",
			scheme:   "https",
			host:     "auth.example.com",
			path:     "/token",
			expected: "https://auth.example.com/token?grant_type=client_credentials&client_id=test-client-1&client_secret=test-secret-1",
		},
		{
			name:     "fragment without query is dropped",
			rawURL:   "https://auth.example.com/token#frag",
			scheme:   "https",
			host:     "auth.example.com",
			path:     "/token",
			expected: "https://auth.example.com/token?grant_type=client_credentials&client_id=test-client-1&client_secret=test-secret-1",
		},
		{
			name:     "empty path becomes root",
			rawURL:   "https://auth.example.com",
			scheme:   "https",
			host:     "auth.example.com",
			path:     "/",
			expected: "https://auth.example.com/?grant_type=client_credentials&client_id=test-client-1&client_secret=test-secret-1",
		},
		{
			name:     "ipv6 host",
			rawURL:   "http://[::1]:9000/token",
			scheme:   "http",
			host:     "[::1]:9000",
			path:     "/token",
			expected: "http://[::1]:9000/token?grant_type=client_credentials&client_id=test-client-1&client_secret=test-secret-1",
		},
		{
			name:     "surrounding whitespace is ignored",
			rawURL:   "  https://auth.example.com/token \n",
			scheme:   "https",
			host:     "auth.example.com",
			path:     "/token",
			expected: "https://auth.example.com/token?grant_type=client_credentials&client_id=test-client-1&client_secret=test-secret-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := oauthmodel.BuildAuthURL(tt.rawURL, testClientID, testClientSecret)
			require.NoError(t, err)
			require.Equal(t, tt.expected, u.String())
			require.Equal(t, tt.scheme, u.Scheme)
			require.Equal(t, tt.host, u.Host)
			require.Equal(t, tt.path, u.Path)
			require.Empty(t, u.Fragment)

			q := u.Query()
			require.Len(t, q, 3)
			require.Equal(t, "client_credentials", q.Get("grant_type"))
			require.Equal(t, testClientID, q.Get("client_id"))
			require.Equal(t, testClientSecret, q.Get("client_secret"))
		})
	}
}

func TestBuildAuthURL_EncodesCredentials(t *testing.T) {
	id := "svc account/1"
	secret := "p&ss=w?rd#1+ü%"

	u, err := oauthmodel.BuildAuthURL("https://auth.example.com/token", id, secret)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(u.RawQuery, "grant_type=client_credentials&client_id="))
	require.Equal(t, []string{"grant_type", "client_id", "client_secret"}, queryKeys(u.RawQuery))

	q := u.Query()
	require.Len(t, q, 3)
	require.Equal(t, id, q.Get("client_id"))
	require.Equal(t, secret, q.Get("client_secret"))
}

func TestBuildAuthURL_MalformedInput(t *testing.T) {
	for _, raw := range []string{
		"not a url",
		"",
		"auth.example.com/token",
		"localhost:8080/token",
		"http://auth.example.com:port/token",
		"http://exa mple.com/token",
		"%zz",
		"/token",
		"mailto:someone@example.com",
	} {
		t.Run(raw, func(t *testing.T) {
			require.NotPanics(t, func() {
				u, err := oauthmodel.BuildAuthURL(raw, testClientID, testClientSecret)
				require.Nil(t, u)
				require.ErrorIs(t, err, oauthmodel.ErrMalformedInputURL)
			})
		})
	}
}

func TestBuildAuthURL_MissingHost(t *testing.T) {
	for _, raw := range []string{"http:///token", "https://:443/token"} {
		t.Run(raw, func(t *testing.T) {
			u, err := oauthmodel.BuildAuthURL(raw, testClientID, testClientSecret)
			require.Nil(t, u)
			require.ErrorIs(t, err, oauthmodel.ErrURLConstructionFailed)
			require.False(t, errors.Is(err, oauthmodel.ErrMalformedInputURL))
		})
	}
}

func TestClientCredentialsRequest_Form(t *testing.T) {
	req, err := oauthmodel.NewClientCredentialsRequest("https://auth.example.com/token?x=1", testClientID, testClientSecret)
	require.NoError(t, err)

	require.Equal(t, "https://auth.example.com/token", req.TokenURL())
	require.Equal(t, url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {testClientID},
		"client_secret": {testClientSecret},
	}, req.Form())
}

func TestRedact(t *testing.T) {
	u, err := oauthmodel.BuildAuthURL("https://auth.example.com/token", testClientID, "top&secret")
	require.NoError(t, err)

	redacted := oauthmodel.Redact(u)
	require.NotContains(t, redacted, "top")
	require.Equal(t, "https://auth.example.com/token?grant_type=client_credentials&client_id=test-client-1&client_secret=REDACTED", redacted)

	// The original url is left alone.
	require.Equal(t, "top&secret", u.Query().Get("client_secret"))

	plain, _ := url.Parse("https://auth.example.com/token")
	require.Equal(t, "https://auth.example.com/token", oauthmodel.Redact(plain))
	require.Empty(t, oauthmodel.Redact(nil))
}

func queryKeys(rawQuery string) []string {
	var keys []string
	for _, part := range strings.Split(rawQuery, "&") {
		k, _, _ := strings.Cut(part, "=")
		keys = append(keys, k)
	}
	return keys
}

package oauthmodel

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/bearer-token-cli/internal/errors"
	"github.com/rs/zerolog/log"
)

// ClientCredentialsRequest holds the parameters for a client credentials token request.
// The parameters are sent to the token endpoint either in the query string or,
// for a POST, in a form encoded body.
type ClientCredentialsRequest struct {
	// AuthURL is the token endpoint with scheme, host, optional port and path.
	// Example: "https://auth.example.com/oauth/token"
	// Any query or fragment supplied on the command line has been removed.
	AuthURL *url.URL

	// ClientID identifies the OAuth2 client making the request.
	// Required: Yes
	// Example: "billing-service"
	ClientID string

	// ClientSecret is the secret credential for the confidential client.
	// Required: Yes
	// Security: Never log this value, use Redact on anything that contains it
	ClientSecret string
}

// NewClientCredentialsRequest parses rawAuthURL and returns a request for the
// token endpoint it names.
func NewClientCredentialsRequest(rawAuthURL, clientID, clientSecret string) (*ClientCredentialsRequest, error) {
	protoURL, err := url.Parse(strings.TrimSpace(rawAuthURL))
	if err == nil && (!protoURL.IsAbs() || protoURL.Opaque != "") {
		err = errors.New("not an absolute url")
	}
	if err != nil {
		log.Error().Err(err).Str("auth_url", rawAuthURL).Msg("Unable to parse the supplied authorization server url")
		return nil, errors.Wrapf(ErrMalformedInputURL, "%q: %s", rawAuthURL, err.Error())
	}

	if protoURL.Scheme == "" || protoURL.Hostname() == "" {
		log.Warn().
			Str("auth_url", rawAuthURL).
			Str("scheme", protoURL.Scheme).
			Str("host", protoURL.Host).
			Msg("Authorization server url needs both a scheme and a host")
		return nil, errors.Wrapf(ErrURLConstructionFailed, "%q has no scheme or host", rawAuthURL)
	}

	path := protoURL.Path
	rawPath := protoURL.RawPath
	if path == "" {
		path = "/"
		rawPath = ""
	}

	return &ClientCredentialsRequest{
		AuthURL: &url.URL{
			Scheme:  protoURL.Scheme,
			Host:    protoURL.Host,
			Path:    path,
			RawPath: rawPath,
		},
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, nil
}

// BuildAuthURL returns the token endpoint url with the client credentials
// grant parameters in its query string.
func BuildAuthURL(rawAuthURL, clientID, clientSecret string) (*url.URL, error) {
	req, err := NewClientCredentialsRequest(rawAuthURL, clientID, clientSecret)
	if err != nil {
		return nil, err
	}
	return req.URL()
}

// URL assembles the GET form of the request. The parameters keep the order
// grant_type, client_id, client_secret.
func (r *ClientCredentialsRequest) URL() (*url.URL, error) {
	u := *r.AuthURL
	u.RawQuery = r.encode(r.ClientSecret)
	u.Fragment = ""

	// Round trip so anything the encoder let through is caught here and not
	// by the HTTP client.
	built, err := url.ParseRequestURI(u.String())
	if err != nil {
		log.Warn().Err(err).Str("url", Redact(&u)).Msg("Reassembled token request url is invalid")
		return nil, errors.Wrapf(ErrURLConstructionFailed, "%s", err.Error())
	}
	if built.Scheme == "" || built.Hostname() == "" {
		log.Warn().Str("url", Redact(&u)).Msg("Reassembled token request url has no scheme or host")
		return nil, ErrURLConstructionFailed
	}
	return built, nil
}

// Form returns the request parameters for a form encoded POST body.
func (r *ClientCredentialsRequest) Form() url.Values {
	return url.Values{
		ParamGrantType:    {string(ClientCredentialsGrant)},
		ParamClientID:     {r.ClientID},
		ParamClientSecret: {r.ClientSecret},
	}
}

// TokenURL is the endpoint without any parameters.
func (r *ClientCredentialsRequest) TokenURL() string {
	return r.AuthURL.String()
}

func (r *ClientCredentialsRequest) encode(secret string) string {
	var b strings.Builder
	b.WriteString(ParamGrantType + "=" + url.QueryEscape(string(ClientCredentialsGrant)))
	b.WriteString("&" + ParamClientID + "=" + url.QueryEscape(r.ClientID))
	b.WriteString("&" + ParamClientSecret + "=" + url.QueryEscape(secret))
	return b.String()
}

// Redact returns u as a string with any client_secret value replaced.
func Redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	if !strings.Contains(u.RawQuery, ParamClientSecret+"=") {
		return u.String()
	}

	parts := strings.Split(u.RawQuery, "&")
	for i, part := range parts {
		if strings.HasPrefix(part, ParamClientSecret+"=") {
			parts[i] = ParamClientSecret + "=" + redactedValue
		}
	}
	redacted := *u
	redacted.RawQuery = strings.Join(parts, "&")
	return redacted.String()
}

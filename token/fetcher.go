package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/bearer-token-cli/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	accessTokenField = "access_token"
	requestIDHeader  = "X-Request-ID"
)

// Fetcher sends a single client credentials request and extracts the access
// token from the answer. It never retries.
type Fetcher struct {
	client    *http.Client
	requestID string
	nowFunc   func() time.Time
}

type FetcherOption func(*Fetcher)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithRequestID sets the X-Request-ID header sent with the token request.
func WithRequestID(id string) FetcherOption {
	return func(f *Fetcher) {
		f.requestID = id
	}
}

func WithNowFunc(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.nowFunc = now
	}
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:  http.DefaultClient,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchToken requests a token with a GET to authURL, which already carries
// the client credentials in its query string.
func (f *Fetcher) FetchToken(ctx context.Context, authURL *url.URL) (*oauth2.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, authURL.String(), nil)
	if err != nil {
		log.Error().Err(redactURLError(err, authURL)).Msg("Unable to create token request")
		return nil, fmt.Errorf("%w: %w", ErrTransport, redactURLError(err, authURL))
	}
	return f.do(req, authURL)
}

// PostToken sends the credentials in a form encoded body to tokenURL.
func (f *Fetcher) PostToken(ctx context.Context, tokenURL *url.URL, form url.Values) (*oauth2.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		log.Error().Err(err).Msg("Unable to create token request")
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req, tokenURL)
}

func (f *Fetcher) do(req *http.Request, target *url.URL) (*oauth2.Token, error) {
	requested := oauthmodel.Redact(target)
	req.Header.Set("Accept", contentTypeJSON)
	if f.requestID != "" {
		req.Header.Set(requestIDHeader, f.requestID)
	}

	log.Info().Str("method", req.Method).Str("url", requested).Msg("Requesting token")

	resp, err := f.client.Do(req)
	if err != nil {
		err = redactURLError(err, target)
		log.Error().Err(err).Str("url", requested).Msg("Token request failed")
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("url", requested).Msg("Unable to read token response body")
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return f.extract(newResponse(resp, body), requested)
}

func (f *Fetcher) extract(r *Response, requested string) (*oauth2.Token, error) {
	if r.StatusCode != http.StatusOK {
		log.Warn().
			Int("status_code", r.StatusCode).
			Str("url", requested).
			Str("body", string(r.Body)).
			Msg("Request was unsuccessful")
		return nil, &UnexpectedStatusError{StatusCode: r.StatusCode, Body: r.bodySnippet()}
	}

	if strings.TrimSpace(r.ContentType) == "" {
		log.Error().Str("url", requested).Msg("Content-Type header is empty")
		return nil, ErrMissingContentType
	}

	if !r.IsJSON() {
		log.Warn().Str("content_type", r.MediaType()).Msg("Content-Type is not application/json")
		return nil, &UnexpectedContentTypeError{ContentType: r.MediaType()}
	}

	fields, err := decodeObject(r.Body)
	if err != nil {
		log.Warn().Err(err).Str("body", string(r.Body)).Msg("Unable to parse token response")
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	value, ok := fields[accessTokenField]
	if !ok || value == nil {
		log.Warn().Strs("fields", fieldNames(fields)).Msg("Token response has no access_token")
		return nil, ErrMissingAccessToken
	}

	accessToken, err := stringify(value)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to convert access_token to a string")
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	tok := &oauth2.Token{AccessToken: accessToken}

	// The remaining fields are informational, a server that gets them wrong
	// still hands out a usable token.
	var meta oauthmodel.TokenResponse
	if err := json.Unmarshal(r.Body, &meta); err == nil {
		tok.TokenType = meta.TokenType
		if meta.ExpiresIn > 0 {
			tok.Expiry = f.nowFunc().Add(time.Duration(meta.ExpiresIn) * time.Second)
		}
		log.Debug().
			Str("token_type", meta.TokenType).
			Int64("expires_in", meta.ExpiresIn).
			Str("scope", meta.Scope).
			Msg("Token received")
	}

	return tok.WithExtra(fields), nil
}

// decodeObject parses body as exactly one JSON object. Numbers are kept as
// json.Number so their text survives.
func decodeObject(body []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("expected a json object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after json object")
	}
	return fields, nil
}

func stringify(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	return names
}

// redactURLError strips the client secret from the url the http client
// reports in its errors.
func redactURLError(err error, u *url.URL) error {
	if ue, ok := err.(*url.Error); ok {
		return &url.Error{Op: ue.Op, URL: oauthmodel.Redact(u), Err: ue.Err}
	}
	return err
}

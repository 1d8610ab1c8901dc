package token

import (
	"net/http"
	"strings"
)

const (
	contentTypeJSON = "application/json"

	// maxBodySnippet bounds the body carried on an UnexpectedStatusError.
	maxBodySnippet = 512
)

// Response is the part of the token endpoint's answer that decides whether
// a token can be extracted.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func newResponse(resp *http.Response, body []byte) *Response {
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
}

// MediaType is the content type without parameters, e.g. "application/json"
// for "application/json; charset=utf-8".
func (r *Response) MediaType() string {
	mediaType, _, _ := strings.Cut(r.ContentType, ";")
	return strings.TrimSpace(mediaType)
}

// IsJSON reports whether the media type is application/json, ignoring case.
func (r *Response) IsJSON() bool {
	return strings.EqualFold(r.MediaType(), contentTypeJSON)
}

// Valid reports whether the response can carry a token.
func (r *Response) Valid() bool {
	return r.StatusCode == http.StatusOK && r.IsJSON()
}

func (r *Response) bodySnippet() string {
	if len(r.Body) <= maxBodySnippet {
		return string(r.Body)
	}
	return string(r.Body[:maxBodySnippet]) + "..."
}

package token

import (
	"errors"
	"fmt"
)

var (
	ErrTransport          = errors.New("token request failed")
	ErrMissingContentType = errors.New("token response has no content type")
	ErrMalformedJSON      = errors.New("token response is not a json object")
	ErrMissingAccessToken = errors.New("token response has no access_token")
)

// UnexpectedStatusError is returned when the token endpoint answers with
// anything other than 200 OK. Body holds the start of the response body.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
}

func (e *UnexpectedStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// UnexpectedContentTypeError is returned when the response media type is not
// application/json.
type UnexpectedContentTypeError struct {
	ContentType string
}

func (e *UnexpectedContentTypeError) Error() string {
	return fmt.Sprintf("content type is %s not application/json", e.ContentType)
}

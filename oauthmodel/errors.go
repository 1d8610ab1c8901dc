package oauthmodel

import "errors"

var (
	ErrMalformedInputURL     = errors.New("malformed authorization server url")
	ErrURLConstructionFailed = errors.New("unable to construct token request url")
)

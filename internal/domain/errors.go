package domain

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
	ErrConfig       = errors.New("configuration error")
)

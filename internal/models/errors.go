package models

import "errors"

// Custom errors
var (
	ErrUnauthorized = errors.New("invalid credential")
	ErrInvalidInput = errors.New("invalid input")
)

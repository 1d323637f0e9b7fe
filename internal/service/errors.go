package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("product not found")
	ErrValidation         = errors.New("validation failed")
)

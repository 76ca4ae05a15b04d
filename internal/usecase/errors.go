package usecase

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid match status")
	ErrInternal      = errors.New("internal error")
)

package usecase

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyMember = errors.New("user is already a member")
	ErrNotConfigured = errors.New("not configured")
	ErrUpstream      = errors.New("upstream provider error")
	ErrInternal      = errors.New("internal error")
)

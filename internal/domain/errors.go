package domain

import "errors"

// Auth errors
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccessDenied        = errors.New("access denied")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")
)

// Entity errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrInvalidCategory  = errors.New("invalid category id")
	ErrNotNoteOwner     = errors.New("you do not have access to this note")
)

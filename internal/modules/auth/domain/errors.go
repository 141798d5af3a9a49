package domain

import "errors"

var (
	ErrUserAlreadyExists  = errors.New("user with this email or username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)

package service

import "errors"

var (
	ErrUsernameTaken       = errors.New("username_taken")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrRefreshTokenInvalid = errors.New("invalid_refresh_token")
	ErrPasswordIncorrect   = errors.New("password_incorrect")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrInvalidRequest      = errors.New("invalid_request")
)

package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPhoneRegistered    = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotRegistered      = errors.New("no account registered for this phone")
	ErrSessionConflict    = errors.New("already logged in on another device")
	ErrStaleToken         = errors.New("you have logged in on another device, please login again")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrExamNotFound     = errors.New("exam not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrInvalidAttempt   = errors.New("invalid attempt")
	ErrAlreadySubmitted = errors.New("exam already submitted")

	ErrInvalidOTP = errors.New("invalid or expired verification code")
)

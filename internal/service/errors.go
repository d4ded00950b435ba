package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound is returned when an account is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrConflict is returned when there's a conflict (e.g., duplicate username)
	ErrConflict = errors.New("resource conflict")

	// ErrInvalidCredentials is returned when login fails
	// Deliberately the same for unknown usernames and wrong passwords
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWeakPassword is returned when a new password is below the minimum length
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrDefaultPassword is returned when a password change supplies the shared default
	ErrDefaultPassword = errors.New("please choose a different password")
)

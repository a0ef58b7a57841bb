package auth

import "errors"

var (
	// ErrRoleNotFound is returned when a role does not exist.
	ErrRoleNotFound = errors.New("role not found")

	// ErrUserNameOrEmailExists is returned when creating a user with a taken username or email.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrUserAccountDisabled is returned when an inactive user tries to log in.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the password does not match.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when no user matches.
	ErrUserNotFound = errors.New("user not found")
)

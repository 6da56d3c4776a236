package services

import (
	"errors"

	"reeltalk/app/repositories"
)

var (
	// ErrNotFound is returned when the addressed post or comment does not exist.
	ErrNotFound = repositories.ErrNotFound
	// ErrNotAuthorized is returned when the actor neither owns the row nor is
	// an admin.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrEmailTaken is returned when registering an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownAuthor is returned when the signed-in user no longer exists.
	ErrUnknownAuthor = errors.New("author no longer exists")
)

package domain

import "errors"

// Store failures. Repositories wrap the driver cause together with one of
// these so callers can branch with errors.Is.
var ErrRead = errors.New("store read failed")
var ErrWrite = errors.New("store write failed")

// ErrValidation is returned before any store call when a required field is empty.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when an update target no longer exists.
var ErrNotFound = errors.New("not found")

var ErrInvalidTransition = errors.New("invalid selection transition")
var ErrProfileRequired = errors.New("profile registration required")
var ErrProfileNotFound = errors.New("profile not found")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUnauthenticated = errors.New("unauthenticated")

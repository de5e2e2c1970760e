// Package apperr defines the sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrInvalidFormat is returned when a collection document does not match
	// the expected {meta, posts[]} shape.
	ErrInvalidFormat = errors.New("invalid collection format")
	// ErrLoadFailure is returned when fetching the collection document fails.
	ErrLoadFailure = errors.New("load failure")
	// ErrImportFormat is returned when an imported file fails shape validation.
	ErrImportFormat = errors.New("import format error")
	// ErrSlugConflict is returned when a save resolves to an identifier held
	// by a different post. Auto-suffixing never renames an unrelated post.
	ErrSlugConflict = errors.New("slug conflict")
	// ErrValidation is returned when a required editor field is empty.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a post does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned on a failed or missing admin login.
	ErrUnauthorized = errors.New("unauthorized")
)

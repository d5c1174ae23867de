package models

import "errors"

var (
	// ErrNotFound is returned for unknown courses, lessons, sections and exports
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when private content is requested without a signed-in user
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden is returned when the user's plan does not cover the course
	ErrForbidden = errors.New("plan does not include this course")
	// ErrDataIntegrity is returned when a persisted JSON field exists but is malformed
	ErrDataIntegrity = errors.New("malformed persisted progress")
	// ErrExternalService is returned when a collaborator (content, text generation) fails
	ErrExternalService = errors.New("external service failure")
	// ErrNothingToExport is returned when a lesson has no rendered output yet
	ErrNothingToExport = errors.New("lesson has no output to export")
)

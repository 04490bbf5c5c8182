// models/errors.go
package models

import "errors"

// Error taxonomy shared by the services. Business-rule rejections (not
// eligible, already issued) are values, not errors; these sentinels cover
// the cases that abort an operation.
var (
	// ErrInvalidData rejects malformed input before any mutation.
	ErrInvalidData = errors.New("invalid achievement data")

	// ErrStudentNotFound marks a lookup for a student with no document.
	ErrStudentNotFound = errors.New("student not found")

	// ErrAchievementNotFound marks a delete/lookup for an absent achievement.
	ErrAchievementNotFound = errors.New("achievement not found")

	// ErrTemplateNotFound marks a lookup for an absent template.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrDatabaseUnavailable is the only class that aborts the whole request
	// path; it propagates to the boundary instead of being swallowed.
	ErrDatabaseUnavailable = errors.New("no database connection available")
)

package domain

import "errors"

// Pipeline error taxonomy. Handlers and callers classify with errors.Is.
var (
	// ErrValidation marks malformed or missing event fields. Not retryable.
	ErrValidation = errors.New("invalid purchase event")
	// ErrCourseNotFound marks a course that does not exist or is unpublished. Not retryable.
	ErrCourseNotFound = errors.New("course not found")
	// ErrStorage marks an unreachable store or an unresolvable constraint
	// violation. Retryable: redelivery is safe.
	ErrStorage = errors.New("storage failure")
)

// Store-level sentinels returned by repository implementations.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateKey        = errors.New("duplicate key")
)

// IsRetryable reports whether the event that produced err may be redelivered.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorage)
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Enrollment is an account's registration in a course.
// Progress is owned elsewhere; the pipeline only initializes it.
type Enrollment struct {
	ID             string     `json:"id"`
	AccountID      string     `json:"account_id"`
	CourseID       string     `json:"course_id"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
	Progress       float64    `json:"progress"`
	LastAccessAt   *time.Time `json:"last_access_at,omitempty"`
	TransactionKey string     `json:"transaction_key,omitempty"`
}

// NewEnrollment builds an enrollment at zero progress.
func NewEnrollment(accountID, courseID, transactionKey string, now time.Time) (*Enrollment, error) {
	accountID = strings.TrimSpace(accountID)
	courseID = strings.TrimSpace(courseID)
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrValidation)
	}
	if courseID == "" {
		return nil, fmt.Errorf("%w: course id is required", ErrValidation)
	}
	return &Enrollment{
		AccountID:      accountID,
		CourseID:       courseID,
		EnrolledAt:     now.UTC(),
		TransactionKey: transactionKey,
	}, nil
}

package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PurchaseEvent is the normalized inbound purchase notification.
// PurchaseDate is informational only and plays no part in deduplication.
type PurchaseEvent struct {
	Email         string `validate:"required,email"`
	FullName      string `validate:"required"`
	Phone         string
	CourseID      string `validate:"required"`
	TransactionID string
	PurchaseDate  string
}

// Normalize trims every field and lower-cases the email.
func (e PurchaseEvent) Normalize() PurchaseEvent {
	return PurchaseEvent{
		Email:         NormalizeEmail(e.Email),
		FullName:      strings.TrimSpace(e.FullName),
		Phone:         strings.TrimSpace(e.Phone),
		CourseID:      strings.TrimSpace(e.CourseID),
		TransactionID: strings.TrimSpace(e.TransactionID),
		PurchaseDate:  strings.TrimSpace(e.PurchaseDate),
	}
}

// Validate checks required fields and the email shape. Returned errors wrap
// ErrValidation.
func (e PurchaseEvent) Validate() error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "email":
			return fmt.Errorf("%w: email is malformed", ErrValidation)
		default:
			return fmt.Errorf("%w: %s is required", ErrValidation, fieldName(fe.Field()))
		}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// DedupKey returns the ledger key for this event.
func (e PurchaseEvent) DedupKey() DedupKey {
	return DeriveDedupKey(e.TransactionID, e.Email, e.CourseID)
}

func fieldName(f string) string {
	switch f {
	case "Email":
		return "email"
	case "FullName":
		return "full_name"
	case "CourseID":
		return "course_id"
	}
	return strings.ToLower(f)
}

// IsEmail reports whether s has a local@domain shape.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

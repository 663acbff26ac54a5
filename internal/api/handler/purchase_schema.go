package handler

import (
	"strings"
	"time"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// purchaseEventRequest is the purchase notification sent by the checkout
// provider.
type purchaseEventRequest struct {
	Email         string `json:"email"          validate:"required,email"`
	FullName      string `json:"full_name"      validate:"required"`
	Phone         string `json:"phone"`
	CourseID      string `json:"course_id"      validate:"required"`
	TransactionID string `json:"transaction_id"`
	PurchaseDate  string `json:"purchase_date"`
}

// trimmed strips surrounding whitespace so that padded but otherwise valid
// values pass validation.
func (r purchaseEventRequest) trimmed() purchaseEventRequest {
	return purchaseEventRequest{
		Email:         strings.TrimSpace(r.Email),
		FullName:      strings.TrimSpace(r.FullName),
		Phone:         strings.TrimSpace(r.Phone),
		CourseID:      strings.TrimSpace(r.CourseID),
		TransactionID: strings.TrimSpace(r.TransactionID),
		PurchaseDate:  strings.TrimSpace(r.PurchaseDate),
	}
}

type accountView struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name"`
	Role                string    `json:"role"`
	MustResetCredential bool      `json:"must_reset_credential"`
	CreatedAt           time.Time `json:"created_at"`
}

type enrollmentView struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Progress   float64   `json:"progress"`
}

// purchaseResponse reports how a purchase was applied.
type purchaseResponse struct {
	Outcome          string         `json:"outcome"`
	DedupKey         string         `json:"dedup_key"`
	IsNewUser        bool           `json:"is_new_user"`
	IsNewEnrollment  bool           `json:"is_new_enrollment"`
	AlreadyProcessed bool           `json:"already_processed"`
	Account          accountView    `json:"account"`
	Enrollment       enrollmentView `json:"enrollment"`
}

func toPurchaseInput(r purchaseEventRequest) ports.PurchaseEventInput {
	return ports.PurchaseEventInput{
		Email:         r.Email,
		FullName:      r.FullName,
		Phone:         r.Phone,
		CourseID:      r.CourseID,
		TransactionID: r.TransactionID,
		PurchaseDate:  r.PurchaseDate,
	}
}

func toPurchaseResponse(o *ports.PurchaseOutcome) purchaseResponse {
	return purchaseResponse{
		Outcome:          string(o.Kind()),
		DedupKey:         o.DedupKey.String(),
		IsNewUser:        o.IsNewUser,
		IsNewEnrollment:  o.IsNewEnrollment,
		AlreadyProcessed: o.AlreadyProcessed,
		Account:          toAccountView(o.Account),
		Enrollment:       toEnrollmentView(o.Enrollment),
	}
}

func toAccountView(a *domain.Account) accountView {
	return accountView{
		ID:                  a.ID,
		Email:               a.Email,
		DisplayName:         a.DisplayName,
		Role:                string(a.Role),
		MustResetCredential: a.MustResetCredential,
		CreatedAt:           a.CreatedAt,
	}
}

func toEnrollmentView(e *domain.Enrollment) enrollmentView {
	return enrollmentView{
		ID:         e.ID,
		CourseID:   e.CourseID,
		EnrolledAt: e.EnrolledAt,
		Progress:   e.Progress,
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the platform role of an account.
type Role string

const (
	RoleLearner       Role = "learner"
	RoleInstructor    Role = "instructor"
	RoleAdministrator Role = "administrator"
)

// Account models a platform user. Email is the natural key.
type Account struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name"`
	Phone               string    `json:"phone,omitempty"`
	Role                Role      `json:"role"`
	CredentialHash      string    `json:"-"`
	MustResetCredential bool      `json:"must_reset_credential"`
	OriginKey           string    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NormalizeEmail returns the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewAccountParams carries the fields needed to provision an account.
type NewAccountParams struct {
	Email          string
	DisplayName    string
	Phone          string
	CredentialHash string
	OriginKey      string
	Now            time.Time
}

// NewAccount builds a learner account with a normalized email. The caller
// supplies an already hashed credential.
func NewAccount(p NewAccountParams) (*Account, error) {
	email := NormalizeEmail(p.Email)
	if !IsEmail(email) {
		return nil, fmt.Errorf("%w: email %q is malformed", ErrValidation, p.Email)
	}
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrValidation)
	}
	if p.CredentialHash == "" {
		return nil, fmt.Errorf("%w: credential is required", ErrValidation)
	}

	now := p.Now.UTC()
	return &Account{
		Email:               email,
		DisplayName:         name,
		Phone:               strings.TrimSpace(p.Phone),
		Role:                RoleLearner,
		CredentialHash:      p.CredentialHash,
		MustResetCredential: true,
		OriginKey:           p.OriginKey,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

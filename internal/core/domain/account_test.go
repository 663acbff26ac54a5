package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"a@x.com":             "a@x.com",
		"  Alice@Example.COM ": "alice@example.com",
		"\tBOB@x.io\n":        "bob@x.io",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewAccount_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	acc, err := NewAccount(NewAccountParams{
		Email:          " Ana@Example.com",
		DisplayName:    " Ana Torres ",
		Phone:          "+52 55 0000",
		CredentialHash: "hash",
		OriginKey:      "T1",
		Now:            now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Email != "ana@example.com" {
		t.Errorf("email not normalized: %q", acc.Email)
	}
	if acc.DisplayName != "Ana Torres" {
		t.Errorf("display name not trimmed: %q", acc.DisplayName)
	}
	if acc.Role != RoleLearner {
		t.Errorf("expected role %q, got %q", RoleLearner, acc.Role)
	}
	if !acc.MustResetCredential {
		t.Error("new accounts must require a credential reset")
	}
	if !acc.CreatedAt.Equal(now) || !acc.UpdatedAt.Equal(now) {
		t.Errorf("timestamps not set from Now: %v %v", acc.CreatedAt, acc.UpdatedAt)
	}
	if acc.OriginKey != "T1" {
		t.Errorf("origin key: got %q", acc.OriginKey)
	}
}

func TestNewAccount_Validation(t *testing.T) {
	cases := []struct {
		name string
		p    NewAccountParams
	}{
		{"malformed email", NewAccountParams{Email: "not-an-email", DisplayName: "A", CredentialHash: "h"}},
		{"missing name", NewAccountParams{Email: "a@x.com", DisplayName: "  ", CredentialHash: "h"}},
		{"missing credential", NewAccountParams{Email: "a@x.com", DisplayName: "A"}},
	}
	for _, tc := range cases {
		if _, err := NewAccount(tc.p); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestNewEnrollment(t *testing.T) {
	now := time.Now()
	e, err := NewEnrollment("acc-1", " C1 ", "T1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.CourseID != "C1" || e.Progress != 0 || e.LastAccessAt != nil {
		t.Errorf("unexpected enrollment: %+v", e)
	}
	if _, err := NewEnrollment("", "C1", "", now); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty account, got %v", err)
	}
	if _, err := NewEnrollment("acc-1", "", "", now); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty course, got %v", err)
	}
}

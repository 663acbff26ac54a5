package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestIssueThenInspect(t *testing.T) {
	token, err := execute(t, issueCmd(), "--subject", "shop-prod", "--secret", "s3cret", "--ttl", "1h")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", token)
	}

	out, err := execute(t, inspectCmd(), token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, "subject: shop-prod") || !strings.Contains(out, "role:    integration") {
		t.Errorf("unexpected inspect output:\n%s", out)
	}
}

func TestIssue_RejectsUnknownRole(t *testing.T) {
	if _, err := execute(t, issueCmd(), "--subject", "x", "--secret", "s", "--role", "learner"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestIssue_RequiresSubject(t *testing.T) {
	if _, err := execute(t, issueCmd(), "--secret", "s"); err == nil {
		t.Fatal("expected error without --subject")
	}
}

func TestIssue_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := execute(t, issueCmd(), "--subject", "x"); err == nil {
		t.Fatal("expected error without a secret")
	}
}
